package pdf

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/factupro/factupro/internal/config"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/httpclient"
	"github.com/h2non/filetype"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
)

// A4 at 150 dpi, larger letterheads are scaled down before embedding
const (
	letterheadMaxWidth  = 1240
	letterheadMaxHeight = 1754
)

var supportedImageTypes = []string{"png", "jpg", "gif", "bmp", "tif"}

// LetterheadLoader resolves letterhead sources to PNG data ready to embed.
// Prepared images are cached by source.
type LetterheadLoader struct {
	client httpclient.Client
	cache  *cache.Cache
}

// NewLetterheadLoader returns a loader fetching remote sources with client.
// A nil client only accepts data urls.
func NewLetterheadLoader(client httpclient.Client) *LetterheadLoader {
	return &LetterheadLoader{
		client: client,
		cache:  cache.New(30*time.Minute, time.Hour),
	}
}

// NewConfiguredLetterheadLoader returns the loader used by the server. Remote
// sources are only fetched when document.remote_letterheads is enabled.
func NewConfiguredLetterheadLoader(cfg *config.Configuration, client httpclient.Client) *LetterheadLoader {
	if !cfg.Document.RemoteLetterheads {
		client = nil
	}
	return NewLetterheadLoader(client)
}

// Load returns the letterhead at source as a PNG fitted to an A4 page
func (l *LetterheadLoader) Load(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	key := cacheKey(source)
	if cached, ok := l.cache.Get(key); ok {
		return cached.([]byte), nil
	}

	raw, err := l.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	prepared, err := prepareImage(raw)
	if err != nil {
		return nil, err
	}

	l.cache.SetDefault(key, prepared)
	return prepared, nil
}

func (l *LetterheadLoader) fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		return decodeDataURL(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if l.client == nil {
			return nil, ierr.NewError("remote letterheads are disabled").
				WithHint("Upload the letterhead as an image instead of a link").
				Mark(ierr.ErrInvalidOperation)
		}
		resp, err := l.client.Send(ctx, &httpclient.Request{Method: http.MethodGet, URL: source})
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	default:
		return nil, ierr.NewError("unsupported letterhead source").
			WithHint("The letterhead must be a data url or an http(s) link").
			Mark(ierr.ErrValidation)
	}
}

func decodeDataURL(source string) ([]byte, error) {
	header, payload, ok := strings.Cut(source, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ierr.NewError("letterhead data url is not base64 encoded").
			WithHint("The letterhead image could not be read").
			Mark(ierr.ErrValidation)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The letterhead image could not be read").
			Mark(ierr.ErrValidation)
	}
	return data, nil
}

// prepareImage sniffs the image type, fits it to the page and re-encodes it as PNG
func prepareImage(raw []byte) ([]byte, error) {
	kind, err := filetype.Match(raw)
	if err != nil || !lo.Contains(supportedImageTypes, kind.Extension) {
		return nil, ierr.NewErrorf("unsupported letterhead type %q", kind.MIME.Value).
			WithHint("The letterhead must be a PNG, JPEG, GIF, BMP or TIFF image").
			Mark(ierr.ErrValidation)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The letterhead image could not be decoded").
			Mark(ierr.ErrValidation)
	}

	fitted := imaging.Fit(img, letterheadMaxWidth, letterheadMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The letterhead image could not be encoded").
			Mark(ierr.ErrSystem)
	}
	return buf.Bytes(), nil
}

func cacheKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
