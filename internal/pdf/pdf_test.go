package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/factupro/factupro/internal/config"
	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/domain/invoice"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/httpclient"
	"github.com/factupro/factupro/internal/layout"
	"github.com/factupro/factupro/internal/logger"
	"github.com/factupro/factupro/internal/types"
	"github.com/h2non/filetype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 41, G: 128, B: 185, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pageCount(out []byte) int {
	return bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
}

func dataURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestLetterheadFromDataURL(t *testing.T) {
	loader := NewLetterheadLoader(nil)

	out, err := loader.Load(context.Background(), dataURL(pngBytes(t, 4, 6)))
	require.NoError(t, err)
	assert.True(t, filetype.IsMIME(out, "image/png"))

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestLetterheadIsFittedToThePage(t *testing.T) {
	out, err := prepareImage(pngBytes(t, 2480, 100))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, letterheadMaxWidth, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestLetterheadErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(error) bool
	}{
		{name: "not base64", source: "data:image/png,raw", check: ierr.IsValidation},
		{name: "broken base64", source: "data:image/png;base64,@@@", check: ierr.IsValidation},
		{name: "not an image", source: "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")), check: ierr.IsValidation},
		{name: "truncated png", source: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00")), check: ierr.IsValidation},
		{name: "unknown scheme", source: "ftp://example.com/a.png", check: ierr.IsValidation},
		{name: "remote without client", source: "https://example.com/a.png", check: ierr.IsInvalidOperation},
	}

	loader := NewLetterheadLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(context.Background(), tt.source)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestLetterheadFromURLIsCached(t *testing.T) {
	var calls atomic.Int32
	body := pngBytes(t, 3, 3)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/letterhead.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	loader := NewLetterheadLoader(httpclient.NewDefaultClient(httpclient.ClientConfig{Timeout: time.Second}, nil))

	first, err := loader.Load(context.Background(), server.URL+"/letterhead.png")
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), server.URL+"/letterhead.png")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	_, err = loader.Load(context.Background(), server.URL+"/missing.png")
	require.Error(t, err)
	assert.True(t, ierr.IsHTTPClient(err))
}

func TestConfiguredLetterheadLoader(t *testing.T) {
	var calls atomic.Int32
	body := pngBytes(t, 3, 3)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	httpClient := httpclient.NewDefaultClient(httpclient.ClientConfig{Timeout: time.Second}, nil)
	source := dataURL(pngBytes(t, 2, 2))

	t.Run("remote sources disabled by default", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		require.False(t, cfg.Document.RemoteLetterheads)

		loader := NewConfiguredLetterheadLoader(cfg, httpClient)
		_, err := loader.Load(context.Background(), server.URL+"/letterhead.png")
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
		assert.Equal(t, int32(0), calls.Load())

		_, err = loader.Load(context.Background(), source)
		assert.NoError(t, err)
	})

	t.Run("disabled remote letterhead is skipped by the generator", func(t *testing.T) {
		gen := NewGenerator(NewConfiguredLetterheadLoader(config.GetDefaultConfig(), httpClient), logger.NewNopLogger())
		out, err := gen.RenderDocument(context.Background(), &Document{Blocks: planned(server.URL+"/letterhead.png", 1)})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		assert.NotContains(t, string(out), "/Subtype /Image")
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("remote sources enabled", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Document.RemoteLetterheads = true

		loader := NewConfiguredLetterheadLoader(cfg, httpClient)
		_, err := loader.Load(context.Background(), server.URL+"/letterhead.png")
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestFontMeasurerWrap(t *testing.T) {
	m := NewFontMeasurer()

	assert.Nil(t, m.Wrap("", 10, layout.StyleNormal, 50))
	assert.Equal(t, []string{"Sfax"}, m.Wrap("Sfax", 10, layout.StyleNormal, 50))

	text := strings.Repeat("Rue de la République ", 10)
	lines := m.Wrap(text, 10, layout.StyleNormal, 76)
	require.Greater(t, len(lines), 1)

	tr := m.pdf.UnicodeTranslatorFromDescriptor("")
	m.pdf.SetFont(fontFamily, "", 10)
	for _, line := range lines {
		assert.LessOrEqual(t, m.pdf.GetStringWidth(tr(line)), 76.0)
	}

	bold := m.Wrap(text, 10, layout.StyleBold, 76)
	assert.GreaterOrEqual(t, len(bold), len(lines))
}

func planned(letterhead string, items int) []layout.Block {
	var lineItems []invoice.LineItem
	for i := 0; i < items; i++ {
		lineItems = append(lineItems, invoice.LineItem{
			Description: "Prestation de conseil en référencement",
			Unit:        "H",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.RequireFromString("100.000"),
		})
	}
	tax := invoice.TaxConfig{Applicable: true, RatePercent: decimal.NewFromInt(19)}
	return layout.NewPlanner(NewFontMeasurer()).Plan(layout.Input{
		DocumentType:  types.DocumentTypeInvoice,
		Number:        "2024-0001",
		Date:          "2024-05-02",
		Company:       company.Company{Name: "Acme", MF: "123", Address: "Tunis", LetterheadURL: letterhead},
		Client:        client.Client{Name: "Société Générale d'Études", MF: "456", Address: "Sfax"},
		Items:         lineItems,
		Totals:        invoice.ComputeTotals(lineItems, tax),
		Tax:           tax,
		Currency:      types.CurrencyEUR,
		AmountInWords: "Deux Cent Trente-Huit Euros",
		Notes:         "Merci pour votre confiance",
	})
}

func TestRenderDocument(t *testing.T) {
	gen := NewGenerator(NewLetterheadLoader(nil), logger.NewNopLogger())

	out, err := gen.RenderDocument(context.Background(), &Document{Title: "ACMEF-2024-0001.pdf", Blocks: planned("", 1)})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, filetype.IsMIME(out, "application/pdf"))
	assert.Equal(t, 1, pageCount(out))
}

func TestRenderDocumentWithLetterhead(t *testing.T) {
	gen := NewGenerator(NewLetterheadLoader(nil), logger.NewNopLogger())

	out, err := gen.RenderDocument(context.Background(), &Document{Blocks: planned(dataURL(pngBytes(t, 20, 28)), 60)})
	require.NoError(t, err)
	assert.Contains(t, string(out), "/Subtype /Image")
	assert.Greater(t, pageCount(out), 1)
}

func TestRenderDocumentSkipsBrokenLetterhead(t *testing.T) {
	gen := NewGenerator(NewLetterheadLoader(nil), logger.NewNopLogger())

	out, err := gen.RenderDocument(context.Background(), &Document{Blocks: planned("data:image/png;base64,AAAA", 1)})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.NotContains(t, string(out), "/Subtype /Image")
}

func TestRenderEmptyDocument(t *testing.T) {
	gen := NewGenerator(nil, logger.NewNopLogger())

	out, err := gen.RenderDocument(context.Background(), &Document{})
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(out))
}
