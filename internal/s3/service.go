package s3

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/factupro/factupro/internal/config"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/logger"
)

const (
	defaultPresignExpiryDuration = 30 * time.Minute
	maxUploadRetries             = 3
)

type Service interface {
	// UploadDocument stores the document and returns its object key
	UploadDocument(ctx context.Context, document *Document) (string, error)
	GetPresignedUrl(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// objectAPI is the part of the s3 client the service uses
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type s3ServiceImpl struct {
	client    objectAPI
	presigner presignAPI
	config    *config.S3Config
	logger    *logger.Logger
	backoff   func() backoff.BackOff
}

// NewService returns nil when uploads are disabled
func NewService(config *config.Configuration, logger *logger.Logger) (Service, error) {
	if !config.S3.Enabled {
		return nil, nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(config.S3.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newService(client, s3.NewPresignClient(client), &config.S3, logger), nil
}

func newService(client objectAPI, presigner presignAPI, cfg *config.S3Config, logger *logger.Logger) *s3ServiceImpl {
	return &s3ServiceImpl{
		client:    client,
		presigner: presigner,
		config:    cfg,
		logger:    logger,
		backoff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxUploadRetries)
		},
	}
}

func (s *s3ServiceImpl) getObjectKey(name string) string {
	if s.config.KeyPrefix != "" {
		return path.Join(s.config.KeyPrefix, name)
	}
	return name
}

func (s *s3ServiceImpl) getContentType(docKind DocumentKind) string {
	switch docKind {
	case DocumentKindPdf:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Exists implements S3Service.
func (s *s3ServiceImpl) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		var nsk *types.NoSuchKey
		var nske *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nske) {
			return false, nil
		}
		return false, ierr.WithError(err).
			WithHint("failed to check if document exists").
			Mark(ierr.ErrHTTPClient)
	}

	return true, nil
}

// GetPresignedUrl implements S3Service.
func (s *s3ServiceImpl) GetPresignedUrl(ctx context.Context, key string) (string, error) {
	result, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(defaultPresignExpiryDuration))
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to get presigned url").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	return result.URL, nil
}

// UploadDocument implements S3Service. Failed uploads are retried with an
// exponential backoff.
func (s *s3ServiceImpl) UploadDocument(ctx context.Context, document *Document) (string, error) {
	key := s.getObjectKey(document.Name)

	attempt := 0
	upload := func() error {
		attempt++
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.config.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(document.Data),
			ContentType: aws.String(s.getContentType(document.Kind)),
		})
		if err != nil {
			s.logger.Warnw("document upload failed", "key", key, "attempt", attempt, "error", err)
		}
		return err
	}

	if err := backoff.Retry(upload, backoff.WithContext(s.backoff(), ctx)); err != nil {
		return "", ierr.WithError(err).WithHint("failed to upload document").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	return key, nil
}
