package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/factupro/factupro/internal/config"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectAPI struct {
	mock.Mock
	bodies [][]byte
}

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(params.Body)
	m.bodies = append(m.bodies, body)
	args := m.Called(*params.Bucket, *params.Key, *params.ContentType)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockObjectAPI) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(*params.Key)
	return &s3.HeadObjectOutput{}, args.Error(0)
}

type mockPresigner struct {
	mock.Mock
}

func (m *mockPresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	args := m.Called(*params.Key)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return &v4.PresignedHTTPRequest{URL: args.String(0)}, nil
}

func newTestService(client objectAPI, presigner presignAPI, prefix string) *s3ServiceImpl {
	svc := newService(client, presigner, &config.S3Config{Enabled: true, Bucket: "docs", KeyPrefix: prefix}, logger.NewNopLogger())
	svc.backoff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
	}
	return svc
}

func TestNewServiceDisabled(t *testing.T) {
	svc, err := NewService(config.GetDefaultConfig(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestUploadDocumentRetries(t *testing.T) {
	client := new(mockObjectAPI)
	client.On("PutObject", "docs", "invoices/ACMEF-2024-0001.pdf", "application/pdf").Return(errors.New("slow down")).Once()
	client.On("PutObject", "docs", "invoices/ACMEF-2024-0001.pdf", "application/pdf").Return(nil).Once()

	svc := newTestService(client, nil, "invoices")
	key, err := svc.UploadDocument(context.Background(), NewPdfDocument("ACMEF-2024-0001.pdf", []byte("%PDF-1.3")))

	require.NoError(t, err)
	assert.Equal(t, "invoices/ACMEF-2024-0001.pdf", key)
	client.AssertNumberOfCalls(t, "PutObject", 2)
	// the body is readable again on retry
	assert.Equal(t, [][]byte{[]byte("%PDF-1.3"), []byte("%PDF-1.3")}, client.bodies)
}

func TestUploadDocumentGivesUp(t *testing.T) {
	client := new(mockObjectAPI)
	client.On("PutObject", "docs", "a.pdf", "application/pdf").Return(errors.New("down"))

	svc := newTestService(client, nil, "")
	_, err := svc.UploadDocument(context.Background(), NewPdfDocument("a.pdf", []byte("x")))

	require.Error(t, err)
	assert.True(t, ierr.IsHTTPClient(err))
	client.AssertNumberOfCalls(t, "PutObject", 3)
}

func TestExists(t *testing.T) {
	client := new(mockObjectAPI)
	client.On("HeadObject", "there.pdf").Return(nil)
	client.On("HeadObject", "missing.pdf").Return(&types.NotFound{})
	client.On("HeadObject", "broken.pdf").Return(errors.New("boom"))

	svc := newTestService(client, nil, "")

	ok, err := svc.Exists(context.Background(), "there.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(context.Background(), "missing.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Exists(context.Background(), "broken.pdf")
	assert.True(t, ierr.IsHTTPClient(err))
}

func TestGetPresignedUrl(t *testing.T) {
	presigner := new(mockPresigner)
	presigner.On("PresignGetObject", "a.pdf").Return("https://docs.s3/a.pdf?sig", nil)

	svc := newTestService(new(mockObjectAPI), presigner, "")
	url, err := svc.GetPresignedUrl(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.s3/a.pdf?sig", url)
}
