package testutil

import (
	"context"

	"github.com/factupro/factupro/internal/pdf"
	"github.com/stretchr/testify/mock"
)

var _ pdf.Generator = (*MockPDFGenerator)(nil)

// MockPDFGenerator returns canned bytes unless expectations are set with On
type MockPDFGenerator struct {
	mock.Mock
}

// RenderDocument implements pdf.Generator.
func (m *MockPDFGenerator) RenderDocument(ctx context.Context, doc *pdf.Document) ([]byte, error) {
	if len(m.ExpectedCalls) == 0 {
		return []byte("%PDF-1.3 " + doc.Title), nil
	}
	args := m.Called(ctx, doc)
	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func NewMockPDFGenerator() *MockPDFGenerator {
	return &MockPDFGenerator{}
}
