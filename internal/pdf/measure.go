package pdf

import (
	"sync"

	"github.com/factupro/factupro/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

const fontFamily = "Helvetica"

// FontMeasurer wraps text with the metrics of the core font used by the
// generator, so planned lines never overflow once drawn
type FontMeasurer struct {
	mu sync.Mutex
	// pdf is only used for its font tables and never output
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

var _ layout.Measurer = (*FontMeasurer)(nil)

func NewFontMeasurer() *FontMeasurer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	return &FontMeasurer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (m *FontMeasurer) Wrap(text string, size float64, style layout.FontStyle, width float64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.SetFont(fontFamily, string(style), size)
	return layout.WrapWith(text, width, func(s string) float64 {
		return m.pdf.GetStringWidth(m.tr(s))
	})
}
