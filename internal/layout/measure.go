package layout

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// ptToMM converts a font size in points to millimetres
	ptToMM = 0.3528
	// lineSpacing is the line height relative to the font size
	lineSpacing = 1.5
)

// LineHeight is the height of one line of text at the given font size, in mm
func LineHeight(size float64) float64 {
	return math.Round(size*ptToMM*lineSpacing*100) / 100
}

// Measurer wraps text to a column width
type Measurer interface {
	// Wrap splits text into lines that fit in width millimetres. Newlines in
	// text always break. Empty text yields no lines.
	Wrap(text string, size float64, style FontStyle, width float64) []string
}

// ApproxMeasurer assumes every glyph has the average Helvetica width. It is
// deterministic and needs no font files, renderers with real metrics replace it.
type ApproxMeasurer struct{}

func (ApproxMeasurer) charWidth(size float64, style FontStyle) float64 {
	em := size * ptToMM
	if style == StyleBold || style == StyleBoldItalic {
		return em * 0.55
	}
	return em * 0.5
}

func (m ApproxMeasurer) Wrap(text string, size float64, style FontStyle, width float64) []string {
	cw := m.charWidth(size, style)
	return WrapWith(text, width, func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * cw
	})
}

// WrapWith greedily wraps text on spaces using the given width function.
// Words wider than width are cut.
func WrapWith(text string, width float64, measure func(string) float64) []string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n ")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			current = word
			for measure(current) > width {
				head, tail := cut(current, width, measure)
				lines = append(lines, head)
				current = tail
			}
		}
		lines = append(lines, current)
	}
	return lines
}

// cut splits s at the last rune that still fits, keeping at least one rune
func cut(s string, width float64, measure func(string) float64) (string, string) {
	runes := []rune(s)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
