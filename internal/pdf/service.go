package pdf

import (
	"bytes"
	"context"

	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/layout"
	"github.com/factupro/factupro/internal/logger"
	"github.com/jung-kurt/gofpdf"
	"github.com/samber/lo"
)

const letterheadImage = "letterhead"

// Document is a planned document ready to draw
type Document struct {
	Title  string
	Author string
	Blocks []layout.Block
}

// Generator defines the interface for PDF generation operations
type Generator interface {
	RenderDocument(ctx context.Context, doc *Document) ([]byte, error)
}

type service struct {
	letterheads *LetterheadLoader
	logger      *logger.Logger
}

// NewGenerator creates a gofpdf backed generator
func NewGenerator(letterheads *LetterheadLoader, logger *logger.Logger) Generator {
	return &service{
		letterheads: letterheads,
		logger:      logger,
	}
}

// RenderDocument draws the blocks page by page. A letterhead that cannot be
// loaded is skipped, the rest of the document is still rendered.
func (s *service) RenderDocument(ctx context.Context, doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(layout.MarginLeft, layout.MarginTop, layout.PageWidth-layout.ContentEdge)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator("factupro", true)

	d := &drawer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	d.letterhead = s.registerLetterhead(ctx, pdf, doc.Blocks)

	pages := lo.Max([]int{layout.PageCount(doc.Blocks), 1})
	for page := 1; page <= pages; page++ {
		pdf.AddPage()
		for _, b := range doc.Blocks {
			if b.Page == page {
				d.block(b)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to render pdf").
			WithReportableDetails(map[string]any{"title": doc.Title}).
			Mark(ierr.ErrSystem)
	}
	return buf.Bytes(), nil
}

// registerLetterhead loads the background image once for all pages and
// returns its name, empty when there is none
func (s *service) registerLetterhead(ctx context.Context, pdf *gofpdf.Fpdf, blocks []layout.Block) string {
	background, ok := layout.Find(blocks, layout.KindBackground)
	if !ok || background.Image == nil || s.letterheads == nil {
		return ""
	}

	data, err := s.letterheads.Load(ctx, background.Image.Source)
	if err != nil {
		s.logger.Warnw("skipping letterhead", "error", err)
		return ""
	}

	pdf.RegisterImageOptionsReader(letterheadImage, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
	if pdf.Err() {
		s.logger.Warnw("skipping letterhead", "error", pdf.Error())
		pdf.ClearError()
		return ""
	}
	return letterheadImage
}

type drawer struct {
	pdf        *gofpdf.Fpdf
	tr         func(string) string
	letterhead string
}

func (d *drawer) block(b layout.Block) {
	if b.Image != nil && d.letterhead != "" {
		d.pdf.ImageOptions(d.letterhead, b.Image.X, b.Image.Y, b.Image.Width, b.Image.Height,
			false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	for _, r := range b.Rects {
		d.pdf.SetFillColor(r.Fill.R, r.Fill.G, r.Fill.B)
		d.pdf.Rect(r.X, r.Y, r.Width, r.Height, "F")
	}
	for _, r := range b.Rules {
		d.pdf.SetDrawColor(r.Color.R, r.Color.G, r.Color.B)
		d.pdf.SetLineWidth(r.LineWidth)
		d.pdf.Line(r.X1, r.Y1, r.X2, r.Y2)
	}
	if b.Table != nil {
		d.table(b.Table)
	}
	for _, line := range b.Lines {
		d.text(line)
	}
}

func (d *drawer) text(line layout.TextLine) {
	d.pdf.SetFont(fontFamily, string(line.Style), line.Size)
	d.pdf.SetTextColor(line.Color.R, line.Color.G, line.Color.B)
	d.pdf.SetXY(line.X, line.Y)
	d.pdf.CellFormat(line.Width, line.Height, d.tr(line.Text), "", 0, string(line.Align), false, 0, "")
}

func (d *drawer) table(t *layout.Table) {
	width := lo.SumBy(t.Columns, func(c layout.Column) float64 { return c.Width })

	d.pdf.SetFillColor(t.HeaderFill.R, t.HeaderFill.G, t.HeaderFill.B)
	d.pdf.Rect(t.X, t.HeaderY, width, t.HeaderHeight, "F")

	d.pdf.SetFont(fontFamily, "B", t.FontSize)
	d.pdf.SetTextColor(0, 0, 0)
	x := t.X
	for _, c := range t.Columns {
		d.pdf.SetXY(x+t.Padding, t.HeaderY)
		d.pdf.CellFormat(c.Width-2*t.Padding, t.HeaderHeight, d.tr(c.Title), "", 0, string(c.Align), false, 0, "")
		x += c.Width
	}

	d.pdf.SetFont(fontFamily, "", t.FontSize)
	d.pdf.SetDrawColor(t.GridColor.R, t.GridColor.G, t.GridColor.B)
	d.pdf.SetLineWidth(0.1)
	for _, row := range t.Rows {
		x := t.X
		for i, c := range t.Columns {
			if i >= len(row.Cells) {
				break
			}
			for j, text := range row.Cells[i] {
				d.pdf.SetXY(x+t.Padding, row.Y+t.Padding+float64(j)*t.LineHeight)
				d.pdf.CellFormat(c.Width-2*t.Padding, t.LineHeight, d.tr(text), "", 0, string(c.Align), false, 0, "")
			}
			x += c.Width
		}
		bottom := row.Y + row.Height
		d.pdf.Line(t.X, bottom, t.X+width, bottom)
	}
}
