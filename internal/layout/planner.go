package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/domain/invoice"
	"github.com/factupro/factupro/internal/numeric"
	"github.com/factupro/factupro/internal/types"
	"github.com/samber/lo"
)

// Page geometry, A4 portrait in millimetres
const (
	PageWidth   = 210.0
	PageHeight  = 297.0
	MarginLeft  = 14.0
	ContentEdge = 196.0
	MarginTop   = 14.0
	// BottomLimit is the lowest y any flowing block may reach
	BottomLimit = PageHeight - 15

	ContentWidth = ContentEdge - MarginLeft

	companyX     = MarginLeft
	companyWidth = 90.0
	titleX       = 120.0
	titleWidth   = ContentEdge - titleX

	counterpartyX     = 120.0
	counterpartyWidth = ContentEdge - counterpartyX

	// the separator rule sits at least at separatorMinY and sectionGap below both headers
	separatorMinY = 50.0
	sectionGap    = 8.0

	// TableMinTop is the highest position of the items table
	TableMinTop = 90.0
	// TableMargin separates the headers from the items table
	TableMargin = 10.0

	tableFontSize     = 10.0
	tableHeaderHeight = 8.0
	tablePadding      = 1.5

	// totals and amount in words are anchored on the table bottom
	totalsOffset          = 13.0
	totalsRowHeight       = 6.0
	totalsBoxHeight       = 10.0
	wordsOffsetWithTax    = 30.0
	wordsOffsetWithoutTax = 20.0
	notesGap              = 8.0
	totalsLabelX          = 100.0
	totalsLabelWidth      = 60.0
	totalsValueX          = 160.0
	totalsValueWidth      = ContentEdge - totalsValueX
	totalsBoxX            = 130.0
	totalsRuleX           = 140.0
)

// Input is everything the planner needs, already normalized
type Input struct {
	DocumentType  types.DocumentType
	Number        string
	Date          string
	DueDate       string
	Company       company.Company
	Client        client.Client
	Items         []invoice.LineItem
	Totals        invoice.Totals
	Tax           invoice.TaxConfig
	Currency      types.Currency
	AmountInWords string
	Notes         string
}

// Planner lays out a document. It is stateless and safe for concurrent use.
type Planner struct {
	measurer Measurer
}

// NewPlanner returns a planner wrapping text with m, ApproxMeasurer when m is nil
func NewPlanner(m Measurer) *Planner {
	if m == nil {
		m = ApproxMeasurer{}
	}
	return &Planner{measurer: m}
}

// flow tracks the current page and vertical position
type flow struct {
	page int
	y    float64
}

// reserve moves to a new page when height does not fit below the current position
func (f *flow) reserve(height float64) {
	if f.y+height > BottomLimit && f.y > MarginTop {
		f.page++
		f.y = MarginTop
	}
}

// writer appends wrapped lines to a column starting at top
type writer struct {
	m     Measurer
	x     float64
	width float64
	top   float64
	y     float64
	lines []TextLine
}

func newWriter(m Measurer, x, width, top float64) *writer {
	return &writer{m: m, x: x, width: width, top: top, y: top}
}

func (w *writer) write(text string, size float64, style FontStyle, align Align, color Color) {
	lh := LineHeight(size)
	for _, line := range w.m.Wrap(text, size, style, w.width) {
		w.lines = append(w.lines, TextLine{
			Text:   line,
			X:      w.x,
			Y:      w.y,
			Width:  w.width,
			Height: lh,
			Size:   size,
			Style:  style,
			Align:  align,
			Color:  color,
		})
		w.y += lh
	}
}

func (w *writer) block(kind Kind, page int) Block {
	return Block{
		Kind:           kind,
		Page:           page,
		AnchoredAt:     Point{X: w.x, Y: w.top},
		Width:          w.width,
		OccupiedHeight: w.y - w.top,
		Lines:          w.lines,
	}
}

// Plan positions every block of the document. The background comes first on
// each page, then blocks in reading order.
func (p *Planner) Plan(in Input) []Block {
	var blocks []Block

	showCompany := !(in.Company.HasLetterhead() && in.Company.HideCompanyInfoOnPDF)
	headerBottom := 0.0
	if showCompany {
		companyBlock := p.companyHeader(in.Company)
		blocks = append(blocks, companyBlock)
		headerBottom = companyBlock.Bottom()
	}

	title := p.title(in)
	blocks = append(blocks, title)
	headerBottom = math.Max(headerBottom, title.Bottom())

	separatorY := math.Max(separatorMinY, headerBottom+sectionGap/2)
	counterparty := p.counterpartyHeader(in, separatorY)
	blocks = append(blocks, counterparty)

	tableTop := math.Max(TableMinTop, counterparty.Bottom()+TableMargin)
	f := &flow{page: 1, y: tableTop}
	tables := p.itemsTable(in, f)
	blocks = append(blocks, tables...)

	totals := p.totalsPanel(in, f)
	blocks = append(blocks, totals)

	words := p.amountInWords(in, f, totals)
	blocks = append(blocks, words)

	if strings.TrimSpace(in.Notes) != "" {
		blocks = append(blocks, p.notes(in, f)...)
	}

	return withBackground(in.Company, blocks)
}

// withBackground orders blocks by page and puts the letterhead under each page
func withBackground(c company.Company, blocks []Block) []Block {
	pages := PageCount(blocks)
	ordered := make([]Block, 0, len(blocks)+pages)
	for page := 1; page <= pages; page++ {
		if c.HasLetterhead() {
			ordered = append(ordered, Block{
				Kind:           KindBackground,
				Page:           page,
				AnchoredAt:     Point{X: 0, Y: 0},
				Width:          PageWidth,
				OccupiedHeight: PageHeight,
				Image: &Image{
					Source: c.LetterheadURL,
					Width:  PageWidth,
					Height: PageHeight,
				},
			})
		}
		ordered = append(ordered, lo.Filter(blocks, func(b Block, _ int) bool {
			return b.Page == page
		})...)
	}
	return ordered
}

func (p *Planner) companyHeader(c company.Company) Block {
	w := newWriter(p.measurer, companyX, companyWidth, MarginTop)
	w.write(strings.ToUpper(c.Name), 16, StyleBold, AlignLeft, colorBrand)
	w.write(c.Address, 10, StyleNormal, AlignLeft, colorDarkGray)
	w.write("MF: "+c.MF, 10, StyleNormal, AlignLeft, colorDarkGray)
	if c.Phone != "" {
		w.write("Tél: "+c.Phone, 10, StyleNormal, AlignLeft, colorDarkGray)
	}
	if c.Email != "" {
		w.write(c.Email, 10, StyleNormal, AlignLeft, colorDarkGray)
	}
	return w.block(KindCompanyHeader, 1)
}

func (p *Planner) title(in Input) Block {
	isQuote := in.DocumentType.IsQuote()

	w := newWriter(p.measurer, titleX, titleWidth, MarginTop)
	w.write(lo.Ternary(isQuote, "DEVIS", "FACTURE"), 22, StyleBold, AlignRight,
		lo.Ternary(isQuote, colorQuote, colorInvoice))
	w.write("N° "+in.Number, 11, StyleBold, AlignRight, colorBlack)
	w.write("Date : "+in.Date, 10, StyleNormal, AlignRight, colorBlack)
	if in.DueDate != "" {
		label := lo.Ternary(isQuote, "Validité jusqu'au :", "Échéance :")
		w.write(label+" "+in.DueDate, 10, StyleNormal, AlignRight, colorBlack)
	}
	return w.block(KindTitle, 1)
}

func (p *Planner) counterpartyHeader(in Input, separatorY float64) Block {
	top := separatorY + sectionGap
	w := newWriter(p.measurer, counterpartyX, counterpartyWidth, top)
	w.write(lo.Ternary(in.DocumentType.IsQuote(), "Devis pour :", "Facturé à :"), 10, StyleNormal, AlignLeft, colorLabelGray)
	w.write(in.Client.Name, 12, StyleBold, AlignLeft, colorBlack)
	w.write(in.Client.Address, 10, StyleNormal, AlignLeft, colorMidGray)
	w.write("MF: "+in.Client.MF, 10, StyleNormal, AlignLeft, colorMidGray)

	b := w.block(KindCounterpartyHeader, 1)
	b.Rules = []Rule{{
		X1: MarginLeft, Y1: separatorY, X2: ContentEdge, Y2: separatorY,
		LineWidth: 0.5, Color: colorBrand,
	}}
	return b
}

func (p *Planner) tableColumns(in Input) []Column {
	ht := lo.Ternary(in.Tax.Applicable, " HT", "")
	fixed := 14.0 + 14.0 + 35.0 + 35.0
	return []Column{
		{Title: "Désignation", Width: ContentWidth - fixed, Align: AlignLeft},
		{Title: "U", Width: 14, Align: AlignCenter},
		{Title: "Qté", Width: 14, Align: AlignCenter},
		{Title: "Prix Unit." + ht, Width: 35, Align: AlignRight},
		{Title: "Total" + ht, Width: 35, Align: AlignRight},
	}
}

// itemsTable emits one items-table block per page the rows span. The header
// row is repeated on every page.
func (p *Planner) itemsTable(in Input, f *flow) []Block {
	columns := p.tableColumns(in)
	lh := LineHeight(tableFontSize)
	descWidth := columns[0].Width - 2*tablePadding

	rowLines := func(item invoice.LineItem) ([]string, float64) {
		desc := p.measurer.Wrap(item.Description, tableFontSize, StyleNormal, descWidth)
		if len(desc) == 0 {
			desc = []string{""}
		}
		return desc, float64(len(desc))*lh + 2*tablePadding
	}

	// the header never sits alone at the bottom of a page
	first := tableHeaderHeight
	if len(in.Items) > 0 {
		_, h := rowLines(in.Items[0])
		first += h
	}
	f.reserve(first)

	newTable := func() *Table {
		return &Table{
			X:            MarginLeft,
			HeaderY:      f.y,
			HeaderHeight: tableHeaderHeight,
			LineHeight:   lh,
			FontSize:     tableFontSize,
			Padding:      tablePadding,
			Columns:      columns,
			HeaderFill:   colorHeadFill,
			GridColor:    colorRule,
		}
	}

	var blocks []Block
	table := newTable()
	top := f.y
	f.y += tableHeaderHeight

	closeTable := func() {
		blocks = append(blocks, Block{
			Kind:           KindItemsTable,
			Page:           f.page,
			AnchoredAt:     Point{X: MarginLeft, Y: top},
			Width:          ContentWidth,
			OccupiedHeight: f.y - top,
			Table:          table,
		})
	}

	for _, item := range in.Items {
		desc, height := rowLines(item)

		if f.y+height > BottomLimit && len(table.Rows) > 0 {
			closeTable()
			f.page++
			f.y = MarginTop
			table = newTable()
			top = f.y
			f.y += tableHeaderHeight
		}

		table.Rows = append(table.Rows, TableRow{
			Y:      f.y,
			Height: height,
			Cells: [][]string{
				desc,
				{item.Unit},
				{item.Quantity.String()},
				{numeric.Format(item.UnitPrice, in.Currency, ".")},
				{numeric.Format(item.Total(), in.Currency, ".")},
			},
		})
		f.y += height
	}
	closeTable()
	return blocks
}

func (p *Planner) totalsPanel(in Input, f *flow) Block {
	rounded := in.Totals.Rounded(in.Currency)

	height := totalsRowHeight/2 + totalsBoxHeight
	if in.Tax.Applicable {
		height += 2 * totalsRowHeight
	}

	f.y += totalsOffset
	f.reserve(height)
	top := f.y

	b := Block{
		Kind:           KindTotalsPanel,
		Page:           f.page,
		AnchoredAt:     Point{X: totalsLabelX, Y: top},
		Width:          ContentEdge - totalsLabelX,
		OccupiedHeight: height,
		Rules: []Rule{{
			X1: totalsRuleX, Y1: top, X2: ContentEdge, Y2: top,
			LineWidth: 0.2, Color: colorRule,
		}},
	}

	row := func(y float64, label, value string, size float64, style FontStyle, color Color) {
		lh := LineHeight(size)
		b.Lines = append(b.Lines,
			TextLine{Text: label, X: totalsLabelX, Y: y, Width: totalsLabelWidth, Height: lh, Size: size, Style: style, Align: AlignRight, Color: color},
			TextLine{Text: value, X: totalsValueX, Y: y, Width: totalsValueWidth, Height: lh, Size: size, Style: style, Align: AlignRight, Color: color},
		)
	}

	y := top + totalsRowHeight/2
	if in.Tax.Applicable {
		row(y, "Total HT :", numeric.FormatWithSymbol(rounded.Subtotal, in.Currency), 10, StyleNormal, colorBlack)
		y += totalsRowHeight
		row(y, fmt.Sprintf("TVA (%s%%) :", in.Tax.RatePercent.String()),
			numeric.FormatWithSymbol(rounded.TaxAmount, in.Currency), 10, StyleNormal, colorBlack)
		y += totalsRowHeight
	}

	b.Rects = append(b.Rects, Rect{X: totalsBoxX, Y: y, Width: ContentEdge - totalsBoxX, Height: totalsBoxHeight, Fill: colorPanel})
	label := lo.Ternary(in.Tax.Applicable, "Total TTC :", "Net à Payer :")
	boxLine := (totalsBoxHeight - LineHeight(12)) / 2
	row(y+boxLine, label, numeric.FormatWithSymbol(rounded.GrandTotal, in.Currency), 12, StyleBold, colorBrand)

	f.y = top + height
	return b
}

func (p *Planner) amountInWords(in Input, f *flow, totals Block) Block {
	offset := lo.Ternary(in.Tax.Applicable, wordsOffsetWithTax, wordsOffsetWithoutTax)
	stop := lo.Ternary(in.DocumentType.IsQuote(),
		"Arrêté le présent devis à la somme de :",
		"Arrêté la présente facture à la somme de :")

	// measure first so the block moves to the next page as a whole
	sizing := newWriter(p.measurer, MarginLeft, ContentWidth, 0)
	sizing.write(stop, 10, StyleBold, AlignLeft, colorMidGray)
	sizing.write(in.AmountInWords, 10, StyleBoldItalic, AlignLeft, colorBlack)

	f.page = totals.Page
	f.y = totals.AnchoredAt.Y + offset
	f.reserve(sizing.y)

	w := newWriter(p.measurer, MarginLeft, ContentWidth, f.y)
	w.write(stop, 10, StyleBold, AlignLeft, colorMidGray)
	w.write(in.AmountInWords, 10, StyleBoldItalic, AlignLeft, colorBlack)

	f.y = w.y
	return w.block(KindAmountInWords, f.page)
}

// notes flows line by line, so long notes continue on the next pages
func (p *Planner) notes(in Input, f *flow) []Block {
	const size = 9.0
	lh := LineHeight(size)

	f.y += notesGap
	f.reserve(2 * lh)

	var blocks []Block
	w := newWriter(p.measurer, MarginLeft, ContentWidth, f.y)
	w.write("Notes:", size, StyleNormal, AlignLeft, colorLabelGray)

	for _, line := range p.measurer.Wrap(in.Notes, size, StyleNormal, ContentWidth) {
		if w.y+lh > BottomLimit {
			blocks = append(blocks, w.block(KindNotes, f.page))
			f.page++
			w = newWriter(p.measurer, MarginLeft, ContentWidth, MarginTop)
		}
		w.lines = append(w.lines, TextLine{
			Text: line, X: w.x, Y: w.y, Width: w.width, Height: lh,
			Size: size, Style: StyleNormal, Align: AlignLeft, Color: colorLabelGray,
		})
		w.y += lh
	}
	f.y = w.y
	return append(blocks, w.block(KindNotes, f.page))
}
