// Package layout decides what goes on the printed document and where.
// It positions blocks in millimetres on A4 pages and leaves drawing to a renderer.
package layout

// Kind identifies a document block
type Kind string

const (
	KindBackground         Kind = "background-image"
	KindCompanyHeader      Kind = "company-header"
	KindCounterpartyHeader Kind = "counterparty-header"
	KindTitle              Kind = "title"
	KindItemsTable         Kind = "items-table"
	KindTotalsPanel        Kind = "totals-panel"
	KindAmountInWords      Kind = "amount-in-words"
	KindNotes              Kind = "notes"
)

// Align is the horizontal alignment of a text line inside its box
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// FontStyle follows the usual "", "B", "I", "BI" convention
type FontStyle string

const (
	StyleNormal     FontStyle = ""
	StyleBold       FontStyle = "B"
	StyleItalic     FontStyle = "I"
	StyleBoldItalic FontStyle = "BI"
)

// Color is an RGB color
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	colorBlack     = Color{0, 0, 0}
	colorBrand     = Color{41, 128, 185}
	colorDarkGray  = Color{80, 80, 80}
	colorMidGray   = Color{60, 60, 60}
	colorLabelGray = Color{100, 100, 100}
	colorRule      = Color{200, 200, 200}
	colorInvoice   = Color{200, 200, 200}
	colorQuote     = Color{100, 116, 139}
	colorPanel     = Color{245, 247, 250}
	colorHeadFill  = Color{245, 245, 245}
)

// Point is a position in millimetres from the top left corner of the page
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextLine is one already wrapped line of text, drawn in the box
// (X, Y, Width, Height) with the given alignment.
type TextLine struct {
	Text   string    `json:"text"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Size   float64   `json:"size"`
	Style  FontStyle `json:"style"`
	Align  Align     `json:"align"`
	Color  Color     `json:"color"`
}

// Rule is a straight line
type Rule struct {
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
	LineWidth float64 `json:"lineWidth"`
	Color     Color   `json:"color"`
}

// Rect is a filled rectangle
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   Color   `json:"fill"`
}

// Column of the items table
type Column struct {
	Title string  `json:"title"`
	Width float64 `json:"width"`
	Align Align   `json:"align"`
}

// TableRow holds the wrapped lines of each cell
type TableRow struct {
	Y      float64    `json:"y"`
	Height float64    `json:"height"`
	Cells  [][]string `json:"cells"`
}

// Table is the part of the items table that fits on one page
type Table struct {
	X            float64    `json:"x"`
	HeaderY      float64    `json:"headerY"`
	HeaderHeight float64    `json:"headerHeight"`
	LineHeight   float64    `json:"lineHeight"`
	FontSize     float64    `json:"fontSize"`
	Padding      float64    `json:"padding"`
	Columns      []Column   `json:"columns"`
	Rows         []TableRow `json:"rows"`
	HeaderFill   Color      `json:"headerFill"`
	GridColor    Color      `json:"gridColor"`
}

// Image is a full page picture. Source is a data url or an http(s) url and is
// only resolved by the renderer.
type Image struct {
	Source string  `json:"source"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Block is a positioned piece of the document. A block placed below another
// starts at previous.AnchoredAt.Y + previous.OccupiedHeight.
type Block struct {
	Kind           Kind       `json:"kind"`
	Page           int        `json:"page"`
	AnchoredAt     Point      `json:"anchoredAt"`
	Width          float64    `json:"width"`
	OccupiedHeight float64    `json:"occupiedHeight"`
	Lines          []TextLine `json:"lines,omitempty"`
	Rules          []Rule     `json:"rules,omitempty"`
	Rects          []Rect     `json:"rects,omitempty"`
	Table          *Table     `json:"table,omitempty"`
	Image          *Image     `json:"image,omitempty"`
}

// Bottom is the y coordinate right below the block
func (b Block) Bottom() float64 {
	return b.AnchoredAt.Y + b.OccupiedHeight
}

// PageCount returns the number of pages the blocks span
func PageCount(blocks []Block) int {
	pages := 0
	for _, b := range blocks {
		if b.Page > pages {
			pages = b.Page
		}
	}
	return pages
}

// Find returns the first block of the given kind
func Find(blocks []Block, kind Kind) (Block, bool) {
	for _, b := range blocks {
		if b.Kind == kind {
			return b, true
		}
	}
	return Block{}, false
}
