package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/factupro/factupro/internal/domain/invoice"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/layout"
	"github.com/factupro/factupro/internal/spellout"
	"github.com/factupro/factupro/internal/types"
)

// RenderableDocument is a fully planned document and the name to save it under
type RenderableDocument struct {
	Blocks        []layout.Block `json:"blocks"`
	Filename      string         `json:"filename"`
	Totals        invoice.Totals `json:"totals"`
	AmountInWords string         `json:"amountInWords"`
	Currency      types.Currency `json:"currency"`
	PageCount     int            `json:"pageCount"`
}

// DocumentAssembler turns a normalized invoice into a renderable document.
// It does no I/O.
type DocumentAssembler interface {
	Assemble(ctx context.Context, inv *invoice.Invoice) (*RenderableDocument, error)
}

type documentAssembler struct {
	planner *layout.Planner
}

// NewDocumentAssembler wraps text with m, see layout.NewPlanner
func NewDocumentAssembler(m layout.Measurer) DocumentAssembler {
	return &documentAssembler{planner: layout.NewPlanner(m)}
}

func (a *documentAssembler) Assemble(_ context.Context, inv *invoice.Invoice) (*RenderableDocument, error) {
	if strings.TrimSpace(inv.ClientSnap.Name) == "" {
		return nil, ierr.NewError("document has no client").
			WithHint("Please select a client before generating the document").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrInvalidOperation)
	}
	if strings.TrimSpace(inv.CompanySnap.Name) == "" {
		return nil, ierr.NewError("document has no issuing company").
			WithHint("Please configure the issuing company before generating the document").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrInvalidOperation)
	}

	currency := types.ResolveCurrency(inv.Currency)
	tax := inv.TaxConfig()
	rounded := invoice.ComputeTotals(inv.Items, tax).Rounded(currency)
	words := spellout.ToWords(rounded.GrandTotal, currency)

	blocks := a.planner.Plan(layout.Input{
		DocumentType:  inv.Type,
		Number:        inv.Number,
		Date:          inv.Date,
		DueDate:       inv.DueDate,
		Company:       inv.CompanySnap,
		Client:        inv.ClientSnap,
		Items:         inv.Items,
		Totals:        rounded,
		Tax:           tax,
		Currency:      currency,
		AmountInWords: words,
		Notes:         inv.Notes,
	})

	return &RenderableDocument{
		Blocks:        blocks,
		Filename:      Filename(inv.CompanySnap.Name, inv.Type, inv.Number),
		Totals:        rounded,
		AmountInWords: words,
		Currency:      currency,
		PageCount:     layout.PageCount(blocks),
	}, nil
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds the export name: the company name stripped to ASCII letters
// and digits and upper-cased, F or D, a dash and the number.
// Filename("Acme S.A.R.L", facture, "2024-0001") is "ACMESARLF-2024-0001.pdf".
func Filename(companyName string, docType types.DocumentType, number string) string {
	name := strings.ToUpper(nonAlphanumeric.ReplaceAllString(companyName, ""))
	return name + docType.FilenamePrefix() + "-" + number + ".pdf"
}
