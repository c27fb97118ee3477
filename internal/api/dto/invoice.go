package dto

import (
	"strings"

	"github.com/factupro/factupro/internal/domain/invoice"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/spellout"
	"github.com/factupro/factupro/internal/types"
	"github.com/factupro/factupro/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is a draft plus the company issuing it. Snapshots
// missing from the draft are taken from ClientID and CompanyID, and the
// default company is used when no company is given.
type CreateInvoiceRequest struct {
	invoice.Draft
	CompanyID string `json:"companyId,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if strings.TrimSpace(r.ClientID) == "" && r.ClientSnap == nil {
		return ierr.NewError("client is required").
			WithHint("Please select a client").
			Mark(ierr.ErrValidation)
	}
	return r.Draft.Validate()
}

// UpdateInvoiceRequest replaces the editable fields of a document. Empty
// type, status, number and currency keep their stored values. Snapshots are
// only retaken when the client or company changes.
type UpdateInvoiceRequest struct {
	invoice.Draft
	CompanyID string `json:"companyId,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	return r.Draft.Validate()
}

// PreviewInvoiceRequest lays out an unsaved draft
type PreviewInvoiceRequest struct {
	invoice.Draft
	CompanyID string `json:"companyId,omitempty"`
}

func (r *PreviewInvoiceRequest) Validate() error {
	return r.Draft.Validate()
}

type UpdateInvoiceStatusRequest struct {
	Status types.DocumentStatus `json:"status" validate:"required,document_status"`
}

func (r *UpdateInvoiceStatusRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// TotalsResponse holds the totals rounded to the currency precision
type TotalsResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

type InvoiceResponse struct {
	*invoice.Invoice
	Totals        TotalsResponse `json:"totals"`
	AmountInWords string         `json:"amountInWords"`
}

// ListInvoicesResponse represents the response for listing invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	rounded := inv.Totals().Rounded(inv.Currency)
	return &InvoiceResponse{
		Invoice: inv,
		Totals: TotalsResponse{
			Subtotal:   rounded.Subtotal,
			TaxAmount:  rounded.TaxAmount,
			GrandTotal: rounded.GrandTotal,
		},
		AmountInWords: spellout.ToWords(rounded.GrandTotal, inv.Currency),
	}
}

type ExportInvoicesRequest struct {
	InvoiceIDs []string `json:"invoiceIds" validate:"required,min=1,max=100,dive,required"`
}

func (r *ExportInvoicesRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ExportedDocument is the outcome of one document of a batch export. Location
// is set when the file was uploaded, Content otherwise.
type ExportedDocument struct {
	InvoiceID string `json:"invoiceId"`
	Filename  string `json:"filename,omitempty"`
	Size      int    `json:"size,omitempty"`
	Location  string `json:"location,omitempty"`
	Content   []byte `json:"content,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ExportInvoicesResponse struct {
	Documents []ExportedDocument `json:"documents"`
	Failed    int                `json:"failed"`
}
