package invoice

import (
	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is a normalized invoice or quote. Every optional field of the stored
// shape has been resolved by Normalize, so nothing downstream needs defaults.
type Invoice struct {
	ID       string             `json:"id"`
	Type     types.DocumentType `json:"type"`
	Number   string             `json:"number"`
	Date     string             `json:"date"`
	DueDate  string             `json:"dueDate"`
	ClientID string             `json:"clientId"`

	// ClientSnap and CompanySnap are owned copies taken when the document was
	// created. Later edits of the client or company never reach them.
	ClientSnap  client.Client   `json:"clientSnap"`
	CompanySnap company.Company `json:"companySnap"`

	Items         []LineItem           `json:"items"`
	TvaApplicable bool                 `json:"tvaApplicable"`
	TvaRate       decimal.Decimal      `json:"tvaRate"`
	Notes         string               `json:"notes,omitempty"`
	Status        types.DocumentStatus `json:"status"`
	Currency      types.Currency       `json:"currency"`

	types.BaseModel
}

// LineItem is a normalized line. ID is opaque and supplied by the caller.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Total is quantity x unit price at full precision
func (l LineItem) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// TaxConfig returns the tax settings used by ComputeTotals
func (i *Invoice) TaxConfig() TaxConfig {
	return TaxConfig{
		Applicable:  i.TvaApplicable,
		RatePercent: i.TvaRate,
	}
}

// Totals computes the document totals at full precision
func (i *Invoice) Totals() Totals {
	return ComputeTotals(i.Items, i.TaxConfig())
}

// CompanyID returns the id of the issuing company snapshot
func (i *Invoice) CompanyID() string {
	return i.CompanySnap.ID
}
