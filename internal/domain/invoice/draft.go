package invoice

import (
	"strings"

	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/domain/company"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/numeric"
	"github.com/factupro/factupro/internal/types"
	"github.com/samber/lo"
)

// Draft is a document in the shape it arrives in from forms, older stored
// records and the cli: optional fields may be missing and numbers may be
// strings. Normalize turns it into an Invoice once, at the boundary.
type Draft struct {
	ID            string               `json:"id"`
	Type          types.DocumentType   `json:"type,omitempty"`
	Number        string               `json:"number"`
	Date          string               `json:"date"`
	DueDate       string               `json:"dueDate"`
	ClientID      string               `json:"clientId"`
	ClientSnap    *client.Client       `json:"clientSnap,omitempty"`
	CompanySnap   *company.Company     `json:"companySnap,omitempty"`
	Items         []DraftItem          `json:"items"`
	TvaApplicable *bool                `json:"tvaApplicable,omitempty"`
	TvaRate       numeric.Value        `json:"tvaRate"`
	Notes         string               `json:"notes,omitempty"`
	Status        types.DocumentStatus `json:"status,omitempty"`
	Currency      types.Currency       `json:"currency,omitempty"`
}

// DraftItem is a line as typed in the form
type DraftItem struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Unit        string        `json:"unit"`
	Quantity    numeric.Value `json:"quantity"`
	UnitPrice   numeric.Value `json:"unitPrice"`
}

// Validate rejects drafts whose enums are unknown or whose tax rate is negative.
// Unparseable numbers are not errors, they normalize to zero.
func (d *Draft) Validate() error {
	if d.Type != "" {
		if err := d.Type.Validate(); err != nil {
			return err
		}
	}
	if d.Status != "" {
		if err := d.Status.Validate(); err != nil {
			return err
		}
	}
	if d.Currency != "" {
		if err := d.Currency.Validate(); err != nil {
			return err
		}
	}
	if d.TvaRate.Decimal().IsNegative() {
		return ierr.NewError("tva rate must not be negative").
			WithHint("Le taux de TVA doit être positif").
			WithReportableDetails(map[string]any{
				"tvaRate": string(d.TvaRate),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Normalize resolves every default of the draft:
//   - missing type is an invoice, missing status is pending
//   - missing tvaApplicable means TVA applies
//   - missing currency falls back to the company currency, then to fallback, then to TND
//   - missing unit is "U"
//
// Snapshots are copied, the returned Invoice shares no memory with the draft.
func Normalize(d *Draft, fallback types.Currency) *Invoice {
	inv := &Invoice{
		ID:            d.ID,
		Type:          lo.Ternary(d.Type == "", types.DocumentTypeInvoice, d.Type),
		Number:        strings.TrimSpace(d.Number),
		Date:          d.Date,
		DueDate:       d.DueDate,
		ClientID:      d.ClientID,
		TvaApplicable: lo.FromPtrOr(d.TvaApplicable, true),
		TvaRate:       d.TvaRate.Decimal(),
		Notes:         d.Notes,
		Status:        lo.Ternary(d.Status == "", types.DocumentStatusPending, d.Status),
	}

	if d.ClientSnap != nil {
		inv.ClientSnap = d.ClientSnap.Snapshot()
		if inv.ClientID == "" {
			inv.ClientID = d.ClientSnap.ID
		}
	}

	companyCurrency := types.Currency("")
	if d.CompanySnap != nil {
		inv.CompanySnap = d.CompanySnap.Snapshot()
		companyCurrency = d.CompanySnap.Currency
	}
	inv.Currency = types.ResolveCurrency(d.Currency, companyCurrency, fallback)

	inv.Items = NormalizeItems(d.Items)
	return inv
}

// NormalizeItems converts form lines into exact decimal lines
func NormalizeItems(items []DraftItem) []LineItem {
	return lo.Map(items, func(item DraftItem, _ int) LineItem {
		return LineItem{
			ID:          item.ID,
			Description: item.Description,
			Unit:        lo.Ternary(strings.TrimSpace(item.Unit) == "", types.DefaultUnit, item.Unit),
			Quantity:    item.Quantity.Decimal(),
			UnitPrice:   item.UnitPrice.Decimal(),
		}
	})
}

// ToDraft converts a stored invoice back into an editable draft
func ToDraft(inv *Invoice) *Draft {
	clientSnap := inv.ClientSnap
	companySnap := inv.CompanySnap
	return &Draft{
		ID:            inv.ID,
		Type:          inv.Type,
		Number:        inv.Number,
		Date:          inv.Date,
		DueDate:       inv.DueDate,
		ClientID:      inv.ClientID,
		ClientSnap:    &clientSnap,
		CompanySnap:   &companySnap,
		TvaApplicable: lo.ToPtr(inv.TvaApplicable),
		TvaRate:       numeric.Value(inv.TvaRate.String()),
		Notes:         inv.Notes,
		Status:        inv.Status,
		Currency:      inv.Currency,
		Items: lo.Map(inv.Items, func(item LineItem, _ int) DraftItem {
			return DraftItem{
				ID:          item.ID,
				Description: item.Description,
				Unit:        item.Unit,
				Quantity:    numeric.Value(item.Quantity.String()),
				UnitPrice:   numeric.Value(item.UnitPrice.String()),
			}
		}),
	}
}
