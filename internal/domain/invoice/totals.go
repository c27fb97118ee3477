package invoice

import (
	"github.com/factupro/factupro/internal/numeric"
	"github.com/factupro/factupro/internal/types"
	"github.com/shopspring/decimal"
)

// TaxConfig is the TVA setting of a document. RatePercent is kept when
// Applicable is false so the form can switch back without losing it.
type TaxConfig struct {
	Applicable  bool
	RatePercent decimal.Decimal
}

// Totals are derived values, never stored
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// ComputeTotals sums the lines without any intermediate rounding.
// Negative quantities and prices are valid, they produce credit notes.
func ComputeTotals(items []LineItem, tax TaxConfig) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}

	taxAmount := decimal.Zero
	if tax.Applicable {
		// percent: shifting by two places is exact, unlike Div
		taxAmount = subtotal.Mul(tax.RatePercent).Shift(-2)
	}

	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		GrandTotal: subtotal.Add(taxAmount),
	}
}

// Rounded returns the presentation values, each rounded on its own with the
// currency precision. The receiver keeps full precision.
func (t Totals) Rounded(currency types.Currency) Totals {
	return Totals{
		Subtotal:   numeric.Round(t.Subtotal, currency),
		TaxAmount:  numeric.Round(t.TaxAmount, currency),
		GrandTotal: numeric.Round(t.GrandTotal, currency),
	}
}
