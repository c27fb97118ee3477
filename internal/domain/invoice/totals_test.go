package invoice

import (
	"testing"

	"github.com/factupro/factupro/internal/numeric"
	"github.com/factupro/factupro/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, price string) LineItem {
	return LineItem{Quantity: d(qty), UnitPrice: d(price), Unit: types.DefaultUnit}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		tax   TaxConfig
		want  Totals
	}{
		{
			name:  "empty items",
			items: nil,
			tax:   TaxConfig{Applicable: true, RatePercent: d("19")},
			want:  Totals{Subtotal: d("0"), TaxAmount: d("0"), GrandTotal: d("0")},
		},
		{
			name:  "single line with TVA",
			items: []LineItem{item("2", "100.000")},
			tax:   TaxConfig{Applicable: true, RatePercent: d("19")},
			want:  Totals{Subtotal: d("200"), TaxAmount: d("38"), GrandTotal: d("238")},
		},
		{
			name:  "TVA not applicable ignores the rate",
			items: []LineItem{item("2", "100")},
			tax:   TaxConfig{Applicable: false, RatePercent: d("19")},
			want:  Totals{Subtotal: d("200"), TaxAmount: d("0"), GrandTotal: d("200")},
		},
		{
			name:  "no per line rounding",
			items: []LineItem{item("3", "0.3333"), item("3", "0.3333"), item("3", "0.3333")},
			tax:   TaxConfig{Applicable: true, RatePercent: d("7")},
			want:  Totals{Subtotal: d("2.9997"), TaxAmount: d("0.209979"), GrandTotal: d("3.209679")},
		},
		{
			name:  "credit note",
			items: []LineItem{item("-1", "50"), item("2", "10")},
			tax:   TaxConfig{Applicable: true, RatePercent: d("19")},
			want:  Totals{Subtotal: d("-30"), TaxAmount: d("-5.7"), GrandTotal: d("-35.7")},
		},
		{
			name:  "fractional rate",
			items: []LineItem{item("1", "1000")},
			tax:   TaxConfig{Applicable: true, RatePercent: d("13.5")},
			want:  Totals{Subtotal: d("1000"), TaxAmount: d("135"), GrandTotal: d("1135")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.tax)
			assert.True(t, tt.want.Subtotal.Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, tt.want.TaxAmount.Equal(got.TaxAmount), "tax %s", got.TaxAmount)
			assert.True(t, tt.want.GrandTotal.Equal(got.GrandTotal), "total %s", got.GrandTotal)
		})
	}
}

func TestComputeTotalsInvariants(t *testing.T) {
	items := []LineItem{item("1.5", "33.333"), item("7", "0.125"), item("-2", "4.4")}
	rates := []string{"0", "7", "13", "19", "19.6"}

	for _, applicable := range []bool{true, false} {
		for _, rate := range rates {
			tax := TaxConfig{Applicable: applicable, RatePercent: d(rate)}
			got := ComputeTotals(items, tax)

			assert.True(t, got.GrandTotal.Equal(got.Subtotal.Add(got.TaxAmount)))
			if !applicable {
				assert.True(t, got.TaxAmount.IsZero())
			}

			sum := decimal.Zero
			for _, it := range items {
				sum = sum.Add(it.Quantity.Mul(it.UnitPrice))
			}
			assert.True(t, got.Subtotal.Equal(sum))
		}
	}
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	items := []LineItem{item("3", "19.999"), item("0.5", "0.001")}
	tax := TaxConfig{Applicable: true, RatePercent: d("19")}

	first := ComputeTotals(items, tax)
	second := ComputeTotals(items, tax)

	assert.Equal(t, first, second)
}

func TestTotalsRounded(t *testing.T) {
	totals := ComputeTotals([]LineItem{item("1", "10.0049")}, TaxConfig{Applicable: true, RatePercent: d("10")})

	tnd := totals.Rounded(types.CurrencyTND)
	eur := totals.Rounded(types.CurrencyEUR)

	assert.Equal(t, "10.005", tnd.Subtotal.StringFixed(3))
	assert.Equal(t, "1.000", tnd.TaxAmount.StringFixed(3))
	assert.Equal(t, "11.005", tnd.GrandTotal.StringFixed(3))

	assert.Equal(t, "10.00", eur.Subtotal.StringFixed(2))
	assert.Equal(t, "1.00", eur.TaxAmount.StringFixed(2))
	assert.Equal(t, "11.01", eur.GrandTotal.StringFixed(2))

	// the unrounded values are left untouched
	assert.True(t, totals.Subtotal.Equal(d("10.0049")))
	assert.Equal(t, numeric.Format(totals.GrandTotal, types.CurrencyTND, "."), tnd.GrandTotal.StringFixed(3))
}

func TestRecomputeAfterEditDoesNotCompoundRounding(t *testing.T) {
	items := []LineItem{item("1", "0.0004")}
	tax := TaxConfig{Applicable: true, RatePercent: d("19")}

	for i := 0; i < 10; i++ {
		items = append(items, item("1", "0.0004"))
		got := ComputeTotals(items, tax)
		assert.True(t, got.Subtotal.Equal(d("0.0004").Mul(decimal.NewFromInt(int64(len(items))))))
	}
}
