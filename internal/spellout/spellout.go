// Package spellout writes amounts in French words, as printed under invoice
// totals ("Arrêté la présente facture à la somme de : ...").
package spellout

import (
	"math/big"
	"strings"

	"github.com/factupro/factupro/internal/numeric"
	"github.com/factupro/factupro/internal/types"
	"github.com/shopspring/decimal"
)

var (
	units = [...]string{"", "Un", "Deux", "Trois", "Quatre", "Cinq", "Six", "Sept", "Huit", "Neuf"}
	teens = [...]string{"Dix", "Onze", "Douze", "Treize", "Quatorze", "Quinze", "Seize", "Dix-sept", "Dix-huit", "Dix-neuf"}
	tens  = [...]string{"", "Dix", "Vingt", "Trente", "Quarante", "Cinquante", "Soixante", "Soixante-dix", "Quatre-vingt", "Quatre-vingt-dix"}
)

// scale is a magnitude group peeled off before the remainder under a thousand
type scale struct {
	value  *big.Int
	word   string
	plural bool
}

var scales = []scale{
	{value: big.NewInt(1_000_000_000), word: "Milliard", plural: true},
	{value: big.NewInt(1_000_000), word: "Million", plural: true},
	{value: big.NewInt(1_000), word: "Mille"},
}

var (
	one      = big.NewInt(1)
	thousand = big.NewInt(1000)
)

const (
	zero  = "Zéro"
	minus = "Moins"
)

// IntegerToWords spells n in French. Negative values are prefixed with "Moins".
func IntegerToWords(n int64) string {
	v := big.NewInt(n)
	if v.Sign() < 0 {
		return minus + " " + words(v.Abs(v))
	}
	return words(v)
}

// words spells n >= 0. Amounts are not bounded by int64: a quantity times a
// unit price easily exceeds it, and the words must still match the numeral.
func words(n *big.Int) string {
	if n.Sign() == 0 {
		return zero
	}

	parts := make([]string, 0, 4)
	rest := new(big.Int).Set(n)
	for _, s := range scales {
		if rest.Cmp(s.value) < 0 {
			continue
		}
		group := new(big.Int)
		group.QuoRem(rest, s.value, rest)

		switch {
		case !s.plural && group.Cmp(one) == 0:
			parts = append(parts, s.word)
		case s.plural && group.Cmp(one) > 0:
			parts = append(parts, groupWords(group)+" "+s.word+"s")
		default:
			parts = append(parts, groupWords(group)+" "+s.word)
		}
	}
	if rest.Sign() > 0 {
		parts = append(parts, convertUnder1000(rest.Uint64()))
	}
	return strings.Join(parts, " ")
}

// groupWords spells a group multiplier, which exceeds 999 only above a thousand billions
func groupWords(n *big.Int) string {
	if n.Cmp(thousand) < 0 {
		return convertUnder1000(n.Uint64())
	}
	return words(n)
}

// convertUnder1000 spells 0 <= n < 1000; 0 yields the empty string.
func convertUnder1000(n uint64) string {
	var b strings.Builder

	if n >= 100 {
		h := n / 100
		if h == 1 {
			b.WriteString("Cent")
		} else {
			b.WriteString(units[h])
			b.WriteString(" Cent")
		}
		n %= 100
		if h > 1 && n == 0 {
			b.WriteString("s")
		}
		if n != 0 {
			b.WriteString(" ")
		}
	}

	switch {
	case n == 0:
	case n < 10:
		b.WriteString(units[n])
	case n < 20:
		b.WriteString(teens[n-10])
	default:
		t, u := n/10, n%10
		// 70-79 and 90-99 are counted as 60+10..19 and 80+10..19
		if t == 7 || t == 9 {
			t--
			u += 10
		}

		b.WriteString(tens[t])
		if t == 8 && u == 0 {
			b.WriteString("s")
		}

		switch {
		case u == 1 || u == 11:
			if t < 8 {
				b.WriteString(" et ")
			} else {
				b.WriteString("-")
			}
		case u > 0:
			b.WriteString("-")
		}

		switch {
		case u == 0:
		case u < 10:
			b.WriteString(units[u])
		default:
			b.WriteString(teens[u-10])
		}
	}

	return b.String()
}

// Split rounds amount with the currency precision and returns its integer part and
// its fractional part expressed in minor units (millimes, centimes). Both are
// whole numbers.
func Split(amount decimal.Decimal, currency types.Currency) (decimal.Decimal, decimal.Decimal) {
	rounded := numeric.Round(amount, currency)
	intPart := rounded.Truncate(0)
	fracPart := rounded.Sub(intPart).Shift(currency.Decimals())
	return intPart, fracPart
}

// ToWords spells amount followed by the currency units, ex
// "Deux Cent Trente-Huit Dinars et Cinq Cents Millimes".
// The minor unit clause is omitted when the rounded fraction is zero.
func ToWords(amount decimal.Decimal, currency types.Currency) string {
	cfg := currency.Config()
	intPart, fracPart := Split(amount, currency)

	prefix := ""
	if intPart.IsNegative() || fracPart.IsNegative() {
		prefix = minus + " "
		intPart, fracPart = intPart.Neg(), fracPart.Neg()
	}

	text := prefix + words(intPart.BigInt()) + " " + cfg.MajorUnit
	if fracPart.IsPositive() {
		text += " et " + words(fracPart.BigInt()) + " " + cfg.MinorUnit
	}
	return text
}
