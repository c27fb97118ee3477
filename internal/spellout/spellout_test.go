package spellout

import (
	"math"
	"strings"
	"testing"
	"unicode"

	"github.com/factupro/factupro/internal/numeric"
	"github.com/factupro/factupro/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertUnder1000(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, ""},
		{1, "Un"},
		{9, "Neuf"},
		{10, "Dix"},
		{11, "Onze"},
		{17, "Dix-sept"},
		{20, "Vingt"},
		{21, "Vingt et Un"},
		{22, "Vingt-Deux"},
		{31, "Trente et Un"},
		{61, "Soixante et Un"},
		{70, "Soixante-Dix"},
		{71, "Soixante et Onze"},
		{72, "Soixante-Douze"},
		{79, "Soixante-Dix-neuf"},
		{80, "Quatre-vingts"},
		{81, "Quatre-vingt-Un"},
		{89, "Quatre-vingt-Neuf"},
		{90, "Quatre-vingt-Dix"},
		{91, "Quatre-vingt-Onze"},
		{99, "Quatre-vingt-Dix-neuf"},
		{100, "Cent"},
		{101, "Cent Un"},
		{180, "Cent Quatre-vingts"},
		{200, "Deux Cents"},
		{201, "Deux Cent Un"},
		{238, "Deux Cent Trente-Huit"},
		{999, "Neuf Cent Quatre-vingt-Dix-neuf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convertUnder1000(tt.n), "n=%d", tt.n)
	}
}

func TestIntegerToWords(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "Zéro"},
		{21, "Vingt et Un"},
		{80, "Quatre-vingts"},
		{100, "Cent"},
		{1000, "Mille"},
		{1001, "Mille Un"},
		{2000, "Deux Mille"},
		{21000, "Vingt et Un Mille"},
		{200000, "Deux Cents Mille"},
		{1_000_000, "Un Million"},
		{2_000_000, "Deux Millions"},
		{1_001_000, "Un Million Mille"},
		{3_500_250, "Trois Millions Cinq Cents Mille Deux Cent Cinquante"},
		{1_000_000_000, "Un Milliard"},
		{2_000_000_001, "Deux Milliards Un"},
		{999_999_999_999, "Neuf Cent Quatre-vingt-Dix-neuf Milliards Neuf Cent Quatre-vingt-Dix-neuf Millions Neuf Cent Quatre-vingt-Dix-neuf Mille Neuf Cent Quatre-vingt-Dix-neuf"},
		{-15, "Moins Quinze"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IntegerToWords(tt.n), "n=%d", tt.n)
	}
}

func TestIntegerToWordsNeverPluralizesMille(t *testing.T) {
	for _, n := range []int64{2000, 80000, 300000, 999000} {
		assert.NotContains(t, IntegerToWords(n), "Milles")
	}
}

func TestIntegerToWordsMinInt64(t *testing.T) {
	words := IntegerToWords(math.MinInt64)
	assert.True(t, strings.HasPrefix(words, "Moins "))
	assert.NotContains(t, words, "Moins Moins")
}

// wellFormed checks the shape every spelled out number must have: capitalized
// words separated by single spaces, with only "et" left lower case.
func wellFormed(t *testing.T, n int64, s string) {
	t.Helper()
	require.NotEmpty(t, s, "n=%d", n)
	assert.Equal(t, strings.TrimSpace(s), s, "n=%d", n)
	assert.NotContains(t, s, "  ", "n=%d", n)
	for _, word := range strings.Split(s, " ") {
		if word == "et" {
			continue
		}
		r := []rune(word)[0]
		assert.True(t, unicode.IsUpper(r), "n=%d word %q", n, word)
		assert.False(t, strings.HasSuffix(word, "-"), "n=%d word %q", n, word)
	}
}

func TestIntegerToWordsWellFormed(t *testing.T) {
	for n := int64(0); n < 2000; n++ {
		wellFormed(t, n, IntegerToWords(n))
	}

	// walk large magnitudes with a stride that hits every group shape
	for n := int64(1); n < 1_000_000_000_000; n = n*7 + 13 {
		wellFormed(t, n, IntegerToWords(n))
	}
}

func TestToWords(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency types.Currency
		want     string
	}{
		{
			name:     "whole dinars",
			amount:   "238.000",
			currency: types.CurrencyTND,
			want:     "Deux Cent Trente-Huit Dinars",
		},
		{
			name:     "dinars and millimes",
			amount:   "1250.500",
			currency: types.CurrencyTND,
			want:     "Mille Deux Cent Cinquante Dinars et Cinq Cents Millimes",
		},
		{
			name:     "euros and centimes",
			amount:   "80.21",
			currency: types.CurrencyEUR,
			want:     "Quatre-vingts Euros et Vingt et Un Centimes",
		},
		{
			name:     "zero",
			amount:   "0",
			currency: types.CurrencyEUR,
			want:     "Zéro Euros",
		},
		{
			name:     "fraction rounding up to a whole unit",
			amount:   "9.9996",
			currency: types.CurrencyTND,
			want:     "Dix Dinars",
		},
		{
			name:     "EUR rounds the third digit",
			amount:   "10.006",
			currency: types.CurrencyEUR,
			want:     "Dix Euros et Un Centimes",
		},
		{
			name:     "TND keeps the third digit",
			amount:   "10.006",
			currency: types.CurrencyTND,
			want:     "Dix Dinars et Six Millimes",
		},
		{
			name:     "credit note",
			amount:   "-12.5",
			currency: types.CurrencyEUR,
			want:     "Moins Douze Euros et Cinquante Centimes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToWords(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestToWordsMatchesDisplayedNumeral(t *testing.T) {
	// amounts sitting on a rounding boundary
	amounts := []string{
		"0.0005", "0.0049", "0.005", "1.9995", "19.995", "99.9949",
		// past the int64 range
		"9223372036854775808.4996", "100000000000000000000", "123456789012345678901234.5678",
	}

	for _, c := range []types.Currency{types.CurrencyTND, types.CurrencyEUR} {
		for _, a := range amounts {
			amount := decimal.RequireFromString(a)
			intPart, fracPart := Split(amount, c)

			displayed := numeric.Normalize(numeric.Format(amount, c, "."))
			rebuilt := intPart.Add(fracPart.Shift(-c.Decimals()))
			assert.True(t, displayed.Equal(rebuilt), "%s %s: displayed %s words %s", a, c, displayed, rebuilt)
		}
	}
}

func TestToWordsBeyondInt64(t *testing.T) {
	amount := numeric.Normalize("100000000000000000000")
	assert.Equal(t, "100000000000000000000.000", numeric.Format(amount, types.CurrencyTND, "."))
	assert.Equal(t, "Cent Milliards Milliards Dinars", ToWords(amount, types.CurrencyTND))

	// 2^63 wraps to a negative int64
	words := ToWords(decimal.RequireFromString("9223372036854775808"), types.CurrencyTND)
	assert.True(t, strings.HasPrefix(words, "Neuf Milliards Deux Cent Vingt-Trois Millions"), words)
	assert.True(t, strings.HasSuffix(words, "Sept Cent Soixante-Quinze Mille Huit Cent Huit Dinars"), words)
	assert.NotContains(t, words, minus)

	credit := ToWords(decimal.RequireFromString("-100000000000000000000.5"), types.CurrencyEUR)
	assert.Equal(t, "Moins Cent Milliards Milliards Euros et Cinquante Centimes", credit)
}

func TestToWordsIsDeterministic(t *testing.T) {
	amount := decimal.RequireFromString("123456.789")
	first := ToWords(amount, types.CurrencyTND)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ToWords(amount, types.CurrencyTND))
	}
}
