// Package numeric parses user entered amounts and owns the single rounding rule
// applied to every monetary value of a document.
package numeric

import (
	"math"
	"strconv"
	"strings"

	"github.com/factupro/factupro/internal/types"
	"github.com/shopspring/decimal"
)

// Normalize converts a form value into an exact decimal.
//
// Strings accept "," or "." as decimal separator and are read up to the first
// character that cannot continue a number, so "12,5 kg" is 12.5. Anything that
// does not start with a number is 0. Normalize never fails: forms must stay
// editable while the user is typing.
func Normalize(input any) decimal.Decimal {
	switch v := input.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case string:
		return parseString(v)
	case Value:
		return v.Decimal()
	case *string:
		if v == nil {
			return decimal.Zero
		}
		return parseString(*v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromInt(int64(v))
	case uint32:
		return decimal.NewFromInt(int64(v))
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	default:
		return decimal.Zero
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func parseString(s string) decimal.Decimal {
	prefix := numericPrefix(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	prefix = strings.TrimPrefix(prefix, "+")
	if prefix == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// numericPrefix returns the longest prefix of s shaped like
// [+-]digits[.digits][e[+-]digits] that holds at least one digit.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - intStart

	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		fracDigits := j - i - 1
		if digits+fracDigits == 0 {
			return ""
		}
		digits += fracDigits
		if fracDigits == 0 {
			// "12." reads as 12
			s = s[:i]
			return withExponent(s, len(s))
		}
		i = j
	}
	if digits == 0 {
		return ""
	}
	return withExponent(s, i)
}

// MaxExponent bounds the exponent accepted by Normalize. Larger exponents read
// as 0 so that rounding and formatting stay proportional to the input length.
const MaxExponent = 12

// withExponent extends the mantissa ending at end with a complete exponent suffix, if any.
// It returns "" when the exponent magnitude exceeds MaxExponent.
func withExponent(s string, end int) string {
	if end >= len(s) || (s[end] != 'e' && s[end] != 'E') {
		return s[:end]
	}
	j := end + 1
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	expStart := j
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == expStart {
		return s[:end]
	}
	exp := strings.TrimLeft(s[expStart:j], "0")
	if len(exp) > 2 {
		return ""
	}
	if n, _ := strconv.Atoi(exp); n > MaxExponent {
		return ""
	}
	return s[:j]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Round rounds amount half away from zero to the precision of the currency.
// Totals display, the amount in words and every laid out numeral go through it
// so a spelled out amount can never disagree with the printed figure.
func Round(amount decimal.Decimal, currency types.Currency) decimal.Decimal {
	return amount.Round(currency.Decimals())
}

// Format renders amount rounded to the currency precision with exactly that many
// fractional digits, using separator between the integer and fractional parts.
func Format(amount decimal.Decimal, currency types.Currency, separator string) string {
	s := Round(amount, currency).StringFixed(currency.Decimals())
	if separator == "" || separator == "." {
		return s
	}
	return strings.Replace(s, ".", separator, 1)
}

// FormatWithSymbol renders amount the way totals are printed, ex "238.000 DT"
func FormatWithSymbol(amount decimal.Decimal, currency types.Currency) string {
	return Format(amount, currency, ".") + " " + currency.Symbol()
}
