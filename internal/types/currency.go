package types

import (
	"strings"

	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/samber/lo"
)

// Currency is the ISO code of a supported document currency
type Currency string

const (
	CurrencyTND Currency = "TND"
	CurrencyEUR Currency = "EUR"

	// DefaultCurrency is used when neither the document nor its issuing company names one
	DefaultCurrency = CurrencyTND
)

// CurrencyConfig fixes the precision and the words used for a currency.
// Precision applies to every monetary value of a document, not only to display.
type CurrencyConfig struct {
	Precision int32
	Symbol    string
	MajorUnit string
	MinorUnit string
}

var currencyConfigs = map[Currency]CurrencyConfig{
	CurrencyTND: {Precision: 3, Symbol: "DT", MajorUnit: "Dinars", MinorUnit: "Millimes"},
	CurrencyEUR: {Precision: 2, Symbol: "€", MajorUnit: "Euros", MinorUnit: "Centimes"},
}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) Validate() error {
	allowed := []Currency{CurrencyTND, CurrencyEUR}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid currency").
			WithHint("Please provide a valid currency").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Config returns the currency settings, TND settings for unknown codes
func (c Currency) Config() CurrencyConfig {
	if cfg, ok := currencyConfigs[c]; ok {
		return cfg
	}
	return currencyConfigs[DefaultCurrency]
}

// Decimals returns the number of fractional digits of the currency
func (c Currency) Decimals() int32 {
	return c.Config().Precision
}

// Symbol returns the symbol printed next to amounts
func (c Currency) Symbol() string {
	return c.Config().Symbol
}

// ParseCurrency maps a user supplied code to a Currency, case-insensitively.
// Empty input returns an empty Currency so callers can fall back.
func ParseCurrency(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

// ResolveCurrency returns the first valid currency of the candidates, DefaultCurrency otherwise
func ResolveCurrency(candidates ...Currency) Currency {
	for _, c := range candidates {
		if c.Validate() == nil {
			return c
		}
	}
	return DefaultCurrency
}
