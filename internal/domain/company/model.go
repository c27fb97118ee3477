package company

import (
	"strings"

	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/types"
)

// Company is an issuing business. Invoices keep a copy of it taken at creation.
type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	MF      string `json:"mf"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`

	// IsDefault marks the company preselected for new documents
	IsDefault bool `json:"isDefault,omitempty"`

	// Currency is the default currency of documents issued by this company
	Currency types.Currency `json:"currency,omitempty"`

	// LetterheadURL is a full page background, either a data url with embedded
	// image data or an http(s) url
	LetterheadURL string `json:"letterheadUrl,omitempty"`

	// HideCompanyInfoOnPDF skips the drawn company header when the letterhead already shows it
	HideCompanyInfoOnPDF bool `json:"hideCompanyInfoOnPdf,omitempty"`

	types.BaseModel
}

// Validate checks the fields a document needs to print the company block
func (c *Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("company name is required").
			WithHint("Please provide the company name").
			Mark(ierr.ErrValidation)
	}
	if c.Currency != "" {
		if err := c.Currency.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasLetterhead reports whether a background image is configured
func (c *Company) HasLetterhead() bool {
	return strings.TrimSpace(c.LetterheadURL) != ""
}

// Snapshot returns an owned copy for embedding into a document
func (c *Company) Snapshot() Company {
	return *c
}
