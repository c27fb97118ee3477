package types

import (
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/samber/lo"
)

// DocumentType distinguishes invoices from quotes. Both share the same pipeline.
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "facture"
	DocumentTypeQuote   DocumentType = "devis"
)

func (t DocumentType) String() string {
	return string(t)
}

func (t DocumentType) Validate() error {
	allowed := []DocumentType{DocumentTypeInvoice, DocumentTypeQuote}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid document type").
			WithHint("Please provide a valid document type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsQuote reports whether the document is a quote (devis)
func (t DocumentType) IsQuote() bool {
	return t == DocumentTypeQuote
}

// FilenamePrefix is the letter used in export filenames
func (t DocumentType) FilenamePrefix() string {
	if t.IsQuote() {
		return "D"
	}
	return "F"
}

// DocumentStatus is the lifecycle state of an invoice or quote
type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "brouillon"
	DocumentStatusPaid     DocumentStatus = "payée"
	DocumentStatusPending  DocumentStatus = "en_attente"
	DocumentStatusAccepted DocumentStatus = "accepté"
	DocumentStatusRefused  DocumentStatus = "refusé"
)

func (s DocumentStatus) String() string {
	return string(s)
}

func (s DocumentStatus) Validate() error {
	allowed := []DocumentStatus{
		DocumentStatusDraft,
		DocumentStatusPaid,
		DocumentStatusPending,
		DocumentStatusAccepted,
		DocumentStatusRefused,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid document status").
			WithHint("Please provide a valid document status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DefaultUnit is the line item unit used when none is given
const DefaultUnit = "U"
