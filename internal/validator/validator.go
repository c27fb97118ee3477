package validator

import (
	"sync"

	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/types"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// NewValidator returns the shared validator with the document tags registered:
// currency, document_type and document_status
func NewValidator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return types.Currency(fl.Field().String()).Validate() == nil
		})
		_ = v.RegisterValidation("document_type", func(fl validator.FieldLevel) bool {
			return types.DocumentType(fl.Field().String()).Validate() == nil
		})
		_ = v.RegisterValidation("document_status", func(fl validator.FieldLevel) bool {
			return types.DocumentStatus(fl.Field().String()).Validate() == nil
		})
		validate = v
	})
	return validate
}

func GetValidator() *validator.Validate {
	return NewValidator()
}

func ValidateRequest(req interface{}) error {
	if err := NewValidator().Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
