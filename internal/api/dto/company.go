package dto

import (
	"strings"

	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/types"
	"github.com/factupro/factupro/internal/validator"
)

type CreateCompanyRequest struct {
	Name                 string         `json:"name" validate:"required"`
	MF                   string         `json:"mf"`
	Address              string         `json:"address"`
	Email                string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone                string         `json:"phone,omitempty"`
	IsDefault            bool           `json:"isDefault,omitempty"`
	Currency             types.Currency `json:"currency,omitempty" validate:"omitempty,currency"`
	LetterheadURL        string         `json:"letterheadUrl,omitempty"`
	HideCompanyInfoOnPDF bool           `json:"hideCompanyInfoOnPdf,omitempty"`
}

type UpdateCompanyRequest struct {
	Name                 *string         `json:"name,omitempty" validate:"omitempty,min=1"`
	MF                   *string         `json:"mf,omitempty"`
	Address              *string         `json:"address,omitempty"`
	Email                *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone                *string         `json:"phone,omitempty"`
	IsDefault            *bool           `json:"isDefault,omitempty"`
	Currency             *types.Currency `json:"currency,omitempty" validate:"omitempty,currency"`
	LetterheadURL        *string         `json:"letterheadUrl,omitempty"`
	HideCompanyInfoOnPDF *bool           `json:"hideCompanyInfoOnPdf,omitempty"`
}

type CompanyResponse struct {
	*company.Company
}

// ListCompaniesResponse represents the response for listing companies
type ListCompaniesResponse = types.ListResponse[*CompanyResponse]

func (r *CreateCompanyRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateCompanyRequest) ToCompany() *company.Company {
	return &company.Company{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMPANY),
		Name:                 strings.TrimSpace(r.Name),
		MF:                   r.MF,
		Address:              r.Address,
		Email:                r.Email,
		Phone:                r.Phone,
		IsDefault:            r.IsDefault,
		Currency:             r.Currency,
		LetterheadURL:        r.LetterheadURL,
		HideCompanyInfoOnPDF: r.HideCompanyInfoOnPDF,
		BaseModel:            types.GetDefaultBaseModel(),
	}
}

func (r *UpdateCompanyRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the provided fields onto c
func (r *UpdateCompanyRequest) Apply(c *company.Company) {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.MF != nil {
		c.MF = *r.MF
	}
	if r.Address != nil {
		c.Address = *r.Address
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.IsDefault != nil {
		c.IsDefault = *r.IsDefault
	}
	if r.Currency != nil {
		c.Currency = *r.Currency
	}
	if r.LetterheadURL != nil {
		c.LetterheadURL = *r.LetterheadURL
	}
	if r.HideCompanyInfoOnPDF != nil {
		c.HideCompanyInfoOnPDF = *r.HideCompanyInfoOnPDF
	}
}
