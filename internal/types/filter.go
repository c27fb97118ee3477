package types

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 500
)

// QueryFilter holds the paging parameters shared by list endpoints
type QueryFilter struct {
	Limit  int `form:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
	Offset int `form:"offset" json:"offset,omitempty" validate:"omitempty,min=0"`
}

// GetLimit returns the page size, FILTER_DEFAULT_LIMIT when unset
func (f QueryFilter) GetLimit() int {
	if f.Limit <= 0 {
		return FILTER_DEFAULT_LIMIT
	}
	if f.Limit > FILTER_MAX_LIMIT {
		return FILTER_MAX_LIMIT
	}
	return f.Limit
}

func (f QueryFilter) GetOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

// InvoiceFilter narrows invoice listings. Results are newest first.
type InvoiceFilter struct {
	QueryFilter
	Type      DocumentType   `form:"type" json:"type,omitempty"`
	Status    DocumentStatus `form:"status" json:"status,omitempty"`
	ClientID  string         `form:"clientId" json:"clientId,omitempty"`
	CompanyID string         `form:"companyId" json:"companyId,omitempty"`
}

// Validate checks the enum fields that were provided
func (f *InvoiceFilter) Validate() error {
	if f.Type != "" {
		if err := f.Type.Validate(); err != nil {
			return err
		}
	}
	if f.Status != "" {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	return nil
}
