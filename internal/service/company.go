package service

import (
	"context"
	"time"

	"github.com/factupro/factupro/internal/api/dto"
	"github.com/factupro/factupro/internal/domain/company"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/types"
	"github.com/samber/lo"
)

type CompanyService interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error)
	ListCompanies(ctx context.Context) (*dto.ListCompaniesResponse, error)
	UpdateCompany(ctx context.Context, id string, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error)
	DeleteCompany(ctx context.Context, id string) error
	SetDefaultCompany(ctx context.Context, id string) (*dto.CompanyResponse, error)

	// GetDefaultCompany returns the company flagged as default, the oldest one otherwise
	GetDefaultCompany(ctx context.Context) (*company.Company, error)
}

type companyService struct {
	ServiceParams
}

func NewCompanyService(params ServiceParams) CompanyService {
	return &companyService{
		ServiceParams: params,
	}
}

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToCompany()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.CompanyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	// the first company is always the default one
	if len(existing) == 0 {
		c.IsDefault = true
	}

	if err := s.CompanyRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	if c.IsDefault {
		if err := s.makeDefault(ctx, c.ID); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("created company", "company_id", c.ID, "is_default", c.IsDefault)
	return &dto.CompanyResponse{Company: c}, nil
}

func (s *companyService) GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	if id == "" {
		return nil, ierr.NewError("company_id is required").
			WithHint("Company ID is required").
			Mark(ierr.ErrValidation)
	}

	c, err := s.CompanyRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CompanyResponse{Company: c}, nil
}

func (s *companyService) ListCompanies(ctx context.Context) (*dto.ListCompaniesResponse, error) {
	companies, err := s.CompanyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(companies, func(c *company.Company, _ int) *dto.CompanyResponse {
		return &dto.CompanyResponse{Company: c}
	})
	resp := types.NewListResponse(items, len(items), len(items), 0)
	return &resp, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, id string, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.CompanyRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	wasDefault := c.IsDefault
	req.Apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.CompanyRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	switch {
	case c.IsDefault && !wasDefault:
		err = s.makeDefault(ctx, c.ID)
	case !c.IsDefault && wasDefault:
		err = s.ensureDefault(ctx)
	}
	if err != nil {
		return nil, err
	}

	return s.GetCompany(ctx, id)
}

// DeleteCompany refuses to remove the last company. Documents keep their
// snapshot of a deleted company.
func (s *companyService) DeleteCompany(ctx context.Context, id string) error {
	companies, err := s.CompanyRepo.List(ctx)
	if err != nil {
		return err
	}
	if !lo.ContainsBy(companies, func(c *company.Company) bool { return c.ID == id }) {
		return ierr.NewError("company not found").
			WithHint("company not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	if len(companies) <= 1 {
		return ierr.NewError("cannot delete the last company").
			WithHint("Impossible de supprimer la dernière entreprise").
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.CompanyRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Logger.Infow("deleted company", "company_id", id)
	return s.ensureDefault(ctx)
}

func (s *companyService) SetDefaultCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	if _, err := s.CompanyRepo.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.makeDefault(ctx, id); err != nil {
		return nil, err
	}
	return s.GetCompany(ctx, id)
}

func (s *companyService) GetDefaultCompany(ctx context.Context) (*company.Company, error) {
	companies, err := s.CompanyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, ierr.NewError("no company configured").
			WithHint("Please create the issuing company first").
			Mark(ierr.ErrInvalidOperation)
	}

	if c, ok := lo.Find(companies, func(c *company.Company) bool { return c.IsDefault }); ok {
		return c, nil
	}
	return companies[0], nil
}

// makeDefault flags id as the default company and clears the flag everywhere else
func (s *companyService) makeDefault(ctx context.Context, id string) error {
	companies, err := s.CompanyRepo.List(ctx)
	if err != nil {
		return err
	}

	for _, c := range companies {
		isDefault := c.ID == id
		if c.IsDefault == isDefault {
			continue
		}
		c.IsDefault = isDefault
		c.UpdatedAt = time.Now().UTC()
		if err := s.CompanyRepo.Update(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// ensureDefault makes the oldest company the default when none is
func (s *companyService) ensureDefault(ctx context.Context) error {
	companies, err := s.CompanyRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(companies) == 0 || lo.ContainsBy(companies, func(c *company.Company) bool { return c.IsDefault }) {
		return nil
	}
	return s.makeDefault(ctx, companies[0].ID)
}
