package memory

import (
	"context"

	"github.com/factupro/factupro/internal/cache"
	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/logger"
)

type companyRepository struct {
	store *store[company.Company]
	log   *logger.Logger
}

func NewCompanyRepository(c cache.Cache, log *logger.Logger) company.Repository {
	return &companyRepository{
		store: newStore[company.Company](c, cache.PrefixCompany, "company"),
		log:   log,
	}
}

func (r *companyRepository) Create(ctx context.Context, c *company.Company) error {
	r.log.Debugw("creating company", "company_id", c.ID, "name", c.Name)
	return r.store.create(ctx, c.ID, c)
}

func (r *companyRepository) Get(ctx context.Context, id string) (*company.Company, error) {
	r.log.Debugw("getting company", "company_id", id)
	return r.store.get(ctx, id)
}

// List returns companies in creation order
func (r *companyRepository) List(ctx context.Context) ([]*company.Company, error) {
	return r.store.list(ctx, func(a, b *company.Company) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *companyRepository) Update(ctx context.Context, c *company.Company) error {
	r.log.Debugw("updating company", "company_id", c.ID)
	return r.store.update(ctx, c.ID, c)
}

func (r *companyRepository) Delete(ctx context.Context, id string) error {
	r.log.Debugw("deleting company", "company_id", id)
	return r.store.delete(ctx, id)
}
