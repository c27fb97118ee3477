package company

import (
	"context"
)

// Repository defines the interface for company data access
type Repository interface {
	Create(ctx context.Context, company *Company) error
	Get(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context) ([]*Company, error)
	Update(ctx context.Context, company *Company) error
	Delete(ctx context.Context, id string) error
}
