package invoice

import (
	"context"

	"github.com/factupro/factupro/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create stores a new invoice
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID
	Get(ctx context.Context, id string) (*Invoice, error)

	// Update replaces an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice
	Delete(ctx context.Context, id string) error

	// List retrieves invoices matching the filter, newest first
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the number of invoices matching the filter, ignoring paging
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// LastSequence returns the highest sequence among stored document numbers
	LastSequence(ctx context.Context) (int, error)
}
