package memory

import (
	"context"

	"github.com/factupro/factupro/internal/cache"
	"github.com/factupro/factupro/internal/domain/invoice"
	"github.com/factupro/factupro/internal/logger"
	"github.com/factupro/factupro/internal/types"
	"github.com/samber/lo"
)

type invoiceRepository struct {
	store *store[invoice.Invoice]
	log   *logger.Logger
}

func NewInvoiceRepository(c cache.Cache, log *logger.Logger) invoice.Repository {
	return &invoiceRepository{
		store: newStore[invoice.Invoice](c, cache.PrefixInvoice, "invoice"),
		log:   log,
	}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	r.log.Debugw("creating invoice", "invoice_id", inv.ID, "number", inv.Number, "type", inv.Type)
	return r.store.create(ctx, inv.ID, inv)
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	r.log.Debugw("getting invoice", "invoice_id", id)
	return r.store.get(ctx, id)
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	r.log.Debugw("updating invoice", "invoice_id", inv.ID)
	return r.store.update(ctx, inv.ID, inv)
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	r.log.Debugw("deleting invoice", "invoice_id", id)
	return r.store.delete(ctx, id)
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if filter == nil {
		filter = &types.InvoiceFilter{}
	}

	r.log.Debugw("listing invoices",
		"type", filter.Type,
		"status", filter.Status,
		"limit", filter.GetLimit(),
		"offset", filter.GetOffset(),
	)

	matching, err := r.matching(ctx, filter)
	if err != nil {
		return nil, err
	}

	offset := filter.GetOffset()
	if offset >= len(matching) {
		return []*invoice.Invoice{}, nil
	}
	end := lo.Min([]int{offset + filter.GetLimit(), len(matching)})
	return matching[offset:end], nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	if filter == nil {
		filter = &types.InvoiceFilter{}
	}

	matching, err := r.matching(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(matching), nil
}

func (r *invoiceRepository) LastSequence(ctx context.Context) (int, error) {
	all, err := r.matching(ctx, &types.InvoiceFilter{})
	if err != nil {
		return 0, err
	}
	return lo.Max(lo.Map(all, func(inv *invoice.Invoice, _ int) int {
		return invoice.Sequence(inv.Number)
	})), nil
}

// matching returns every invoice passing the filter, newest first
func (r *invoiceRepository) matching(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	all, err := r.store.list(ctx, func(a, b *invoice.Invoice) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if err != nil {
		return nil, err
	}

	return lo.Filter(all, func(inv *invoice.Invoice, _ int) bool {
		return (filter.Type == "" || inv.Type == filter.Type) &&
			(filter.Status == "" || inv.Status == filter.Status) &&
			(filter.ClientID == "" || inv.ClientID == filter.ClientID) &&
			(filter.CompanyID == "" || inv.CompanyID() == filter.CompanyID)
	}), nil
}
