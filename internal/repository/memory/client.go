package memory

import (
	"context"

	"github.com/factupro/factupro/internal/cache"
	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/logger"
)

type clientRepository struct {
	store *store[client.Client]
	log   *logger.Logger
}

func NewClientRepository(c cache.Cache, log *logger.Logger) client.Repository {
	return &clientRepository{
		store: newStore[client.Client](c, cache.PrefixClient, "client"),
		log:   log,
	}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	r.log.Debugw("creating client", "client_id", c.ID, "name", c.Name)
	return r.store.create(ctx, c.ID, c)
}

func (r *clientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	r.log.Debugw("getting client", "client_id", id)
	return r.store.get(ctx, id)
}

// List returns clients sorted by name
func (r *clientRepository) List(ctx context.Context) ([]*client.Client, error) {
	return r.store.list(ctx, func(a, b *client.Client) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

func (r *clientRepository) Update(ctx context.Context, c *client.Client) error {
	r.log.Debugw("updating client", "client_id", c.ID)
	return r.store.update(ctx, c.ID, c)
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	r.log.Debugw("deleting client", "client_id", id)
	return r.store.delete(ctx, id)
}
