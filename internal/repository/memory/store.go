// Package memory keeps records as JSON documents in the in-process key value cache.
package memory

import (
	"context"
	"sort"

	"github.com/factupro/factupro/internal/cache"
	ierr "github.com/factupro/factupro/internal/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// store serializes records so callers never share memory with the cache
type store[T any] struct {
	cache  cache.Cache
	prefix string
	entity string
}

func newStore[T any](c cache.Cache, prefix, entity string) *store[T] {
	return &store[T]{cache: c, prefix: prefix, entity: entity}
}

func (s *store[T]) key(id string) string {
	return cache.GenerateKey(s.prefix, id)
}

func (s *store[T]) encode(id string, item *T) ([]byte, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to store %s", s.entity).
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrSystem)
	}
	return data, nil
}

func (s *store[T]) decode(data interface{}) (*T, error) {
	raw, ok := data.([]byte)
	if !ok {
		return nil, ierr.NewErrorf("unexpected %s record type %T", s.entity, data).
			Mark(ierr.ErrSystem)
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Stored %s is corrupted", s.entity).
			Mark(ierr.ErrSystem)
	}
	return &item, nil
}

func (s *store[T]) notFound(id string) error {
	return ierr.NewErrorf("%s not found", s.entity).
		WithHintf("%s not found", s.entity).
		WithReportableDetails(map[string]any{"id": id}).
		Mark(ierr.ErrNotFound)
}

func (s *store[T]) create(ctx context.Context, id string, item *T) error {
	if id == "" {
		return ierr.NewErrorf("%s id is required", s.entity).
			Mark(ierr.ErrValidation)
	}

	data, err := s.encode(id, item)
	if err != nil {
		return err
	}

	if !s.cache.Add(ctx, s.key(id), data, cache.NoExpiration) {
		return ierr.NewErrorf("%s already exists", s.entity).
			WithHintf("A %s with this id already exists", s.entity).
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *store[T]) get(ctx context.Context, id string) (*T, error) {
	data, ok := s.cache.Get(ctx, s.key(id))
	if !ok {
		return nil, s.notFound(id)
	}
	return s.decode(data)
}

func (s *store[T]) update(ctx context.Context, id string, item *T) error {
	data, err := s.encode(id, item)
	if err != nil {
		return err
	}

	if !s.cache.Replace(ctx, s.key(id), data, cache.NoExpiration) {
		return s.notFound(id)
	}
	return nil
}

func (s *store[T]) delete(ctx context.Context, id string) error {
	if !s.cache.Delete(ctx, s.key(id)) {
		return s.notFound(id)
	}
	return nil
}

// list decodes every record and orders them with less
func (s *store[T]) list(ctx context.Context, less func(a, b *T) bool) ([]*T, error) {
	values := s.cache.Scan(ctx, s.prefix)

	items := make([]*T, 0, len(values))
	for _, v := range values {
		item, err := s.decode(v)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
	return items, nil
}
