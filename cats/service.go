// Package cats coordinates cat reads and writes across the store and the
// cache using the cache-aside pattern: reads consult the cache before the
// store and populate it on a miss; writes commit to the store first and
// then invalidate the affected keys.
//
// There is a narrow window between a store commit and the invalidation in
// which a concurrent reader can repopulate the cache from a pre-write read.
// That staleness is bounded by the key's TTL and is accepted rather than
// locked away.
package cats

import (
	"context"

	"go.uber.org/zap"

	"github.com/catops/catsvc/cache"
	"github.com/catops/catsvc/store"
)

// Service owns the cache-key lifecycle around the cat store. Construct one
// per process and pass it by handle into the HTTP layer.
type Service struct {
	store store.Store
	cache *cache.Client
	log   *zap.Logger
}

// New returns a Service over the given store and cache.
func New(st store.Store, c *cache.Client, log *zap.Logger) *Service {
	return &Service{store: st, cache: c, log: log}
}

// List returns every cat, cached under "cats:all".
func (s *Service) List(ctx context.Context) ([]store.Cat, error) {
	return cache.GetOrSet(ctx, s.cache, allKey, listTTL, s.store.FindAll)
}

// GetByID returns one cat, cached under "cat:<id>". A missing cat surfaces
// store.ErrNotFound and is never cached.
func (s *Service) GetByID(ctx context.Context, id int64) (store.Cat, error) {
	return cache.GetOrSet(ctx, s.cache, idKey(id), byIDTTL, func(ctx context.Context) (store.Cat, error) {
		return s.store.FindByID(ctx, id)
	})
}

// SearchByName returns the cats matching name, cached under
// "cat:name:<name>". Search entries are never invalidated on writes; they
// age out by TTL.
func (s *Service) SearchByName(ctx context.Context, name string) ([]store.Cat, error) {
	return cache.GetOrSet(ctx, s.cache, nameKey(name), searchTTL, func(ctx context.Context) ([]store.Cat, error) {
		return s.store.FindByName(ctx, name)
	})
}

// Create inserts a cat and invalidates the collection key.
func (s *Service) Create(ctx context.Context, cat store.Cat) (store.Cat, error) {
	created, err := s.store.Insert(ctx, cat)
	if err != nil {
		return store.Cat{}, err
	}
	s.invalidate(ctx, allKey)
	return created, nil
}

// Update applies a partial update and invalidates the collection key and
// the entity's id key. Returns store.ErrNotFound for an unknown id.
func (s *Service) Update(ctx context.Context, id int64, upd store.CatUpdate) (store.Cat, error) {
	updated, err := s.store.UpdatePartial(ctx, id, upd)
	if err != nil {
		return store.Cat{}, err
	}
	s.invalidate(ctx, allKey, idKey(id))
	return updated, nil
}

// Delete removes a cat and invalidates the collection key and the entity's
// id key. Deleting an absent id reports zero rows, not an error.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, allKey, idKey(id))
	return n, nil
}

// invalidate drops keys strictly after a committed write. Failures are
// logged and swallowed: the store already holds the new state and the
// entries still age out by TTL.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if !s.cache.Delete(ctx, key) {
			s.log.Debug("cache invalidation skipped", zap.String("key", key))
		}
	}
}
