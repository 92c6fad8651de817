package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"listings_admin/internal/domain"
)

// ResourceService is the CRUD service shared by every record kind.
// Reads go through the cache; every write drops the list key and the id key.
type ResourceService[R domain.Record[F], F any] struct {
	kind     Kind
	store    domain.Store[R, F]
	cache    domain.Cache
	cacheTTL time.Duration

	// gen is bumped when a write starts and again when it finishes. A read
	// only fills the cache if gen did not move while it was at the store.
	gen atomic.Uint64
}

func NewResourceService[R domain.Record[F], F any](k Kind, st domain.Store[R, F], c domain.Cache, ttl time.Duration) *ResourceService[R, F] {
	if c == nil {
		c = NopCache{}
	}
	return &ResourceService[R, F]{kind: k, store: st, cache: c, cacheTTL: ttl}
}

func (s *ResourceService[R, F]) Kind() Kind { return s.kind }

func (s *ResourceService[R, F]) listKey() string       { return s.kind.Name + ":list" }
func (s *ResourceService[R, F]) idKey(id int64) string { return fmt.Sprintf("%s:%d", s.kind.Name, id) }

func (s *ResourceService[R, F]) List(ctx context.Context) ([]R, error) {
	key := s.listKey()
	var out []R
	if ok, _ := s.cache.Get(ctx, key, &out); ok && out != nil {
		return out, nil
	}
	gen := s.gen.Load()
	rs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, gen, key, rs)
	return rs, nil
}

func (s *ResourceService[R, F]) Get(ctx context.Context, id int64) (R, error) {
	key := s.idKey(id)
	var r R
	if ok, _ := s.cache.Get(ctx, key, &r); ok {
		return r, nil
	}
	gen := s.gen.Load()
	r, err := s.store.Get(ctx, id)
	if err != nil {
		var zero R
		return zero, err
	}
	s.fill(ctx, gen, key, r)
	return r, nil
}

// fill caches v unless a write began or ended since gen was read.
func (s *ResourceService[R, F]) fill(ctx context.Context, gen uint64, key string, v any) {
	if s.gen.Load() != gen {
		return
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
}

func (s *ResourceService[R, F]) beginWrite() { s.gen.Add(1) }

func (s *ResourceService[R, F]) invalidate(ctx context.Context, id int64) {
	s.gen.Add(1)
	_ = s.cache.Del(ctx, s.listKey(), s.idKey(id))
}

// NopCache is used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any, int) error    { return nil }
func (NopCache) Del(context.Context, ...string) error           { return nil }
