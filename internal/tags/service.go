package tags

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"

	"github.com/nhath/foodlog/internal/logging"
)

// Source is the backing store of tags.
type Source interface {
	SearchTags(ctx context.Context, ns, partial string, limit int) ([]Tag, error)
}

// Cache keeps recent lookup results.
type Cache interface {
	Get(ctx context.Context, key string) ([]Tag, bool)
	Set(ctx context.Context, key string, tags []Tag)
	Clear(ctx context.Context) error
}

// CacheKey is the cache key of a lookup, independent of case.
func CacheKey(ns, partial string) string {
	fold := cases.Fold()
	return "tags:" + fold.String(ns) + Separator + fold.String(partial)
}

// Service answers delegated tag lookups, cache first.
type Service struct {
	source Source
	cache  Cache
	limit  int
}

// NewService creates a lookup service. cache may be nil.
func NewService(source Source, cache Cache, limit int) *Service {
	if limit <= 0 {
		limit = 20
	}
	return &Service{source: source, cache: cache, limit: limit}
}

// Lookup implements the Lookup signature for Evaluator.
func (s *Service) Lookup(ctx context.Context, ns, partial string) ([]Tag, error) {
	key := CacheKey(ns, partial)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			logging.Debug("tag lookup cache hit", "key", key, "count", len(cached))
			return cached, nil
		}
	}

	found, err := s.source.SearchTags(ctx, ns, partial, s.limit)
	if err != nil {
		logging.Warn("tag lookup failed", "namespace", ns, "partial", partial, "error", err)
		return nil, fmt.Errorf("lookup %s: %w", Tag{Namespace: ns, Name: partial}, err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, found)
	}
	logging.Debug("tag lookup", "namespace", ns, "partial", partial, "count", len(found))
	return found, nil
}

// Invalidate drops cached lookups, e.g. after a tag was created.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		logging.Warn("tag cache clear failed", "error", err)
	}
}
