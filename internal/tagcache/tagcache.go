// Package tagcache keeps recent tag lookups in memory or in Redis.
package tagcache

import (
	"context"
	"fmt"
	"time"

	"github.com/nhath/foodlog/internal/tags"
)

// Backend names accepted in Config.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// DefaultTTL applies when Config.TTL is zero.
const DefaultTTL = 5 * time.Minute

// Config selects and configures a cache backend.
type Config struct {
	Backend string
	TTL     time.Duration

	// Redis only.
	Addr     string
	Password string
	DB       int
}

// New builds the cache described by cfg. The none backend yields a nil
// cache, which tags.Service treats as no caching.
func New(ctx context.Context, cfg Config) (tags.Cache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(cfg.TTL), nil
	case BackendRedis:
		r, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}

func cloneTags(in []tags.Tag) []tags.Tag {
	out := make([]tags.Tag, len(in))
	copy(out, in)
	return out
}
