package tagcache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/nhath/foodlog/internal/tags"
)

// Memory is an in-process cache with per-entry expiry.
type Memory struct {
	c *cache.Cache
}

// NewMemory creates a cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: cache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]tags.Tag, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}
	return cloneTags(v.([]tags.Tag)), true
}

func (m *Memory) Set(_ context.Context, key string, t []tags.Tag) {
	m.c.SetDefault(key, cloneTags(t))
}

func (m *Memory) Clear(context.Context) error {
	m.c.Flush()
	return nil
}
