package replay

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryGuard keeps closed ids in process. Only suitable for a single
// connector instance.
type MemoryGuard struct {
	c *gocache.Cache
}

var _ Guard = (*MemoryGuard)(nil)

// NewMemoryGuard creates a guard whose entries expire after ttl.
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryGuard{c: gocache.New(ttl, time.Minute)}
}

func (g *MemoryGuard) Closed(_ context.Context, id string) (bool, error) {
	_, ok := g.c.Get(id)
	return ok, nil
}

func (g *MemoryGuard) Close(_ context.Context, id string) error {
	g.c.SetDefault(id, struct{}{})
	return nil
}

// Len returns the number of remembered ids.
func (g *MemoryGuard) Len() int { return g.c.ItemCount() }
