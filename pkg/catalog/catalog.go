// Package catalog is the minimal concrete shape of spec.md §1's
// "deployment catalog" external collaborator: a read-only lookup from a
// pool's config key to its immutable metadata (mints, decimals, fee
// parameters, slope, reserve limits). The pricing core treats whatever
// this returns as frozen input; nothing in pkg/quote or pkg/curve ever
// mutates it.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/oraclecurve/amm-core/pkg/amm"
)

// Catalog resolves a pool's deployment metadata by config key.
type Catalog interface {
	Pool(ctx context.Context, configKey string) (*amm.SwapInfo, error)
}

// StaticCatalog is a map-backed Catalog for tests, examples, and CLI use
// without network access. The zero value is not usable; construct with
// NewStaticCatalog.
type StaticCatalog struct {
	mu    sync.RWMutex
	pools map[string]amm.SwapInfo
}

// NewStaticCatalog builds an empty StaticCatalog.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{pools: make(map[string]amm.SwapInfo)}
}

// Register adds or replaces a pool entry, keyed by its own ConfigKey.
func (c *StaticCatalog) Register(info amm.SwapInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools[info.ConfigKey] = info
}

// Pool implements Catalog. The returned pointer is a copy: callers may
// not mutate a registered entry through it.
func (c *StaticCatalog) Pool(ctx context.Context, configKey string) (*amm.SwapInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.pools[configKey]
	if !ok {
		return nil, fmt.Errorf("catalog: pool %q not found", configKey)
	}
	cp := info
	return &cp, nil
}
