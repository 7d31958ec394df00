// Package symcache caches symbol lookups performed through the engine.
// Symbol resolution is the engine's own (and can be slow when it hits the
// symbol server); the cache only memoizes the answers.
package symcache

import (
	lru "github.com/hashicorp/golang-lru"
)

// Resolver resolves symbols. *dbgeng.Client implements it.
type Resolver interface {
	// SymbolAddress resolves a symbol name to its address.
	SymbolAddress(name string) (uint64, error)
	// SymbolName resolves an address to the nearest symbol name and the
	// displacement from its start.
	SymbolName(addr uint64) (string, uint64, error)
}

type nameEntry struct {
	name         string
	displacement uint64
}

// Cache is a two-way LRU cache of symbol lookups. Failed lookups are not
// cached; a symbol that could not be resolved once may resolve later, after
// a .reload or a module load.
type Cache struct {
	resolver Resolver
	byName   *lru.Cache
	byAddr   *lru.Cache
}

// New returns a Cache over resolver holding at most size entries per
// direction.
func New(resolver Resolver, size int) (*Cache, error) {
	byName, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	byAddr, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{resolver: resolver, byName: byName, byAddr: byAddr}, nil
}

// Address resolves a symbol name to its address.
func (c *Cache) Address(name string) (uint64, error) {
	if v, ok := c.byName.Get(name); ok {
		return v.(uint64), nil
	}
	addr, err := c.resolver.SymbolAddress(name)
	if err != nil {
		return 0, err
	}
	c.byName.Add(name, addr)
	return addr, nil
}

// Name resolves an address to the nearest symbol name and displacement.
func (c *Cache) Name(addr uint64) (string, uint64, error) {
	if v, ok := c.byAddr.Get(addr); ok {
		e := v.(nameEntry)
		return e.name, e.displacement, nil
	}
	name, displacement, err := c.resolver.SymbolName(addr)
	if err != nil {
		return "", 0, err
	}
	c.byAddr.Add(addr, nameEntry{name: name, displacement: displacement})
	return name, displacement, nil
}

// Flush empties both directions of the cache. Call it whenever the symbol
// state of the target may have changed.
func (c *Cache) Flush() {
	c.byName.Purge()
	c.byAddr.Purge()
}

// Len returns the number of cached entries in each direction.
func (c *Cache) Len() (names, addrs int) {
	return c.byName.Len(), c.byAddr.Len()
}
