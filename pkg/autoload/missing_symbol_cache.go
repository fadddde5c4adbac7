package autoload

import "sync"

// MissingSymbolCache is the set of symbols known to have no file under a
// resolver root. Entries are never removed: a file created after a miss is
// not picked up until the owning resolver is rebuilt.
type MissingSymbolCache struct {
	mu      sync.Mutex
	symbols map[string]struct{}
}

// NewMissingSymbolCache constructs an empty cache.
func NewMissingSymbolCache() *MissingSymbolCache {
	return &MissingSymbolCache{
		symbols: make(map[string]struct{}),
	}
}

// Has reports whether symbol was marked missing.
func (c *MissingSymbolCache) Has(symbol string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.symbols[symbol]
	return ok
}

// Add marks symbol as missing.
func (c *MissingSymbolCache) Add(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.symbols[symbol] = struct{}{}
}

// Len returns the number of cached misses.
func (c *MissingSymbolCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.symbols)
}
