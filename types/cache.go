package types

import (
	"sync"

	"golang.org/x/crypto/blake2b"
)

// pairKey is a memoization key for a (t1, t2) type pair, computed from the
// first 16 bytes of the blake2b-256 hash of each type's canonical print -
// grounded on
// core/types/validation_cache.go's sha256-of-serialized-schema cache key,
// swapped for blake2b to match the content-id hash the teacher's own
// planfmt/idfactory.go uses elsewhere in the same codebase.
type pairKey [32]byte

func hashPrint(t *Type) [16]byte {
	h := blake2b.Sum256([]byte(Print(t)))
	var out [16]byte
	copy(out[:], h[:16])
	return out
}

func makePairKey(t1, t2 *Type) pairKey {
	a := hashPrint(t1)
	b := hashPrint(t2)
	var k pairKey
	copy(k[:16], a[:])
	copy(k[16:], b[:])
	return k
}

// Cache memoizes the result of a pairwise type-algebra operation (equal,
// subtype) keyed by type-identity pairs, per spec §4.A: "Implementers
// SHOULD cache subtype and equality results keyed by type-identity
// pairs". One Cache instance covers one operation; Algebra (see algebra.go)
// owns one Cache per memoized operation.
type Cache struct {
	mu    sync.RWMutex
	cache map[pairKey]bool

	hits   uint64
	misses uint64
}

// NewCache constructs an empty Cache.
func NewCache() *Cache {
	return &Cache{cache: make(map[pairKey]bool)}
}

func (c *Cache) get(t1, t2 *Type) (bool, bool) {
	k := makePairKey(t1, t2)
	c.mu.RLock()
	v, ok := c.cache[k]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
	} else {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
	}
	return v, ok
}

func (c *Cache) put(t1, t2 *Type, result bool) {
	k := makePairKey(t1, t2)
	c.mu.Lock()
	c.cache[k] = result
	c.mu.Unlock()
}

// Stats reports cache hit/miss counters, for tests and diagnostics.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
