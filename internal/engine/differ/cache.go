package differ

import (
	"slices"
	"strings"

	"go.trai.ch/nixdiff/internal/core/domain"
)

type pairKey struct {
	lo, hi domain.StepID
}

func keyOf(a, b domain.StepID) pairKey {
	if strings.Compare(a.String(), b.String()) > 0 {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

type cacheEntry struct {
	pending bool
	left    domain.StepID
	result  *domain.StepDiff
}

// Cache memoizes the results of one top-level diff, keyed by the unordered
// pair of step identifiers. It is not safe for concurrent use.
type Cache struct {
	entries     map[pairKey]*cacheEntry
	provisional []Pair
}

// Pair is an ordered pair of step identifiers.
type Pair struct {
	Left  domain.StepID
	Right domain.StepID
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[pairKey]*cacheEntry)}
}

// Len returns the number of pairs that were compared or are being compared.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Provisional returns the pairs that were reported identical because they
// were reached again while still being compared.
func (c *Cache) Provisional() []Pair {
	return slices.Clone(c.provisional)
}

// lookup returns the stored result oriented as (a, b). found is false when
// the pair was never seen. A pending pair is reported found with a nil result.
func (c *Cache) lookup(a, b domain.StepID) (diff *domain.StepDiff, found, pending bool) {
	e, ok := c.entries[keyOf(a, b)]
	if !ok {
		return nil, false, false
	}
	if e.pending {
		c.provisional = append(c.provisional, Pair{Left: a, Right: b})
		return nil, true, true
	}
	if e.left != a {
		return e.result.Mirror(), true, false
	}
	return e.result, true, false
}

func (c *Cache) markPending(a, b domain.StepID) {
	c.entries[keyOf(a, b)] = &cacheEntry{pending: true, left: a}
}

func (c *Cache) store(a, b domain.StepID, d *domain.StepDiff) {
	c.entries[keyOf(a, b)] = &cacheEntry{left: a, result: d}
}

// forget drops a pending marker after a failed comparison.
func (c *Cache) forget(a, b domain.StepID) {
	delete(c.entries, keyOf(a, b))
}
