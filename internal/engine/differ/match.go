package differ

import (
	"slices"

	"go.trai.ch/nixdiff/internal/core/domain"
)

// Matcher pairs the entries of both sides that share one logical name.
// Entries left over on either side are reported as removed or added.
type Matcher interface {
	Match(left, right []domain.StepID) (pairs []Pair, removed, added []domain.StepID)
}

// OrderMatcher pairs entries in their order of first appearance.
type OrderMatcher struct{}

// Match implements Matcher.
func (OrderMatcher) Match(left, right []domain.StepID) (pairs []Pair, removed, added []domain.StepID) {
	n := min(len(left), len(right))
	for i := range n {
		pairs = append(pairs, Pair{Left: left[i], Right: right[i]})
	}
	return pairs, left[n:], right[n:]
}

// groupByName buckets ids by logical name, keeping first-appearance order
// inside a bucket and ordering buckets by name.
func groupByName(ids []domain.StepID) map[string][]domain.StepID {
	groups := make(map[string][]domain.StepID)
	for _, id := range ids {
		name := id.LogicalName()
		groups[name] = append(groups[name], id)
	}
	return groups
}

type alignment struct {
	pairs   []namedPair
	removed []domain.InputRef
	added   []domain.InputRef
}

type namedPair struct {
	name string
	Pair
}

// align matches two id lists by logical name. Names are visited in sorted
// order so that the result does not depend on map iteration.
func align(m Matcher, left, right []domain.StepID) alignment {
	lg, rg := groupByName(left), groupByName(right)

	names := make([]string, 0, len(lg)+len(rg))
	for name := range lg {
		names = append(names, name)
	}
	for name := range rg {
		if _, ok := lg[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	var a alignment
	for _, name := range names {
		pairs, removed, added := m.Match(lg[name], rg[name])
		for _, p := range pairs {
			a.pairs = append(a.pairs, namedPair{name: name, Pair: p})
		}
		for _, id := range removed {
			a.removed = append(a.removed, domain.InputRef{Name: name, ID: id})
		}
		for _, id := range added {
			a.added = append(a.added, domain.InputRef{Name: name, ID: id})
		}
	}
	return a
}
