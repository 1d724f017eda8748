package textdiff

import (
	"slices"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.trai.ch/nixdiff/internal/core/domain"
)

const (
	surrogateMin = 0xD800
	surrogateLen = 0x800
	maxSymbols   = 0x10FFFF + 1 - surrogateLen
)

// Diff computes a shortest edit script turning old into new.
//
// Every distinct unit is mapped to one rune and the rune sequences are handed
// to diffmatchpatch without a deadline, so the result only depends on the
// input. Within a changed run deletions precede insertions.
func Diff(old, new []string) []domain.Edit {
	if slices.Equal(old, new) {
		if len(old) == 0 {
			return nil
		}
		return []domain.Edit{{Op: domain.OpEqual, Units: slices.Clone(old)}}
	}

	enc := newEncoder()
	a, okA := enc.encode(old)
	b, okB := enc.encode(new)
	if !okA || !okB {
		return replaceAll(old, new)
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(a, b, false)

	var (
		edits   []domain.Edit
		deleted []string
		added   []string
	)
	flush := func() {
		if len(deleted) > 0 {
			edits = append(edits, domain.Edit{Op: domain.OpDelete, Units: deleted})
		}
		if len(added) > 0 {
			edits = append(edits, domain.Edit{Op: domain.OpInsert, Units: added})
		}
		deleted, added = nil, nil
	}

	for _, d := range diffs {
		units := enc.decode(d.Text)
		switch {
		case len(units) == 0:
		case d.Type == diffmatchpatch.DiffDelete:
			deleted = append(deleted, units...)
		case d.Type == diffmatchpatch.DiffInsert:
			added = append(added, units...)
		default:
			flush()
			if n := len(edits); n > 0 && edits[n-1].Op == domain.OpEqual {
				edits[n-1].Units = append(edits[n-1].Units, units...)
				continue
			}
			edits = append(edits, domain.Edit{Op: domain.OpEqual, Units: units})
		}
	}
	flush()
	return edits
}

// Strings splits both values at the given granularity and diffs them.
func Strings(old, new string, g domain.Granularity) domain.TextDiff {
	return domain.TextDiff{
		Granularity: g,
		Edits:       Diff(Split(old, g), Split(new, g)),
	}
}

// Apply reconstructs both sides of an edit script.
func Apply(edits []domain.Edit) (old, new []string) {
	for _, e := range edits {
		switch e.Op {
		case domain.OpEqual:
			old = append(old, e.Units...)
			new = append(new, e.Units...)
		case domain.OpDelete:
			old = append(old, e.Units...)
		case domain.OpInsert:
			new = append(new, e.Units...)
		}
	}
	return old, new
}

func replaceAll(old, new []string) []domain.Edit {
	var edits []domain.Edit
	if len(old) > 0 {
		edits = append(edits, domain.Edit{Op: domain.OpDelete, Units: slices.Clone(old)})
	}
	if len(new) > 0 {
		edits = append(edits, domain.Edit{Op: domain.OpInsert, Units: slices.Clone(new)})
	}
	return edits
}

// encoder assigns each distinct unit a rune outside the surrogate range, so
// that the string conversions inside diffmatchpatch are lossless.
type encoder struct {
	index map[string]rune
	units []string
}

func newEncoder() *encoder {
	return &encoder{index: make(map[string]rune)}
}

func (e *encoder) encode(units []string) ([]rune, bool) {
	runes := make([]rune, len(units))
	for i, u := range units {
		r, ok := e.index[u]
		if !ok {
			if len(e.units) >= maxSymbols {
				return nil, false
			}
			r = rune(len(e.units))
			if r >= surrogateMin {
				r += surrogateLen
			}
			e.index[u] = r
			e.units = append(e.units, u)
		}
		runes[i] = r
	}
	return runes, true
}

func (e *encoder) decode(text string) []string {
	var units []string
	for _, r := range text {
		i := int(r)
		if r >= surrogateMin+surrogateLen {
			i -= surrogateLen
		}
		units = append(units, e.units[i])
	}
	return units
}
