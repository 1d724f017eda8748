package textdiff

import "go.trai.ch/nixdiff/internal/core/domain"

// Chunk is one element of a windowed edit script. A chunk with Skipped > 0
// stands for that many unchanged units that were left out and carries no
// units of its own.
type Chunk struct {
	domain.Edit
	Skipped int
}

// IsSkip reports whether the chunk is a skip marker.
func (c Chunk) IsSkip() bool {
	return c.Skipped > 0
}

// Window keeps every insertion and deletion and at most context unchanged
// units on each side of them. Longer unchanged runs collapse into skip
// markers. A script without changes yields nil.
func Window(edits []domain.Edit, context int) []Chunk {
	if context < 0 {
		context = 0
	}
	if !(domain.TextDiff{Edits: edits}).Changed() {
		return nil
	}

	var chunks []Chunk
	last := len(edits) - 1
	for i, e := range edits {
		if e.Op != domain.OpEqual {
			chunks = append(chunks, Chunk{Edit: e})
			continue
		}

		n := len(e.Units)
		switch {
		case i == 0:
			chunks = appendSkip(chunks, n-context)
			chunks = appendEqual(chunks, e.Units[max(n-context, 0):])
		case i == last:
			chunks = appendEqual(chunks, e.Units[:min(context, n)])
			chunks = appendSkip(chunks, n-context)
		case n > 2*context:
			chunks = appendEqual(chunks, e.Units[:context])
			chunks = appendSkip(chunks, n-2*context)
			chunks = appendEqual(chunks, e.Units[n-context:])
		default:
			chunks = appendEqual(chunks, e.Units)
		}
	}
	return chunks
}

func appendSkip(chunks []Chunk, n int) []Chunk {
	if n <= 0 {
		return chunks
	}
	return append(chunks, Chunk{Skipped: n})
}

func appendEqual(chunks []Chunk, units []string) []Chunk {
	if len(units) == 0 {
		return chunks
	}
	return append(chunks, Chunk{Edit: domain.Edit{Op: domain.OpEqual, Units: units}})
}
