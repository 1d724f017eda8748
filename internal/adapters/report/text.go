package report

import (
	"strings"

	"github.com/dustin/go-humanize"
	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/engine/textdiff"
	"go.trai.ch/nixdiff/internal/ui/style"
)

// Markers used for inline changes when the report is not colored.
const (
	deleteOpen  = "[-"
	deleteClose = "-]"
	insertOpen  = "{+"
	insertClose = "+}"
)

// noNewline follows a line unit that lacks the trailing newline its
// counterpart on the other side has.
const noNewline = `\ No newline at end of file`

// skipText describes n unchanged units that were left out.
func skipText(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return style.Ellipsis + " " + humanize.Comma(int64(n)) + " unchanged " + unit
}

// script renders an edit script, line granularity one unit per row and the
// finer granularities inline.
func (p *printer) script(indent int, t domain.TextDiff) {
	chunks := textdiff.Window(t.Edits, p.context)
	if t.Granularity == domain.GranularityLine {
		oldMissing, newMissing := missingNewline(t.Edits)
		p.rows(indent, chunks, t.Granularity.Unit(), oldMissing, newMissing)
		return
	}
	p.inline(indent, chunks, t.Granularity.Unit())
}

func (p *printer) rows(indent int, chunks []textdiff.Chunk, unit string, oldMissing, newMissing bool) {
	lastOld, lastNew := -1, -1
	for i, c := range chunks {
		if c.IsSkip() {
			continue
		}
		if c.Op != domain.OpInsert {
			lastOld = i
		}
		if c.Op != domain.OpDelete {
			lastNew = i
		}
	}

	for i, c := range chunks {
		if c.IsSkip() {
			p.line(indent, p.faint(skipText(c.Skipped, unit)))
			continue
		}
		for _, u := range c.Units {
			switch c.Op {
			case domain.OpDelete:
				p.multiline(indent, style.Minus+" ", u, p.removed)
			case domain.OpInsert:
				p.multiline(indent, style.Plus+" ", u, p.added)
			default:
				p.multiline(indent, "  ", u, identity)
			}
		}
		if (i == lastOld && oldMissing) || (i == lastNew && newMissing) {
			p.line(indent, p.faint(noNewline))
		}
	}
}

// missingNewline reports which side ends in a unit without a trailing
// newline while the other side's last unit has one. Units of lists such as
// args never carry newlines and are not marked.
func missingNewline(edits []domain.Edit) (oldMissing, newMissing bool) {
	var oldLast, newLast string
	for _, e := range edits {
		if len(e.Units) == 0 {
			continue
		}
		u := e.Units[len(e.Units)-1]
		if e.Op != domain.OpInsert {
			oldLast = u
		}
		if e.Op != domain.OpDelete {
			newLast = u
		}
	}
	oldNL := strings.HasSuffix(oldLast, "\n")
	newNL := strings.HasSuffix(newLast, "\n")
	return oldLast != "" && !oldNL && newNL, newLast != "" && !newNL && oldNL
}

// inline renders all chunks as running text. Each physical line is painted
// on its own so that indentation never carries color. A removed or added
// newline shows as a return glyph inside its marker before the break.
func (p *printer) inline(indent int, chunks []textdiff.Chunk, unit string) {
	var (
		lines []string
		cur   strings.Builder
	)

	emit := func(text string, paint func(string) string, changed bool) {
		pieces := strings.Split(text, "\n")
		for i, piece := range pieces {
			if i > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
			}
			if changed && i < len(pieces)-1 {
				piece += style.Return
			}
			if piece != "" {
				cur.WriteString(paint(piece))
			}
		}
	}

	for i, c := range chunks {
		text := strings.Join(c.Units, "")
		switch {
		case c.IsSkip():
			marker := skipText(c.Skipped, unit)
			if i > 0 {
				marker = " " + marker
			}
			if i < len(chunks)-1 {
				marker += " "
			}
			emit(marker, p.faint, false)
		case c.Op == domain.OpDelete:
			emit(text, p.inlineDelete, true)
		case c.Op == domain.OpInsert:
			emit(text, p.inlineInsert, true)
		default:
			emit(text, identity, false)
		}
	}
	if cur.Len() > 0 || len(lines) == 0 {
		lines = append(lines, cur.String())
	}

	for _, l := range lines {
		p.line(indent, l)
	}
}

func (p *printer) inlineDelete(s string) string {
	if p.color {
		return p.removed(s)
	}
	return deleteOpen + s + deleteClose
}

func (p *printer) inlineInsert(s string) string {
	if p.color {
		return p.added(s)
	}
	return insertOpen + s + insertClose
}

func identity(s string) string { return s }
