package derivation

import (
	"bytes"
	"strings"

	"go.trai.ch/nixdiff/internal/core/domain"
)

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Quote renders s as a string literal of the step format. Parsing the result
// yields s again.
func Quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// Format serialises a step in the canonical form, without whitespace.
func Format(step *domain.Step) []byte {
	var b bytes.Buffer
	b.WriteString(constructor)
	b.WriteString("([")

	for i, o := range step.Outputs {
		if i > 0 {
			b.WriteByte(',')
		}
		writeTuple(&b, o.Name, o.Path.String(), o.HashAlgorithm, o.Hash)
	}

	b.WriteString("],[")
	for i, in := range step.InputSteps {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		b.WriteString(Quote(in.ID.String()))
		b.WriteByte(',')
		writeList(&b, in.Outputs)
		b.WriteByte(')')
	}

	b.WriteString("],[")
	for i, src := range step.InputSources {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Quote(src.String()))
	}

	b.WriteString("],")
	b.WriteString(Quote(step.Platform))
	b.WriteByte(',')
	b.WriteString(Quote(step.Builder))
	b.WriteByte(',')
	writeList(&b, step.Args)

	b.WriteString(",[")
	for i, e := range step.Env {
		if i > 0 {
			b.WriteByte(',')
		}
		writeTuple(&b, e.Name, e.Value)
	}
	b.WriteString("])")

	return b.Bytes()
}

func writeTuple(b *bytes.Buffer, fields ...string) {
	b.WriteByte('(')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Quote(f))
	}
	b.WriteByte(')')
}

func writeList(b *bytes.Buffer, items []string) {
	b.WriteByte('[')
	for i, s := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Quote(s))
	}
	b.WriteByte(']')
}
