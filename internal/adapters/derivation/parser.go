// Package derivation reads and writes the textual step description format:
//
//	Derive([outputs],[input steps],[input sources],"platform","builder",[args],[env])
package derivation

import (
	"strings"
	"unicode/utf8"

	"go.trai.ch/nixdiff/internal/core/domain"
)

const constructor = "Derive"

// Parse decodes one step description. It never returns a partial Step: any
// deviation from the grammar yields a *FormatError.
func Parse(data []byte) (*domain.Step, error) {
	if off := invalidUTF8Offset(data); off >= 0 {
		return nil, newFormatError(data, off, "invalid UTF-8 sequence")
	}

	p := &parser{data: data}
	step, err := p.parseDerive()
	if err != nil {
		return nil, err
	}
	return step, nil
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) fail(format string, args ...any) *FormatError {
	return newFormatError(p.data, p.pos, format, args...)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// eof is returned by peek at the end of input. It lies outside the byte
// range so a literal NUL in the data is never mistaken for it.
const eof = -1

// peek returns the next non-space byte without consuming it, or eof.
func (p *parser) peek() int {
	p.skipSpace()
	if p.pos >= len(p.data) {
		return eof
	}
	return int(p.data[p.pos])
}

func (p *parser) expect(c byte, context string) error {
	got := p.peek()
	if got == eof {
		return p.fail("unexpected end of input, expected %q in %s", c, context)
	}
	if got != int(c) {
		return p.fail("expected %q in %s, found %q", c, context, got)
	}
	p.pos++
	return nil
}

func (p *parser) parseDerive() (*domain.Step, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.data) && isIdentByte(p.data[p.pos]) {
		p.pos++
	}
	if name := string(p.data[start:p.pos]); name != constructor {
		p.pos = start
		if name == "" {
			return nil, p.fail("expected %s constructor", constructor)
		}
		return nil, p.fail("unexpected top-level constructor %q", name)
	}
	if err := p.expect('(', constructor); err != nil {
		return nil, err
	}

	step := &domain.Step{}
	var err error

	if step.Outputs, err = p.parseOutputs(); err != nil {
		return nil, err
	}
	if err := p.fieldSeparator(1); err != nil {
		return nil, err
	}
	if step.InputSteps, err = p.parseInputSteps(); err != nil {
		return nil, err
	}
	if err := p.fieldSeparator(2); err != nil {
		return nil, err
	}
	if step.InputSources, err = p.parseInputSources(); err != nil {
		return nil, err
	}
	if err := p.fieldSeparator(3); err != nil {
		return nil, err
	}
	if step.Platform, err = p.parseString("platform"); err != nil {
		return nil, err
	}
	if err := p.fieldSeparator(4); err != nil {
		return nil, err
	}
	if step.Builder, err = p.parseString("builder"); err != nil {
		return nil, err
	}
	if err := p.fieldSeparator(5); err != nil {
		return nil, err
	}
	if step.Args, err = p.parseStringList("args"); err != nil {
		return nil, err
	}
	if err := p.fieldSeparator(6); err != nil {
		return nil, err
	}
	if step.Env, err = p.parseEnv(); err != nil {
		return nil, err
	}

	switch p.peek() {
	case ')':
		p.pos++
	case ',':
		return nil, p.fail("wrong arity: %s expects 7 fields", constructor)
	case eof:
		return nil, p.fail("unexpected end of input, unterminated %s", constructor)
	default:
		return nil, p.fail("expected ')' closing %s, found %q", constructor, p.data[p.pos])
	}

	if p.peek() != eof {
		return nil, p.fail("unexpected trailing data after %s", constructor)
	}
	return step, nil
}

// fieldSeparator consumes the ',' that follows field n (1-based) of Derive.
func (p *parser) fieldSeparator(n int) error {
	switch p.peek() {
	case ',':
		p.pos++
		return nil
	case ')':
		return p.fail("wrong arity: %s expects 7 fields, got %d", constructor, n)
	case eof:
		return p.fail("unexpected end of input, unterminated %s", constructor)
	default:
		return p.fail("expected ',' after field %d of %s, found %q", n, constructor, p.data[p.pos])
	}
}

// parseList parses '[' elem (',' elem)* ']' calling elem for every element.
func (p *parser) parseList(context string, elem func() error) error {
	if err := p.expect('[', context); err != nil {
		return err
	}
	if p.peek() == ']' {
		p.pos++
		return nil
	}
	for {
		if err := elem(); err != nil {
			return err
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return nil
		case eof:
			return p.fail("unexpected end of input, unterminated list in %s", context)
		default:
			return p.fail("expected ',' or ']' in %s, found %q", context, p.data[p.pos])
		}
	}
}

// parseStringTuple parses a parenthesised tuple of exactly n strings.
func (p *parser) parseStringTuple(n int, context string) ([]string, error) {
	if err := p.expect('(', context); err != nil {
		return nil, err
	}
	fields := make([]string, 0, n)
	for {
		s, err := p.parseString(context)
		if err != nil {
			return nil, err
		}
		fields = append(fields, s)

		switch p.peek() {
		case ',':
			if len(fields) == n {
				return nil, p.fail("wrong arity: %s expects %d fields", context, n)
			}
			p.pos++
		case ')':
			if len(fields) != n {
				return nil, p.fail("wrong arity: %s expects %d fields, got %d", context, n, len(fields))
			}
			p.pos++
			return fields, nil
		case eof:
			return nil, p.fail("unexpected end of input, unterminated tuple in %s", context)
		default:
			return nil, p.fail("expected ',' or ')' in %s, found %q", context, p.data[p.pos])
		}
	}
}

func (p *parser) parseOutputs() ([]domain.NamedOutput, error) {
	var outputs []domain.NamedOutput
	seen := make(map[string]struct{})

	err := p.parseList("outputs", func() error {
		p.skipSpace()
		at := p.pos
		fields, err := p.parseStringTuple(4, "output")
		if err != nil {
			return err
		}
		if _, dup := seen[fields[0]]; dup {
			p.pos = at
			return p.fail("duplicate output %q", fields[0])
		}
		seen[fields[0]] = struct{}{}
		outputs = append(outputs, domain.NamedOutput{
			Name: fields[0],
			OutputSpec: domain.OutputSpec{
				Path:          domain.NewStepID(fields[1]),
				HashAlgorithm: fields[2],
				Hash:          fields[3],
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, p.fail("step declares no outputs")
	}
	return outputs, nil
}

func (p *parser) parseInputSteps() ([]domain.InputStep, error) {
	var inputs []domain.InputStep
	seen := make(map[string]struct{})

	err := p.parseList("input steps", func() error {
		if err := p.expect('(', "input step"); err != nil {
			return err
		}
		p.skipSpace()
		at := p.pos
		path, err := p.parseString("input step")
		if err != nil {
			return err
		}
		if _, dup := seen[path]; dup {
			p.pos = at
			return p.fail("duplicate input step %q", path)
		}
		seen[path] = struct{}{}

		if err := p.expect(',', "input step"); err != nil {
			return err
		}
		outs, err := p.parseStringList("input step outputs")
		if err != nil {
			return err
		}
		switch p.peek() {
		case ')':
			p.pos++
		case ',':
			return p.fail("wrong arity: input step expects 2 fields")
		case eof:
			return p.fail("unexpected end of input, unterminated tuple in input step")
		default:
			return p.fail("expected ')' in input step, found %q", p.data[p.pos])
		}

		inputs = append(inputs, domain.InputStep{ID: domain.NewStepID(path), Outputs: outs})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

func (p *parser) parseInputSources() ([]domain.StepID, error) {
	var sources []domain.StepID
	seen := make(map[string]struct{})

	err := p.parseList("input sources", func() error {
		p.skipSpace()
		at := p.pos
		s, err := p.parseString("input sources")
		if err != nil {
			return err
		}
		if _, dup := seen[s]; dup {
			p.pos = at
			return p.fail("duplicate input source %q", s)
		}
		seen[s] = struct{}{}
		sources = append(sources, domain.NewStepID(s))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func (p *parser) parseStringList(context string) ([]string, error) {
	var out []string
	err := p.parseList(context, func() error {
		s, err := p.parseString(context)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) parseEnv() ([]domain.EnvVar, error) {
	var env []domain.EnvVar
	seen := make(map[string]struct{})

	err := p.parseList("env", func() error {
		p.skipSpace()
		at := p.pos
		fields, err := p.parseStringTuple(2, "env entry")
		if err != nil {
			return err
		}
		if _, dup := seen[fields[0]]; dup {
			p.pos = at
			return p.fail("duplicate env variable %q", fields[0])
		}
		seen[fields[0]] = struct{}{}
		env = append(env, domain.EnvVar{Name: fields[0], Value: fields[1]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

// parseString decodes a double-quoted string. \n, \t and \r decode to control
// characters; any other escaped byte stands for itself.
func (p *parser) parseString(context string) (string, error) {
	if err := p.expect('"', context); err != nil {
		return "", err
	}
	start := p.pos

	// Fast path: no escapes.
	for i := start; i < len(p.data); i++ {
		switch p.data[i] {
		case '"':
			p.pos = i + 1
			return string(p.data[start:i]), nil
		case '\\':
			return p.parseEscapedString(start, context)
		}
	}
	p.pos = start - 1
	return "", p.fail("unterminated string in %s", context)
}

func (p *parser) parseEscapedString(start int, context string) (string, error) {
	var b strings.Builder
	b.Grow(64)

	for i := start; i < len(p.data); i++ {
		c := p.data[i]
		switch c {
		case '"':
			p.pos = i + 1
			return b.String(), nil
		case '\\':
			i++
			if i >= len(p.data) {
				p.pos = start - 1
				return "", p.fail("unterminated string in %s", context)
			}
			switch esc := p.data[i]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	p.pos = start - 1
	return "", p.fail("unterminated string in %s", context)
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
