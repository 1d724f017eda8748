package domain

import "go.trai.ch/zerr"

// DefaultContextLines is the number of unchanged units kept around a change.
const DefaultContextLines = 3

// Granularity selects the unit a text diff operates on.
type Granularity int

const (
	// GranularityLine diffs line by line. Each line keeps its terminator.
	GranularityLine Granularity = iota
	// GranularityWord diffs words and the whitespace runs between them.
	GranularityWord
	// GranularityCharacter diffs individual characters.
	GranularityCharacter
)

// String returns the flag spelling of the granularity.
func (g Granularity) String() string {
	switch g {
	case GranularityLine:
		return "line"
	case GranularityWord:
		return "word"
	case GranularityCharacter:
		return "character"
	default:
		return "unknown"
	}
}

// Unit returns the singular noun for one unit of this granularity.
func (g Granularity) Unit() string {
	switch g {
	case GranularityWord:
		return "word"
	case GranularityCharacter:
		return "character"
	default:
		return "line"
	}
}

// Set implements pflag.Value.
func (g *Granularity) Set(s string) error {
	parsed, err := ParseGranularity(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Type implements pflag.Value.
func (g *Granularity) Type() string {
	return "granularity"
}

// ParseGranularity parses "line", "word" or "character".
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "line":
		return GranularityLine, nil
	case "word":
		return GranularityWord, nil
	case "character", "char":
		return GranularityCharacter, nil
	default:
		return 0, withValue(ErrInvalidGranularity, s)
	}
}

// ColorMode selects whether the report is colorized.
type ColorMode int

const (
	// ColorAuto colorizes when the output is color capable and no-color was
	// not requested.
	ColorAuto ColorMode = iota
	// ColorAlways always colorizes.
	ColorAlways
	// ColorNever never colorizes.
	ColorNever
)

// String returns the flag spelling of the mode.
func (m ColorMode) String() string {
	switch m {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "unknown"
	}
}

// Set implements pflag.Value.
func (m *ColorMode) Set(s string) error {
	parsed, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *ColorMode) Type() string {
	return "mode"
}

// ParseColorMode parses "always", "auto" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return 0, withValue(ErrInvalidColorMode, s)
	}
}

// Options is the configuration surface of a diff run.
type Options struct {
	Granularity  Granularity
	ContextLines int
	Color        ColorMode
}

// DefaultOptions returns line granularity, three lines of context and
// automatic color.
func DefaultOptions() Options {
	return Options{
		Granularity:  GranularityLine,
		ContextLines: DefaultContextLines,
		Color:        ColorAuto,
	}
}

// Validate checks that the options are in range.
func (o Options) Validate() error {
	if o.ContextLines < 0 {
		return withValue(ErrInvalidContextLines, o.ContextLines)
	}
	if o.Granularity < GranularityLine || o.Granularity > GranularityCharacter {
		return withValue(ErrInvalidGranularity, int(o.Granularity))
	}
	if o.Color < ColorAuto || o.Color > ColorNever {
		return withValue(ErrInvalidColorMode, int(o.Color))
	}
	return nil
}

// withValue attaches the offending value while keeping errors.Is matching err.
func withValue(err error, value any) error {
	return zerr.With(zerr.Wrap(err, ""), "value", value)
}
