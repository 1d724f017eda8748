package domain

import (
	"strings"
	"unique"
)

// StepID identifies a build step or source file by its store path.
// It wraps a unique.Handle[string] so that identifiers repeated across a large
// graph share storage and compare in constant time.
type StepID struct {
	h unique.Handle[string]
}

// NewStepID interns the given path as a StepID.
func NewStepID(path string) StepID {
	return StepID{h: unique.Make(path)}
}

// NewStepIDs interns every path in the slice.
func NewStepIDs(paths []string) []StepID {
	res := make([]StepID, len(paths))
	for i, p := range paths {
		res[i] = NewStepID(p)
	}
	return res
}

// IsZero reports whether the StepID was never assigned.
func (id StepID) IsZero() bool {
	return id == StepID{}
}

// String returns the full store path.
func (id StepID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.h.Value()
}

// LogicalName strips the directory and the hash qualifier from the path.
// "/nix/store/abc123-hello-2.12.drv" becomes "hello-2.12.drv". A base name
// without a '-' has no qualifier to strip and the full path is returned.
func (id StepID) LogicalName() string {
	s := id.String()
	base := s[strings.LastIndexByte(s, '/')+1:]
	if i := strings.IndexByte(base, '-'); i >= 0 {
		return base[i+1:]
	}
	return s
}

// Hash returns the hash qualifier of the path, or "" if there is none.
func (id StepID) Hash() string {
	s := id.String()
	base := s[strings.LastIndexByte(s, '/')+1:]
	if i := strings.IndexByte(base, '-'); i >= 0 {
		return base[:i]
	}
	return ""
}

// IsStepDescription reports whether the path names a step description file.
func (id StepID) IsStepDescription() bool {
	return strings.HasSuffix(id.String(), StepFileExt)
}

// MarshalText implements encoding.TextMarshaler.
func (id StepID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *StepID) UnmarshalText(text []byte) error {
	id.h = unique.Make(string(text))
	return nil
}

// CompareStepIDs orders identifiers by logical name and then by full path,
// which keeps reports stable regardless of the hashes involved.
func CompareStepIDs(a, b StepID) int {
	if c := strings.Compare(a.LogicalName(), b.LogicalName()); c != 0 {
		return c
	}
	return strings.Compare(a.String(), b.String())
}
