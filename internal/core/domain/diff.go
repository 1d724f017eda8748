package domain

// Op is the kind of an edit in an edit script.
type Op int

const (
	// OpEqual marks units present on both sides.
	OpEqual Op = iota
	// OpDelete marks units only present on the old side.
	OpDelete
	// OpInsert marks units only present on the new side.
	OpInsert
)

// String returns a short name for the op.
func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Edit is a run of units sharing one op.
type Edit struct {
	Op    Op
	Units []string
}

// TextDiff is an edit script over units of a given granularity.
type TextDiff struct {
	Granularity Granularity
	Edits       []Edit
}

// Changed reports whether the script contains any insertion or deletion.
func (t TextDiff) Changed() bool {
	for _, e := range t.Edits {
		if e.Op != OpEqual {
			return true
		}
	}
	return false
}

// StringChange is an atomic old/new pair.
type StringChange struct {
	Old string
	New string
}

// EnvChange is an environment variable present on both sides with a
// different value.
type EnvChange struct {
	Name  string
	Old   string
	New   string
	Value TextDiff
}

// EnvDiff is the key-level and value-level difference of two environments.
type EnvDiff struct {
	Added   []EnvVar
	Removed []EnvVar
	Changed []EnvChange
}

// OutputChange is an output present on both sides whose fixed-output hash
// fields differ. The output path is never compared.
type OutputChange struct {
	Name          string
	HashAlgorithm *StringChange
	Hash          *StringChange
}

// OutputsDiff is the difference between two output mappings.
type OutputsDiff struct {
	Added   []NamedOutput
	Removed []NamedOutput
	Changed []OutputChange
}

// SourceChange is a pair of aligned input sources whose contents differ.
// Content is set for two differing text files and Tree for two differing
// directories. Neither is set when a side is binary or could not be read.
type SourceChange struct {
	Name    string
	Left    StepID
	Right   StepID
	Binary  bool
	Content *TextDiff
	Tree    *TreeDiff
}

// TreeDiff lists the files that differ between two source directories, as
// slash separated paths relative to the directory.
type TreeDiff struct {
	Added   []string
	Removed []string
	Changed []string
}

// SourcesDiff is the difference between two input source sets, aligned by
// logical name.
type SourcesDiff struct {
	Added   []StepID
	Removed []StepID
	Changed []SourceChange
}

// InputRef is an input step without a counterpart on the other side.
type InputRef struct {
	Name string
	ID   StepID
}

// OutputSetDiff is the difference between the output names consumed from an
// aligned pair of input steps.
type OutputSetDiff struct {
	Added   []string
	Removed []string
}

// InputChange is an aligned pair of input steps that is not identical.
// Diff is nil when only the consumed output names differ.
type InputChange struct {
	Name    string
	Left    StepID
	Right   StepID
	Outputs *OutputSetDiff
	Diff    *StepDiff
}

// StepDiff is a node of the diff tree. A nil *StepDiff means the two steps
// are identical for reporting purposes.
type StepDiff struct {
	Left  StepID
	Right StepID

	Platform      *StringChange
	Builder       *StringChange
	Args          *TextDiff
	Env           *EnvDiff
	Outputs       *OutputsDiff
	Sources       *SourcesDiff
	AddedInputs   []InputRef
	RemovedInputs []InputRef
	ChangedInputs []InputChange
}

// IsIdentical reports whether the node carries no difference at all.
func (d *StepDiff) IsIdentical() bool {
	if d == nil {
		return true
	}
	return d.Platform == nil &&
		d.Builder == nil &&
		d.Args == nil &&
		d.Env == nil &&
		d.Outputs == nil &&
		d.Sources == nil &&
		len(d.AddedInputs) == 0 &&
		len(d.RemovedInputs) == 0 &&
		len(d.ChangedInputs) == 0
}

// Mirror returns the diff as seen from the other side: left and right swap,
// additions become removals and insertions become deletions.
func (d *StepDiff) Mirror() *StepDiff {
	if d == nil {
		return nil
	}

	m := &StepDiff{
		Left:          d.Right,
		Right:         d.Left,
		Platform:      d.Platform.mirror(),
		Builder:       d.Builder.mirror(),
		AddedInputs:   d.RemovedInputs,
		RemovedInputs: d.AddedInputs,
	}

	if d.Args != nil {
		args := d.Args.Mirror()
		m.Args = &args
	}

	if d.Env != nil {
		env := &EnvDiff{Added: d.Env.Removed, Removed: d.Env.Added}
		for _, c := range d.Env.Changed {
			env.Changed = append(env.Changed, EnvChange{
				Name:  c.Name,
				Old:   c.New,
				New:   c.Old,
				Value: c.Value.Mirror(),
			})
		}
		m.Env = env
	}

	if d.Outputs != nil {
		out := &OutputsDiff{Added: d.Outputs.Removed, Removed: d.Outputs.Added}
		for _, c := range d.Outputs.Changed {
			out.Changed = append(out.Changed, OutputChange{
				Name:          c.Name,
				HashAlgorithm: c.HashAlgorithm.mirror(),
				Hash:          c.Hash.mirror(),
			})
		}
		m.Outputs = out
	}

	if d.Sources != nil {
		src := &SourcesDiff{Added: d.Sources.Removed, Removed: d.Sources.Added}
		for _, c := range d.Sources.Changed {
			sc := SourceChange{Name: c.Name, Left: c.Right, Right: c.Left, Binary: c.Binary}
			if c.Content != nil {
				content := c.Content.Mirror()
				sc.Content = &content
			}
			if c.Tree != nil {
				sc.Tree = &TreeDiff{Added: c.Tree.Removed, Removed: c.Tree.Added, Changed: c.Tree.Changed}
			}
			src.Changed = append(src.Changed, sc)
		}
		m.Sources = src
	}

	for _, c := range d.ChangedInputs {
		ic := InputChange{Name: c.Name, Left: c.Right, Right: c.Left, Diff: c.Diff.Mirror()}
		if c.Outputs != nil {
			ic.Outputs = &OutputSetDiff{Added: c.Outputs.Removed, Removed: c.Outputs.Added}
		}
		m.ChangedInputs = append(m.ChangedInputs, ic)
	}

	return m
}

// Mirror swaps insertions and deletions. Within a changed run the deletion
// stays in front.
func (t TextDiff) Mirror() TextDiff {
	edits := make([]Edit, len(t.Edits))
	for i, e := range t.Edits {
		switch e.Op {
		case OpDelete:
			e.Op = OpInsert
		case OpInsert:
			e.Op = OpDelete
		}
		edits[i] = e
	}
	for i := 1; i < len(edits); i++ {
		if edits[i-1].Op == OpInsert && edits[i].Op == OpDelete {
			edits[i-1], edits[i] = edits[i], edits[i-1]
		}
	}
	return TextDiff{Granularity: t.Granularity, Edits: edits}
}

func (c *StringChange) mirror() *StringChange {
	if c == nil {
		return nil
	}
	return &StringChange{Old: c.New, New: c.Old}
}
