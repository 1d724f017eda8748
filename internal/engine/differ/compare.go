package differ

import (
	"bytes"
	"errors"
	"maps"
	"slices"

	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/engine/textdiff"
)

func diffString(a, b string) *domain.StringChange {
	if a == b {
		return nil
	}
	return &domain.StringChange{Old: a, New: b}
}

// diffArgs compares arguments as a sequence in which every argument is one
// line.
func diffArgs(a, b []string) *domain.TextDiff {
	if slices.Equal(a, b) {
		return nil
	}
	return &domain.TextDiff{
		Granularity: domain.GranularityLine,
		Edits:       textdiff.Diff(a, b),
	}
}

func diffEnv(a, b []domain.EnvVar, g domain.Granularity) *domain.EnvDiff {
	right := make(map[string]string, len(b))
	for _, e := range b {
		right[e.Name] = e.Value
	}
	left := make(map[string]struct{}, len(a))

	var d domain.EnvDiff
	for _, e := range a {
		left[e.Name] = struct{}{}
		v, ok := right[e.Name]
		switch {
		case !ok:
			d.Removed = append(d.Removed, e)
		case v != e.Value:
			d.Changed = append(d.Changed, domain.EnvChange{
				Name:  e.Name,
				Old:   e.Value,
				New:   v,
				Value: textdiff.Strings(e.Value, v, g),
			})
		}
	}
	for _, e := range b {
		if _, ok := left[e.Name]; !ok {
			d.Added = append(d.Added, e)
		}
	}

	if len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 {
		return nil
	}
	return &d
}

// diffOutputs compares outputs by name. Paths are ignored: they change
// whenever anything upstream changes.
func diffOutputs(a, b []domain.NamedOutput) *domain.OutputsDiff {
	right := make(map[string]domain.OutputSpec, len(b))
	for _, o := range b {
		right[o.Name] = o.OutputSpec
	}
	left := make(map[string]struct{}, len(a))

	var d domain.OutputsDiff
	for _, o := range a {
		left[o.Name] = struct{}{}
		spec, ok := right[o.Name]
		if !ok {
			d.Removed = append(d.Removed, o)
			continue
		}
		algo := diffString(o.HashAlgorithm, spec.HashAlgorithm)
		hash := diffString(o.Hash, spec.Hash)
		if algo != nil || hash != nil {
			d.Changed = append(d.Changed, domain.OutputChange{
				Name:          o.Name,
				HashAlgorithm: algo,
				Hash:          hash,
			})
		}
	}
	for _, o := range b {
		if _, ok := left[o.Name]; !ok {
			d.Added = append(d.Added, o)
		}
	}

	if len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 {
		return nil
	}
	return &d
}

// diffOutputSet compares the output names consumed from an aligned pair of
// input steps.
func diffOutputSet(a, b []string) *domain.OutputSetDiff {
	var d domain.OutputSetDiff
	for _, name := range b {
		if !slices.Contains(a, name) {
			d.Added = append(d.Added, name)
		}
	}
	for _, name := range a {
		if !slices.Contains(b, name) {
			d.Removed = append(d.Removed, name)
		}
	}
	if len(d.Added) == 0 && len(d.Removed) == 0 {
		return nil
	}
	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	return &d
}

func (d *Differ) diffSources(a, b []domain.StepID, g domain.Granularity) *domain.SourcesDiff {
	al := align(d.matcher, a, b)

	var sd domain.SourcesDiff
	for _, ref := range al.removed {
		sd.Removed = append(sd.Removed, ref.ID)
	}
	for _, ref := range al.added {
		sd.Added = append(sd.Added, ref.ID)
	}
	for _, p := range al.pairs {
		if p.Left == p.Right {
			continue
		}
		if c := d.compareSource(p.name, p.Left, p.Right, g); c != nil {
			sd.Changed = append(sd.Changed, *c)
		}
	}

	if len(sd.Added) == 0 && len(sd.Removed) == 0 && len(sd.Changed) == 0 {
		return nil
	}
	return &sd
}

// compareSource diffs the contents of two differently named sources. Sources
// that cannot be read are reported by path only; equal contents are dropped.
func (d *Differ) compareSource(name string, l, r domain.StepID, g domain.Granularity) *domain.SourceChange {
	c := &domain.SourceChange{Name: name, Left: l, Right: r}
	if d.sources == nil {
		return c
	}

	left, lerr := d.sources.ReadStep(l)
	right, rerr := d.sources.ReadStep(r)
	if lerr != nil || rerr != nil {
		return d.compareTrees(c, errors.Join(lerr, rerr))
	}

	if bytes.Equal(left, right) {
		return nil
	}
	if bytes.IndexByte(left, 0) >= 0 || bytes.IndexByte(right, 0) >= 0 {
		c.Binary = true
		return c
	}
	content := textdiff.Strings(string(left), string(right), g)
	c.Content = &content
	return c
}

// compareTrees diffs two sources that could not be read as files, which is
// what directories look like to the reader.
func (d *Differ) compareTrees(c *domain.SourceChange, readErr error) *domain.SourceChange {
	if d.trees == nil {
		d.logger.Debug("source not readable", "left", c.Left.String(), "right", c.Right.String(), "error", readErr)
		return c
	}

	left, err := d.trees.HashTree(c.Left)
	if err != nil {
		d.logger.Debug("source not readable", "path", c.Left.String(), "error", err)
		return c
	}
	right, err := d.trees.HashTree(c.Right)
	if err != nil {
		d.logger.Debug("source not readable", "path", c.Right.String(), "error", err)
		return c
	}

	var t domain.TreeDiff
	for _, name := range slices.Sorted(maps.Keys(left)) {
		sum, ok := right[name]
		switch {
		case !ok:
			t.Removed = append(t.Removed, name)
		case sum != left[name]:
			t.Changed = append(t.Changed, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(right)) {
		if _, ok := left[name]; !ok {
			t.Added = append(t.Added, name)
		}
	}

	if len(t.Added) == 0 && len(t.Removed) == 0 && len(t.Changed) == 0 {
		return nil
	}
	c.Tree = &t
	return c
}
