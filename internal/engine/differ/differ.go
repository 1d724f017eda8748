// Package differ compares two build steps and, recursively, their inputs.
//
// Inputs are aligned by logical name, so a dependency whose identifier only
// changed because something further upstream changed is reported as identical
// when none of its comparable fields differ.
package differ

import (
	"context"

	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/core/ports"
	"go.trai.ch/zerr"
)

// Differ produces diff trees. It holds no per-run state and may be reused.
type Differ struct {
	store   ports.StepStore
	sources ports.StepReader
	trees   ports.TreeHasher
	matcher Matcher
	logger  ports.Logger
	tracer  ports.Tracer
}

// Option configures a Differ.
type Option func(*Differ)

// WithMatcher replaces the default OrderMatcher.
func WithMatcher(m Matcher) Option {
	return func(d *Differ) {
		d.matcher = m
	}
}

// WithSourceReader enables content comparison of input sources.
func WithSourceReader(r ports.StepReader) Option {
	return func(d *Differ) {
		d.sources = r
	}
}

// WithTreeHasher enables file by file comparison of source directories.
func WithTreeHasher(h ports.TreeHasher) Option {
	return func(d *Differ) {
		d.trees = h
	}
}

// New creates a Differ loading steps from store.
func New(store ports.StepStore, logger ports.Logger, tracer ports.Tracer, opts ...Option) *Differ {
	d := &Differ{
		store:   store,
		matcher: OrderMatcher{},
		logger:  logger,
		tracer:  tracer,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diff compares steps a and b with a fresh cache. A nil result means the two
// steps are identical for reporting purposes.
func (d *Differ) Diff(ctx context.Context, a, b domain.StepID, opts domain.Options) (*domain.StepDiff, error) {
	return d.DiffWithCache(ctx, a, b, opts, NewCache())
}

// DiffWithCache is Diff with a caller supplied cache.
func (d *Differ) DiffWithCache(
	ctx context.Context,
	a, b domain.StepID,
	opts domain.Options,
	cache *Cache,
) (*domain.StepDiff, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ctx, span := d.tracer.Start(ctx, "diff",
		ports.WithAttribute("left", a.String()),
		ports.WithAttribute("right", b.String()),
	)
	defer span.End()

	res, err := d.diff(ctx, a, b, opts.Granularity, cache)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("pairs", cache.Len())
	d.logger.Debug("diff complete",
		"pairs", cache.Len(),
		"provisional", len(cache.provisional),
		"identical", res == nil,
	)
	return res, nil
}

func (d *Differ) diff(
	ctx context.Context,
	a, b domain.StepID,
	g domain.Granularity,
	cache *Cache,
) (*domain.StepDiff, error) {
	if a == b {
		return nil, nil
	}

	if res, found, pending := cache.lookup(a, b); found {
		if pending {
			d.logger.Debug("pair reached while being compared, assuming identical",
				"left", a.String(), "right", b.String())
		}
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, "diff aborted")
	}

	cache.markPending(a, b)
	res, err := d.compare(ctx, a, b, g, cache)
	if err != nil {
		cache.forget(a, b)
		return nil, err
	}
	cache.store(a, b, res)
	return res, nil
}

func (d *Differ) compare(
	ctx context.Context,
	a, b domain.StepID,
	g domain.Granularity,
	cache *Cache,
) (*domain.StepDiff, error) {
	ctx, span := d.tracer.Start(ctx, "diff.step",
		ports.WithAttribute("left", a.String()),
		ports.WithAttribute("right", b.String()),
	)
	defer span.End()

	left, err := d.store.Load(a)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	right, err := d.store.Load(b)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res := &domain.StepDiff{
		Left:     a,
		Right:    b,
		Platform: diffString(left.Platform, right.Platform),
		Builder:  diffString(left.Builder, right.Builder),
		Args:     diffArgs(left.Args, right.Args),
		Env:      diffEnv(left.Env, right.Env, g),
		Outputs:  diffOutputs(left.Outputs, right.Outputs),
		Sources:  d.diffSources(left.InputSources, right.InputSources, g),
	}

	al := align(d.matcher, left.InputStepIDs(), right.InputStepIDs())
	res.RemovedInputs = al.removed
	res.AddedInputs = al.added

	for _, p := range al.pairs {
		nested, err := d.diff(ctx, p.Left, p.Right, g, cache)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		outs := diffOutputSet(left.ConsumedOutputs(p.Left), right.ConsumedOutputs(p.Right))
		if nested == nil && outs == nil {
			continue
		}
		res.ChangedInputs = append(res.ChangedInputs, domain.InputChange{
			Name:    p.name,
			Left:    p.Left,
			Right:   p.Right,
			Outputs: outs,
			Diff:    nested,
		})
	}

	if res.IsIdentical() {
		span.SetAttribute("identical", true)
		return nil, nil
	}
	span.SetAttribute("identical", false)
	return res, nil
}
