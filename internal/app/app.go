// Package app implements the application layer for nixdiff.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// IdenticalMessage is printed instead of a report when nothing differs.
const IdenticalMessage = "The derivations are identical."

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	resolver     ports.Resolver
	differ       ports.StepDiffer
	renderer     ports.ReportRenderer
	logger       ports.Logger
	stdout       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.Resolver,
	differ ports.StepDiffer,
	renderer ports.ReportRenderer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		resolver:     resolver,
		differ:       differ,
		renderer:     renderer,
		logger:       log,
		stdout:       os.Stdout,
	}
}

// WithStdout redirects the report. Used for testing.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// DiffOptions configuration for the Diff method. Nil fields fall back to the
// config file and then to the defaults.
type DiffOptions struct {
	ConfigPath   string
	Granularity  *domain.Granularity
	ContextLines *int
	Color        *domain.ColorMode
	Verbose      bool
	LogJSON      bool
}

// logConfigurer is implemented by loggers whose format can change at runtime.
type logConfigurer interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// Diff resolves both inputs, compares them and writes the report.
func (a *App) Diff(ctx context.Context, left, right string, opts DiffOptions) error {
	if lc, ok := a.logger.(logConfigurer); ok {
		lc.SetJSON(opts.LogJSON)
		lc.SetVerbose(opts.Verbose)
	}

	// 1. Settle the options
	options, err := a.options(opts)
	if err != nil {
		return err
	}

	// 2. Resolve both inputs
	if c, ok := a.resolver.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil {
				a.logger.Warn(fmt.Sprintf("failed to remove garbage collector roots: %v", cerr))
			}
		}()
	}

	var leftID, rightID domain.StepID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		leftID, err = a.resolver.Resolve(gctx, left)
		return err
	})
	g.Go(func() (err error) {
		rightID, err = a.resolver.Resolve(gctx, right)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// 3. Diff
	d, err := a.differ.Diff(ctx, leftID, rightID, options)
	if err != nil {
		return errors.Join(domain.ErrDiffFailed, err)
	}

	// 4. Report
	if d == nil {
		_, err := fmt.Fprintln(a.stdout, IdenticalMessage)
		return err
	}
	return a.renderer.Render(a.stdout, d, options)
}

func (a *App) options(opts DiffOptions) (domain.Options, error) {
	options, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return domain.Options{}, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Granularity != nil {
		options.Granularity = *opts.Granularity
	}
	if opts.ContextLines != nil {
		options.ContextLines = *opts.ContextLines
	}
	if opts.Color != nil {
		options.Color = *opts.Color
	}

	if err := options.Validate(); err != nil {
		return domain.Options{}, err
	}
	return options, nil
}
