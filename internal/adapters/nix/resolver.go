package nix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"go.trai.ch/nixdiff/internal/adapters/fs"
	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	nixCmd         = "nix"
	instantiateCmd = "nix-instantiate"
	storeCmd       = "nix-store"

	experimentalFlag = "--extra-experimental-features"
	experimental     = "nix-command flakes"

	// unknownDeriver is what nix-store prints for outputs without a deriver.
	unknownDeriver = "unknown-deriver"
)

// Resolver implements ports.Resolver. Instantiated steps are kept alive by
// garbage collector roots in temporary directories until Close.
type Resolver struct {
	runner ports.CommandRunner
	fsys   fs.FileSystem
	logger ports.Logger
	tracer ports.Tracer

	mu    sync.Mutex
	roots []string
}

// NewResolver creates a Resolver.
func NewResolver(runner ports.CommandRunner, fsys fs.FileSystem, logger ports.Logger, tracer ports.Tracer) *Resolver {
	return &Resolver{
		runner: runner,
		fsys:   fsys,
		logger: logger,
		tracer: tracer,
	}
}

// Resolve turns input into the StepID of its step description.
func (r *Resolver) Resolve(ctx context.Context, input string) (domain.StepID, error) {
	kind := Classify(input)

	ctx, span := r.tracer.Start(ctx, "resolve",
		ports.WithAttribute("input", input),
		ports.WithAttribute("kind", kind.String()))
	defer span.End()

	path, err := r.resolve(ctx, kind, input)
	if err != nil {
		err = &domain.ResolutionError{Input: input, Err: err}
		span.RecordError(err)
		return domain.StepID{}, err
	}

	r.logger.Debug("resolved input", "input", input, "kind", kind.String(), "step", path)
	return domain.NewStepID(path), nil
}

func (r *Resolver) resolve(ctx context.Context, kind InputKind, input string) (string, error) {
	switch kind {
	case KindStepPath:
		return filepath.Abs(input)
	case KindExpressionFile:
		file, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		return r.instantiate(ctx, file)
	case KindFlakeRef:
		return r.resolveFlake(ctx, input)
	default:
		return r.queryDeriver(ctx, input)
	}
}

func (r *Resolver) resolveFlake(ctx context.Context, ref string) (string, error) {
	flake, attr, _ := strings.Cut(ref, domain.FlakeAttrSeparator)
	if flake == "" || attr == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidFlakeRef, ""), "ref", ref)
	}

	out, err := r.runner.Run(ctx, nixCmd, experimentalFlag, experimental, "flake", "metadata", "--json", flake)
	if err != nil {
		return "", err
	}

	path := gjson.GetBytes(out, "path")
	narHash := gjson.GetBytes(out, "locked.narHash")
	if path.String() == "" || narHash.String() == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrFlakeMetadataInvalid, ""), "flake", flake)
	}

	expr := `(builtins.getFlake "path:` + path.String() + `?narHash=` + narHash.String() + `").` + attr
	return r.instantiate(ctx, "--expr", expr)
}

// instantiate runs nix-instantiate with an indirect root and follows it to
// the step description.
func (r *Resolver) instantiate(ctx context.Context, args ...string) (string, error) {
	dir, err := r.newRootDir()
	if err != nil {
		return "", zerr.Wrap(err, "failed to create garbage collector root directory")
	}

	args = append(args,
		experimentalFlag, experimental,
		"--add-root", filepath.Join(dir, domain.ResultLinkName), "--indirect")

	out, err := r.runner.Run(ctx, instantiateCmd, args...)
	if err != nil {
		return "", err
	}

	root := firstLine(out)
	target, err := r.fsys.ReadLink(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read garbage collector root"), "path", root)
	}
	if !strings.HasSuffix(target, domain.StepFileExt) {
		return "", zerr.With(zerr.New("nix-instantiate did not produce a step description"), "path", target)
	}
	return target, nil
}

func (r *Resolver) queryDeriver(ctx context.Context, input string) (string, error) {
	out, err := r.runner.Run(ctx, storeCmd, "--query", "--deriver", input)
	if err != nil {
		return "", err
	}

	deriver := firstLine(out)
	if deriver == "" || deriver == unknownDeriver {
		return "", zerr.With(zerr.Wrap(domain.ErrNoDeriver, ""), "path", input)
	}
	return deriver, nil
}

func (r *Resolver) newRootDir() (string, error) {
	dir, err := os.MkdirTemp("", domain.AppName+"-")
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.roots = append(r.roots, dir)
	r.mu.Unlock()
	return dir, nil
}

// Close removes the garbage collector roots created so far.
func (r *Resolver) Close() error {
	r.mu.Lock()
	roots := r.roots
	r.roots = nil
	r.mu.Unlock()

	var errs []error
	for _, dir := range roots {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func firstLine(out []byte) string {
	s, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(s)
}
