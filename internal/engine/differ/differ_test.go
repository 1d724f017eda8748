package differ_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nixdiff/internal/adapters/telemetry"
	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/core/ports/mocks"
	"go.trai.ch/nixdiff/internal/engine/differ"
	"go.uber.org/mock/gomock"
)

type fakeStore struct {
	steps map[domain.StepID]*domain.Step
	loads map[domain.StepID]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		steps: make(map[domain.StepID]*domain.Step),
		loads: make(map[domain.StepID]int),
	}
}

func (s *fakeStore) Load(id domain.StepID) (*domain.Step, error) {
	s.loads[id]++
	step, ok := s.steps[id]
	if !ok {
		return nil, &domain.StepLoadError{Step: id, Err: domain.ErrStepNotFound}
	}
	return step, nil
}

// add registers a step under /nix/store/<hash>-<name>.drv with the given
// inputs, each consuming "out".
func (s *fakeStore) add(hash, name string, mutate func(*domain.Step), inputs ...domain.StepID) domain.StepID {
	id := domain.NewStepID(fmt.Sprintf("/nix/store/%s-%s.drv", hash, name))
	step := &domain.Step{
		Outputs: []domain.NamedOutput{{
			Name:       "out",
			OutputSpec: domain.OutputSpec{Path: domain.NewStepID(fmt.Sprintf("/nix/store/%s-%s", hash, name))},
		}},
		Platform: "x86_64-linux",
		Builder:  "/bin/sh",
		Args:     []string{"-e", "builder.sh"},
		Env:      []domain.EnvVar{{Name: "name", Value: name}},
	}
	for _, in := range inputs {
		step.InputSteps = append(step.InputSteps, domain.InputStep{ID: in, Outputs: []string{"out"}})
	}
	if mutate != nil {
		mutate(step)
	}
	s.steps[id] = step
	return id
}

func newDiffer(t *testing.T, store *fakeStore, opts ...differ.Option) *differ.Differ {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return differ.New(store, log, telemetry.NewNoOpTracer(), opts...)
}

func TestDiff_SameIDIsIdentical(t *testing.T) {
	store := newFakeStore()
	id := store.add("aaa", "hello", nil)
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), id, id, domain.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, store.loads, "identical identifiers are never loaded")
}

func TestDiff_HashPropagationIsPruned(t *testing.T) {
	store := newFakeStore()
	leafA := store.add("a1", "zlib-1.3", nil)
	leafB := store.add("b1", "zlib-1.3", nil)
	midA := store.add("a2", "openssl-3.0", nil, leafA)
	midB := store.add("b2", "openssl-3.0", nil, leafB)
	rootA := store.add("a3", "curl-8.5", nil, midA, leafA)
	rootB := store.add("b3", "curl-8.5", nil, midB, leafB)
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), rootA, rootB, domain.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1, store.loads[leafA], "shared subgraphs are compared once")
}

func TestDiff_EnvChangedAndAdded(t *testing.T) {
	store := newFakeStore()
	a := store.add("aaa", "pkg", func(s *domain.Step) {
		s.Env = []domain.EnvVar{{Name: "FOO", Value: "1"}}
	})
	b := store.add("bbb", "pkg", func(s *domain.Step) {
		s.Env = []domain.EnvVar{{Name: "FOO", Value: "2"}, {Name: "BAR", Value: "x"}}
	})
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)

	require.NotNil(t, res.Env)
	assert.Equal(t, []domain.EnvVar{{Name: "BAR", Value: "x"}}, res.Env.Added)
	assert.Empty(t, res.Env.Removed)
	require.Len(t, res.Env.Changed, 1)
	assert.Equal(t, "FOO", res.Env.Changed[0].Name)
	assert.Equal(t, "1", res.Env.Changed[0].Old)
	assert.Equal(t, "2", res.Env.Changed[0].New)
	assert.True(t, res.Env.Changed[0].Value.Changed())

	assert.Nil(t, res.Platform)
	assert.Nil(t, res.Builder)
	assert.Nil(t, res.Args)
	assert.Nil(t, res.Outputs)
	assert.Empty(t, res.ChangedInputs)
}

func TestDiff_EnvValueUsesGranularity(t *testing.T) {
	store := newFakeStore()
	a := store.add("aaa", "pkg", func(s *domain.Step) {
		s.Env = []domain.EnvVar{{Name: "flags", Value: "-O2 -g"}}
	})
	b := store.add("bbb", "pkg", func(s *domain.Step) {
		s.Env = []domain.EnvVar{{Name: "flags", Value: "-O3 -g"}}
	})
	d := newDiffer(t, store)

	opts := domain.DefaultOptions()
	opts.Granularity = domain.GranularityWord

	res, err := d.Diff(context.Background(), a, b, opts)
	require.NoError(t, err)
	require.NotNil(t, res)

	value := res.Env.Changed[0].Value
	assert.Equal(t, domain.GranularityWord, value.Granularity)
	assert.Equal(t, []domain.Edit{
		{Op: domain.OpDelete, Units: []string{"-O2"}},
		{Op: domain.OpInsert, Units: []string{"-O3"}},
		{Op: domain.OpEqual, Units: []string{" ", "-g"}},
	}, value.Edits)
}

func TestDiff_AtomicFieldsAndArgs(t *testing.T) {
	store := newFakeStore()
	a := store.add("aaa", "pkg", nil)
	b := store.add("bbb", "pkg", func(s *domain.Step) {
		s.Platform = "aarch64-linux"
		s.Builder = "/bin/bash"
		s.Args = []string{"-e", "-x", "builder.sh"}
	})
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, &domain.StringChange{Old: "x86_64-linux", New: "aarch64-linux"}, res.Platform)
	assert.Equal(t, &domain.StringChange{Old: "/bin/sh", New: "/bin/bash"}, res.Builder)
	require.NotNil(t, res.Args)
	assert.Equal(t, domain.GranularityLine, res.Args.Granularity)
	assert.Equal(t, []domain.Edit{
		{Op: domain.OpEqual, Units: []string{"-e"}},
		{Op: domain.OpInsert, Units: []string{"-x"}},
		{Op: domain.OpEqual, Units: []string{"builder.sh"}},
	}, res.Args.Edits)
}

func TestDiff_OutputsIgnorePaths(t *testing.T) {
	store := newFakeStore()
	a := store.add("aaa", "src", func(s *domain.Step) {
		s.Outputs[0].HashAlgorithm = "sha256"
		s.Outputs[0].Hash = "0aaa"
	})
	b := store.add("bbb", "src", func(s *domain.Step) {
		s.Outputs[0].HashAlgorithm = "sha256"
		s.Outputs[0].Hash = "0bbb"
		s.Outputs = append(s.Outputs, domain.NamedOutput{Name: "doc"})
	})
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Outputs)

	require.Len(t, res.Outputs.Added, 1)
	assert.Equal(t, "doc", res.Outputs.Added[0].Name)
	require.Len(t, res.Outputs.Changed, 1)
	assert.Nil(t, res.Outputs.Changed[0].HashAlgorithm)
	assert.Equal(t, &domain.StringChange{Old: "0aaa", New: "0bbb"}, res.Outputs.Changed[0].Hash)
}

func TestDiff_InputAlignment(t *testing.T) {
	store := newFakeStore()
	libA := store.add("a1", "lib", nil)
	libB := store.add("b1", "lib", func(s *domain.Step) { s.Builder = "/bin/bash" })
	oldOnly := store.add("a2", "legacy", nil)
	newOnly := store.add("b2", "modern", nil)
	a := store.add("a3", "app", nil, libA, oldOnly)
	b := store.add("b3", "app", nil, newOnly, libB)
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, []domain.InputRef{{Name: "legacy.drv", ID: oldOnly}}, res.RemovedInputs)
	assert.Equal(t, []domain.InputRef{{Name: "modern.drv", ID: newOnly}}, res.AddedInputs)
	require.Len(t, res.ChangedInputs, 1)
	assert.Equal(t, "lib.drv", res.ChangedInputs[0].Name)
	assert.Equal(t, libA, res.ChangedInputs[0].Left)
	assert.Equal(t, libB, res.ChangedInputs[0].Right)
	require.NotNil(t, res.ChangedInputs[0].Diff)
	assert.NotNil(t, res.ChangedInputs[0].Diff.Builder)
	assert.Nil(t, res.ChangedInputs[0].Outputs)

	assert.Zero(t, store.loads[oldOnly], "unaligned inputs are not loaded")
	assert.Zero(t, store.loads[newOnly], "unaligned inputs are not loaded")
}

func TestDiff_DuplicateLogicalNames(t *testing.T) {
	store := newFakeStore()
	a1 := store.add("a1", "glibc", nil)
	a2 := store.add("a2", "glibc", func(s *domain.Step) { s.Args = []string{"other"} })
	b1 := store.add("b1", "glibc", nil)
	a := store.add("a9", "app", nil, a1, a2)
	b := store.add("b9", "app", nil, b1)
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, []domain.InputRef{{Name: "glibc.drv", ID: a2}}, res.RemovedInputs)
	assert.Empty(t, res.AddedInputs)
	assert.Empty(t, res.ChangedInputs, "a1 pairs with b1 and is identical")
}

func TestDiff_ConsumedOutputsKeepPair(t *testing.T) {
	store := newFakeStore()
	libA := store.add("a1", "lib", nil)
	libB := store.add("b1", "lib", nil)
	a := store.add("a2", "app", nil, libA)
	b := store.add("b2", "app", func(s *domain.Step) {
		s.InputSteps[0].Outputs = []string{"dev", "out"}
	}, libB)
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.ChangedInputs, 1)

	c := res.ChangedInputs[0]
	assert.Nil(t, c.Diff)
	assert.Equal(t, &domain.OutputSetDiff{Added: []string{"dev"}}, c.Outputs)
}

func TestDiff_Symmetry(t *testing.T) {
	store := newFakeStore()
	leafA := store.add("a1", "leaf", func(s *domain.Step) {
		s.Env = append(s.Env, domain.EnvVar{Name: "A", Value: "1"}, domain.EnvVar{Name: "X", Value: "one two"})
	})
	leafB := store.add("b1", "leaf", func(s *domain.Step) {
		s.Env = append(s.Env, domain.EnvVar{Name: "X", Value: "one three"}, domain.EnvVar{Name: "B", Value: "2"})
	})
	gone := store.add("a2", "gone", nil)
	a := store.add("a3", "root", nil, leafA, gone)
	b := store.add("b3", "root", func(s *domain.Step) {
		s.Builder = "/bin/bash"
		s.Args = []string{"-e", "new.sh"}
	}, leafB)
	d := newDiffer(t, store)

	opts := domain.DefaultOptions()
	opts.Granularity = domain.GranularityWord

	forward, err := d.Diff(context.Background(), a, b, opts)
	require.NoError(t, err)
	backward, err := d.Diff(context.Background(), b, a, opts)
	require.NoError(t, err)

	assert.Equal(t, forward.Mirror(), backward)
}

func TestDiffWithCache_ReversedLookupMirrors(t *testing.T) {
	store := newFakeStore()
	a := store.add("aaa", "pkg", nil)
	b := store.add("bbb", "pkg", func(s *domain.Step) { s.Builder = "/bin/bash" })
	d := newDiffer(t, store)
	cache := differ.NewCache()

	forward, err := d.DiffWithCache(context.Background(), a, b, domain.DefaultOptions(), cache)
	require.NoError(t, err)
	backward, err := d.DiffWithCache(context.Background(), b, a, domain.DefaultOptions(), cache)
	require.NoError(t, err)

	assert.Equal(t, forward.Mirror(), backward)
	assert.Equal(t, 1, store.loads[a], "second lookup is served from the cache")
	assert.Equal(t, 1, cache.Len())
}

func TestDiff_CycleTerminates(t *testing.T) {
	store := newFakeStore()
	idA1 := domain.NewStepID("/nix/store/a1-ping.drv")
	idB1 := domain.NewStepID("/nix/store/b1-pong.drv")
	idA2 := domain.NewStepID("/nix/store/a2-ping.drv")
	idB2 := domain.NewStepID("/nix/store/b2-pong.drv")
	store.add("a1", "ping", nil, idB1)
	store.add("b1", "pong", nil, idA1)
	store.add("a2", "ping", nil, idB2)
	store.add("b2", "pong", func(s *domain.Step) { s.Builder = "/bin/bash" }, idA2)
	d := newDiffer(t, store)
	cache := differ.NewCache()

	res, err := d.DiffWithCache(context.Background(), idA1, idA2, domain.DefaultOptions(), cache)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "pong.drv", res.ChangedInputs[0].Name)
	assert.Equal(t, []differ.Pair{{Left: idA1, Right: idA2}}, cache.Provisional())
}

func TestDiff_DeepEnvAndTopLevelBuilder(t *testing.T) {
	store := newFakeStore()
	leafA := store.add("a1", "leaf", nil)
	leafB := store.add("b1", "leaf", func(s *domain.Step) {
		s.Env = append(s.Env, domain.EnvVar{Name: "EXTRA", Value: "yes"})
	})
	quietA := store.add("a2", "quiet", nil)
	quietB := store.add("b2", "quiet", nil)
	midA := store.add("a3", "mid", nil, leafA)
	midB := store.add("b3", "mid", nil, leafB)
	rootA := store.add("a4", "root", nil, midA, quietA)
	rootB := store.add("b4", "root", func(s *domain.Step) { s.Builder = "/bin/bash" }, midB, quietB)
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), rootA, rootB, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, &domain.StringChange{Old: "/bin/sh", New: "/bin/bash"}, res.Builder)
	require.Len(t, res.ChangedInputs, 1, "the untouched sibling is omitted")
	mid := res.ChangedInputs[0]
	assert.Equal(t, "mid.drv", mid.Name)
	require.NotNil(t, mid.Diff)
	assert.Nil(t, mid.Diff.Env, "the intermediate level has no field changes")
	assert.Nil(t, mid.Diff.Builder)

	require.Len(t, mid.Diff.ChangedInputs, 1)
	leaf := mid.Diff.ChangedInputs[0]
	assert.Equal(t, "leaf.drv", leaf.Name)
	require.NotNil(t, leaf.Diff)
	assert.Equal(t, []domain.EnvVar{{Name: "EXTRA", Value: "yes"}}, leaf.Diff.Env.Added)
	assert.Nil(t, leaf.Diff.Builder)
}

func TestDiff_LoadFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	missing := domain.NewStepID("/nix/store/b1-dep.drv")
	depA := store.add("a1", "dep", nil)
	a := store.add("a2", "root", nil, depA)
	b := store.add("b2", "root", nil, missing)
	d := newDiffer(t, store)

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrStepLoadFailed)
	assert.ErrorIs(t, err, domain.ErrStepNotFound)

	var loadErr *domain.StepLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, missing, loadErr.Step)
}

func TestDiff_CanceledContext(t *testing.T) {
	store := newFakeStore()
	a := store.add("aaa", "pkg", nil)
	b := store.add("bbb", "pkg", nil)
	d := newDiffer(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Diff(ctx, a, b, domain.DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.loads)
}

func TestDiff_InvalidOptions(t *testing.T) {
	store := newFakeStore()
	d := newDiffer(t, store)

	opts := domain.DefaultOptions()
	opts.ContextLines = -1

	_, err := d.Diff(context.Background(), domain.NewStepID("/a"), domain.NewStepID("/b"), opts)
	assert.ErrorContains(t, err, "context lines must not be negative")
}

func TestDiff_Sources(t *testing.T) {
	store := newFakeStore()
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockStepReader(ctrl)

	srcs := map[string][]byte{
		"/nix/store/s1-build.sh": []byte("make\n"),
		"/nix/store/s2-build.sh": []byte("make -j4\n"),
		"/nix/store/s3-logo.png": {0x89, 0x00, 0x01},
		"/nix/store/s4-logo.png": {0x89, 0x00, 0x02},
		"/nix/store/s5-same.txt": []byte("same\n"),
		"/nix/store/s6-same.txt": []byte("same\n"),
	}
	reader.EXPECT().ReadStep(gomock.Any()).DoAndReturn(func(id domain.StepID) ([]byte, error) {
		data, ok := srcs[id.String()]
		if !ok {
			return nil, domain.ErrStepNotFound
		}
		return data, nil
	}).AnyTimes()

	ids := func(paths ...string) []domain.StepID { return domain.NewStepIDs(paths) }
	a := store.add("aaa", "pkg", func(s *domain.Step) {
		s.InputSources = ids(
			"/nix/store/s1-build.sh",
			"/nix/store/s3-logo.png",
			"/nix/store/s5-same.txt",
			"/nix/store/s7-patch.diff",
			"/nix/store/s9-old.txt",
		)
	})
	b := store.add("bbb", "pkg", func(s *domain.Step) {
		s.InputSources = ids(
			"/nix/store/s2-build.sh",
			"/nix/store/s4-logo.png",
			"/nix/store/s6-same.txt",
			"/nix/store/s8-patch.diff",
		)
	})
	d := newDiffer(t, store, differ.WithSourceReader(reader))

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, res.Sources)

	assert.Equal(t, ids("/nix/store/s9-old.txt"), res.Sources.Removed)
	assert.Empty(t, res.Sources.Added)
	require.Len(t, res.Sources.Changed, 3)

	script := res.Sources.Changed[0]
	assert.Equal(t, "build.sh", script.Name)
	assert.False(t, script.Binary)
	require.NotNil(t, script.Content)
	assert.Equal(t, []domain.Edit{
		{Op: domain.OpDelete, Units: []string{"make\n"}},
		{Op: domain.OpInsert, Units: []string{"make -j4\n"}},
	}, script.Content.Edits)

	logo := res.Sources.Changed[1]
	assert.Equal(t, "logo.png", logo.Name)
	assert.True(t, logo.Binary)
	assert.Nil(t, logo.Content)

	patch := res.Sources.Changed[2]
	assert.Equal(t, "patch.diff", patch.Name)
	assert.False(t, patch.Binary)
	assert.Nil(t, patch.Content, "unreadable sources are reported by path")
}

func TestDiff_SourceTrees(t *testing.T) {
	store := newFakeStore()
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockStepReader(ctrl)
	trees := mocks.NewMockTreeHasher(ctrl)

	reader.EXPECT().ReadStep(gomock.Any()).Return(nil, domain.ErrStepReadFailed).AnyTimes()

	hashes := map[string]map[string]uint64{
		"/nix/store/t1-src":  {"Makefile": 1, "main.c": 2, "old.h": 3},
		"/nix/store/t2-src":  {"Makefile": 1, "main.c": 5, "new.h": 4},
		"/nix/store/t3-docs": {"README": 7},
		"/nix/store/t4-docs": {"README": 7},
	}
	trees.EXPECT().HashTree(gomock.Any()).DoAndReturn(func(id domain.StepID) (map[string]uint64, error) {
		h, ok := hashes[id.String()]
		if !ok {
			return nil, domain.ErrNotADirectory
		}
		return h, nil
	}).AnyTimes()

	ids := func(paths ...string) []domain.StepID { return domain.NewStepIDs(paths) }
	a := store.add("aaa", "pkg", func(s *domain.Step) {
		s.InputSources = ids("/nix/store/t1-src", "/nix/store/t3-docs", "/nix/store/t5-patch")
	})
	b := store.add("bbb", "pkg", func(s *domain.Step) {
		s.InputSources = ids("/nix/store/t2-src", "/nix/store/t4-docs", "/nix/store/t6-patch")
	})
	d := newDiffer(t, store, differ.WithSourceReader(reader), differ.WithTreeHasher(trees))

	res, err := d.Diff(context.Background(), a, b, domain.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, res.Sources)
	require.Len(t, res.Sources.Changed, 2, "directories with equal contents are dropped")

	patch := res.Sources.Changed[0]
	assert.Equal(t, "patch", patch.Name)
	assert.Nil(t, patch.Tree, "sources that are neither files nor directories are reported by path")

	src := res.Sources.Changed[1]
	assert.Equal(t, "src", src.Name)
	require.NotNil(t, src.Tree)
	assert.Equal(t, &domain.TreeDiff{
		Added:   []string{"new.h"},
		Removed: []string{"old.h"},
		Changed: []string{"main.c"},
	}, src.Tree)

	mirrored := res.Mirror().Sources.Changed[1].Tree
	assert.Equal(t, []string{"old.h"}, mirrored.Added)
	assert.Equal(t, []string{"new.h"}, mirrored.Removed)
}
