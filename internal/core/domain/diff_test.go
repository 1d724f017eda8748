package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/nixdiff/internal/core/domain"
)

func TestStepDiff_IsIdentical(t *testing.T) {
	var nilDiff *domain.StepDiff
	assert.True(t, nilDiff.IsIdentical())
	assert.True(t, (&domain.StepDiff{}).IsIdentical())
	assert.False(t, (&domain.StepDiff{Builder: &domain.StringChange{Old: "a", New: "b"}}).IsIdentical())
	assert.False(t, (&domain.StepDiff{AddedInputs: []domain.InputRef{{Name: "x"}}}).IsIdentical())
}

func TestTextDiff_Changed(t *testing.T) {
	assert.False(t, domain.TextDiff{}.Changed())
	assert.False(t, domain.TextDiff{Edits: []domain.Edit{{Op: domain.OpEqual, Units: []string{"a"}}}}.Changed())
	assert.True(t, domain.TextDiff{Edits: []domain.Edit{{Op: domain.OpInsert, Units: []string{"a"}}}}.Changed())
}

func TestStepDiff_Mirror(t *testing.T) {
	left := domain.NewStepID("/nix/store/aaa-root.drv")
	right := domain.NewStepID("/nix/store/bbb-root.drv")
	depL := domain.NewStepID("/nix/store/ccc-dep.drv")
	depR := domain.NewStepID("/nix/store/ddd-dep.drv")

	d := &domain.StepDiff{
		Left:    left,
		Right:   right,
		Builder: &domain.StringChange{Old: "/bin/sh", New: "/bin/bash"},
		Env: &domain.EnvDiff{
			Added: []domain.EnvVar{{Name: "BAR", Value: "x"}},
			Changed: []domain.EnvChange{{
				Name: "FOO", Old: "1", New: "2",
				Value: domain.TextDiff{Edits: []domain.Edit{
					{Op: domain.OpDelete, Units: []string{"1"}},
					{Op: domain.OpInsert, Units: []string{"2"}},
				}},
			}},
		},
		AddedInputs: []domain.InputRef{{Name: "new.drv", ID: depR}},
		ChangedInputs: []domain.InputChange{{
			Name: "dep.drv", Left: depL, Right: depR,
			Outputs: &domain.OutputSetDiff{Added: []string{"dev"}},
		}},
	}

	m := d.Mirror()

	assert.Equal(t, right, m.Left)
	assert.Equal(t, left, m.Right)
	assert.Equal(t, &domain.StringChange{Old: "/bin/bash", New: "/bin/sh"}, m.Builder)
	assert.Equal(t, []domain.EnvVar{{Name: "BAR", Value: "x"}}, m.Env.Removed)
	assert.Empty(t, m.Env.Added)
	assert.Equal(t, "2", m.Env.Changed[0].Old)
	assert.Equal(t, []domain.Edit{
		{Op: domain.OpDelete, Units: []string{"2"}},
		{Op: domain.OpInsert, Units: []string{"1"}},
	}, m.Env.Changed[0].Value.Edits)
	assert.Equal(t, d.AddedInputs, m.RemovedInputs)
	assert.Equal(t, depR, m.ChangedInputs[0].Left)
	assert.Equal(t, []string{"dev"}, m.ChangedInputs[0].Outputs.Removed)

	assert.Equal(t, d, m.Mirror())
}
