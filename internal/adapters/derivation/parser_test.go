package derivation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nixdiff/internal/adapters/derivation"
	"go.trai.ch/nixdiff/internal/core/domain"
)

const helloDrv = `Derive([("out","/nix/store/p1-hello-2.12","","")],` +
	`[("/nix/store/d1-bash-5.2.drv",["out"]),("/nix/store/d2-stdenv-linux.drv",["dev","out"])],` +
	`["/nix/store/s1-default-builder.sh"],"x86_64-linux","/nix/store/b1-bash-5.2/bin/bash",` +
	`["-e","/nix/store/s1-default-builder.sh"],` +
	`[("builder","/nix/store/b1-bash-5.2/bin/bash"),("name","hello-2.12"),` +
	`("out","/nix/store/p1-hello-2.12"),("system","x86_64-linux")])`

func TestParse_Valid(t *testing.T) {
	step, err := derivation.Parse([]byte(helloDrv))
	require.NoError(t, err)

	require.Len(t, step.Outputs, 1)
	assert.Equal(t, "out", step.Outputs[0].Name)
	assert.Equal(t, "/nix/store/p1-hello-2.12", step.Outputs[0].Path.String())
	assert.Empty(t, step.Outputs[0].HashAlgorithm)

	require.Len(t, step.InputSteps, 2)
	assert.Equal(t, "bash-5.2.drv", step.InputSteps[0].ID.LogicalName())
	assert.Equal(t, []string{"dev", "out"}, step.InputSteps[1].Outputs)

	assert.Equal(t, []domain.StepID{domain.NewStepID("/nix/store/s1-default-builder.sh")}, step.InputSources)
	assert.Equal(t, "x86_64-linux", step.Platform)
	assert.Equal(t, "/nix/store/b1-bash-5.2/bin/bash", step.Builder)
	assert.Equal(t, []string{"-e", "/nix/store/s1-default-builder.sh"}, step.Args)

	name, ok := step.EnvValue("name")
	assert.True(t, ok)
	assert.Equal(t, "hello-2.12", name)
	assert.Equal(t, "system", step.Env[3].Name, "env keeps source order")
}

func TestParse_FixedOutput(t *testing.T) {
	src := `Derive([("out","/nix/store/f-src.tar.gz","sha256","0abc")],[],[],"builtin","builtin:fetchurl",[],[("url","https://example.org/src.tar.gz")])`

	step, err := derivation.Parse([]byte(src))
	require.NoError(t, err)

	out, ok := step.Output("out")
	require.True(t, ok)
	assert.Equal(t, "sha256", out.HashAlgorithm)
	assert.Equal(t, "0abc", out.Hash)
	assert.Empty(t, step.InputSteps)
	assert.Empty(t, step.Args)
}

func TestParse_Whitespace(t *testing.T) {
	src := "Derive(\n  [ ( \"out\" , \"/p\" , \"\" , \"\" ) ] ,\n  [ ] , [ ] ,\n  \"x\" , \"b\" ,\n  [ \"a\" ] ,\n  [ ]\n)\n"

	step, err := derivation.Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, step.Args)
}

func TestParse_Escapes(t *testing.T) {
	src := `Derive([("out","/p","","")],[],[],"x","b",` +
		`["a\"b","c\\d","line1\nline2","tab\there","cr\r","\x"],[])`

	step, err := derivation.Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{
		`a"b`,
		`c\d`,
		"line1\nline2",
		"tab\there",
		"cr\r",
		"x",
	}, step.Args)
}

func TestParse_Unicode(t *testing.T) {
	src := `Derive([("out","/p","","")],[],[],"x","b",["café ✓"],[])`

	step, err := derivation.Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"café ✓"}, step.Args)
}

func TestFormat_RoundTrip(t *testing.T) {
	sources := []string{
		helloDrv,
		`Derive([("out","/p","","")],[],[],"x","b",["a\"b","c\\d","line1\nline2","tab\there","cr\r"],[("script","#!/bin/sh\necho \"hi\"\n")])`,
	}

	for _, src := range sources {
		step, err := derivation.Parse([]byte(src))
		require.NoError(t, err)
		assert.Equal(t, src, string(derivation.Format(step)))
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, derivation.Quote("plain"))
	assert.Equal(t, `"a\"b\\c\nd\te\rf"`, derivation.Quote("a\"b\\c\nd\te\rf"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "empty input",
			input:   "",
			wantMsg: "expected Derive constructor",
		},
		{
			name:    "unexpected constructor",
			input:   `DrvWithVersion("xp",[],[],[],"x","b",[],[])`,
			wantMsg: `unexpected top-level constructor "DrvWithVersion"`,
		},
		{
			name:    "missing closing paren",
			input:   helloDrv[:len(helloDrv)-1],
			wantMsg: "unterminated Derive",
		},
		{
			name:    "unterminated list",
			input:   `Derive([("out","/p","","")`,
			wantMsg: "unterminated list in outputs",
		},
		{
			name:    "unterminated string",
			input:   `Derive([("out`,
			wantMsg: "unterminated string in output",
		},
		{
			name:    "unterminated string ending in escape",
			input:   `Derive([("out\`,
			wantMsg: "unterminated string in output",
		},
		{
			name:    "output tuple too short",
			input:   `Derive([("out","/p","")],[],[],"x","b",[],[])`,
			wantMsg: "wrong arity: output expects 4 fields, got 3",
		},
		{
			name:    "output tuple too long",
			input:   `Derive([("out","/p","","","")],[],[],"x","b",[],[])`,
			wantMsg: "wrong arity: output expects 4 fields",
		},
		{
			name:    "too few fields",
			input:   `Derive([("out","/p","","")],[],[],"x","b",[])`,
			wantMsg: "wrong arity: Derive expects 7 fields, got 6",
		},
		{
			name:    "too many fields",
			input:   `Derive([("out","/p","","")],[],[],"x","b",[],[],[])`,
			wantMsg: "wrong arity: Derive expects 7 fields",
		},
		{
			name:    "input step with extra field",
			input:   `Derive([("out","/p","","")],[("/d.drv",["out"],"x")],[],"x","b",[],[])`,
			wantMsg: "wrong arity: input step expects 2 fields",
		},
		{
			name:    "platform is not a string",
			input:   `Derive([("out","/p","","")],[],[],x,"b",[],[])`,
			wantMsg: `expected '"' in platform, found 'x'`,
		},
		{
			name:    "trailing data",
			input:   helloDrv + "garbage",
			wantMsg: "unexpected trailing data",
		},
		{
			name:    "trailing NUL byte",
			input:   helloDrv + "\x00garbage",
			wantMsg: "unexpected trailing data",
		},
		{
			name:    "NUL byte in place of closing paren",
			input:   helloDrv[:len(helloDrv)-1] + "\x00",
			wantMsg: `expected ')' closing Derive, found '\x00'`,
		},
		{
			name:    "NUL byte in place of list",
			input:   "Derive(\x00",
			wantMsg: `expected '[' in outputs, found '\x00'`,
		},
		{
			name:    "no outputs",
			input:   `Derive([],[],[],"x","b",[],[])`,
			wantMsg: "step declares no outputs",
		},
		{
			name:    "duplicate output",
			input:   `Derive([("out","/p","",""),("out","/q","","")],[],[],"x","b",[],[])`,
			wantMsg: `duplicate output "out"`,
		},
		{
			name:    "duplicate input step",
			input:   `Derive([("out","/p","","")],[("/d.drv",["out"]),("/d.drv",["dev"])],[],"x","b",[],[])`,
			wantMsg: `duplicate input step "/d.drv"`,
		},
		{
			name:    "duplicate input source",
			input:   `Derive([("out","/p","","")],[],["/s","/s"],"x","b",[],[])`,
			wantMsg: `duplicate input source "/s"`,
		},
		{
			name:    "duplicate env",
			input:   `Derive([("out","/p","","")],[],[],"x","b",[],[("a","1"),("a","2")])`,
			wantMsg: `duplicate env variable "a"`,
		},
		{
			name:    "invalid utf-8",
			input:   "Derive([(\"out\",\"/p\xff\",\"\",\"\")],[],[],\"x\",\"b\",[],[])",
			wantMsg: "invalid UTF-8 sequence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := derivation.Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, step)
			assert.ErrorContains(t, err, tt.wantMsg)
			assert.ErrorIs(t, err, domain.ErrMalformedStep)

			var fe *derivation.FormatError
			require.ErrorAs(t, err, &fe)
			assert.GreaterOrEqual(t, fe.Offset, 0)
			assert.LessOrEqual(t, fe.Offset, len(tt.input))
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	src := "Derive(\n[(\"out\",\"/p\",\"\",\"\")],\n[],\n[],\n\"x\",\n\"b\",\n[],\n[(\"a\",\"1\"),(\"a\",\"2\")])"

	_, err := derivation.Parse([]byte(src))
	require.Error(t, err)

	var fe *derivation.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 8, fe.Line)
	assert.Equal(t, 12, fe.Column)
	assert.Equal(t, "(", src[fe.Offset:fe.Offset+1])
}

func TestParse_InvalidUTF8Position(t *testing.T) {
	src := []byte("Derive([(\"out\",\"/p\xff")

	_, err := derivation.Parse(src)

	var fe *derivation.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, len(src)-1, fe.Offset)
}

func TestParse_TruncatedNeverPanics(t *testing.T) {
	for i := range len(helloDrv) {
		step, err := derivation.Parse([]byte(helloDrv[:i]))
		require.Error(t, err, "prefix of length %d", i)
		require.Nil(t, step)
	}
}
