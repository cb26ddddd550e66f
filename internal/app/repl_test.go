package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/crepl/internal/executor"
	"github.com/specialistvlad/crepl/internal/hcl"
	"github.com/specialistvlad/crepl/internal/session"
	"github.com/specialistvlad/crepl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepl returns a REPL whose app writes into the returned buffers.
func newTestRepl(t *testing.T, cc string) (*Repl, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	cfg, err := NewConfig(Config{Mode: ModeREPL, CC: cc, Timeout: 10 * time.Second})
	require.NoError(t, err)
	return NewApp(&out, &errOut, cfg, &stubLoader{}).NewRepl(), &out, &errOut
}

func TestNeedsMore(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		src  string
		want bool
	}{
		{src: "6 * 7", want: false},
		{src: "for (int i = 0; i < 3; i++) {", want: true},
		{src: "for (int i = 0; i < 3; i++) {\n  x += i;\n}", want: false},
		{src: `puts("{")`, want: false},
		{src: `'('`, want: false},
		{src: `puts("\"(")`, want: false},
		{src: "f(1, // )\n", want: true},
		{src: "x /* ( */", want: false},
		{src: "x /* unterminated", want: true},
		{src: "x / 2", want: false},
		{src: "}", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, needsMore(tc.src))
		})
	}
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []session.Input{session.StatementInput("x++;")}, candidates("x++;"))
	assert.Equal(t, []session.Input{session.StatementInput("if (x) { y(); }")}, candidates("if (x) { y(); }"))
	assert.Equal(t,
		[]session.Input{session.ExpressionInput("int y = 3"), session.StatementInput("int y = 3;")},
		candidates("int y = 3"),
	)
	assert.Equal(t,
		[]session.Input{session.ExpressionInput("x // note"), session.StatementInput("x // note\n;")},
		candidates("x // note"),
	)
}

func TestRepl_Commands(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r, out, _ := newTestRepl(t, "")
	r.Session().Append("int x = 5;")
	r.Session().AddIncludes("stdio.h")
	ctx := context.Background()

	// --- Act & Assert ---
	quit, err := r.Handle(ctx, ":help")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Contains(t, out.String(), ":reset")

	out.Reset()
	_, err = r.Handle(ctx, ":show x + 1")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "#include <stdio.h>")
	assert.Contains(t, out.String(), "  int x = 5;")
	assert.Contains(t, out.String(), "crepl_print((x + 1));")

	out.Reset()
	_, err = r.Handle(ctx, ":show")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "crepl_print((0));")

	_, err = r.Handle(ctx, ":reset")
	require.NoError(t, err)
	assert.Zero(t, r.Session().Len())
	assert.Zero(t, r.Session().Includes().Len())

	_, err = r.Handle(ctx, ":frobnicate")
	require.ErrorIs(t, err, ErrUnknownCommand)

	quit, err = r.Handle(ctx, "  :q ")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestRepl_BlankAndDirectives(t *testing.T) {
	t.Parallel()

	r, out, _ := newTestRepl(t, "")

	quit, err := r.Handle(context.Background(), "   \n")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Empty(t, out.String())

	_, err = r.Handle(context.Background(), "#define N 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only #include directives are supported")
	assert.Zero(t, r.Session().Includes().Len())
}

func TestRepl_AccumulatesState(t *testing.T) {
	t.Parallel()
	cc := testutil.RequireCC(t)

	// --- Arrange ---
	r, out, _ := newTestRepl(t, cc)
	ctx := context.Background()

	// --- Act ---
	for _, line := range []string{"#include <stdio.h>", "int x = 5 // seed", "x += 37;", `puts("once")`} {
		_, err := r.Handle(ctx, line)
		require.NoError(t, err, line)
	}
	out.Reset()
	_, err := r.Handle(ctx, "x")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "42\n", out.String(), "earlier output must not be repeated")
	assert.Equal(t, []string{"int x = 5 // seed\n;", "x += 37;", `(void)(puts("once"));`, "(void)(x);"}, r.Session().Statements())
	assert.True(t, r.Session().Includes().Contains("stdio.h"))
}

func TestRepl_FailedRoundsLeaveSessionUnchanged(t *testing.T) {
	t.Parallel()
	cc := testutil.RequireCC(t)

	r, out, _ := newTestRepl(t, cc)
	ctx := context.Background()
	_, err := r.Handle(ctx, "#include <stdlib.h>")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "compile error",
			input: "undeclared_identifier + 1",
			check: func(t *testing.T, err error) {
				var compileErr *executor.CompileError
				require.ErrorAs(t, err, &compileErr)
			},
		},
		{
			name:  "missing header",
			input: "#include <crepl_no_such_header.h>",
			check: func(t *testing.T, err error) {
				var compileErr *executor.CompileError
				require.ErrorAs(t, err, &compileErr)
			},
		},
		{
			name:  "non-zero exit",
			input: "exit(3);",
			check: func(t *testing.T, err error) {
				var exitErr *executor.ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 3, exitErr.Result.ExitCode)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Handle(ctx, tc.input)
			tc.check(t, err)
			assert.Zero(t, r.Session().Len())
			assert.Equal(t, 1, r.Session().Includes().Len())
		})
	}

	out.Reset()
	_, err = r.Handle(ctx, "1 + 1")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())
}

func TestRepl_SaveAndLoad(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var out bytes.Buffer
	cfg := &Config{Mode: ModeREPL}
	a := NewApp(&out, &bytes.Buffer{}, cfg, hcl.NewLoader())
	first := a.NewRepl()
	first.Session().AddIncludes("stdio.h", `"local.h"`)
	first.Session().Append("int x = 5;", `printf("%d\n", x);`)
	path := filepath.Join(t.TempDir(), "saved.hcl")
	ctx := context.Background()

	// --- Act ---
	_, err := first.Handle(ctx, ":save "+path)
	require.NoError(t, err)
	second := a.NewRepl()
	second.Session().Append("int stale = 1;")
	_, err = second.Handle(ctx, ":load "+path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, first.Session().Statements(), second.Session().Statements())
	assert.Equal(t, first.Session().Includes().Headers(), second.Session().Includes().Headers())
	assert.Contains(t, out.String(), "saved 2 statement(s)")
	assert.Contains(t, out.String(), "loaded 2 statement(s)")
}

func TestRepl_SaveLoadErrors(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRepl(t, "")
	ctx := context.Background()

	_, err := r.Handle(ctx, ":save")
	require.EqualError(t, err, ":save needs a file name")

	_, err = r.Handle(ctx, ":save out.hcl")
	require.EqualError(t, err, "session saving is not supported by this loader")

	_, err = r.Handle(ctx, ":load")
	require.EqualError(t, err, ":load needs at least one path")
}
