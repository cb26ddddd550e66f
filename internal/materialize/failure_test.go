package materialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "setup failure", SetupFailure.String())
	assert.Equal(t, "redirect failure", RedirectFailure.String())
	assert.Equal(t, "flush failure", FlushFailure.String())
	assert.Equal(t, "FailureKind(3)", FailureKind(3).String())
	assert.Equal(t, "CREPL_REDIRECT_FAILURE", RedirectFailure.cEnumerator())
}

func TestParseDiagnostic(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		stderr string
		status int
		want   *Diagnostic
	}{
		{
			name:   "redirect failure on closed stdout",
			stderr: "crepl: redirect failure: fstat(stdout): Bad file descriptor\n",
			status: 72,
			want:   &Diagnostic{Kind: RedirectFailure, Op: "fstat", Stream: "stdout", Reason: "Bad file descriptor"},
		},
		{
			name:   "setup failure after user output",
			stderr: "warning: something\ncrepl: setup failure: open(stdout): No such file or directory\n",
			status: 71,
			want:   &Diagnostic{Kind: SetupFailure, Op: "open", Stream: "stdout", Reason: "No such file or directory"},
		},
		{
			name:   "status does not match line",
			stderr: "crepl: flush failure: fflush(stderr): Input/output error\n",
			status: 72,
		},
		{
			name:   "user program exit",
			stderr: "crepl: redirect failure: dup2(stdout): Bad file descriptor\n",
			status: 1,
		},
		{
			name:   "harness status without diagnostic",
			stderr: "segfault-ish noise\n",
			status: 73,
		},
		{
			name:   "malformed line",
			stderr: "crepl: flush failure: fflush stderr\n",
			status: 73,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDiagnostic(tc.stderr, tc.status)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDiagnostic_ErrorRoundTrip(t *testing.T) {
	t.Parallel()

	d := &Diagnostic{Kind: FlushFailure, Op: "fflush", Stream: "stdout", Reason: "Broken pipe"}
	line := d.Error()

	assert.Equal(t, "crepl: flush failure: fflush(stdout): Broken pipe", line)
	assert.Equal(t, d, ParseDiagnostic(line, FlushFailure.ExitStatus()))
}
