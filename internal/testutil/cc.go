package testutil

import (
	"os"
	"os/exec"
	"runtime"
	"testing"
)

// RequireCC returns the C compiler end-to-end tests should use, honoring
// $CC. The test is skipped when no compiler is installed or the platform
// lacks the POSIX descriptor calls the harness relies on.
func RequireCC(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("generated programs need POSIX dup2/fcntl")
	}
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	path, err := exec.LookPath(cc)
	if err != nil {
		t.Skipf("C compiler %q not found: %v", cc, err)
	}
	return path
}
