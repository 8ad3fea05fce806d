package internal

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestGolangciLintCompliance runs golangci-lint over the ownersync module
// and fails on any reported issue, so lint regressions surface in the
// ordinary test run rather than only in CI.
//
// The test is skipped when golangci-lint is not installed.
func TestGolangciLintCompliance(t *testing.T) {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found in PATH, skipping test")
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	// Tests run from internal/; the module root is one level up.
	projectRoot := filepath.Dir(wd)
	if filepath.Base(wd) != "internal" {
		projectRoot = wd
	}

	// A per-test build cache keeps the run working in sandboxed
	// environments where the default cache is read-only.
	goCacheDir := t.TempDir()

	cmd := exec.Command("golangci-lint", "run", "./...")
	cmd.Dir = projectRoot
	cmd.Env = append(os.Environ(), "GOCACHE="+goCacheDir)
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("golangci-lint found issues:\n%s", output)
		t.Errorf("\nRun 'golangci-lint run' to see all issues and fix them.")
	}
}
