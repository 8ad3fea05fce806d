package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/ownersync/internal/testutil"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it. Needed because the reporter writes to stdout
// directly rather than through cobra.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	os.Stdout = orig
	_ = w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(out)
}

func TestRootCommand(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil")
	}

	if rootCmd.Use != "ownersync" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "ownersync")
	}

	// Check for expected subcommands (compare by Name(), not Use which includes args)
	expectedCmds := []string{"sync", "config", "version"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}

	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestSyncCommandFlagDefaults(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{flag: "source", want: "local"},
		{flag: "repo-dir", want: "."},
		{flag: "dry-run", want: "true"},
		{flag: "format", want: "json"},
	}

	for _, tt := range tests {
		f := syncCmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("sync command missing --%s flag", tt.flag)
			continue
		}
		if f.DefValue != tt.want {
			t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.want)
		}
	}
}

func TestSyncCommandRequiresArgs(t *testing.T) {
	_, err := executeCommand(rootCmd, "sync")
	if err == nil {
		t.Error("sync with no args should fail")
	}

	_, err = executeCommand(rootCmd, "sync", "only-namespace")
	if err == nil {
		t.Error("sync with one arg should fail")
	}
}

func TestSyncDryRunLocalRepo(t *testing.T) {
	repoDir := testutil.SetupTestRepoWithContent(t, map[string]string{
		"OWNERS":          "jira-project = \"ROOT\"\n",
		"services/OWNERS": "jira-project = \"SVC\"\njira-component = \"svc-api\"\n",
		"docs/notes.md":   "not an ownership file\n",
	})

	var runErr error
	out := captureStdout(t, func() {
		_, runErr = executeCommand(rootCmd, "sync", "test-ns", "uuid-123",
			"--repo-dir", repoDir,
			"--org", "acme",
			"--repo", "widgets")
	})
	if runErr != nil {
		t.Fatalf("dry-run sync failed: %v", runErr)
	}

	for _, want := range []string{
		"Dry run",
		"acme/widgets",
		"/v1/namespaces/test-ns/codeowners",
		"services/OWNERS",
		`"value": "svc-api"`,
		`"parent_uuid": "uuid-123"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dry-run output missing %q:\n%s", want, out)
		}
	}

	// Dry runs never need credentials, and must not mention the registry token.
	if strings.Contains(out, "Bearer") {
		t.Error("dry-run output should not contain credentials")
	}
}

func TestSyncRejectsUnknownSource(t *testing.T) {
	_, err := executeCommand(rootCmd, "sync", "ns", "uuid", "--source", "gitlab")
	if err == nil {
		t.Fatal("unknown source should fail validation")
	}
	if !strings.Contains(err.Error(), "sync.source") {
		t.Errorf("error should name the invalid setting: %v", err)
	}

	// Reset the persistent flag value so later tests see the default.
	_ = syncCmd.Flags().Set("source", "local")
}

func TestConfigCommandRedactsSecrets(t *testing.T) {
	t.Setenv("OWNERSYNC_GITHUB_TOKEN", "gh-secret-value")
	t.Setenv("OWNERSYNC_REGISTRY_TOKEN", "reg-secret-value")

	var runErr error
	out := captureStdout(t, func() {
		_, runErr = executeCommand(rootCmd, "config")
	})
	if runErr != nil {
		t.Fatalf("config command failed: %v", runErr)
	}

	if strings.Contains(out, "gh-secret-value") || strings.Contains(out, "reg-secret-value") {
		t.Error("config output must not contain credential values")
	}
	if !strings.Contains(out, "github_token: (set)") {
		t.Errorf("config output should report credential presence:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	var runErr error
	out := captureStdout(t, func() {
		_, runErr = executeCommand(rootCmd, "version")
	})
	if runErr != nil {
		t.Fatalf("version command failed: %v", runErr)
	}
	if !strings.Contains(out, "ownersync") {
		t.Errorf("version output missing binary name: %q", out)
	}
}
