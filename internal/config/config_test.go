package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Sync.Source != "local" {
		t.Errorf("Sync.Source = %q, want %q", cfg.Sync.Source, "local")
	}
	if cfg.Sync.RepoDir != "." {
		t.Errorf("Sync.RepoDir = %q, want %q", cfg.Sync.RepoDir, ".")
	}
	if !cfg.Sync.DryRun {
		t.Error("Sync.DryRun should be true by default")
	}
	if cfg.Sync.Format != "json" {
		t.Errorf("Sync.Format = %q, want %q", cfg.Sync.Format, "json")
	}

	if cfg.Registry.BaseURL == "" {
		t.Error("Registry.BaseURL should have a default")
	}
	if cfg.Registry.TimeoutSeconds != 60 {
		t.Errorf("Registry.TimeoutSeconds = %d, want 60", cfg.Registry.TimeoutSeconds)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
}

func TestDefaultValidates(t *testing.T) {
	if errs := Default().Validate(); len(errs) > 0 {
		t.Errorf("Default() should validate cleanly, got: %v", ValidationErrors(errs))
	}
}

func TestRegistryTimeout(t *testing.T) {
	r := RegistryConfig{TimeoutSeconds: 60}
	if got := r.Timeout(); got != 60*time.Second {
		t.Errorf("Timeout() = %v, want 60s", got)
	}
}

func TestGitHubToken(t *testing.T) {
	t.Setenv("OWNERSYNC_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	if got := GitHubToken(); got != "" {
		t.Errorf("GitHubToken() = %q with no env set, want empty", got)
	}

	t.Setenv("GITHUB_TOKEN", "legacy")
	if got := GitHubToken(); got != "legacy" {
		t.Errorf("GitHubToken() = %q, want legacy fallback", got)
	}

	t.Setenv("OWNERSYNC_GITHUB_TOKEN", "prefixed")
	if got := GitHubToken(); got != "prefixed" {
		t.Errorf("GitHubToken() = %q, prefixed name should win", got)
	}
}

func TestRegistryToken(t *testing.T) {
	t.Setenv("OWNERSYNC_REGISTRY_TOKEN", "")
	t.Setenv("REGISTRY_TOKEN", "legacy")

	if got := RegistryToken(); got != "legacy" {
		t.Errorf("RegistryToken() = %q, want legacy fallback", got)
	}

	t.Setenv("OWNERSYNC_REGISTRY_TOKEN", "prefixed")
	if got := RegistryToken(); got != "prefixed" {
		t.Errorf("RegistryToken() = %q, prefixed name should win", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg", "ownersync") {
		t.Errorf("ConfigDir() = %q with XDG_CONFIG_HOME set", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}
	if got := ConfigDir(); got != filepath.Join(home, ".config", "ownersync") {
		t.Errorf("ConfigDir() = %q, want under ~/.config", got)
	}
}

func TestIsValidSource(t *testing.T) {
	for _, s := range ValidSources() {
		if !IsValidSource(s) {
			t.Errorf("IsValidSource(%q) = false", s)
		}
	}
	for _, s := range []string{"", "gitlab", "LOCAL", "Github"} {
		if IsValidSource(s) {
			t.Errorf("IsValidSource(%q) = true", s)
		}
	}
}
