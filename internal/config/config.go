package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete ownersync configuration
type Config struct {
	Sync     SyncConfig     `mapstructure:"sync"`
	Registry RegistryConfig `mapstructure:"registry"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SyncConfig controls how ownership files are discovered and reported
type SyncConfig struct {
	// Source selects where OWNERS files are read from
	// Options: "local" (git working copy), "github" (REST API)
	Source string `mapstructure:"source"`
	// Org is the repository owner. Required for the github source;
	// for the local source it overrides the org derived from the git remote.
	Org string `mapstructure:"org"`
	// Repo is the repository name. Same rules as Org.
	Repo string `mapstructure:"repo"`
	// RepoDir is the repository root for the local source (default: ".")
	RepoDir string `mapstructure:"repo_dir"`
	// DryRun computes and displays the payload without sending it (default: true)
	DryRun bool `mapstructure:"dry_run"`
	// Format is the dry-run payload rendering: "json" or "yaml" (default: "json")
	Format string `mapstructure:"format"`
}

// RegistryConfig controls the ownership registry endpoint
type RegistryConfig struct {
	// BaseURL is the registry root, without a trailing slash
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds is the HTTP timeout for the sync request (default: 60)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig controls diagnostic logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "warn")
	Level string `mapstructure:"level"`
}

// Timeout returns the registry request timeout as a time.Duration
func (r *RegistryConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			Source:  "local",
			RepoDir: ".",
			DryRun:  true, // Never send unless explicitly asked
			Format:  "json",
		},
		Registry: RegistryConfig{
			BaseURL:        "https://api.endorlabs.com",
			TimeoutSeconds: 60,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Sync defaults
	viper.SetDefault("sync.source", defaults.Sync.Source)
	viper.SetDefault("sync.org", defaults.Sync.Org)
	viper.SetDefault("sync.repo", defaults.Sync.Repo)
	viper.SetDefault("sync.repo_dir", defaults.Sync.RepoDir)
	viper.SetDefault("sync.dry_run", defaults.Sync.DryRun)
	viper.SetDefault("sync.format", defaults.Sync.Format)

	// Registry defaults
	viper.SetDefault("registry.base_url", defaults.Registry.BaseURL)
	viper.SetDefault("registry.timeout_seconds", defaults.Registry.TimeoutSeconds)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// GitHubToken resolves the GitHub API credential. The OWNERSYNC_GITHUB_TOKEN
// environment variable wins; the unprefixed GITHUB_TOKEN name is honored for
// compatibility with existing CI setups.
func GitHubToken() string {
	if tok := os.Getenv("OWNERSYNC_GITHUB_TOKEN"); tok != "" {
		return tok
	}
	return os.Getenv("GITHUB_TOKEN")
}

// RegistryToken resolves the registry credential, preferring
// OWNERSYNC_REGISTRY_TOKEN over the unprefixed REGISTRY_TOKEN.
func RegistryToken() string {
	if tok := os.Getenv("OWNERSYNC_REGISTRY_TOKEN"); tok != "" {
		return tok
	}
	return os.Getenv("REGISTRY_TOKEN")
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ownersync")
	}
	// Fall back to ~/.config/ownersync
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ownersync"
	}
	return filepath.Join(home, ".config", "ownersync")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidSources returns the list of valid ownership sources
func ValidSources() []string {
	return []string{"local", "github"}
}

// IsValidSource checks if the given source is valid
func IsValidSource(source string) bool {
	for _, valid := range ValidSources() {
		if source == valid {
			return true
		}
	}
	return false
}
