package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/ownersync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved ownersync configuration",
	Long: `Show the configuration the next run would use, after merging defaults,
the config file, environment variables, and flags. Credentials are shown
redacted.`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("sync:")
	fmt.Printf("  source: %s\n", cfg.Sync.Source)
	fmt.Printf("  org: %s\n", cfg.Sync.Org)
	fmt.Printf("  repo: %s\n", cfg.Sync.Repo)
	fmt.Printf("  repo_dir: %s\n", cfg.Sync.RepoDir)
	fmt.Printf("  dry_run: %v\n", cfg.Sync.DryRun)
	fmt.Printf("  format: %s\n", cfg.Sync.Format)

	fmt.Println("registry:")
	fmt.Printf("  base_url: %s\n", cfg.Registry.BaseURL)
	fmt.Printf("  timeout_seconds: %d\n", cfg.Registry.TimeoutSeconds)

	fmt.Println("logging:")
	fmt.Printf("  level: %s\n", cfg.Logging.Level)

	fmt.Println("credentials:")
	fmt.Printf("  github_token: %s\n", redact(config.GitHubToken()))
	fmt.Printf("  registry_token: %s\n", redact(config.RegistryToken()))

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(config.ConfigFile())
	return nil
}

// redact reports whether a credential is present without echoing it.
func redact(token string) string {
	if token == "" {
		return "(not set)"
	}
	return "(set)"
}
