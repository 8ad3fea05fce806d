// Package cmd wires the ownersync CLI together: command definitions, flag
// binding, and the sync pipeline from source enumeration to registry report.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/ownersync/internal/config"
	"github.com/Iron-Ham/ownersync/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "ownersync",
	Short: "Sync OWNERS file declarations to an ownership registry",
	Long: `Ownersync walks a repository for OWNERS files, extracts the project and
component declarations they carry, and reports the assembled ownership
document to a central registry. By default nothing is sent: runs are dry
runs that print the payload for inspection.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/ownersync/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "verbose diagnostics (parse warnings, page fetches)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("OWNERSYNC")
	// Replace dots with underscores for nested keys in env vars
	// e.g., OWNERSYNC_SYNC_SOURCE for sync.source
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// logLevel resolves the effective log level: the debug flag forces debug,
// otherwise the configured level applies.
func logLevel(cfg *config.Config) string {
	if viper.GetBool("debug") {
		return logging.LevelDebug
	}
	return logging.ParseLevel(cfg.Logging.Level)
}
