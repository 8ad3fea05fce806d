package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/ownersync/internal/config"
	"github.com/Iron-Ham/ownersync/internal/logging"
	"github.com/Iron-Ham/ownersync/internal/owners"
	"github.com/Iron-Ham/ownersync/internal/payload"
	"github.com/Iron-Ham/ownersync/internal/registry"
	"github.com/Iron-Ham/ownersync/internal/source"
)

var syncCmd = &cobra.Command{
	Use:   "sync <namespace> <project-uuid>",
	Short: "Discover OWNERS files and report ownership to the registry",
	Long: `Sync walks the repository for OWNERS files, parses their project and
component declarations, and assembles them into a single ownership document
for the given registry namespace and project.

Dry run is the default: the document is printed but not sent. Pass
--dry-run=false to post it to the registry.`,
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().String("source", "local", `ownership source: "local" or "github"`)
	syncCmd.Flags().String("org", "", "repository owner (required with --source=github)")
	syncCmd.Flags().String("repo", "", "repository name (required with --source=github)")
	syncCmd.Flags().String("repo-dir", ".", "repository root for the local source")
	syncCmd.Flags().Bool("dry-run", true, "compute and display the payload without sending it")
	syncCmd.Flags().String("format", "json", `dry-run payload rendering: "json" or "yaml"`)

	_ = viper.BindPFlag("sync.source", syncCmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("sync.org", syncCmd.Flags().Lookup("org"))
	_ = viper.BindPFlag("sync.repo", syncCmd.Flags().Lookup("repo"))
	_ = viper.BindPFlag("sync.repo_dir", syncCmd.Flags().Lookup("repo-dir"))
	_ = viper.BindPFlag("sync.dry_run", syncCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("sync.format", syncCmd.Flags().Lookup("format"))
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	target := payload.Target{Namespace: args[0], ProjectUUID: args[1]}
	logger := logging.NewLogger(os.Stderr, logLevel(cfg)).WithSource(cfg.Sync.Source)

	githubToken := config.GitHubToken()
	registryToken := config.RegistryToken()
	if err := cfg.ValidateCredentials(githubToken, registryToken); err != nil {
		return err
	}

	src, err := buildSource(cfg, githubToken, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	coords, err := src.Coordinates(ctx)
	if err != nil {
		return err
	}
	logger = logger.WithRepository(coords.String())
	logger.Info("discovering ownership files")

	paths, err := src.ListOwnersFiles(ctx)
	if err != nil {
		return err
	}
	logger.Info("ownership files found", "count", len(paths))

	files := make([]owners.FileOwnership, 0, len(paths))
	for _, path := range paths {
		content, err := src.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		files = append(files, owners.ParseFile(path, content, logger))
	}

	doc := payload.Assemble(coords, target, files)

	format, err := registry.ParseFormat(cfg.Sync.Format)
	if err != nil {
		return err
	}
	reporter := registry.NewReporter(os.Stdout, format)
	client := registry.NewClient(cfg.Registry.BaseURL, registryToken,
		registry.WithTimeout(cfg.Registry.Timeout()),
		registry.WithLogger(logger))

	if cfg.Sync.DryRun {
		return reporter.DryRun(client.SyncURL(target), coords, doc)
	}

	if err := client.Sync(ctx, target, doc); err != nil {
		return err
	}
	reporter.Success(coords, doc)
	return nil
}

// buildSource constructs the enumeration backend for the configured source.
func buildSource(cfg *config.Config, githubToken string, logger *logging.Logger) (source.Source, error) {
	switch cfg.Sync.Source {
	case "github":
		coords := source.Coordinates{Org: cfg.Sync.Org, Repo: cfg.Sync.Repo}
		return source.NewGitHubSource(coords, githubToken, source.WithLogger(logger)), nil
	default:
		opts := []source.GitOption{source.WithGitLogger(logger)}
		if cfg.Sync.Org != "" && cfg.Sync.Repo != "" {
			opts = append(opts, source.WithCoordinateOverride(source.Coordinates{
				Org:  cfg.Sync.Org,
				Repo: cfg.Sync.Repo,
			}))
		}
		return source.NewGitSource(cfg.Sync.RepoDir, opts...)
	}
}
