package source

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/ownersync/internal/errors"
	"github.com/Iron-Ham/ownersync/internal/logging"
)

// -----------------------------------------------------------------------------
// Command Executor
// -----------------------------------------------------------------------------

// CommandExecutor abstracts command execution for testability.
// This allows tests to mock git commands without executing them.
type CommandExecutor interface {
	// Run executes a command and returns combined output.
	Run(dir string, name string, args ...string) ([]byte, error)

	// RunQuiet executes a command and returns only the error.
	RunQuiet(dir string, name string, args ...string) error
}

// CLICommandExecutor executes commands using os/exec.
type CLICommandExecutor struct{}

// NewCLICommandExecutor creates a new CLI command executor.
func NewCLICommandExecutor() *CLICommandExecutor {
	return &CLICommandExecutor{}
}

// Run executes a command and returns combined output.
func (e *CLICommandExecutor) Run(dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// RunQuiet executes a command and returns only the error.
func (e *CLICommandExecutor) RunQuiet(dir string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.Run()
}

// -----------------------------------------------------------------------------
// GitSource - local version-control variant
// -----------------------------------------------------------------------------

// GitSource enumerates OWNERS files in a local clone through the git CLI.
// Only tracked files are considered, so build artifacts and untracked
// clutter never reach the parser.
type GitSource struct {
	root     string
	executor CommandExecutor
	logger   *logging.Logger
	override *Coordinates
}

// GitOption configures a GitSource.
type GitOption func(*GitSource)

// WithExecutor sets a custom command executor. This is primarily useful for
// testing.
func WithExecutor(executor CommandExecutor) GitOption {
	return func(s *GitSource) {
		s.executor = executor
	}
}

// WithGitLogger sets the diagnostic logger.
func WithGitLogger(logger *logging.Logger) GitOption {
	return func(s *GitSource) {
		s.logger = logger
	}
}

// WithCoordinateOverride pins the repository coordinates instead of deriving
// them from the origin remote.
func WithCoordinateOverride(coords Coordinates) GitOption {
	return func(s *GitSource) {
		s.override = &coords
	}
}

// NewGitSource creates a GitSource rooted at repoDir. It fails with a
// DiscoveryError if repoDir is not inside a git repository.
func NewGitSource(repoDir string, opts ...GitOption) (*GitSource, error) {
	s := &GitSource{
		root:     repoDir,
		executor: NewCLICommandExecutor(),
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	output, err := s.executor.Run(repoDir, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, errors.NewDiscoveryError("failed to identify repository", errors.ErrNotGitRepository).
			WithRepository(repoDir)
	}
	s.root = strings.TrimSpace(string(output))

	return s, nil
}

// Root returns the repository's top-level directory.
func (s *GitSource) Root() string {
	return s.root
}

// Coordinates resolves org and repo from the origin remote, unless pinned
// through WithCoordinateOverride.
func (s *GitSource) Coordinates(ctx context.Context) (Coordinates, error) {
	if s.override != nil {
		return *s.override, nil
	}

	output, err := s.executor.Run(s.root, "git", "remote", "get-url", "origin")
	if err != nil {
		return Coordinates{}, errors.NewDiscoveryError("failed to resolve origin remote", errors.ErrNoRemote).
			WithRepository(s.root)
	}

	coords, err := ParseRemoteURL(string(output))
	if err != nil {
		return Coordinates{}, err
	}

	s.logger.Debug("resolved repository coordinates", "org", coords.Org, "repo", coords.Repo)
	return coords, nil
}

// ListOwnersFiles lists tracked files named OWNERS. git ls-files emits paths
// in index order, which is stable for a given snapshot.
func (s *GitSource) ListOwnersFiles(ctx context.Context) ([]string, error) {
	output, err := s.executor.Run(s.root, "git", "ls-files")
	if err != nil {
		return nil, errors.NewDiscoveryError("failed to list tracked files", err).
			WithRepository(s.root)
	}

	var paths []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if filepath.Base(line) == OwnersFileName {
			paths = append(paths, line)
		}
	}

	s.logger.Debug("enumerated tracked OWNERS files", "count", len(paths))
	return paths, nil
}

// ReadFile reads a tracked file relative to the repository root.
func (s *GitSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(s.root, path))
	if err != nil {
		return nil, errors.NewDiscoveryError("failed to read file", errors.ErrFileNotFound).
			WithRepository(s.root).
			WithPath(path)
	}
	return content, nil
}

var _ Source = (*GitSource)(nil)
