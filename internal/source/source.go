// Package source enumerates OWNERS files in a repository and reads them
// back. Two implementations exist: GitSource inspects a local clone through
// the git CLI, GitHubSource walks the hosting API. Both present the same
// capability set so the rest of the pipeline is variant-agnostic.
package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/Iron-Ham/ownersync/internal/errors"
)

// OwnersFileName is the base name of ownership-declaration files.
const OwnersFileName = "OWNERS"

// Coordinates identifies a repository on its hosting service.
type Coordinates struct {
	Org  string
	Repo string
}

// String returns the conventional org/repo form.
func (c Coordinates) String() string {
	return c.Org + "/" + c.Repo
}

// Source is a repository that can enumerate OWNERS files.
// Implementations perform read-only inspection; discovery failures surface
// as DiscoveryError and terminate the run.
type Source interface {
	// Coordinates resolves the repository's org and name.
	Coordinates(ctx context.Context) (Coordinates, error)

	// ListOwnersFiles returns repository-relative paths of all tracked files
	// named OWNERS, in an order that is stable for a given snapshot.
	ListOwnersFiles(ctx context.Context) ([]string, error)

	// ReadFile returns the content of one listed file.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Remote URL forms produced by git: scp-like ssh, ssh scheme, and https.
var (
	scpRemoteRegex  = regexp.MustCompile(`^(?:[\w.-]+@)?[\w.-]+:([\w.-]+)/([\w.-]+?)(?:\.git)?$`)
	httpRemoteRegex = regexp.MustCompile(`^(?:https?|ssh|git)://(?:[\w.-]+@)?[\w.-]+(?::\d+)?/([\w.-]+)/([\w.-]+?)(?:\.git)?/?$`)
)

// ParseRemoteURL extracts repository coordinates from a git remote URL.
// Supported forms:
//
//	git@github.com:org/repo.git
//	ssh://git@github.com/org/repo.git
//	https://github.com/org/repo
func ParseRemoteURL(raw string) (Coordinates, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Coordinates{}, errors.NewDiscoveryError("empty remote URL", errors.ErrNoRemote)
	}

	if m := httpRemoteRegex.FindStringSubmatch(raw); m != nil {
		return Coordinates{Org: m[1], Repo: m[2]}, nil
	}
	if m := scpRemoteRegex.FindStringSubmatch(raw); m != nil {
		return Coordinates{Org: m[1], Repo: m[2]}, nil
	}

	return Coordinates{}, errors.NewDiscoveryError("unrecognized remote URL: "+raw, errors.ErrNoRemote)
}
