package source

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Iron-Ham/ownersync/internal/errors"
	"github.com/Iron-Ham/ownersync/internal/logging"
)

const (
	// defaultAPIBaseURL is the GitHub REST API endpoint.
	defaultAPIBaseURL = "https://api.github.com"

	// defaultTimeout is the per-request timeout.
	defaultTimeout = 30 * time.Second

	// defaultMaxRetries bounds how often a rate-limited page fetch is retried.
	defaultMaxRetries = 3

	// listPageSize is the per_page value for directory listings.
	listPageSize = 100

	// minRateLimitWait is the floor for the backoff sleep when the reset
	// signal is in the past or absent.
	minRateLimitWait = time.Second
)

// GitHubSource enumerates OWNERS files through the GitHub REST API. It walks
// the repository tree on the default branch one directory listing at a time,
// honoring the API's rate-limit signals: a rate-limited page fetch backs off
// until the documented reset and retries the same page before giving up.
type GitHubSource struct {
	coords     Coordinates
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	maxRetries int
	sleep      func(time.Duration)

	branch string // default branch, resolved lazily
}

// GitHubOption configures a GitHubSource.
type GitHubOption func(*GitHubSource)

// WithAPIBaseURL overrides the API endpoint. Useful for GitHub Enterprise
// installations and for tests.
func WithAPIBaseURL(baseURL string) GitHubOption {
	return func(s *GitHubSource) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) GitHubOption {
	return func(s *GitHubSource) {
		s.httpClient = client
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *logging.Logger) GitHubOption {
	return func(s *GitHubSource) {
		s.logger = logger
	}
}

// WithMaxRetries sets how many times a rate-limited page fetch is retried
// before discovery fails.
func WithMaxRetries(n int) GitHubOption {
	return func(s *GitHubSource) {
		s.maxRetries = n
	}
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(timeout time.Duration) GitHubOption {
	return func(s *GitHubSource) {
		s.httpClient.Timeout = timeout
	}
}

// NewGitHubSource creates a GitHubSource for the given repository
// coordinates, authenticated with the hosting-service token.
func NewGitHubSource(coords Coordinates, token string, opts ...GitHubOption) *GitHubSource {
	s := &GitHubSource{
		coords:  coords,
		token:   token,
		baseURL: defaultAPIBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logging.NopLogger(),
		maxRetries: defaultMaxRetries,
		sleep:      time.Sleep,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// repoInfo is the subset of the repository metadata response we consume.
type repoInfo struct {
	DefaultBranch string `json:"default_branch"`
}

// contentItem is one entry of a directory listing.
type contentItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// fileContent is the contents API response for a single file.
type fileContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Coordinates returns the explicitly configured repository coordinates.
func (s *GitHubSource) Coordinates(ctx context.Context) (Coordinates, error) {
	return s.coords, nil
}

// ListOwnersFiles walks the repository tree on the default branch and
// returns the paths of all files named OWNERS. The walk visits directories
// in listing order, so the result is stable for a given snapshot.
func (s *GitHubSource) ListOwnersFiles(ctx context.Context) ([]string, error) {
	branch, err := s.defaultBranch(ctx)
	if err != nil {
		return nil, err
	}

	var paths []string
	dirs := []string{""}
	for len(dirs) > 0 {
		dir := dirs[0]
		dirs = dirs[1:]

		items, err := s.listDir(ctx, dir, branch)
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			switch item.Type {
			case "dir":
				dirs = append(dirs, item.Path)
			case "file":
				if item.Name == OwnersFileName {
					paths = append(paths, item.Path)
				}
			}
		}
	}

	s.logger.Debug("enumerated remote OWNERS files", "count", len(paths), "branch", branch)
	return paths, nil
}

// ReadFile fetches one file's content through the contents API.
func (s *GitHubSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	branch, err := s.defaultBranch(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		s.baseURL, s.coords.Org, s.coords.Repo, escapePath(path), url.QueryEscape(branch))
	body, err := s.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var file fileContent
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, errors.NewDiscoveryError("failed to decode file content response", err).
			WithRepository(s.coords.String()).
			WithPath(path)
	}

	if file.Encoding != "base64" {
		return []byte(file.Content), nil
	}

	// GitHub wraps base64 content with newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, errors.NewDiscoveryError("failed to decode base64 content", err).
			WithRepository(s.coords.String()).
			WithPath(path)
	}
	return decoded, nil
}

// defaultBranch resolves and caches the repository's default branch.
func (s *GitHubSource) defaultBranch(ctx context.Context) (string, error) {
	if s.branch != "" {
		return s.branch, nil
	}

	reqURL := fmt.Sprintf("%s/repos/%s/%s", s.baseURL, s.coords.Org, s.coords.Repo)
	body, err := s.get(ctx, reqURL)
	if err != nil {
		return "", err
	}

	var info repoInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", errors.NewDiscoveryError("failed to decode repository metadata", err).
			WithRepository(s.coords.String())
	}
	if info.DefaultBranch == "" {
		return "", errors.NewDiscoveryError("repository metadata has no default branch", nil).
			WithRepository(s.coords.String())
	}

	s.branch = info.DefaultBranch
	s.logger.Debug("resolved default branch", "branch", s.branch)
	return s.branch, nil
}

// listDir fetches one directory listing, following per_page pagination.
func (s *GitHubSource) listDir(ctx context.Context, dir, branch string) ([]contentItem, error) {
	var items []contentItem
	for page := 1; ; page++ {
		reqURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s&per_page=%d&page=%d",
			s.baseURL, s.coords.Org, s.coords.Repo, escapePath(dir), url.QueryEscape(branch), listPageSize, page)

		body, err := s.get(ctx, reqURL)
		if err != nil {
			var discErr *errors.DiscoveryError
			if errors.As(err, &discErr) {
				discErr.WithPath(dir)
			}
			return nil, err
		}

		var pageItems []contentItem
		if err := json.Unmarshal(body, &pageItems); err != nil {
			return nil, errors.NewDiscoveryError("failed to decode directory listing", err).
				WithRepository(s.coords.String()).
				WithPath(dir)
		}

		items = append(items, pageItems...)
		if len(pageItems) < listPageSize {
			return items, nil
		}
	}
}

// get performs one GET with rate-limit awareness: a rate-limited response
// sleeps until the advertised reset and retries the same URL, up to
// maxRetries times. Any other non-200 response fails discovery immediately.
func (s *GitHubSource) get(ctx context.Context, reqURL string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, errors.NewDiscoveryError("failed to create request", err).
				WithRepository(s.coords.String())
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if s.token != "" {
			req.Header.Set("Authorization", "Bearer "+s.token)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, errors.NewDiscoveryError("request failed", err).
				WithRepository(s.coords.String())
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, errors.NewDiscoveryError("failed to read response", err).
				WithRepository(s.coords.String())
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if !isRateLimited(resp) {
			return nil, errors.NewDiscoveryError("hosting API request rejected: "+strings.TrimSpace(string(body)), nil).
				WithRepository(s.coords.String()).
				WithStatusCode(resp.StatusCode)
		}

		if attempt >= s.maxRetries {
			return nil, errors.NewDiscoveryError("hosting API rate limit", errors.ErrRateLimited).
				WithRepository(s.coords.String()).
				WithStatusCode(resp.StatusCode)
		}

		wait := rateLimitWait(resp)
		s.logger.Warn("rate limited by hosting API, backing off",
			"wait", wait.String(),
			"attempt", attempt+1,
			"max_retries", s.maxRetries)
		s.sleep(wait)
	}
}

// escapePath percent-encodes each segment of a repository tree path so
// characters like '#', '?' and spaces survive URL construction. The
// separating slashes must stay literal for the contents API.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// isRateLimited reports whether the response is a rate-limit rejection.
// GitHub uses 429, and 403 with an exhausted X-RateLimit-Remaining or an
// explicit Retry-After.
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if resp.StatusCode != http.StatusForbidden {
		return false
	}
	if resp.Header.Get("Retry-After") != "" {
		return true
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// rateLimitWait derives the backoff duration from the documented reset
// signals, preferring Retry-After over X-RateLimit-Reset.
func rateLimitWait(resp *http.Response) time.Duration {
	if after := resp.Header.Get("Retry-After"); after != "" {
		if secs, err := strconv.Atoi(after); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if unix, err := strconv.ParseInt(reset, 10, 64); err == nil {
			if wait := time.Until(time.Unix(unix, 0)); wait > minRateLimitWait {
				return wait
			}
		}
	}

	return minRateLimitWait
}

var _ Source = (*GitHubSource)(nil)
