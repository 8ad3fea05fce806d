// Package registry talks to the ownership registry service. It owns the one
// network write the tool performs: a single POST of the assembled payload to
// the namespace's codeowners endpoint. Everything else in the tool is
// read-only, so this package is also where dry-run reporting lives.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Iron-Ham/ownersync/internal/errors"
	"github.com/Iron-Ham/ownersync/internal/logging"
	"github.com/Iron-Ham/ownersync/internal/payload"
	"github.com/Iron-Ham/ownersync/internal/util"
)

const (
	// defaultTimeout is the HTTP client timeout for the sync request. It
	// matches the Request-Timeout value advertised to the server.
	defaultTimeout = 60 * time.Second

	// requestTimeoutHeader tells the registry how long the client will wait.
	requestTimeoutHeader = "60"

	// maxErrorBodyLen caps how much of an error response body is carried in
	// the returned error.
	maxErrorBodyLen = 2048
)

// Client posts assembled payloads to the ownership registry.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a registry client. baseURL is the registry root without a
// trailing slash; token is sent as a bearer credential on every request.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SyncURL returns the endpoint a payload for target would be posted to.
func (c *Client) SyncURL(target payload.Target) string {
	return fmt.Sprintf("%s/v1/namespaces/%s/codeowners", c.baseURL, target.Namespace)
}

// Sync posts the payload to the registry. Only a 200 response counts as
// success; any other status is reported as a TransportError carrying the
// status code and response body.
func (c *Client) Sync(ctx context.Context, target payload.Target, p *payload.SyncPayload) error {
	url := c.SyncURL(target)

	body, err := json.Marshal(p)
	if err != nil {
		return errors.NewTransportError("marshal payload", err).WithURL(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.NewTransportError("create request", err).WithURL(url)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Request-Timeout", requestTimeoutHeader)

	c.logger.Debug("posting ownership payload",
		"url", url,
		"namespace", target.Namespace,
		"files", p.Spec.Patterns.Len())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewTransportError("send request", err).WithURL(url)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewTransportError("read response", err).
			WithURL(url).
			WithStatusCode(resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewTransportError("sync rejected", errors.ErrUnexpectedStatus).
			WithURL(url).
			WithStatusCode(resp.StatusCode).
			WithResponseBody(util.TruncateString(string(respBody), maxErrorBodyLen))
	}

	c.logger.Info("ownership payload accepted",
		"namespace", target.Namespace,
		"files", p.Spec.Patterns.Len())

	return nil
}
