// Package registry implements the HTTP client that fetches npm package
// metadata documents ("packuments") from a registry such as
// https://registry.npmjs.org.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/npmtree/pkg/errs"
	"github.com/matzehuels/npmtree/pkg/npmtree"
	"github.com/matzehuels/npmtree/pkg/observability"
)

const defaultTimeout = 30 * time.Second

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = time.Second
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// Packument is the registry document for one package, as returned by
// GET {registry}/{name}. DistTags maps tag names (e.g. "latest") to exact
// version strings; Versions maps every published exact version to its
// metadata.
type Packument struct {
	Name     string                 `json:"name"`
	DistTags map[string]string      `json:"dist-tags"`
	Versions map[string]VersionInfo `json:"versions"`
}

// VersionInfo is the metadata recorded against one exact published version.
// Dependencies and PeerDependencies preserve the key order of the
// registry's JSON response, since the hoisting planner's placement
// tie-break depends on that order surviving decode.
type VersionInfo struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     *npmtree.StringMap `json:"dependencies"`
	PeerDependencies *npmtree.StringMap `json:"peerDependencies"`
	DevDependencies  *npmtree.StringMap `json:"devDependencies"`
}

// Client fetches packuments over HTTP, with a bounded timeout, scoped-name
// percent-encoding, and retry-on-5xx/transport-failure only (4xx, including
// 404, is never retried).
type Client struct {
	http         *http.Client
	baseURL      string
	headers      map[string]string
	maxAttempts  int
	initialDelay time.Duration
}

// Options configures a Client.
type Options struct {
	// BaseURL is the registry root, e.g. "https://registry.npmjs.org".
	// Defaults to DefaultBaseURL.
	BaseURL string
	// Timeout bounds every request. Defaults to 30s.
	Timeout time.Duration
	// Headers are merged into every request, e.g. an Authorization header
	// for a private registry. "Accept: application/json" is always set
	// unless overridden here.
	Headers map[string]string
	// MaxAttempts bounds the total number of attempts, the first one
	// included, made for a request that keeps failing retryably.
	// Defaults to 3.
	MaxAttempts int
	// InitialDelay is the backoff before the first retry, doubling after
	// each subsequent attempt. Defaults to 1s.
	InitialDelay time.Duration
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	initialDelay := opts.InitialDelay
	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}

	headers := map[string]string{"Accept": "application/json"}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Client{
		http:         &http.Client{Timeout: timeout},
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		headers:      headers,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
	}
}

// FetchPackument retrieves the packument for name. A registry 404 is
// wrapped as errs.CodePackageNotFound with a not-found message; every other
// failure (transport/timeout, a non-2xx status after retries are
// exhausted, or a body that fails to parse as JSON) is also surfaced as
// errs.CodePackageNotFound, wrapping the original cause.
func (c *Client) FetchPackument(ctx context.Context, name string) (*Packument, error) {
	url := c.baseURL + "/" + encodePackageName(name)

	var doc Packument
	err := Retry(ctx, c.maxAttempts, c.initialDelay, func() error {
		return c.getJSON(ctx, url, &doc)
	})
	if err != nil {
		var notFound *notFoundError
		if errors.As(err, &notFound) {
			return nil, errs.Wrap(errs.CodePackageNotFound, err, "package %q not found in registry", name)
		}
		return nil, errs.Wrap(errs.CodePackageNotFound, err, "fetching package %q", name)
	}
	return &doc, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	host := req.URL.Host
	path := req.URL.Path
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return &transientError{Err: fmt.Errorf("registry request failed: %w", err)}
	}
	defer resp.Body.Close()

	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// notFoundError marks a registry 404. It is not retryable.
type notFoundError struct{ status int }

func (e *notFoundError) Error() string { return fmt.Sprintf("registry returned %d", e.status) }

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return &notFoundError{status: code}
	case code >= 500:
		return &transientError{Err: fmt.Errorf("registry returned %d", code)}
	default:
		return fmt.Errorf("registry returned unexpected status %d", code)
	}
}

// encodePackageName percent-encodes the "/" in a scoped package name
// (e.g. "@babel/core" -> "@babel%2Fcore") without touching the leading "@",
// matching how the npm registry expects scoped package lookups.
func encodePackageName(name string) string {
	if !strings.HasPrefix(name, "@") {
		return name
	}
	return strings.Replace(name, "/", "%2F", 1)
}
