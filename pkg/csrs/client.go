// Package csrs is a thin HTTP client for the NRCan CSRS web tools.
//
// Each call is a single attempt: there is no retry, no timeout and no
// connection reuse between invocations.
package csrs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/geodetic-tools/pkg/builder"
	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

const (
	DefaultBaseURL   = "https://webapp.csrs-scrs.nrcan-rncan.gc.ca"
	DefaultUserAgent = "geodetic-tools"
	RequestIDHeader  = "X-Request-ID"
)

// Client sends builder calls to the service
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

type Option func(*Client)

// WithHTTPClient replaces the default non-pooled client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client for baseURL, DefaultBaseURL when empty.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:      cleanhttp.DefaultClient(),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: DefaultUserAgent,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a single point call and returns the raw body
func (c *Client) Get(ctx context.Context, call *builder.SinglePointCall) ([]byte, error) {
	u := call.URL(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, call.Tool)
}

// Upload posts a batch file and returns the raw body, which is either the
// result file or a JSON error payload.
func (c *Client) Upload(ctx context.Context, call *builder.BatchCall) ([]byte, error) {
	contentType, body, err := call.Body()
	if err != nil {
		return nil, err
	}
	u := c.baseURL + call.URLPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", u, err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, call.Tool)
}

func (c *Client) do(req *http.Request, tool string) ([]byte, error) {
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("User-Agent", c.userAgent)
	u := req.URL.String()

	log.Debug().Str("id", id).Str("tool", tool).Str("method", req.Method).Str("url", u).Msg("csrs: request")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &geoerr.TransportError{URL: u, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &geoerr.TransportError{URL: u, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	log.Debug().Str("id", id).Int("status", resp.StatusCode).Int("bytes", len(b)).Msg("csrs: response")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &geoerr.TransportError{URL: u, StatusCode: resp.StatusCode}
	}
	return b, nil
}
