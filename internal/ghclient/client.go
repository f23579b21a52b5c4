// Package ghclient provides the GitHub REST API client used by the explorer:
// request builders for the three resources, execution, and classification of
// failed responses.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/locale"
	"golang.org/x/oauth2"
)

// Options configures a Client. The zero value talks to api.github.com
// unauthenticated with the default messages.
type Options struct {
	// BaseURL is the API root, e.g. https://api.github.com.
	BaseURL string
	// Token is an optional access token. Empty means unauthenticated
	// requests, which GitHub allows with a lower rate limit.
	Token string
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Timeout bounds each request. Zero uses constants.HTTPTimeout.
	Timeout time.Duration
	// RequestsPerMinute paces outgoing requests when positive.
	RequestsPerMinute int
	// Messages is the catalog used for classified errors.
	Messages locale.Messages
}

// Client wraps the GitHub API client
type Client struct {
	gh        *gh.Client
	http      *http.Client
	rateLimit *RateLimitState
	messages  locale.Messages
	// authenticated records whether a token was configured. The token itself
	// is intentionally not kept; it lives only inside the oauth2 transport.
	authenticated bool
}

// NewClient creates a new GitHub client. A missing token is not an error.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	baseURL, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: opts.Token, TokenType: "token"},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	state := &RateLimitState{}
	httpClient.Transport = &rateLimitTransport{
		base:    base,
		state:   state,
		limiter: newLimiter(opts.RequestsPerMinute),
	}

	httpClient.Timeout = opts.Timeout
	if httpClient.Timeout == 0 {
		httpClient.Timeout = constants.HTTPTimeout
	}

	client := gh.NewClient(httpClient)
	client.BaseURL = baseURL
	client.UserAgent = constants.UserAgent
	if opts.UserAgent != "" {
		client.UserAgent = opts.UserAgent
	}

	messages := opts.Messages
	if messages.Unexpected == "" {
		messages = locale.For("")
	}

	return &Client{
		gh:            client,
		http:          httpClient,
		rateLimit:     state,
		messages:      messages,
		authenticated: opts.Token != "",
	}, nil
}

// parseBaseURL validates the API root and adds the trailing slash go-github
// requires for relative request paths.
func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = constants.DefaultAPIBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", raw)
	}
	return u, nil
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.gh.BaseURL.String()
}

// Authenticated reports whether requests carry an access token.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// Messages returns the catalog used for classified errors.
func (c *Client) Messages() locale.Messages {
	return c.messages
}

// RateLimitStatus returns the rate limit values from the last response.
func (c *Client) RateLimitStatus() RateLimitStatus {
	return c.rateLimit.Status()
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}
