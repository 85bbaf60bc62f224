// Package github talks to the GitHub API as the external identity
// provider: a user proves who they are by presenting a GitHub access
// token, and the only call made is the profile fetch for that token.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public GitHub API endpoint
	DefaultBaseURL = "https://api.github.com"
	// DefaultUserAgent identifies the service to GitHub
	DefaultUserAgent = "sentinai-agent/1.0"
	// DefaultTimeout for HTTP requests
	DefaultTimeout = 10 * time.Second
	// DefaultRateLimit keeps profile fetches well under GitHub's
	// authenticated request budget
	DefaultRateLimit = rate.Limit(10)
)

// ErrInvalidAccessToken signals that GitHub rejected the presented
// access token. It is an authentication failure, not a server fault.
var ErrInvalidAccessToken = errors.New("github: invalid access token")

// Profile is the subset of the GitHub user profile the service needs.
type Profile struct {
	ID    int64   `json:"id"`
	Login string  `json:"login"`
	Email *string `json:"email"`
}

// Client handles communication with the GitHub API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBaseURL overrides the API endpoint (used by tests and GitHub
// Enterprise deployments).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new GitHub API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		limiter:    rate.NewLimiter(DefaultRateLimit, 1),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// FetchProfile exchanges a GitHub access token for the profile it
// belongs to. A non-2xx response means the token is invalid; transport
// failures are reported as upstream errors.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Profile{}, fmt.Errorf("github: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return Profile{}, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("github: fetch profile: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return Profile{}, ErrInvalidAccessToken
	}

	var profile Profile
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("github: decode profile: %w", err)
	}
	return profile, nil
}
