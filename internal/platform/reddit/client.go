// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package reddit implements the platform boundary against the Reddit OAuth
// API for a script-type app: a polling comment stream, comment replies, and
// the subreddit wiki as the roster's document store.
//
// Authentication uses the OAuth2 password grant (Reddit's flow for script
// apps); tokens are refreshed by re-running the grant when they expire.
// All calls pass through a client-side rate limiter sized to Reddit's
// documented 60 requests/minute OAuth budget.
package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/hackdaybot/internal/platform"
)

// Config holds Reddit API settings. See config.RedditConfig for semantics.
type Config struct {
	ClientID          string
	ClientSecret      string
	Username          string
	Password          string
	UserAgent         string
	Subreddit         string
	BaseURL           string
	TokenURL          string
	RequestsPerMinute int
	PollLimit         int
}

// Client talks to the Reddit API for one subreddit.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Compile-time checks that Client covers the whole platform boundary.
var (
	_ platform.StreamSource = (*Client)(nil)
	_ platform.Replyer      = (*Client)(nil)
	_ platform.WikiStore    = (*Client)(nil)
)

// NewClient creates an authenticated client. No request is made until the
// first API call; a bad password surfaces there, wrapped as transient like
// any other upstream fault, so the operator sees it logged on every retry.
func NewClient(ctx context.Context, cfg Config, log zerolog.Logger) *Client {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	// The token request must carry the bot's User-Agent too: Reddit
	// throttles the default Go agent aggressively.
	base := &http.Client{Transport: &userAgentTransport{
		base:  http.DefaultTransport,
		agent: cfg.UserAgent,
	}}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	source := oauth2.ReuseTokenSource(nil, &passwordGrantSource{
		ctx:      ctx,
		conf:     conf,
		username: cfg.Username,
		password: cfg.Password,
	})

	return newClient(cfg, oauth2.NewClient(ctx, source), log)
}

// newClient wires a Client around an arbitrary HTTP client; tests inject a
// plain one pointed at httptest servers.
func newClient(cfg Config, httpClient *http.Client, log zerolog.Logger) *Client {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		log:     log,
	}
}

// passwordGrantSource re-runs the OAuth2 password grant whenever the cached
// token expires. Reddit's script-app grant returns no refresh token.
type passwordGrantSource struct {
	ctx      context.Context
	conf     *oauth2.Config
	username string
	password string
}

func (s *passwordGrantSource) Token() (*oauth2.Token, error) {
	return s.conf.PasswordCredentialsToken(s.ctx, s.username, s.password)
}

// userAgentTransport stamps every outgoing request with the configured agent.
type userAgentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(clone)
}

// Reply posts text as a reply to the given comment fullname.
func (c *Client) Reply(ctx context.Context, commentID, text string) error {
	form := url.Values{
		"api_type": {"json"},
		"thing_id": {commentID},
		"text":     {text},
	}
	var resp struct {
		JSON struct {
			Errors [][]string `json:"errors"`
		} `json:"json"`
	}
	if err := c.post(ctx, "/api/comment", form, &resp); err != nil {
		return err
	}
	if len(resp.JSON.Errors) > 0 {
		err := fmt.Errorf("reddit: reply rejected: %v", resp.JSON.Errors)
		if strings.Contains(fmt.Sprint(resp.JSON.Errors), "RATELIMIT") {
			return platform.Transient(err)
		}
		return err
	}
	return nil
}

// get performs a rate-limited GET and decodes the JSON response into v.
func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("raw_json", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("reddit: build request: %w", err)
	}
	return c.do(req, v)
}

// post performs a rate-limited form POST and decodes the JSON response into v.
func (c *Client) post(ctx context.Context, path string, form url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("reddit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport-level failures are the classic transient case.
		return platform.Transient(fmt.Errorf("reddit: %s %s: %w", req.Method, req.URL.Path, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return platform.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return platform.Transient(fmt.Errorf("reddit: %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("reddit: %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("reddit: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

