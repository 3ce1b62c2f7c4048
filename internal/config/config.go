// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package config loads and validates hackdaybot configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (REDDIT_CLIENT_ID, BOT_BACKOFF, ...)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration for the bot process.
type Config struct {
	Reddit  RedditConfig  `koanf:"reddit"`
	Bot     BotConfig     `koanf:"bot"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// RedditConfig holds credentials and endpoints for the Reddit script app.
type RedditConfig struct {
	// ClientID and ClientSecret identify the script app; Username and
	// Password are the bot account's credentials (OAuth2 password grant).
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`

	// UserAgent is sent on every request. Reddit throttles generic agents.
	UserAgent string `koanf:"user_agent"`

	// Subreddit to monitor for commands, without the /r/ prefix.
	Subreddit string `koanf:"subreddit"`

	// BaseURL is the OAuth API host; TokenURL issues access tokens.
	// Overridable for tests.
	BaseURL  string `koanf:"base_url"`
	TokenURL string `koanf:"token_url"`

	// RequestsPerMinute caps outbound API calls client-side.
	RequestsPerMinute int `koanf:"requests_per_minute"`

	// PollLimit is the number of comments fetched per stream poll (max 100).
	PollLimit int `koanf:"poll_limit"`
}

// BotConfig holds event-loop and ledger settings.
type BotConfig struct {
	// WikiPage is the subreddit wiki page that stores the project roster.
	WikiPage string `koanf:"wiki_page"`

	// Backoff is the pause before re-subscribing after an upstream fault.
	Backoff time.Duration `koanf:"backoff"`

	// StateDir holds the seen-comment file. Empty means the user config
	// directory (~/.config/hackdaybot).
	StateDir string `koanf:"state_dir"`
}

// ServerConfig holds settings for the read-only HTTP API.
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig mirrors logging.Config for the koanf layer.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Reddit: RedditConfig{
			UserAgent:         "golang:hackdaybot:v1.0 (by /u/tomtom215)",
			BaseURL:           "https://oauth.reddit.com",
			TokenURL:          "https://www.reddit.com/api/v1/access_token",
			RequestsPerMinute: 60, // Reddit's documented OAuth limit
			PollLimit:         100,
		},
		Bot: BotConfig{
			WikiPage: "projects",
			Backoff:  10 * time.Second,
			StateDir: "",
		},
		Server: ServerConfig{
			Enabled:         true,
			Host:            "0.0.0.0",
			Port:            3858,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateReddit(); err != nil {
		return err
	}
	if err := c.validateBot(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateReddit() error {
	if c.Reddit.Subreddit == "" {
		return fmt.Errorf("REDDIT_SUBREDDIT is required")
	}
	for _, field := range []struct{ name, value string }{
		{"REDDIT_CLIENT_ID", c.Reddit.ClientID},
		{"REDDIT_CLIENT_SECRET", c.Reddit.ClientSecret},
		{"REDDIT_USERNAME", c.Reddit.Username},
		{"REDDIT_PASSWORD", c.Reddit.Password},
	} {
		if field.value == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}
	if c.Reddit.RequestsPerMinute <= 0 {
		return fmt.Errorf("reddit requests_per_minute must be positive, got %d", c.Reddit.RequestsPerMinute)
	}
	if c.Reddit.PollLimit < 1 || c.Reddit.PollLimit > 100 {
		return fmt.Errorf("reddit poll_limit must be in [1,100], got %d", c.Reddit.PollLimit)
	}
	return nil
}

func (c *Config) validateBot() error {
	if c.Bot.WikiPage == "" {
		return fmt.Errorf("bot wiki_page must not be empty")
	}
	if c.Bot.Backoff <= 0 {
		return fmt.Errorf("bot backoff must be positive, got %s", c.Bot.Backoff)
	}
	return nil
}

func (c *Config) validateServer() error {
	if !c.Server.Enabled {
		return nil
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// ResolveStateDir returns the directory for local state, defaulting to the
// user config directory when unset.
func (c *Config) ResolveStateDir() (string, error) {
	if c.Bot.StateDir != "" {
		return c.Bot.StateDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve state dir: %w", err)
	}
	return filepath.Join(base, "hackdaybot"), nil
}
