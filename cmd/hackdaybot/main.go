// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package main is the entry point for the hackdaybot process.
//
// hackdaybot watches a subreddit's comment stream for roster commands
// (!join, !leave, !interested, !uninterested, !help) and maintains the
// per-project member roster on the subreddit's "projects" wiki page.
//
// Startup order:
//
//  1. Configuration: Koanf v2 layered load (defaults, config.yaml, env vars)
//  2. Logging: global zerolog logger
//  3. Reddit client: OAuth2 script-app credentials, rate limited
//  4. Roster ledger: loaded from the wiki page (created empty if absent)
//  5. Seen-comment tracker: loaded from local state
//  6. Supervision tree: event loop + optional read-only HTTP API
//
// Configuration (environment variables):
//
//	REDDIT_CLIENT_ID / REDDIT_CLIENT_SECRET   script app credentials
//	REDDIT_USERNAME / REDDIT_PASSWORD         bot account credentials
//	REDDIT_SUBREDDIT                          subreddit to watch
//	BOT_BACKOFF                               retry pause after API faults (default 10s)
//	BOT_WIKI_PAGE                             roster wiki page (default "projects")
//	HTTP_PORT                                 API/metrics port (default 3858)
//	LOG_LEVEL / LOG_FORMAT                    logging (default info/json)
//
// SIGINT and SIGTERM trigger graceful shutdown: the event loop flushes the
// seen-comment set, the HTTP server drains, and the process exits 0.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/hackdaybot/internal/api"
	"github.com/tomtom215/hackdaybot/internal/bot"
	"github.com/tomtom215/hackdaybot/internal/config"
	"github.com/tomtom215/hackdaybot/internal/logging"
	"github.com/tomtom215/hackdaybot/internal/platform/reddit"
	"github.com/tomtom215/hackdaybot/internal/roster"
	"github.com/tomtom215/hackdaybot/internal/seen"
	"github.com/tomtom215/hackdaybot/internal/supervisor"
	"github.com/tomtom215/hackdaybot/internal/supervisor/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hackdaybot: %v\n", err)
		return 1
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := reddit.NewClient(ctx, reddit.Config{
		ClientID:          cfg.Reddit.ClientID,
		ClientSecret:      cfg.Reddit.ClientSecret,
		Username:          cfg.Reddit.Username,
		Password:          cfg.Reddit.Password,
		UserAgent:         cfg.Reddit.UserAgent,
		Subreddit:         cfg.Reddit.Subreddit,
		BaseURL:           cfg.Reddit.BaseURL,
		TokenURL:          cfg.Reddit.TokenURL,
		RequestsPerMinute: cfg.Reddit.RequestsPerMinute,
		PollLimit:         cfg.Reddit.PollLimit,
	}, logging.Component("reddit"))

	ledger := roster.NewLedger(client, cfg.Bot.WikiPage, logging.Component("roster"))
	if err := ledger.Load(ctx); err != nil {
		logging.Err(err).Msg("Cannot load roster")
		return 1
	}

	stateDir, err := cfg.ResolveStateDir()
	if err != nil {
		logging.Err(err).Msg("Cannot resolve state directory")
		return 1
	}
	tracker := seen.NewTracker(stateDir, cfg.Reddit.Subreddit, logging.Component("seen"))
	tracker.Load()

	loop := bot.New(bot.Config{
		Subreddit: cfg.Reddit.Subreddit,
		Backoff:   cfg.Bot.Backoff,
	}, client, client, ledger, tracker, logging.Component("bot"))

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddBotService(services.NewBotService(loop))

	if cfg.Server.Enabled {
		apiServer := api.NewServer(api.Config{
			Subreddit:       cfg.Reddit.Subreddit,
			RateLimitReqs:   cfg.Server.RateLimitReqs,
			RateLimitWindow: cfg.Server.RateLimitWindow,
		}, ledger, tracker, logging.Component("api"))

		httpServer := &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
			Handler:           apiServer.Router(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.Server.Timeout,
			WriteTimeout:      cfg.Server.Timeout,
		}
		tree.AddAPIService(services.NewHTTPService(httpServer, 10*time.Second))
		logging.Info().Str("addr", httpServer.Addr).Msg("HTTP API enabled")
	}

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Err(err).Msg("Supervisor exited with error")
		return 1
	}

	logging.Info().Msg("Shutdown complete")
	return 0
}
