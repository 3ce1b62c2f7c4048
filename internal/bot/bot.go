// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package bot runs the event loop that turns subreddit comments into roster
// mutations.
//
// The loop is a single goroutine: it subscribes to the live comment stream,
// skips comments already recorded by the seen tracker, parses commands,
// dispatches exactly-one-command comments to the matching ledger operation
// (or the static help reply), posts the resulting message, and only then
// marks the comment as seen. Upstream faults of any kind are logged and
// answered with a fixed backoff pause followed by a fresh subscription; only
// context cancellation stops the loop, which then flushes the seen tracker
// and returns cleanly.
package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hackdaybot/internal/command"
	"github.com/tomtom215/hackdaybot/internal/metrics"
	"github.com/tomtom215/hackdaybot/internal/platform"
	"github.com/tomtom215/hackdaybot/internal/roster"
)

// replySingleCommand is posted when a comment contains more than one
// distinct command.
const replySingleCommand = "Please provide only a single command."

// Roster is the subset of *roster.Ledger the event loop dispatches to.
type Roster interface {
	Join(ctx context.Context, ref roster.TopicRef, user string) (string, error)
	Leave(ctx context.Context, ref roster.TopicRef, user string) (string, error)
	ExpressInterest(ctx context.Context, ref roster.TopicRef, user string) (string, error)
	WithdrawInterest(ctx context.Context, ref roster.TopicRef, user string) (string, error)
}

// SeenTracker is the subset of *seen.Tracker the event loop uses.
type SeenTracker interface {
	Has(id string) bool
	Mark(id string)
	Len() int
	Flush() error
}

// Config holds event-loop settings.
type Config struct {
	// Subreddit being watched; used only for logging.
	Subreddit string

	// Backoff is the pause before re-subscribing after an upstream fault.
	Backoff time.Duration
}

// handlerFunc produces the reply text for one command against one comment.
type handlerFunc func(ctx context.Context, c *platform.Comment) (string, error)

// Bot consumes the comment stream and dispatches commands.
type Bot struct {
	cfg      Config
	source   platform.StreamSource
	replies  platform.Replyer
	ledger   Roster
	seen     SeenTracker
	handlers map[command.Command]handlerFunc
	log      zerolog.Logger
}

// New creates a Bot. The dispatch table is built here, one entry per command
// in the closed vocabulary.
func New(cfg Config, source platform.StreamSource, replies platform.Replyer, ledger Roster, tracker SeenTracker, log zerolog.Logger) *Bot {
	if cfg.Backoff <= 0 {
		cfg.Backoff = 10 * time.Second
	}
	b := &Bot{
		cfg:     cfg,
		source:  source,
		replies: replies,
		ledger:  ledger,
		seen:    tracker,
		log:     log,
	}
	b.handlers = map[command.Command]handlerFunc{
		command.Help: func(context.Context, *platform.Comment) (string, error) {
			return command.HelpTable(), nil
		},
		command.Interested: func(ctx context.Context, c *platform.Comment) (string, error) {
			return b.ledger.ExpressInterest(ctx, topicRef(c), c.Author)
		},
		command.Join: func(ctx context.Context, c *platform.Comment) (string, error) {
			return b.ledger.Join(ctx, topicRef(c), c.Author)
		},
		command.Leave: func(ctx context.Context, c *platform.Comment) (string, error) {
			return b.ledger.Leave(ctx, topicRef(c), c.Author)
		},
		command.Uninterested: func(ctx context.Context, c *platform.Comment) (string, error) {
			return b.ledger.WithdrawInterest(ctx, topicRef(c), c.Author)
		},
	}
	return b
}

// Run consumes the comment stream until ctx is canceled.
//
// Every error from the stream, the ledger's wiki store, or reply posting is
// treated as transient: log, wait out the backoff, re-subscribe. The comment
// being handled at the time is not marked seen, so the retry reprocesses it.
// Cancellation flushes the seen tracker and returns nil.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Str("subreddit", b.cfg.Subreddit).Msg("Watching for comments")

	for ctx.Err() == nil {
		err := b.consume(ctx)
		if ctx.Err() != nil {
			break
		}
		metrics.StreamFaults.Inc()
		b.log.Error().
			Err(err).
			Bool("transient", platform.IsTransient(err)).
			Dur("backoff", b.cfg.Backoff).
			Msg("Upstream fault, backing off")
		if !b.pause(ctx) {
			break
		}
	}

	b.log.Info().Msg("Termination received. Goodbye!")
	if err := b.seen.Flush(); err != nil {
		b.log.Error().Err(err).Msg("Failed to flush seen comments")
	}
	return nil
}

// consume opens one subscription and handles comments until it fails.
func (b *Bot) consume(ctx context.Context) error {
	stream, err := b.source.Comments(ctx)
	if err != nil {
		return err
	}
	for {
		c, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		if err := b.handle(ctx, c); err != nil {
			return err
		}
	}
}

// handle processes a single comment. The seen mark is recorded only after
// the whole comment (dispatch and reply) succeeded, keeping delivery
// at-least-once with best-effort deduplication.
func (b *Bot) handle(ctx context.Context, c *platform.Comment) error {
	if b.seen.Has(c.ID) {
		metrics.DuplicatesSkipped.Inc()
		return nil
	}

	cmds := command.Parse(c.Body)
	switch {
	case len(cmds) > 1:
		if err := b.reply(ctx, c, replySingleCommand); err != nil {
			return err
		}
	case len(cmds) == 1:
		cmd := cmds[0]
		msg, err := b.handlers[cmd](ctx, c)
		if err != nil {
			return err
		}
		if err := b.reply(ctx, c, msg); err != nil {
			return err
		}
		metrics.Commands.WithLabelValues(cmd.String()).Inc()
		b.log.Debug().
			Str("command", cmd.String()).
			Str("author", c.Author).
			Str("comment", c.ID).
			Msg("Handled command")
	}

	b.seen.Mark(c.ID)
	metrics.CommentsProcessed.Inc()
	metrics.SeenComments.Set(float64(b.seen.Len()))
	return nil
}

func (b *Bot) reply(ctx context.Context, c *platform.Comment, text string) error {
	if err := b.replies.Reply(ctx, c.ID, text); err != nil {
		return err
	}
	metrics.RepliesSent.Inc()
	return nil
}

// pause waits out the backoff interval. Returns false if ctx was canceled
// while waiting.
func (b *Bot) pause(ctx context.Context) bool {
	timer := time.NewTimer(b.cfg.Backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func topicRef(c *platform.Comment) roster.TopicRef {
	return roster.TopicRef{LinkID: c.LinkID, Title: c.LinkTitle, URL: c.LinkURL}
}
