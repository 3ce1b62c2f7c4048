// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package services adapts the bot's long-running components to suture's
// Serve pattern.
package services

import (
	"context"
	"fmt"
)

// Runner is the blocking-run lifecycle satisfied by *bot.Bot.
type Runner interface {
	Run(ctx context.Context) error
}

// BotService runs the event loop as a supervised service.
//
// The event loop already owns its upstream retry policy; suture only steps
// in if Run returns with an unexpected error or panics, restarting it with
// the tree's backoff.
type BotService struct {
	runner Runner
	name   string
}

// NewBotService wraps the event loop runner.
func NewBotService(runner Runner) *BotService {
	return &BotService{runner: runner, name: "event-loop"}
}

// Serve implements suture.Service.
func (s *BotService) Serve(ctx context.Context) error {
	if err := s.runner.Run(ctx); err != nil {
		return fmt.Errorf("event loop failed: %w", err)
	}
	// Run returns nil only on cancellation; report it so suture does not
	// treat a finished loop as a completed service to restart.
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logs.
func (s *BotService) String() string {
	return s.name
}
