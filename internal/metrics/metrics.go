// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package metrics provides Prometheus instrumentation for the bot.
//
// Metrics are exposed at /metrics on the HTTP API in Prometheus text format:
//
//	bot_comments_processed_total      comments handled (counter)
//	bot_duplicates_skipped_total      comments skipped as already seen (counter)
//	bot_commands_total{command}       dispatched commands by name (counter)
//	bot_replies_sent_total            replies posted (counter)
//	bot_stream_faults_total           upstream faults that triggered backoff (counter)
//	bot_roster_saves_total            wiki page overwrites (counter)
//	bot_projects                      projects with a non-empty roster (gauge)
//	bot_seen_comments                 size of the seen-comment set (gauge)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommentsProcessed counts comments pulled from the stream and handled.
	CommentsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_comments_processed_total",
			Help: "Total number of comments handled by the event loop",
		},
	)

	// DuplicatesSkipped counts comments dropped by the seen-comment guard.
	DuplicatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_duplicates_skipped_total",
			Help: "Total number of comments skipped as already seen",
		},
	)

	// Commands counts dispatched commands by name.
	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of commands dispatched",
		},
		[]string{"command"},
	)

	// RepliesSent counts replies posted back to commenters.
	RepliesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_replies_sent_total",
			Help: "Total number of replies posted",
		},
	)

	// StreamFaults counts upstream faults that triggered a backoff pause.
	StreamFaults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_stream_faults_total",
			Help: "Total number of upstream faults that triggered backoff",
		},
	)

	// RosterSaves counts full wiki page overwrites.
	RosterSaves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_roster_saves_total",
			Help: "Total number of roster page overwrites",
		},
	)

	// Projects tracks how many projects currently have a non-empty roster.
	Projects = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_projects",
			Help: "Current number of projects with a non-empty roster",
		},
	)

	// SeenComments tracks the size of the seen-comment set.
	SeenComments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_seen_comments",
			Help: "Current size of the seen-comment set",
		},
	)
)
