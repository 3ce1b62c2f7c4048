// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

package reddit

import (
	"context"
	"time"

	"github.com/tomtom215/hackdaybot/internal/platform"
)

// streamMemory bounds the per-subscription dedup set. It only needs to
// exceed the poll window (at most 100 comments) so consecutive polls do not
// re-yield overlapping results; cross-restart dedup is the seen tracker's
// job.
const streamMemory = 301

// idleWait is the extra pause between polls that returned nothing new, on
// top of the client-wide rate limiter.
const idleWait = 5 * time.Second

// commentStream polls /r/<sub>/comments and yields comments oldest-first.
//
// The first poll yields the subreddit's recent history rather than skipping
// it; the seen tracker decides what was already handled. Comments are
// delivered once per subscription.
type commentStream struct {
	client  *Client
	pending []*platform.Comment
	emitted map[string]struct{}
	order   []string
}

// Comments opens a live comment subscription for the configured subreddit.
func (c *Client) Comments(_ context.Context) (platform.CommentStream, error) {
	return &commentStream{
		client:  c,
		emitted: make(map[string]struct{}, streamMemory),
	}, nil
}

// Next blocks until a new comment is available or ctx is canceled. Polling
// cadence is set by the client's rate limiter, plus idleWait when a poll
// turned up nothing new.
func (s *commentStream) Next(ctx context.Context) (*platform.Comment, error) {
	for {
		if len(s.pending) > 0 {
			c := s.pending[0]
			s.pending = s.pending[1:]
			return c, nil
		}

		batch, err := s.client.fetchComments(ctx)
		if err != nil {
			return nil, err
		}

		// The listing is newest-first; reverse so delivery follows arrival
		// order.
		for i := len(batch) - 1; i >= 0; i-- {
			c := batch[i]
			if _, ok := s.emitted[c.ID]; ok {
				continue
			}
			s.remember(c.ID)
			s.pending = append(s.pending, c)
		}

		if len(s.pending) == 0 {
			timer := time.NewTimer(idleWait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}
}

func (s *commentStream) remember(id string) {
	s.emitted[id] = struct{}{}
	s.order = append(s.order, id)
	if len(s.order) > streamMemory {
		delete(s.emitted, s.order[0])
		s.order = s.order[1:]
	}
}
