// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package platform defines the boundary between the bot core and the remote
// discussion platform. The core only ever sees these interfaces; the concrete
// Reddit implementation lives in platform/reddit, and tests substitute fakes.
package platform

import (
	"context"
	"errors"
	"fmt"
)

// Comment is a single comment event from the monitored stream.
//
// ID is the platform's opaque comment identifier (Reddit fullname, e.g.
// "t1_abc123") and is the key used for duplicate suppression. LinkID,
// LinkTitle and LinkURL identify the submission the comment is attached to;
// the ledger uses LinkURL as the stable project key and captures LinkTitle
// the first time a submission is seen.
type Comment struct {
	ID        string
	Author    string
	Body      string
	LinkID    string
	LinkTitle string
	LinkURL   string
}

// CommentStream is a live subscription to incoming comments.
//
// Next blocks until a comment arrives, the context is canceled, or the
// subscription fails. Comments are delivered in arrival order. A stream that
// has returned an error is dead; callers re-subscribe via StreamSource.
type CommentStream interface {
	Next(ctx context.Context) (*Comment, error)
}

// StreamSource opens comment subscriptions. The event loop calls Comments
// again after a stream fault; the new subscription resumes from the live
// position rather than replaying history.
type StreamSource interface {
	Comments(ctx context.Context) (CommentStream, error)
}

// Replyer posts a reply to an existing comment.
type Replyer interface {
	Reply(ctx context.Context, commentID, text string) error
}

// WikiStore is the remote document store backing the membership ledger.
//
// Read returns ErrNotFound if the page has never been created. Update
// overwrites the entire page content and records reason in the page's
// revision history.
type WikiStore interface {
	Read(ctx context.Context, page string) (string, error)
	Create(ctx context.Context, page, content string) error
	Update(ctx context.Context, page, content, reason string) error
}

// ErrNotFound indicates the requested remote resource does not exist.
var ErrNotFound = errors.New("platform: not found")

// TransientError marks a fault as recoverable: the upstream API hiccupped
// and the operation is expected to succeed after a pause. The event loop
// retries all upstream faults regardless, so the marker mainly feeds logs
// and metrics.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient platform fault: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a TransientError. A nil err returns nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
