// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package seen tracks which comment IDs have already been handled so that
// restarts and re-subscriptions do not double-apply commands.
//
// The set is persisted as a JSON array in a single file keyed by the
// monitored subreddit, loaded once at startup and flushed on clean shutdown.
// A missing or corrupt file loads as an empty set; duplicate suppression is
// best-effort by design and never worth crashing over.
package seen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// filenameTemplate keys the state file by subreddit so independent
// deployments watching different subreddits do not collide.
const filenameTemplate = "hackdaybot_comments_%s.json"

// Tracker is the persisted set of already-processed comment IDs.
//
// Tracker is not safe for concurrent use; the event loop is the only writer
// and reader during normal operation.
type Tracker struct {
	path string
	ids  map[string]struct{}
	log  zerolog.Logger
}

// NewTracker creates a tracker whose state file lives under stateDir and is
// keyed by subreddit. The set starts empty; call Load to read prior state.
func NewTracker(stateDir, subreddit string, log zerolog.Logger) *Tracker {
	return &Tracker{
		path: filepath.Join(stateDir, fmt.Sprintf(filenameTemplate, subreddit)),
		ids:  make(map[string]struct{}),
		log:  log,
	}
}

// Path returns the location of the state file.
func (t *Tracker) Path() string { return t.path }

// Has reports whether id has already been processed.
func (t *Tracker) Has(id string) bool {
	_, ok := t.ids[id]
	return ok
}

// Mark records id as processed. Marking an already-present id is a no-op.
func (t *Tracker) Mark(id string) {
	t.ids[id] = struct{}{}
}

// Len returns the number of tracked IDs.
func (t *Tracker) Len() int { return len(t.ids) }

// Load replaces the in-memory set with the contents of the state file.
//
// A missing file is the normal first-run case. A file that cannot be read or
// parsed is logged and treated as empty rather than aborting startup; the
// cost is a burst of duplicate no-op replies, not data corruption.
func (t *Tracker) Load() {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.log.Warn().Err(err).Str("path", t.path).Msg("Seen-comment file unreadable, starting empty")
		}
		t.ids = make(map[string]struct{})
		return
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		t.log.Warn().Err(err).Str("path", t.path).Msg("Seen-comment file corrupt, starting empty")
		t.ids = make(map[string]struct{})
		return
	}

	t.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t.ids[id] = struct{}{}
	}
	t.log.Debug().Int("count", len(t.ids)).Msg("Discovered seen comments")
}

// Flush writes the full sorted set to the state file.
//
// The write goes through a temp file and rename so an interrupt mid-flush
// leaves the previous state intact.
func (t *Tracker) Flush() error {
	ids := make([]string, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode seen comments: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write seen comments: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("replace seen comments: %w", err)
	}

	t.log.Debug().Int("count", len(ids)).Msg("Recorded seen comments")
	return nil
}
