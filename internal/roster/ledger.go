// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package roster owns the per-project membership ledger.
//
// The ledger is the in-memory authority over which users have joined or
// expressed interest in each hack-day project. It is backed by a subreddit
// wiki page: loaded once at startup, re-rendered in full and written back
// after every successful mutation, with a human-readable edit reason so the
// wiki revision history doubles as an audit log.
//
// Mutations are idempotent at the data level: adding a present member or
// removing an absent one is surfaced as an informational message, never an
// error. Storage faults are not retried here; the event loop owns retry
// policy.
package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hackdaybot/internal/metrics"
	"github.com/tomtom215/hackdaybot/internal/platform"
)

// User-facing status messages returned by ledger operations.
const (
	MsgJoined            = "You have successfully joined the project."
	MsgAlreadyJoined     = "You have already joined this project."
	MsgLeft              = "You have been removed from the project."
	MsgNotJoined         = "You have not joined this project."
	MsgInterested        = "Your interest in this project has been recorded."
	MsgAlreadyInterested = "You have already expressed interest in this project."
	MsgUninterested      = "Your interest in this project has been withdrawn."
	MsgNotInterested     = "You have not expressed interest in this project."
)

// Project is one hack-day project and its two member rosters. The sets are
// independent: a user may be in either, both, or neither.
type Project struct {
	Title      string
	URL        string
	Assignees  map[string]struct{}
	Interested map[string]struct{}
}

func newProject(title, url string) *Project {
	return &Project{
		Title:      title,
		URL:        url,
		Assignees:  make(map[string]struct{}),
		Interested: make(map[string]struct{}),
	}
}

// empty reports whether both rosters are empty. Empty projects are pruned
// from serialized output but may linger in memory for the process lifetime.
func (p *Project) empty() bool {
	return len(p.Assignees) == 0 && len(p.Interested) == 0
}

// TopicRef identifies the submission a command refers to. LinkURL is the
// stable project key; Title is captured the first time the submission is
// seen; LinkID only appears in audit reasons.
type TopicRef struct {
	LinkID string
	Title  string
	URL    string
}

// Ledger maps link URLs to projects and keeps the backing wiki page in sync.
//
// All mutation happens on the event loop's goroutine; the RWMutex exists so
// the read-only HTTP API can take snapshots concurrently.
type Ledger struct {
	mu       sync.RWMutex
	store    platform.WikiStore
	page     string
	projects map[string]*Project
	log      zerolog.Logger
}

// NewLedger creates an empty ledger backed by the named wiki page.
func NewLedger(store platform.WikiStore, page string, log zerolog.Logger) *Ledger {
	return &Ledger{
		store:    store,
		page:     page,
		projects: make(map[string]*Project),
		log:      log,
	}
}

// Load replaces the in-memory state with the wiki page's content. A page
// that does not exist yet is created empty rather than treated as an error;
// a page that exists but fails to parse aborts startup.
func (l *Ledger) Load(ctx context.Context) error {
	content, err := l.store.Read(ctx, l.page)
	if errors.Is(err, platform.ErrNotFound) {
		if err := l.store.Create(ctx, l.page, ""); err != nil {
			return fmt.Errorf("create roster page %q: %w", l.page, err)
		}
		l.mu.Lock()
		l.projects = make(map[string]*Project)
		l.mu.Unlock()
		l.log.Info().Str("page", l.page).Msg("Roster page absent, created empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read roster page %q: %w", l.page, err)
	}

	projects, err := parsePage(content)
	if err != nil {
		return fmt.Errorf("parse roster page %q: %w", l.page, err)
	}

	l.mu.Lock()
	l.projects = projects
	n := l.countNonEmpty()
	l.mu.Unlock()
	metrics.Projects.Set(float64(n))
	l.log.Debug().Int("projects", len(projects)).Str("page", l.page).Msg("Loaded roster")
	return nil
}

// Join adds user to the project's assignee roster.
func (l *Ledger) Join(ctx context.Context, ref TopicRef, user string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.project(ref)
	if _, ok := p.Assignees[user]; ok {
		return MsgAlreadyJoined, nil
	}
	p.Assignees[user] = struct{}{}
	if err := l.save(ctx, fmt.Sprintf("join %s to %s", user, ref.LinkID)); err != nil {
		delete(p.Assignees, user)
		return "", err
	}
	return MsgJoined, nil
}

// Leave removes user from the project's assignee roster.
func (l *Ledger) Leave(ctx context.Context, ref TopicRef, user string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.project(ref)
	if _, ok := p.Assignees[user]; !ok {
		return MsgNotJoined, nil
	}
	delete(p.Assignees, user)
	if err := l.save(ctx, fmt.Sprintf("leave %s from %s", user, ref.LinkID)); err != nil {
		p.Assignees[user] = struct{}{}
		return "", err
	}
	return MsgLeft, nil
}

// ExpressInterest adds user to the project's interested roster.
func (l *Ledger) ExpressInterest(ctx context.Context, ref TopicRef, user string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.project(ref)
	if _, ok := p.Interested[user]; ok {
		return MsgAlreadyInterested, nil
	}
	p.Interested[user] = struct{}{}
	if err := l.save(ctx, fmt.Sprintf("interest %s in %s", user, ref.LinkID)); err != nil {
		delete(p.Interested, user)
		return "", err
	}
	return MsgInterested, nil
}

// WithdrawInterest removes user from the project's interested roster.
func (l *Ledger) WithdrawInterest(ctx context.Context, ref TopicRef, user string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.project(ref)
	if _, ok := p.Interested[user]; !ok {
		return MsgNotInterested, nil
	}
	delete(p.Interested, user)
	if err := l.save(ctx, fmt.Sprintf("uninterest %s from %s", user, ref.LinkID)); err != nil {
		p.Interested[user] = struct{}{}
		return "", err
	}
	return MsgUninterested, nil
}

// project returns the entry for ref's submission, creating it (and capturing
// its title) on first sight. Must be called with l.mu held.
func (l *Ledger) project(ref TopicRef) *Project {
	p, ok := l.projects[ref.URL]
	if !ok {
		p = newProject(ref.Title, ref.URL)
		l.projects[ref.URL] = p
	}
	return p
}

// save re-renders the whole ledger and overwrites the wiki page. The page is
// always a pure function of in-memory state; there are no partial writes.
// A failed save is rolled back by the caller so that the event loop's retry
// re-applies the mutation instead of finding it already present in memory.
// Must be called with l.mu held.
func (l *Ledger) save(ctx context.Context, reason string) error {
	if err := l.store.Update(ctx, l.page, renderPage(l.projects), reason); err != nil {
		return fmt.Errorf("save roster page %q: %w", l.page, err)
	}
	metrics.RosterSaves.Inc()
	metrics.Projects.Set(float64(l.countNonEmpty()))
	l.log.Debug().Str("reason", reason).Msg("Saved roster")
	return nil
}

// countNonEmpty must be called with l.mu held.
func (l *Ledger) countNonEmpty() int {
	n := 0
	for _, p := range l.projects {
		if !p.empty() {
			n++
		}
	}
	return n
}

// ProjectSnapshot is a read-only copy of one project for the HTTP API.
type ProjectSnapshot struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Assignees  []string `json:"assignees"`
	Interested []string `json:"interested"`
}

// Snapshot returns all non-empty projects in serialization order (title,
// then URL; members sorted).
func (l *Ledger) Snapshot() []ProjectSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshots := make([]ProjectSnapshot, 0, len(l.projects))
	for _, p := range l.projects {
		if p.empty() {
			continue
		}
		snapshots = append(snapshots, ProjectSnapshot{
			Title:      p.Title,
			URL:        p.URL,
			Assignees:  sortedMembers(p.Assignees),
			Interested: sortedMembers(p.Interested),
		})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Title != snapshots[j].Title {
			return snapshots[i].Title < snapshots[j].Title
		}
		return snapshots[i].URL < snapshots[j].URL
	})
	return snapshots
}
