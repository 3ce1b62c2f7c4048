// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

package seen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestTrackerSet(t *testing.T) {
	tracker := NewTracker(t.TempDir(), "testsub", zerolog.Nop())

	if tracker.Has("t1_a") {
		t.Error("fresh tracker claims to have seen t1_a")
	}
	tracker.Mark("t1_a")
	tracker.Mark("t1_b")
	tracker.Mark("t1_a")
	if !tracker.Has("t1_a") || !tracker.Has("t1_b") {
		t.Error("marked IDs not reported as seen")
	}
	if tracker.Len() != 2 {
		t.Errorf("Len = %d, want 2", tracker.Len())
	}
}

func TestTrackerPath(t *testing.T) {
	dir := t.TempDir()
	tracker := NewTracker(dir, "golang", zerolog.Nop())
	want := filepath.Join(dir, "hackdaybot_comments_golang.json")
	if tracker.Path() != want {
		t.Errorf("Path = %q, want %q", tracker.Path(), want)
	}
}

func TestTrackerLoad(t *testing.T) {
	t.Run("missing file starts empty", func(t *testing.T) {
		tracker := NewTracker(t.TempDir(), "testsub", zerolog.Nop())
		tracker.Load()
		if tracker.Len() != 0 {
			t.Errorf("Len = %d, want 0", tracker.Len())
		}
	})

	t.Run("corrupt file starts empty", func(t *testing.T) {
		tracker := NewTracker(t.TempDir(), "testsub", zerolog.Nop())
		if err := os.WriteFile(tracker.Path(), []byte("{not json"), 0o600); err != nil {
			t.Fatalf("seed file: %v", err)
		}
		tracker.Load()
		if tracker.Len() != 0 {
			t.Errorf("Len = %d, want 0", tracker.Len())
		}
	})

	t.Run("valid file restores the set", func(t *testing.T) {
		tracker := NewTracker(t.TempDir(), "testsub", zerolog.Nop())
		if err := os.WriteFile(tracker.Path(), []byte(`["t1_a","t1_b"]`), 0o600); err != nil {
			t.Fatalf("seed file: %v", err)
		}
		tracker.Load()
		if !tracker.Has("t1_a") || !tracker.Has("t1_b") || tracker.Len() != 2 {
			t.Errorf("restored set wrong, Len = %d", tracker.Len())
		}
	})

	t.Run("load discards unflushed marks", func(t *testing.T) {
		tracker := NewTracker(t.TempDir(), "testsub", zerolog.Nop())
		tracker.Mark("t1_stale")
		tracker.Load()
		if tracker.Has("t1_stale") {
			t.Error("Load kept a mark that was never flushed")
		}
	})
}

func TestTrackerFlush(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		tracker := NewTracker(dir, "testsub", zerolog.Nop())
		tracker.Mark("t1_b")
		tracker.Mark("t1_a")
		if err := tracker.Flush(); err != nil {
			t.Fatalf("Flush error: %v", err)
		}

		reloaded := NewTracker(dir, "testsub", zerolog.Nop())
		reloaded.Load()
		if !reloaded.Has("t1_a") || !reloaded.Has("t1_b") || reloaded.Len() != 2 {
			t.Errorf("reloaded set wrong, Len = %d", reloaded.Len())
		}
	})

	t.Run("output is sorted", func(t *testing.T) {
		tracker := NewTracker(t.TempDir(), "testsub", zerolog.Nop())
		tracker.Mark("t1_c")
		tracker.Mark("t1_a")
		tracker.Mark("t1_b")
		if err := tracker.Flush(); err != nil {
			t.Fatalf("Flush error: %v", err)
		}
		data, err := os.ReadFile(tracker.Path())
		if err != nil {
			t.Fatalf("read state file: %v", err)
		}
		if got := string(data); got != `["t1_a","t1_b","t1_c"]` {
			t.Errorf("state file = %s, want sorted array", got)
		}
	})

	t.Run("creates the state directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "state")
		tracker := NewTracker(dir, "testsub", zerolog.Nop())
		tracker.Mark("t1_a")
		if err := tracker.Flush(); err != nil {
			t.Fatalf("Flush error: %v", err)
		}
		if _, err := os.Stat(tracker.Path()); err != nil {
			t.Errorf("state file missing: %v", err)
		}
	})

	t.Run("leaves no temp file behind", func(t *testing.T) {
		dir := t.TempDir()
		tracker := NewTracker(dir, "testsub", zerolog.Nop())
		tracker.Mark("t1_a")
		if err := tracker.Flush(); err != nil {
			t.Fatalf("Flush error: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tmp") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}
