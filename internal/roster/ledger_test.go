// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

package roster

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hackdaybot/internal/platform"
)

// fakeWiki is an in-memory platform.WikiStore recording every edit.
type fakeWiki struct {
	pages   map[string]string
	reasons []string
	updates int
	failing error
}

func newFakeWiki() *fakeWiki {
	return &fakeWiki{pages: make(map[string]string)}
}

func (w *fakeWiki) Read(_ context.Context, page string) (string, error) {
	content, ok := w.pages[page]
	if !ok {
		return "", platform.ErrNotFound
	}
	return content, nil
}

func (w *fakeWiki) Create(_ context.Context, page, content string) error {
	w.pages[page] = content
	return nil
}

func (w *fakeWiki) Update(_ context.Context, page, content, reason string) error {
	if w.failing != nil {
		return w.failing
	}
	w.pages[page] = content
	w.reasons = append(w.reasons, reason)
	w.updates++
	return nil
}

func testLedger(t *testing.T) (*Ledger, *fakeWiki) {
	t.Helper()
	wiki := newFakeWiki()
	ledger := NewLedger(wiki, "projects", zerolog.Nop())
	if err := ledger.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return ledger, wiki
}

var ref = TopicRef{LinkID: "t3_abc", Title: "Chat Bot", URL: "https://example.com/abc"}

func TestLedgerLoad(t *testing.T) {
	t.Run("absent page is created empty", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		if content, ok := wiki.pages["projects"]; !ok || content != "" {
			t.Errorf("page = %q (present=%v), want created empty", content, ok)
		}
		if snaps := ledger.Snapshot(); len(snaps) != 0 {
			t.Errorf("Snapshot = %v, want empty", snaps)
		}
	})

	t.Run("existing page is parsed", func(t *testing.T) {
		wiki := newFakeWiki()
		wiki.pages["projects"] = "# [T](u)\n* /u/alice"
		ledger := NewLedger(wiki, "projects", zerolog.Nop())
		if err := ledger.Load(context.Background()); err != nil {
			t.Fatalf("Load error: %v", err)
		}
		snaps := ledger.Snapshot()
		if len(snaps) != 1 || snaps[0].Assignees[0] != "alice" {
			t.Errorf("Snapshot = %v, want one project with alice", snaps)
		}
	})

	t.Run("malformed page aborts load", func(t *testing.T) {
		wiki := newFakeWiki()
		wiki.pages["projects"] = "# broken heading"
		ledger := NewLedger(wiki, "projects", zerolog.Nop())
		err := ledger.Load(context.Background())
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Load error = %v, want ParseError", err)
		}
	})

	t.Run("read failure propagates", func(t *testing.T) {
		boom := errors.New("api down")
		ledger := NewLedger(&erroringWiki{err: boom}, "projects", zerolog.Nop())
		if err := ledger.Load(context.Background()); !errors.Is(err, boom) {
			t.Errorf("Load error = %v, want %v", err, boom)
		}
	})
}

type erroringWiki struct{ err error }

func (w *erroringWiki) Read(context.Context, string) (string, error) { return "", w.err }
func (w *erroringWiki) Create(context.Context, string, string) error { return w.err }
func (w *erroringWiki) Update(context.Context, string, string, string) error {
	return w.err
}

func TestJoin(t *testing.T) {
	t.Run("first join persists and reports success", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		msg, err := ledger.Join(context.Background(), ref, "alice")
		if err != nil {
			t.Fatalf("Join error: %v", err)
		}
		if msg != MsgJoined {
			t.Errorf("msg = %q, want %q", msg, MsgJoined)
		}
		want := "# [Chat Bot](https://example.com/abc)\n* /u/alice"
		if wiki.pages["projects"] != want {
			t.Errorf("page = %q, want %q", wiki.pages["projects"], want)
		}
		if got := wiki.reasons[len(wiki.reasons)-1]; got != "join alice to t3_abc" {
			t.Errorf("reason = %q", got)
		}
	})

	t.Run("second join is an informational no-op", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		if _, err := ledger.Join(context.Background(), ref, "alice"); err != nil {
			t.Fatalf("Join error: %v", err)
		}
		updates := wiki.updates

		msg, err := ledger.Join(context.Background(), ref, "alice")
		if err != nil {
			t.Fatalf("second Join error: %v", err)
		}
		if msg != MsgAlreadyJoined {
			t.Errorf("msg = %q, want %q", msg, MsgAlreadyJoined)
		}
		if wiki.updates != updates {
			t.Error("no-op join wrote the page")
		}
		if got := len(ledger.Snapshot()[0].Assignees); got != 1 {
			t.Errorf("assignees = %d, want exactly 1", got)
		}
	})

	t.Run("failed save rolls the mutation back", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		boom := errors.New("wiki down")
		wiki.failing = boom

		_, err := ledger.Join(context.Background(), ref, "alice")
		if !errors.Is(err, boom) {
			t.Fatalf("Join error = %v, want %v", err, boom)
		}

		// The retry after backoff must re-apply, not see "already joined".
		wiki.failing = nil
		msg, err := ledger.Join(context.Background(), ref, "alice")
		if err != nil {
			t.Fatalf("retried Join error: %v", err)
		}
		if msg != MsgJoined {
			t.Errorf("retried msg = %q, want %q", msg, MsgJoined)
		}
	})
}

func TestLeave(t *testing.T) {
	t.Run("leave prunes the emptied project", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		if _, err := ledger.Join(context.Background(), ref, "alice"); err != nil {
			t.Fatalf("Join error: %v", err)
		}

		msg, err := ledger.Leave(context.Background(), ref, "alice")
		if err != nil {
			t.Fatalf("Leave error: %v", err)
		}
		if msg != MsgLeft {
			t.Errorf("msg = %q, want %q", msg, MsgLeft)
		}
		if wiki.pages["projects"] != "" {
			t.Errorf("page = %q, want empty after pruning", wiki.pages["projects"])
		}
		if got := wiki.reasons[len(wiki.reasons)-1]; got != "leave alice from t3_abc" {
			t.Errorf("reason = %q", got)
		}
	})

	t.Run("leave without join is an informational no-op", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		msg, err := ledger.Leave(context.Background(), ref, "alice")
		if err != nil {
			t.Fatalf("Leave error: %v", err)
		}
		if msg != MsgNotJoined {
			t.Errorf("msg = %q, want %q", msg, MsgNotJoined)
		}
		if wiki.updates != 0 {
			t.Error("no-op leave wrote the page")
		}
	})

	t.Run("failed save restores the member", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		if _, err := ledger.Join(context.Background(), ref, "alice"); err != nil {
			t.Fatalf("Join error: %v", err)
		}
		boom := errors.New("wiki down")
		wiki.failing = boom

		if _, err := ledger.Leave(context.Background(), ref, "alice"); !errors.Is(err, boom) {
			t.Fatalf("Leave error = %v, want %v", err, boom)
		}

		wiki.failing = nil
		msg, err := ledger.Leave(context.Background(), ref, "alice")
		if err != nil {
			t.Fatalf("retried Leave error: %v", err)
		}
		if msg != MsgLeft {
			t.Errorf("retried msg = %q, want %q", msg, MsgLeft)
		}
	})
}

func TestInterest(t *testing.T) {
	t.Run("interest and assignees are independent sets", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		ctx := context.Background()
		if _, err := ledger.Join(ctx, ref, "alice"); err != nil {
			t.Fatalf("Join error: %v", err)
		}
		if _, err := ledger.ExpressInterest(ctx, ref, "alice"); err != nil {
			t.Fatalf("ExpressInterest error: %v", err)
		}

		want := strings.Join([]string{
			"# [Chat Bot](https://example.com/abc)",
			"* /u/alice",
			"* [interested] /u/alice",
		}, "\n")
		if wiki.pages["projects"] != want {
			t.Errorf("page = %q, want %q", wiki.pages["projects"], want)
		}

		// Leaving does not clear interest.
		if _, err := ledger.Leave(ctx, ref, "alice"); err != nil {
			t.Fatalf("Leave error: %v", err)
		}
		snaps := ledger.Snapshot()
		if len(snaps) != 1 || len(snaps[0].Interested) != 1 {
			t.Errorf("Snapshot after leave = %v, want interest preserved", snaps)
		}
	})

	t.Run("repeat interest is an informational no-op", func(t *testing.T) {
		ledger, _ := testLedger(t)
		ctx := context.Background()
		if _, err := ledger.ExpressInterest(ctx, ref, "bob"); err != nil {
			t.Fatalf("ExpressInterest error: %v", err)
		}
		msg, err := ledger.ExpressInterest(ctx, ref, "bob")
		if err != nil {
			t.Fatalf("second ExpressInterest error: %v", err)
		}
		if msg != MsgAlreadyInterested {
			t.Errorf("msg = %q, want %q", msg, MsgAlreadyInterested)
		}
	})

	t.Run("withdraw round trip", func(t *testing.T) {
		ledger, wiki := testLedger(t)
		ctx := context.Background()

		msg, err := ledger.WithdrawInterest(ctx, ref, "bob")
		if err != nil {
			t.Fatalf("WithdrawInterest error: %v", err)
		}
		if msg != MsgNotInterested {
			t.Errorf("msg = %q, want %q", msg, MsgNotInterested)
		}

		if _, err := ledger.ExpressInterest(ctx, ref, "bob"); err != nil {
			t.Fatalf("ExpressInterest error: %v", err)
		}
		msg, err = ledger.WithdrawInterest(ctx, ref, "bob")
		if err != nil {
			t.Fatalf("WithdrawInterest error: %v", err)
		}
		if msg != MsgUninterested {
			t.Errorf("msg = %q, want %q", msg, MsgUninterested)
		}
		if wiki.pages["projects"] != "" {
			t.Errorf("page = %q, want empty", wiki.pages["projects"])
		}
	})
}

func TestTitleCapturedOnFirstSight(t *testing.T) {
	ledger, wiki := testLedger(t)
	ctx := context.Background()
	if _, err := ledger.Join(ctx, ref, "alice"); err != nil {
		t.Fatalf("Join error: %v", err)
	}

	// A later reference with a changed title does not rewrite the captured one.
	renamed := TopicRef{LinkID: ref.LinkID, Title: "Renamed", URL: ref.URL}
	if _, err := ledger.Join(ctx, renamed, "bob"); err != nil {
		t.Fatalf("Join error: %v", err)
	}
	if !strings.Contains(wiki.pages["projects"], "# [Chat Bot]") {
		t.Errorf("title rewritten: %q", wiki.pages["projects"])
	}
}

func TestSnapshot(t *testing.T) {
	ledger, _ := testLedger(t)
	ctx := context.Background()
	refB := TopicRef{LinkID: "t3_b", Title: "Beta", URL: "u_b"}
	refA := TopicRef{LinkID: "t3_a", Title: "Alpha", URL: "u_a"}
	if _, err := ledger.Join(ctx, refB, "zoe"); err != nil {
		t.Fatalf("Join error: %v", err)
	}
	if _, err := ledger.Join(ctx, refA, "bob"); err != nil {
		t.Fatalf("Join error: %v", err)
	}
	if _, err := ledger.ExpressInterest(ctx, refA, "alice"); err != nil {
		t.Fatalf("ExpressInterest error: %v", err)
	}

	want := []ProjectSnapshot{
		{Title: "Alpha", URL: "u_a", Assignees: []string{"bob"}, Interested: []string{"alice"}},
		{Title: "Beta", URL: "u_b", Assignees: []string{"zoe"}, Interested: []string{}},
	}
	if got := ledger.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot = %v, want %v", got, want)
	}
}
