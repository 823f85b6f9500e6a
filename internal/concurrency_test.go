// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package internal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/dora-tui/internal/corpus"
	"github.com/jeranaias/dora-tui/internal/model"
	"github.com/jeranaias/dora-tui/internal/notify"
	"github.com/jeranaias/dora-tui/internal/session"
)

// =============================================================================
// CONCURRENT STORE ACCESS
// =============================================================================

func TestConcurrentCorpusAndSnapshot(t *testing.T) {
	docs := corpus.NewStore()
	store := session.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				docs.Add("doc.pdf")
				docs.List()
				docs.IsEnabled()
				store.AppendUser("q")
				store.Snapshot()
			}
		}()
	}
	wg.Wait()

	if docs.Count() != 1600 {
		t.Errorf("corpus count = %d, want 1600", docs.Count())
	}
	if store.Len() != 1600 {
		t.Errorf("session length = %d, want 1600", store.Len())
	}
}

func TestConcurrentSignalRaise(t *testing.T) {
	signal := notify.NewSignalWithDuration(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				signal.Raise("concurrent")
				signal.Current()
			}
		}()
	}
	wg.Wait()

	notice := signal.Current()
	if notice == nil || notice.Message != "concurrent" {
		t.Errorf("final notice = %+v", notice)
	}
}

// =============================================================================
// SINGLE-FLIGHT SEND
// =============================================================================

// TestConcurrentSendsOnlyOneWins fires many sends at once and verifies
// exactly one reaches the streamer; the rest bounce off ErrBusy.
func TestConcurrentSendsOnlyOneWins(t *testing.T) {
	store := session.NewStore()
	docs := corpus.NewStore()
	docs.Add("doc.pdf")
	signal := notify.NewSignalWithDuration(time.Hour)

	release := make(chan struct{})
	var streams sync.Map

	streamer := session.StreamerFunc(func(ctx context.Context, message string, history []model.Turn, callback func(string)) error {
		streams.Store(message, true)
		<-release
		callback("answer")
		return nil
	})
	controller := session.NewController(streamer, store, docs, signal)

	const senders = 10
	results := make(chan error, senders)
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- controller.Send(context.Background(), "race")
		}()
	}

	// Every loser returns ErrBusy while the winner is parked on the
	// release channel; collecting them first makes the race clean.
	var ok, busy int
	for i := 0; i < senders-1; i++ {
		if err := <-results; errors.Is(err, session.ErrBusy) {
			busy++
		} else {
			t.Errorf("loser returned %v, want ErrBusy", err)
		}
	}
	close(release)
	wg.Wait()
	if err := <-results; err == nil {
		ok++
	} else {
		t.Errorf("winner returned %v", err)
	}

	if ok != 1 {
		t.Errorf("%d sends succeeded, want exactly 1", ok)
	}
	if busy != senders-1 {
		t.Errorf("%d sends hit ErrBusy, want %d", busy, senders-1)
	}

	count := 0
	streams.Range(func(_, _ interface{}) bool { count++; return true })
	if count != 1 {
		t.Errorf("%d streams opened, want 1", count)
	}

	if store.Len() != 2 {
		t.Errorf("session length = %d, want 2", store.Len())
	}
}

// TestSendsSerializeCleanly runs sends back to back from multiple
// goroutines with retries and verifies the transcript stays coherent.
func TestSendsSerializeCleanly(t *testing.T) {
	store := session.NewStore()
	docs := corpus.NewStore()
	docs.Add("doc.pdf")
	signal := notify.NewSignalWithDuration(time.Hour)

	streamer := session.StreamerFunc(func(ctx context.Context, message string, history []model.Turn, callback func(string)) error {
		callback("re: " + message)
		return nil
	})
	controller := session.NewController(streamer, store, docs, signal)

	const rounds = 20
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				for {
					err := controller.Send(context.Background(), "q")
					if err == nil {
						break
					}
					if !errors.Is(err, session.ErrBusy) {
						t.Errorf("send: %v", err)
						return
					}
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}
	wg.Wait()

	turns := store.Snapshot()
	if len(turns) != 4*rounds*2 {
		t.Fatalf("got %d turns, want %d", len(turns), 4*rounds*2)
	}
	// Turns must strictly alternate user/assistant.
	for i, turn := range turns {
		wantUser := i%2 == 0
		if turn.IsUser() != wantUser {
			t.Fatalf("turn %d role out of order: %+v", i, turn)
		}
	}
}
