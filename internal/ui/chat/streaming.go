// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the dora TUI.
//
// This file implements repaint coalescing for streaming. Deltas land in
// the session store on the streaming goroutine far faster than the
// terminal can usefully redraw; the coalescer batches those update
// signals so the view repaints at a capped frame rate instead of once
// per token.
package chat

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// REPAINT COALESCER
// =============================================================================

// RepaintCoalescer accumulates update signals and releases them either
// when a batch threshold is reached or when enough time has passed since
// the last release. This keeps streaming smooth without redrawing at
// token rate, which flickers and burns CPU.
//
// Thread-safety: Mark is called from the streaming goroutine while Take
// runs on the Bubble Tea loop, so all state is mutex-guarded.
type RepaintCoalescer struct {
	mu        sync.Mutex
	pending   int
	lastFlush time.Time

	batchSize   int
	minInterval time.Duration
}

// NewRepaintCoalescer creates a coalescer with the default settings:
// 15 updates per batch, 30fps ceiling.
func NewRepaintCoalescer() *RepaintCoalescer {
	return NewRepaintCoalescerWithConfig(15, 30)
}

// NewRepaintCoalescerWithConfig creates a coalescer with a custom batch
// size and frame rate cap.
func NewRepaintCoalescerWithConfig(batchSize, maxFPS int) *RepaintCoalescer {
	if batchSize <= 0 {
		batchSize = 15
	}
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = 30
	}
	return &RepaintCoalescer{
		batchSize:   batchSize,
		minInterval: time.Duration(1000/maxFPS) * time.Millisecond,
		lastFlush:   time.Now(),
	}
}

// Mark records one pending update. Called once per store mutation.
func (rc *RepaintCoalescer) Mark() {
	rc.mu.Lock()
	rc.pending++
	rc.mu.Unlock()
}

// Take reports whether a repaint is due and, if so, consumes the pending
// updates. A repaint is due when the batch threshold is reached or the
// frame interval has elapsed with updates waiting.
func (rc *RepaintCoalescer) Take() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.pending == 0 {
		return false
	}
	if rc.pending < rc.batchSize && time.Since(rc.lastFlush) < rc.minInterval {
		return false
	}

	rc.pending = 0
	rc.lastFlush = time.Now()
	return true
}

// Drain consumes all pending updates unconditionally. Used when a stream
// finishes so the final content is never held back by the frame cap.
func (rc *RepaintCoalescer) Drain() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	had := rc.pending > 0
	rc.pending = 0
	rc.lastFlush = time.Now()
	return had
}

// Pending returns the number of updates waiting for a repaint.
func (rc *RepaintCoalescer) Pending() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.pending
}

// Reset clears state without signaling a repaint.
func (rc *RepaintCoalescer) Reset() {
	rc.mu.Lock()
	rc.pending = 0
	rc.lastFlush = time.Now()
	rc.mu.Unlock()
}

// =============================================================================
// STREAM TICK COMMAND
// =============================================================================

// streamTickCmd emits StreamTickMsg at ~30fps, driving repaints while a
// send is in flight.
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
