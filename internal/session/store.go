// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation state and the send lifecycle.
package session

import (
	"errors"
	"sync"

	"github.com/jeranaias/dora-tui/internal/model"
)

// =============================================================================
// STORE ERRORS
// =============================================================================

var (
	// ErrActiveTurn is returned by BeginAssistant while a prior assistant
	// turn is still streaming. This is a programming-contract violation:
	// the controller serializes sends, so two live turns mean a bug.
	ErrActiveTurn = errors.New("assistant turn already active")

	// ErrStaleHandle is returned by AppendDelta when the handle no longer
	// references the active turn. Like ErrActiveTurn this indicates a
	// concurrency bug, not a user-facing condition.
	ErrStaleHandle = errors.New("stale turn handle")
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Handle references one streaming assistant turn. Handles go stale once
// the turn is finalized or replaced; a stale handle fails AppendDelta
// and no-ops Finalize.
type Handle struct {
	id int
}

// Store holds the ordered turn sequence for one conversation.
//
// Turns are append-only, except that the most recent assistant turn may
// be mutated in place through its Handle while it is streaming. Once
// finalized a turn is immutable history.
//
// All methods are safe for concurrent use, though in practice the
// controller is the only writer.
type Store struct {
	mu        sync.RWMutex
	turns     []model.Turn
	activeID  int // 0 = no active turn; handles are never 0
	activeIdx int
	nextID    int
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// AppendUser appends a user turn and returns it.
func (s *Store) AppendUser(text string) model.Turn {
	turn := model.NewUserTurn(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return turn
}

// BeginAssistant appends an empty assistant turn, marks it active, and
// returns a handle for streaming deltas into it. The empty turn exists
// immediately so the UI gets a placeholder before any bytes arrive.
//
// Fails with ErrActiveTurn if a streaming turn is already live.
func (s *Store) BeginAssistant() (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID != 0 {
		return Handle{}, ErrActiveTurn
	}

	s.turns = append(s.turns, model.NewAssistantTurn())
	s.activeID = s.nextID
	s.activeIdx = len(s.turns) - 1
	s.nextID++
	return Handle{id: s.activeID}, nil
}

// AppendDelta appends text to the active turn's content. Fails with
// ErrStaleHandle if the handle's turn has been finalized or replaced.
func (s *Store) AppendDelta(handle Handle, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handle.id == 0 || handle.id != s.activeID {
		return ErrStaleHandle
	}

	s.turns[s.activeIdx].Content += text
	return nil
}

// Finalize clears the active-turn marker; the turn becomes immutable
// history. Idempotent: a stale handle makes this a no-op, which covers
// the cancellation/double-finalize race.
func (s *Store) Finalize(handle Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handle.id == 0 || handle.id != s.activeID {
		return
	}
	s.activeID = 0
}

// HasActive reports whether an assistant turn is currently streaming.
func (s *Store) HasActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID != 0
}

// Snapshot returns a copy of the full ordered turn sequence. The copy is
// taken under the lock, so it never observes a half-applied delta.
func (s *Store) Snapshot() []model.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := make([]model.Turn, len(s.turns))
	copy(turns, s.turns)
	return turns
}

// Len returns the number of turns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Clear drops all turns and any active marker. Used when the document
// corpus is cleared, since the conversation is grounded on it.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.activeID = 0
}
