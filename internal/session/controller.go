// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation state and the send lifecycle.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/dora-tui/internal/corpus"
	"github.com/jeranaias/dora-tui/internal/model"
	"github.com/jeranaias/dora-tui/internal/notify"
)

// =============================================================================
// CONTROLLER STATE
// =============================================================================

// State is the controller's position in the send lifecycle.
type State int

const (
	// StateIdle means no send is in flight.
	StateIdle State = iota
	// StateSending means the user turn is appended and the request is
	// being issued.
	StateSending
	// StateStreaming means the first response byte has been consumed.
	StateStreaming
	// StateFinalizing means the stream ended and the turn is being
	// committed.
	StateFinalizing
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONTROLLER ERRORS
// =============================================================================

// Send rejections. The UI disables input in these situations, so the
// rejections are defensive: they mutate nothing and surface no notice.
var (
	// ErrEmptyMessage means the message was empty after trimming.
	ErrEmptyMessage = errors.New("empty message")

	// ErrBusy means a send is already in flight.
	ErrBusy = errors.New("send already in flight")

	// ErrChatDisabled means the document corpus is empty.
	ErrChatDisabled = errors.New("chat disabled: no documents ingested")
)

// =============================================================================
// SESSION CONTROLLER
// =============================================================================

// Streamer issues one streamed chat request and delivers content deltas
// through the callback, in arrival order. The api client is adapted to
// this via StreamerFunc at wiring time.
type Streamer interface {
	ChatStream(ctx context.Context, message string, history []model.Turn, callback func(content string)) error
}

// StreamerFunc adapts a function to the Streamer interface.
type StreamerFunc func(ctx context.Context, message string, history []model.Turn, callback func(content string)) error

func (f StreamerFunc) ChatStream(ctx context.Context, message string, history []model.Turn, callback func(content string)) error {
	return f(ctx, message, history, callback)
}

// Controller orchestrates one send: append the user turn, open the
// streamed request, apply deltas to the store, finalize or fail the
// turn. At most one send is in flight; later sends are rejected until
// the controller returns to idle.
//
// IMPORTANT: use as a pointer. The cancel manager and mutex must not be
// copied.
type Controller struct {
	mu    sync.Mutex
	state State

	streamer Streamer
	session  *Store
	corpus   *corpus.Store
	signal   *notify.Signal

	cancelMgr *cancelManager
	onUpdate  func()
}

// NewController wires a controller to its collaborators. The signal may
// be nil when no error surface exists (some CLI paths).
func NewController(streamer Streamer, session *Store, corpus *corpus.Store, signal *notify.Signal) *Controller {
	return &Controller{
		state:     StateIdle,
		streamer:  streamer,
		session:   session,
		corpus:    corpus,
		signal:    signal,
		cancelMgr: newCancelManager(),
	}
}

// OnUpdate registers a callback invoked after every store mutation the
// controller performs (user turn, each delta, finalize). The TUI uses
// this to schedule redraws; it runs on the streaming goroutine.
func (c *Controller) OnUpdate(fn func()) {
	c.mu.Lock()
	c.onUpdate = fn
	c.mu.Unlock()
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// notifyUpdate invokes the update callback outside the state lock.
func (c *Controller) notifyUpdate() {
	c.mu.Lock()
	fn := c.onUpdate
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Send runs one complete send synchronously: it returns after the
// response stream closes and the assistant turn is finalized. Callers
// wanting concurrency run it on their own goroutine; the controller
// guarantees at most one send is in flight regardless.
//
// Rejected sends return a sentinel (ErrEmptyMessage, ErrBusy,
// ErrChatDisabled) and leave every store untouched. Transport and
// generation failures finalize the partial turn, raise the error
// notice, and return the underlying error. Cancellation finalizes the
// partial turn and returns context.Canceled without raising a notice.
func (c *Controller) Send(ctx context.Context, text string) error {
	message := strings.TrimSpace(text)
	if message == "" {
		return ErrEmptyMessage
	}
	if !c.corpus.IsEnabled() {
		return ErrChatDisabled
	}

	// History must not include the turns this send appends.
	history := c.session.Snapshot()

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateSending
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancelMgr.setCancelFunc(cancel)

	c.session.AppendUser(message)

	// The assistant turn exists (empty) before any bytes arrive, giving
	// the UI an immediate placeholder.
	handle, err := c.session.BeginAssistant()
	if err != nil {
		// Unreachable while the state machine holds: idle implies no
		// active turn.
		c.finish(handle, err)
		return err
	}
	c.notifyUpdate()

	streamErr := c.streamer.ChatStream(ctx, message, history, func(content string) {
		c.mu.Lock()
		if c.state == StateSending {
			c.state = StateStreaming
		}
		c.mu.Unlock()

		if err := c.session.AppendDelta(handle, content); err != nil {
			// Stale handle mid-stream is a concurrency bug; drop the
			// delta rather than corrupt finalized history.
			return
		}
		c.notifyUpdate()
	})

	return c.finish(handle, streamErr)
}

// finish commits the turn and returns the controller to idle. The turn
// is finalized on every path, so a partial answer stays visible instead
// of vanishing.
func (c *Controller) finish(handle Handle, streamErr error) error {
	c.mu.Lock()
	c.state = StateFinalizing
	c.mu.Unlock()

	c.cancelMgr.clear()
	c.session.Finalize(handle)

	if streamErr != nil && !errors.Is(streamErr, context.Canceled) && c.signal != nil {
		c.signal.Raise(streamErr.Error())
	}

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	c.notifyUpdate()

	if errors.Is(streamErr, context.Canceled) {
		return context.Canceled
	}
	return streamErr
}

// Cancel aborts the in-flight send, if any. The running Send call
// observes the cancelled context, finalizes the partial turn, and
// returns context.Canceled. Safe to call from any state.
func (c *Controller) Cancel() {
	c.cancelMgr.cancel()
}

// Busy reports whether a send is in flight.
func (c *Controller) Busy() bool {
	return c.State() != StateIdle
}
