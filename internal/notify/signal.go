// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the single-slot error notice.
package notify

import (
	"sync"
	"time"
)

// =============================================================================
// NOTICE TYPES
// =============================================================================

// NoticeKind represents the type of notice.
type NoticeKind int

const (
	// KindError is an error notice (rose/red color)
	KindError NoticeKind = iota
	// KindWarning is a warning notice (amber color)
	KindWarning
	// KindStatus is an informational notice (cyan color)
	KindStatus
)

// DefaultNoticeDuration is how long a notice stays visible before it
// clears itself.
const DefaultNoticeDuration = 4 * time.Second

// Notice is a single ephemeral notification.
type Notice struct {
	Message   string
	Kind      NoticeKind
	CreatedAt time.Time
}

// IsExpired returns true if the notice has outlived its duration.
func (n *Notice) IsExpired(duration time.Duration) bool {
	return time.Since(n.CreatedAt) >= duration
}

// =============================================================================
// SIGNAL
// =============================================================================

// Signal holds at most one live notice. Raising a new notice supersedes
// the current one and restarts the expiry timer; the superseded notice
// is never observed again.
//
// Expiry fires on its own timer, without requiring any other call into
// the signal. All methods are safe for concurrent use.
type Signal struct {
	mu         sync.Mutex
	current    *Notice
	generation int
	timer      *time.Timer
	duration   time.Duration
	onChange   func()
}

// NewSignal creates a signal with the default 4-second expiry.
func NewSignal() *Signal {
	return &Signal{duration: DefaultNoticeDuration}
}

// NewSignalWithDuration creates a signal with a custom expiry, used by
// tests to avoid multi-second sleeps.
func NewSignalWithDuration(duration time.Duration) *Signal {
	if duration <= 0 {
		duration = DefaultNoticeDuration
	}
	return &Signal{duration: duration}
}

// OnChange registers a callback invoked after every state change (raise,
// dismiss, expiry). The TUI uses this to push a redraw; the callback runs
// outside the signal's lock and must not call back into the signal
// synchronously from the expiry path.
func (s *Signal) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Raise replaces any existing notice with an error notice and resets the
// expiry clock.
func (s *Signal) Raise(message string) {
	s.RaiseKind(message, KindError)
}

// RaiseKind replaces any existing notice and resets the expiry clock.
func (s *Signal) RaiseKind(message string, kind NoticeKind) {
	s.mu.Lock()

	s.generation++
	generation := s.generation
	s.current = &Notice{
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	// The generation guard keeps a stale timer from clearing a notice
	// raised after it was armed.
	s.timer = time.AfterFunc(s.duration, func() {
		s.expire(generation)
	})

	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// expire clears the notice the timer was armed for, if it is still live.
func (s *Signal) expire(generation int) {
	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.timer = nil
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Dismiss clears the notice immediately. Safe to call when no notice is
// live.
func (s *Signal) Dismiss() {
	s.mu.Lock()

	if s.current == nil {
		s.mu.Unlock()
		return
	}

	s.generation++
	s.current = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Current returns the live notice, or nil if none.
func (s *Signal) Current() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	notice := *s.current
	return &notice
}
