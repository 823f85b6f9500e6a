// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the dora TUI.
//
// This file defines the message types that flow through the Update loop.
// Messages are produced by commands (commands.go) and consumed by Update
// (update.go). Keeping them in one place gives a single catalog of
// everything that can happen to the model.
package chat

import (
	"time"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/config"
)

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// HealthMsg carries the result of a backend health probe.
type HealthMsg struct {
	Health *api.HealthResponse
	Err    error
}

// DocumentsMsg carries the backend's document list, used to hydrate the
// corpus at startup and after uploads.
type DocumentsMsg struct {
	Documents []string
	Err       error
}

// UploadResultMsg carries the outcome of a document upload.
type UploadResultMsg struct {
	Path   string
	Result *api.UploadResponse
	Err    error
}

// ClearResultMsg carries the outcome of a corpus clear. The backend call
// is best-effort; Err is surfaced as a warning, not a failure.
type ClearResultMsg struct {
	Err error
}

// ConfigReloadedMsg arrives when the config file changed on disk and
// revalidated. Client is non-nil only when the backend URL changed and
// a replacement client was built.
type ConfigReloadedMsg struct {
	Config *config.Config
	Client *api.Client
}

// =============================================================================
// SEND LIFECYCLE MESSAGES
// =============================================================================

// SendFinishedMsg arrives when a send completes, successfully or not.
// Rejection sentinels never reach here; they are handled before the
// command is issued.
type SendFinishedMsg struct {
	Err error
}

// StoreUpdatedMsg arrives when the session store or notice signal changed
// on another goroutine. The model re-reads its snapshot and re-arms the
// listener.
type StoreUpdatedMsg struct{}

// =============================================================================
// TIMING MESSAGES
// =============================================================================

// StreamTickMsg drives repaints during streaming at a capped frame rate.
type StreamTickMsg struct {
	Time time.Time
}

// HealthTickMsg triggers the periodic background health probe.
type HealthTickMsg struct {
	Time time.Time
}
