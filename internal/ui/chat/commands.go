// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the dora TUI.
//
// This file holds the tea.Cmd constructors. Commands do the blocking
// work (HTTP calls, the send itself) off the Update loop and report back
// through the message types in messages.go.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/session"
)

// healthProbeInterval is how often the background health probe runs.
const healthProbeInterval = 10 * time.Second

// =============================================================================
// BACKEND COMMANDS
// =============================================================================

// checkHealthCmd probes the backend health endpoint once.
func checkHealthCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		health, err := client.Health(ctx)
		return HealthMsg{Health: health, Err: err}
	}
}

// healthTickCmd schedules the next periodic health probe.
func healthTickCmd() tea.Cmd {
	return tea.Tick(healthProbeInterval, func(t time.Time) tea.Msg {
		return HealthTickMsg{Time: t}
	})
}

// loadDocumentsCmd fetches the backend's document list.
func loadDocumentsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		docs, err := client.ListDocuments(ctx)
		return DocumentsMsg{Documents: docs, Err: err}
	}
}

// uploadCmd uploads one local document.
func uploadCmd(client *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := client.Upload(ctx, path)
		return UploadResultMsg{Path: path, Result: result, Err: err}
	}
}

// clearDocumentsCmd asks the backend to drop its corpus. Best-effort;
// the local corpus is cleared regardless of the outcome.
func clearDocumentsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return ClearResultMsg{Err: client.ClearDocuments(ctx)}
	}
}

// =============================================================================
// SEND COMMANDS
// =============================================================================

// sendCmd runs one send to completion on the command goroutine. The
// controller streams deltas into the session store as they arrive;
// repaints flow through the update channel, not through this message.
func sendCmd(controller *session.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return SendFinishedMsg{Err: controller.Send(context.Background(), text)}
	}
}

// waitForUpdateCmd blocks until a store or signal change lands on the
// update channel. Update re-arms it after every StoreUpdatedMsg.
func waitForUpdateCmd(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return StoreUpdatedMsg{}
	}
}
