// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat implements the Bubble Tea model for the dora TUI.

The chat view is a single full-screen model composing:

  - a viewport showing the conversation (internal/ui/components)
  - a document sidebar fed by the corpus store
  - a text input that doubles as the upload path prompt
  - a status bar with backend state and shortcuts
  - a toast overlay for the current notice

# Architecture

Conversation state lives in session.Store; the send lifecycle lives in
session.Controller. The model never mutates turns directly. Store
changes made on the streaming goroutine reach the Update loop through a
channel (signalUpdate / waitForUpdateCmd), and RepaintCoalescer caps the
resulting redraw rate at ~30fps so token-rate updates do not flicker.

# File Organization

	model.go      - Model struct, construction, Init
	messages.go   - tea.Msg catalog
	commands.go   - tea.Cmd constructors (HTTP calls, send, listener)
	update.go     - Update loop, key handling, viewport refresh
	view.go       - View composition and toast overlay
	keys.go       - key bindings
	streaming.go  - RepaintCoalescer and the stream tick
*/
package chat
