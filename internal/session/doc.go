// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation state and the send lifecycle.
//
// Store is the ordered turn list plus the currently-streaming assistant
// turn; it is the single source of truth the rendering layer snapshots.
// Controller drives one send at a time through a small state machine
// (idle, sending, streaming, finalizing) and is the only writer to the
// store, so snapshots are always consistent.
package session
