// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversation turns.
//
// A Turn is one message in the conversation, authored by the user or the
// assistant. Turns are value types: once appended to a session they are
// immutable, with the single exception of the assistant turn that is
// currently receiving streamed content (owned by the session store, see
// internal/session).
package model
