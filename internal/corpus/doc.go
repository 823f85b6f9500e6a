// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package corpus tracks the set of documents ingested by the backend.
//
// The store holds display names only; document content lives server-side.
// Chat is gated on the corpus: an empty corpus disables sending. Names are
// hydrated from GET /documents at startup and refreshed after uploads, so
// the store mirrors backend state rather than owning it.
package corpus
