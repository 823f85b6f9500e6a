// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a development stub of the Dora backend.
//
// The stub implements the five backend endpoints the client consumes
// (health, documents, upload, clear, chat stream) with in-memory state
// and canned streamed answers. It exists so the TUI and CLI can be
// developed and demoed without the real retrieval service running.
//
// # Endpoints
//
//   - GET    /health       - Readiness probe
//   - GET    /documents    - List ingested documents
//   - POST   /upload       - Ingest a document (multipart field "file")
//   - DELETE /documents    - Clear the corpus
//   - POST   /chat/stream  - Streamed chat completion
//
// # Wire Contract
//
// Chat responses are newline-delimited records:
//
//	data: {"content":"token"}
//	data: {"content":"another"}
//	data: [DONE]
//
// Generation failures after the stream opens are reported in-band:
//
//	data: {"error":"model unavailable"}
//
// # Usage
//
// Start a stub on the default port:
//
//	srv := server.NewServer(0)
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
package server
