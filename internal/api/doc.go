// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the Dora
// backend.
//
// The backend exposes five endpoints:
//   - GET    /health       readiness probe ({"ollama": bool})
//   - GET    /documents    list ingested document names
//   - POST   /upload       multipart document ingestion (field "file")
//   - DELETE /documents    clear the document corpus
//   - POST   /chat/stream  streamed chat completion
//
// Chat responses arrive as newline-delimited records over a chunked HTTP
// body. Records prefixed "data: " carry either the literal "[DONE]"
// marker or a JSON payload with an optional content delta. StreamDecoder
// implements that framing; Client.ChatStream wires it to the transport.
package api
