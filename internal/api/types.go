// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the Dora
// backend.
package api

import "github.com/jeranaias/dora-tui/internal/model"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for the /chat/stream endpoint.
type ChatRequest struct {
	// Message is the user's question.
	Message string `json:"message"`

	// History is the prior conversation, oldest first. The full snapshot
	// is sent; the server applies its own context window.
	History []model.Turn `json:"history"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// HealthResponse is the response from the /health endpoint.
type HealthResponse struct {
	Status string `json:"status,omitempty"`
	Ollama bool   `json:"ollama"`
}

// DocumentsResponse is the response from the /documents endpoint.
type DocumentsResponse struct {
	Documents []string `json:"documents"`
}

// UploadResponse is the response from the /upload endpoint.
type UploadResponse struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks,omitempty"`
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamEvent is a single decoded event from a /chat/stream response.
// Exactly one of Content or Err is meaningful per event; the decoder
// never emits an event after Err.
type StreamEvent struct {
	// Content is the delta text carried by this event.
	Content string

	// Err is set when the backend reported an in-band generation error.
	Err error
}

// streamRecord is the JSON payload of a significant stream line.
// Lines that fail to parse into this shape are dropped, not surfaced.
type streamRecord struct {
	Content string `json:"content"`
	Error   string `json:"error"`
}

// StreamCallback is called for each decoded content delta, in the exact
// order the bytes arrived from the transport.
type StreamCallback func(event StreamEvent)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Dora backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeInvalidResponse
	ErrTypeUpload
	ErrTypeGeneration
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning = &ClientError{Type: ErrTypeNotRunning, Message: "server not running"}
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUpload     = &ClientError{Type: ErrTypeUpload, Message: "upload failed"}
)
