// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the Dora
// backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/dora-tui/internal/model"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// UploadExtensions lists the document types the backend ingests.
var UploadExtensions = []string{".pdf", ".txt", ".md"}

// ClientConfig holds configuration options for the Dora client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// UploadTimeout for document ingestion, which can be slow for large
	// PDFs (default: 2m)
	UploadTimeout time.Duration

	// HealthInterval is the minimum spacing between health probes
	// (default: 2s). The TUI polls and the CLI checks on demand; the
	// limiter keeps them from stacking probes.
	HealthInterval time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        "http://127.0.0.1:8000",
		Timeout:        30 * time.Second,
		UploadTimeout:  2 * time.Minute,
		HealthInterval: 2 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Dora backend.
// It provides methods for the health probe, corpus management, and
// streamed chat.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	health, err := client.Health(ctx)
//	if err != nil || !health.Ollama {
//	    // surface a startup notice
//	}
type Client struct {
	config        *ClientConfig
	httpClient    *http.Client
	uploadClient  *http.Client
	healthLimiter *rate.Limiter
}

// NewClient creates a new Dora client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new Dora client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UploadTimeout == 0 {
		config.UploadTimeout = 2 * time.Minute
	}
	if config.HealthInterval == 0 {
		config.HealthInterval = 2 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:        config,
		httpClient:    &http.Client{Timeout: config.Timeout},
		uploadClient:  &http.Client{Timeout: config.UploadTimeout},
		healthLimiter: rate.NewLimiter(rate.Every(config.HealthInterval), 1),
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health probes the backend readiness endpoint. Probes are rate-limited
// to one per HealthInterval; callers arriving early wait for the next
// slot (or their context deadline).
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	if err := c.healthLimiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "health probe cancelled", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from server: " + resp.Status,
		}
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// CORPUS OPERATIONS
// =============================================================================

// ListDocuments retrieves the ingested document names, in ingestion order.
func (c *Client) ListDocuments(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/documents", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to list documents: " + resp.Status,
		}
	}

	var result DocumentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result.Documents, nil
}

// AllowedExtension reports whether the file name carries an ingestable
// extension (.pdf, .txt, .md).
func AllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range UploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Upload ingests a document into the backend corpus. The extension is
// validated client-side before any bytes are sent; the server validates
// again. A successful upload does NOT mutate any local state - callers
// refresh via ListDocuments.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResponse, error) {
	name := filepath.Base(path)
	if !AllowedExtension(name) {
		return nil, &ClientError{
			Type:    ErrTypeUpload,
			Message: "unsupported file type (want .pdf, .txt, or .md): " + name,
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "cannot open file", Cause: err}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "failed to build form", Cause: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "failed to read file", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "failed to build form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/upload", &body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeUpload,
			Message: "upload rejected: " + resp.Status,
		}
	}

	var result UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// ClearDocuments removes every document from the backend corpus.
// Callers treat failures as best-effort (the local corpus is cleared
// regardless), so the error is informational.
func (c *Client) ClearDocuments(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.BaseURL+"/documents", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to clear documents: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream sends a chat request and calls the callback for each
// content delta, synchronously and in arrival order. Returns when the
// transport closes, the stream fails, or the context is cancelled.
func (c *Client) ChatStream(ctx context.Context, message string, history []model.Turn, callback StreamCallback) error {
	reqBody := ChatRequest{
		Message: message,
		History: history,
	}
	if reqBody.History == nil {
		reqBody.History = []model.Turn{}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	// Use a client without timeout for streaming (we handle timeout via context)
	streamClient := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		return ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "stream request failed: " + resp.Status,
		}
	}

	decoder := NewStreamDecoder(resp.Body)
	return decoder.Process(ctx, callback)
}

// ChatStreamChan sends a chat request and returns a channel of events.
// The channel is closed when streaming is complete or an error occurs.
// Errors are delivered as events with the Err field set.
func (c *Client) ChatStreamChan(ctx context.Context, message string, history []model.Turn) <-chan StreamEvent {
	ch := make(chan StreamEvent)

	go func() {
		defer close(ch)

		err := c.ChatStream(ctx, message, history, func(event StreamEvent) {
			select {
			case ch <- event:
			case <-ctx.Done():
			}
		})

		if err != nil && !errors.Is(err, context.Canceled) {
			select {
			case ch <- StreamEvent{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotRunning checks if an error indicates the backend is unreachable.
func IsNotRunning(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotRunning
	}
	return false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsUpload checks if an error came from the upload path.
func IsUpload(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUpload
	}
	return false
}

// IsGeneration checks if an error was reported in-band by the backend
// while generating a response.
func IsGeneration(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeGeneration
	}
	return false
}
