// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the Dora
// backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/dora-tui/internal/model"
)

// testClient builds a client pointed at the test server with the health
// limiter effectively disabled.
func testClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:        url,
		HealthInterval: time.Nanosecond,
	})
}

// =============================================================================
// HEALTH TESTS
// =============================================================================

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s, want /health", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Ollama: true})
	}))
	defer server.Close()

	health, err := testClient(server.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if !health.Ollama {
		t.Error("health.Ollama = false, want true")
	}
}

func TestHealthServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately, so the port refuses connections

	_, err := testClient(server.URL).Health(context.Background())
	if !IsNotRunning(err) {
		t.Errorf("Health() error = %v, want not-running", err)
	}
}

func TestHealthDegradedBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(HealthResponse{Status: "degraded", Ollama: false})
	}))
	defer server.Close()

	health, err := testClient(server.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if health.Ollama {
		t.Error("health.Ollama = true, want false")
	}
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestListDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents" || r.Method != http.MethodGet {
			t.Errorf("got %s %s, want GET /documents", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(DocumentsResponse{Documents: []string{"a.pdf", "b.md"}})
	}))
	defer server.Close()

	docs, err := testClient(server.URL).ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 || docs[0] != "a.pdf" || docs[1] != "b.md" {
		t.Errorf("docs = %v, want [a.pdf b.md]", docs)
	}
}

func TestClearDocuments(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := testClient(server.URL).ClearDocuments(context.Background()); err != nil {
		t.Fatalf("ClearDocuments() error = %v", err)
	}
	if method != http.MethodDelete || path != "/documents" {
		t.Errorf("got %s %s, want DELETE /documents", method, path)
	}
}

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"notes.txt", true},
		{"readme.md", true},
		{"REPORT.PDF", true},
		{"image.png", false},
		{"archive.tar.gz", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		if got := AllowedExtension(tt.name); got != tt.want {
			t.Errorf("AllowedExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("hello corpus"), 0o644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			t.Errorf("got %s %s, want POST /upload", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile(file) error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "doc.txt" {
			t.Errorf("filename = %q, want doc.txt", header.Filename)
		}
		json.NewEncoder(w).Encode(UploadResponse{Filename: header.Filename, Chunks: 3})
	}))
	defer server.Close()

	result, err := testClient(server.URL).Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if result.Filename != "doc.txt" || result.Chunks != 3 {
		t.Errorf("result = %+v, want doc.txt / 3 chunks", result)
	}
}

// Unsupported extensions are rejected before any bytes go on the wire.
func TestUploadRejectsExtensionLocally(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	_, err := testClient(server.URL).Upload(context.Background(), "/tmp/image.png")
	if !IsUpload(err) {
		t.Errorf("Upload() error = %v, want upload error", err)
	}
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestChatStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/stream" || r.Method != http.MethodPost {
			t.Errorf("got %s %s, want POST /chat/stream", r.Method, r.URL.Path)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Message != "what is dora?" {
			t.Errorf("message = %q", req.Message)
		}
		if len(req.History) != 2 {
			t.Errorf("history length = %d, want 2", len(req.History))
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, token := range []string{"Dora ", "is ", "a ", "doc ", "assistant."} {
			fmt.Fprintf(w, "data: {\"content\":%q}\n", token)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n")
	}))
	defer server.Close()

	history := []model.Turn{
		model.NewUserTurn("hi"),
		model.NewTurn(model.RoleAssistant, "Hello! Upload a document to get started."),
	}

	var got string
	err := testClient(server.URL).ChatStream(context.Background(), "what is dora?", history, func(event StreamEvent) {
		got += event.Content
	})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
	if got != "Dora is a doc assistant." {
		t.Errorf("accumulated = %q", got)
	}
}

func TestChatStreamNilHistorySerializesAsEmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if string(raw["history"]) != "[]" {
			t.Errorf("history = %s, want []", raw["history"])
		}
		fmt.Fprint(w, "data: [DONE]\n")
	}))
	defer server.Close()

	err := testClient(server.URL).ChatStream(context.Background(), "hi", nil, nil)
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
}

func TestChatStreamServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := testClient(server.URL).ChatStream(context.Background(), "hi", nil, nil)
	if err == nil {
		t.Fatal("ChatStream() error = nil, want non-OK status error")
	}
}

func TestChatStreamChan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"content\":\"A\"}\n")
		fmt.Fprint(w, "data: {\"content\":\"B\"}\n")
		fmt.Fprint(w, "data: [DONE]\n")
	}))
	defer server.Close()

	var deltas []string
	for event := range testClient(server.URL).ChatStreamChan(context.Background(), "hi", nil) {
		if event.Err != nil {
			t.Fatalf("unexpected stream error: %v", event.Err)
		}
		deltas = append(deltas, event.Content)
	}
	if len(deltas) != 2 || deltas[0] != "A" || deltas[1] != "B" {
		t.Errorf("deltas = %v, want [A B]", deltas)
	}
}

func TestChatStreamChanDeliversError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"error\":\"model unavailable\"}\n")
	}))
	defer server.Close()

	var streamErr error
	for event := range testClient(server.URL).ChatStreamChan(context.Background(), "hi", nil) {
		if event.Err != nil {
			streamErr = event.Err
		}
	}
	if !IsGeneration(streamErr) {
		t.Errorf("stream error = %v, want generation error", streamErr)
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestClientConfigDefaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})
	config := client.GetConfig()

	if config.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q", config.BaseURL)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", config.Timeout)
	}
	if config.UploadTimeout != 2*time.Minute {
		t.Errorf("UploadTimeout = %v", config.UploadTimeout)
	}
}

func TestClientConfigTrimsTrailingSlash(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://localhost:9000/"})
	if got := client.GetConfig().BaseURL; got != "http://localhost:9000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", got)
	}
}
