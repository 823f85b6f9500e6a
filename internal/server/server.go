// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a development stub of the Dora backend.
//
// Endpoints:
//   - GET    /health       - Readiness probe
//   - GET    /documents    - List ingested documents
//   - POST   /upload       - Ingest a document (multipart field "file")
//   - DELETE /documents    - Clear the corpus
//   - POST   /chat/stream  - Streamed chat completion
//
// The stub keeps documents in memory and streams canned answers, so the
// TUI and CLI can be exercised without the real retrieval backend.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the stub server.
	DefaultPort = 8000

	// MaxRequestBodySize caps chat request bodies (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxUploadSize caps uploaded documents (32MB).
	MaxUploadSize = 32 * 1024 * 1024

	// MaxHistoryTurns is the most history entries a chat request may carry.
	MaxHistoryTurns = 200

	// chunkSize approximates the real backend's document chunking, so
	// upload responses report a plausible chunk count.
	chunkSize = 1000

	// Version is the stub server version.
	Version = "0.1.0"
)

// ============================================================================
// ANSWER GENERATION
// ============================================================================

// Generator produces the token stream for one chat request. The stub's
// default repeats a canned grounded-sounding answer; tests substitute
// scripted generators.
type Generator interface {
	Generate(ctx context.Context, message string, history []model.Turn, documents []string) ([]string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, message string, history []model.Turn, documents []string) ([]string, error)

func (f GeneratorFunc) Generate(ctx context.Context, message string, history []model.Turn, documents []string) ([]string, error) {
	return f(ctx, message, history, documents)
}

// echoGenerator is the default: a short answer that names the corpus, so
// manual testing shows the documents flowed through.
func echoGenerator(_ context.Context, message string, _ []model.Turn, documents []string) ([]string, error) {
	answer := fmt.Sprintf("Based on %d document(s), here is what I found about %q: ", len(documents), message)
	tokens := strings.SplitAfter(answer, " ")
	tokens = append(tokens, "the ", "stub ", "backend ", "has ", "no ", "real ", "retrieval.")
	return tokens, nil
}

// ============================================================================
// DOCUMENT STORE
// ============================================================================

// documentStore holds uploaded document names server-side, in ingestion
// order.
type documentStore struct {
	mu    sync.Mutex
	names []string
}

func (d *documentStore) add(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = append(d.names, name)
}

func (d *documentStore) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, len(d.names))
	copy(names, d.names)
	return names
}

func (d *documentStore) clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = nil
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the stub Dora backend.
type Server struct {
	port   int
	router *http.ServeMux
	server *http.Server

	docs      *documentStore
	generator Generator

	// ollamaUp is what /health reports; the stub has no real model
	// behind it, so this is a switch for exercising degraded states.
	mu       sync.RWMutex
	ollamaUp bool

	// tokenDelay spaces streamed tokens so the type-on effect is
	// visible during manual testing. Zero in tests.
	tokenDelay time.Duration
}

// NewServer creates a stub server on the specified port.
// If port is 0, the default port (8000) is used.
func NewServer(port int) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		port:       port,
		router:     http.NewServeMux(),
		docs:       &documentStore{},
		generator:  GeneratorFunc(echoGenerator),
		ollamaUp:   true,
		tokenDelay: 20 * time.Millisecond,
	}

	s.setupRoutes()
	return s
}

// WithGenerator sets a custom answer generator.
func (s *Server) WithGenerator(g Generator) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generator = g
	return s
}

// WithTokenDelay sets the inter-token delay for streamed answers.
func (s *Server) WithTokenDelay(d time.Duration) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenDelay = d
	return s
}

// SetOllamaUp flips what the health probe reports.
func (s *Server) SetOllamaUp(up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ollamaUp = up
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the routed handler, for tests that mount it on
// httptest.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /documents", s.handleListDocuments)
	s.router.HandleFunc("POST /upload", s.handleUpload)
	s.router.HandleFunc("DELETE /documents", s.handleClearDocuments)
	s.router.HandleFunc("POST /chat/stream", s.handleChatStream)
}

// ============================================================================
// HEALTH HANDLER
// ============================================================================

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	up := s.ollamaUp
	s.mu.RUnlock()

	status := "ok"
	if !up {
		status = "degraded"
	}

	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: status, Ollama: up})
}

// ============================================================================
// DOCUMENT HANDLERS
// ============================================================================

// handleListDocuments handles GET /documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	names := s.docs.list()
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, api.DocumentsResponse{Documents: names})
}

// handleUpload handles POST /upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing multipart field 'file'")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !api.AllowedExtension(name) {
		s.writeError(w, http.StatusUnsupportedMediaType, "unsupported file type (want .pdf, .txt, or .md)")
		return
	}

	// The stub discards content; it only needs the size for a chunk
	// count the client can display.
	size, err := io.Copy(io.Discard, file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	s.docs.add(name)

	chunks := int(size/chunkSize) + 1
	log.Printf("UPLOAD | file=%s size=%d chunks=%d", name, size, chunks)
	s.writeJSON(w, http.StatusOK, api.UploadResponse{Filename: name, Chunks: chunks})
}

// handleClearDocuments handles DELETE /documents.
func (s *Server) handleClearDocuments(w http.ResponseWriter, r *http.Request) {
	s.docs.clear()
	log.Printf("DOCUMENTS_CLEARED")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ============================================================================
// CHAT STREAM HANDLER
// ============================================================================

// handleChatStream handles POST /chat/stream. The response is a stream
// of newline-delimited "data: " records: one JSON object per content
// token, an in-band error record on generation failure, and a trailing
// [DONE] marker.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message must not be empty")
		return
	}
	if len(req.History) > MaxHistoryTurns {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("too many history turns: maximum is %d", MaxHistoryTurns))
		return
	}

	documents := s.docs.list()
	if len(documents) == 0 {
		s.writeError(w, http.StatusConflict, "no documents ingested")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	s.mu.RLock()
	generator := s.generator
	delay := s.tokenDelay
	s.mu.RUnlock()

	ctx := r.Context()
	tokens, err := generator.Generate(ctx, req.Message, req.History, documents)
	if err != nil {
		// Failures after the stream opened are reported in-band.
		s.sendRecord(w, flusher, map[string]string{"error": err.Error()})
		return
	}

	for _, token := range tokens {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if token == "" {
			continue
		}
		s.sendRecord(w, flusher, map[string]string{"content": token})

		if delay > 0 {
			time.Sleep(delay)
		}
	}

	fmt.Fprint(w, "data: [DONE]\n")
	flusher.Flush()
}

// sendRecord writes one "data: " framed JSON record and flushes it.
func (s *Server) sendRecord(w http.ResponseWriter, flusher http.Flusher, record map[string]string) {
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n", payload)
	flusher.Flush()
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	handler := Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		CORSMiddleware(DefaultCORSConfig()),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(DefaultRateLimiter()),
	)(s.router)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// No write timeout: chat streams stay open until the answer
		// completes or the client disconnects.
		IdleTimeout: 120 * time.Second,
	}

	log.Printf("SERVER_START | addr=%s version=%s", addr, Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Printf("SERVER_SHUTDOWN | starting graceful shutdown")
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    status,
		},
	})
}
