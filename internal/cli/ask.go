// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the dora CLI.
//
// Handles the "dora ask" command which sends a single question to the
// backend and streams the grounded answer to stdout.
//
// Command: ask [question]
// Short:   Ask a single question
//
// Examples:
//   dora ask "What does the onboarding doc say about laptops?"
//   dora ask --json "Summarize the uploaded contract"
//   cat question.txt | dora ask
//
// Flags:
//   --json              Output response as JSON
//   -q, --quiet         Answer only, no status line
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/config"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the global glamour renderer for markdown output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// CLIENT CONSTRUCTION
// =============================================================================

// newClient builds an API client from global config, honoring the
// --server flag override.
func newClient(args Args) *api.Client {
	cfg := config.Global()
	clientCfg := cfg.ToClientConfig()
	if args.Server != "" {
		clientCfg.BaseURL = args.Server
	}
	return api.NewClientWithConfig(clientCfg)
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// askResult is the --json output shape for a completed ask.
type askResult struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Duration float64 `json:"duration_secs"`
	Docs     int     `json:"documents"`
}

// HandleAskCommand handles the "ask" command: validates the corpus,
// streams the answer, and renders markdown when stdout is a terminal.
func HandleAskCommand(args Args) error {
	question := strings.TrimSpace(args.Query)

	// No question on the command line: read it from stdin so piped
	// usage works (`cat q.txt | dora ask`).
	if question == "" && !IsTTY() {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read question from stdin: %w", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return fmt.Errorf("no question provided\n\nUsage: dora ask \"your question\"")
	}

	client := newClient(args)
	ctx := context.Background()

	// Chat is disabled while the corpus is empty; fail with guidance
	// instead of a backend 409.
	docs, err := client.ListDocuments(ctx)
	if err != nil {
		return describeBackendError(err, client)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents uploaded; chat is disabled\n\nUpload one first: dora upload FILE")
	}

	if !args.Quiet && !args.JSON && IsStdoutTTY() {
		fmt.Println(DimStyle.Render(fmt.Sprintf("Answering from %d document(s)...", len(docs))))
	}

	start := time.Now()
	var answer strings.Builder

	// TTY output is buffered and rendered as markdown once complete;
	// piped output streams tokens as they arrive.
	live := !IsStdoutTTY() && !args.JSON

	err = client.ChatStream(ctx, question, nil, func(event api.StreamEvent) {
		answer.WriteString(event.Content)
		if live {
			fmt.Print(event.Content)
		}
	})
	if err != nil {
		if live && answer.Len() > 0 {
			fmt.Println()
		}
		return describeBackendError(err, client)
	}

	switch {
	case args.JSON:
		result := askResult{
			Question: question,
			Answer:   answer.String(),
			Duration: time.Since(start).Seconds(),
			Docs:     len(docs),
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case live:
		fmt.Println()
	default:
		fmt.Print(renderMarkdown(answer.String()))
	}

	if !args.Quiet && !args.JSON && IsStdoutTTY() {
		fmt.Println(DimStyle.Render(fmt.Sprintf("(%0.1fs)", time.Since(start).Seconds())))
	}

	return nil
}

// =============================================================================
// ERROR PRESENTATION
// =============================================================================

// describeBackendError turns client errors into actionable messages.
func describeBackendError(err error, client *api.Client) error {
	switch {
	case api.IsNotRunning(err):
		return fmt.Errorf("cannot reach the dora backend at %s\n\nStart it with: dora serve", client.GetConfig().BaseURL)
	case api.IsTimeout(err):
		return fmt.Errorf("request timed out: %w\n\nIncrease the timeout: dora config set server.timeout_secs 60", err)
	case api.IsGeneration(err):
		return fmt.Errorf("generation failed: %w", err)
	default:
		return err
	}
}
