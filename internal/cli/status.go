// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for dora.
//
// Command: status
// Short:   Display backend and corpus status
// Aliases: s
//
// Examples:
//   dora status                 Show status
//   dora s                      Show status (short alias)
//   dora status --json          Status in JSON format
//
// Status Sections:
//   Backend:   URL, reachability, Ollama model availability
//   Corpus:    Document count, chat enabled/disabled
//   Config:    Config file path, theme
//
// Flags:
//   --json              Output in JSON format
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/config"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")). // Cyan
				MarginBottom(1)

	statusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")). // Light gray
				Width(14)

	valueGreenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	valueYellowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220"))

	valueRedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// =============================================================================
// STATUS HANDLER
// =============================================================================

// statusReport is the --json output shape.
type statusReport struct {
	Backend struct {
		URL       string `json:"url"`
		Reachable bool   `json:"reachable"`
		Ollama    bool   `json:"ollama"`
	} `json:"backend"`
	Corpus struct {
		Documents   []string `json:"documents"`
		ChatEnabled bool     `json:"chat_enabled"`
	} `json:"corpus"`
	ConfigPath string `json:"config_path"`
	Theme      string `json:"theme"`
}

// HandleStatusCommand handles the "status" command.
func HandleStatusCommand(args Args) error {
	cfg := config.Global()
	client := newClient(args)
	ctx := context.Background()

	var report statusReport
	report.Backend.URL = client.GetConfig().BaseURL
	report.Theme = cfg.UI.Theme

	health, healthErr := client.Health(ctx)
	if healthErr == nil {
		report.Backend.Reachable = true
		report.Backend.Ollama = health.Ollama
	}

	if report.Backend.Reachable {
		if docs, err := client.ListDocuments(ctx); err == nil {
			report.Corpus.Documents = docs
		}
	}
	if report.Corpus.Documents == nil {
		report.Corpus.Documents = []string{}
	}
	report.Corpus.ChatEnabled = report.Backend.Reachable && len(report.Corpus.Documents) > 0

	if path, err := config.ConfigPathTOML(); err == nil {
		report.ConfigPath = path
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Println(statusTitleStyle.Render("dora status"))

	// Backend
	fmt.Printf("%s %s\n", statusLabelStyle.Render("Backend"), report.Backend.URL)
	switch {
	case !report.Backend.Reachable:
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Reachable"), valueRedStyle.Render("no"))
		if api.IsNotRunning(healthErr) {
			fmt.Println(DimStyle.Render("  Start it with: dora serve"))
		}
	case !report.Backend.Ollama:
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Reachable"), valueGreenStyle.Render("yes"))
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Ollama"), valueYellowStyle.Render("unavailable (degraded)"))
	default:
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Reachable"), valueGreenStyle.Render("yes"))
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Ollama"), valueGreenStyle.Render("available"))
	}

	// Corpus
	fmt.Printf("%s %d\n", statusLabelStyle.Render("Documents"), len(report.Corpus.Documents))
	if report.Corpus.ChatEnabled {
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Chat"), valueGreenStyle.Render("enabled"))
	} else {
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Chat"), valueYellowStyle.Render("disabled (empty corpus)"))
	}

	// Config
	fmt.Printf("%s %s\n", statusLabelStyle.Render("Theme"), report.Theme)
	if report.ConfigPath != "" {
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Config"), DimStyle.Render(report.ConfigPath))
	}

	return nil
}
