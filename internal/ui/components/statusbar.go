// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the dora TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dora-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusInfo carries everything the status bar displays.
type StatusInfo struct {
	Connected   bool
	OllamaUp    bool
	Documents   int
	ChatEnabled bool
	Streaming   bool
}

// StatusBar renders the single-line footer.
type StatusBar struct {
	theme *styles.Theme
}

// NewStatusBar creates a status bar bound to the active theme.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// Render draws the status bar at the given width.
func (s *StatusBar) Render(info StatusInfo, width int) string {
	var left []string

	switch {
	case !info.Connected:
		left = append(left, s.theme.StatusDown.Render(styles.StatusIndicators.Error+" backend down"))
	case !info.OllamaUp:
		left = append(left, s.theme.StatusDown.Render(styles.StatusIndicators.Warning+" degraded"))
	default:
		left = append(left, s.theme.StatusHealthy.Render(styles.StatusIndicators.Active+" connected"))
	}

	left = append(left, fmt.Sprintf("%d docs", info.Documents))

	switch {
	case info.Streaming:
		left = append(left, s.theme.StatusHealthy.Render("streaming"))
	case info.ChatEnabled:
		left = append(left, "ready")
	default:
		left = append(left, s.theme.StatusDown.Render("chat disabled"))
	}

	leftText := strings.Join(left, "  |  ")

	shortcuts := []string{
		s.theme.ShortcutKey.Render("^C") + s.theme.ShortcutDesc.Render(" quit"),
		s.theme.ShortcutKey.Render("^U") + s.theme.ShortcutDesc.Render(" upload"),
		s.theme.ShortcutKey.Render("esc") + s.theme.ShortcutDesc.Render(" cancel"),
	}
	rightText := strings.Join(shortcuts, "  ")

	// Pad the middle so shortcuts sit flush right.
	gap := width - lipgloss.Width(leftText) - lipgloss.Width(rightText) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.
		Width(width).
		Render(leftText + strings.Repeat(" ", gap) + rightText)
}
