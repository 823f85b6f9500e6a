// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the dora TUI.
//
// This file renders the notice toast: a non-blocking popup in the
// bottom-right corner showing the current notify.Signal notice. The
// signal holds at most one notice at a time and handles expiry itself,
// so the component is purely presentational.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dora-tui/internal/notify"
	"github.com/jeranaias/dora-tui/internal/ui/styles"
)

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderNotice renders the current notice as a toast box.
// Returns an empty string when notice is nil.
func RenderNotice(notice *notify.Notice, width int) string {
	if notice == nil {
		return ""
	}

	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var accent lipgloss.AdaptiveColor
	var icon string
	switch notice.Kind {
	case notify.KindWarning:
		accent = styles.Amber
		icon = styles.StatusIndicators.Warning
	case notify.KindStatus:
		accent = styles.Cyan
		icon = styles.StatusIndicators.Info
	default: // KindError
		accent = styles.Rose
		icon = styles.StatusIndicators.Error
	}

	iconStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	message := notice.Message
	if len(message) > maxWidth-10 {
		message = wrapNoticeText(message, maxWidth-10)
	}

	content := iconStyle.Render(icon+" ") + messageStyle.Render(message)

	box := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2).
		MaxWidth(maxWidth)

	return box.Render(content)
}

// PlaceNotice renders the notice positioned in the bottom-right corner
// of a width x height area. Returns an empty string when notice is nil.
func PlaceNotice(notice *notify.Notice, width, height int) string {
	toast := RenderNotice(notice, width)
	if toast == "" {
		return ""
	}

	positioned := lipgloss.NewStyle().
		MarginRight(2).
		MarginBottom(1).
		Render(toast)

	if width > 0 && height > 0 {
		return lipgloss.Place(
			width, height,
			lipgloss.Right, lipgloss.Bottom,
			positioned,
		)
	}
	return positioned
}

// NoticeAge formats how long a notice has been visible, for tests and
// debug overlays.
func NoticeAge(notice *notify.Notice) time.Duration {
	if notice == nil {
		return 0
	}
	return time.Since(notice.CreatedAt)
}

// wrapNoticeText performs simple word wrapping for notice messages.
func wrapNoticeText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= maxWidth {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n")
}
