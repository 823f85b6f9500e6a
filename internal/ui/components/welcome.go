// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the dora TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dora-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

const doraLogo = `     _
  __| | ___  _ __ __ _
 / _' |/ _ \| '__/ _' |
| (_| | (_) | | | (_| |
 \__,_|\___/|_|  \__,_|`

// Welcome renders the empty-conversation splash screen.
type Welcome struct {
	theme   *styles.Theme
	version string
}

// NewWelcome creates a welcome screen bound to the active theme.
func NewWelcome(theme *styles.Theme, version string) *Welcome {
	return &Welcome{theme: theme, version: version}
}

// Render draws the welcome box centered in a width x height area.
// The hint line changes depending on whether chat is enabled.
func (w *Welcome) Render(width, height int, chatEnabled bool) string {
	var b strings.Builder

	b.WriteString(w.theme.WelcomeLogo.Render(doraLogo))
	b.WriteString("\n")
	b.WriteString(w.theme.WelcomeVersion.Render("v" + w.version))
	b.WriteString("\n\n")
	b.WriteString(w.theme.WelcomeInfo.Render("Chat with your documents."))
	b.WriteString("\n\n")

	if chatEnabled {
		b.WriteString(w.theme.WelcomeInfo.Render("Type a question and press "))
		b.WriteString(w.theme.WelcomeKey.Render("enter"))
	} else {
		b.WriteString(w.theme.WelcomeInfo.Render("Press "))
		b.WriteString(w.theme.WelcomeKey.Render("ctrl+u"))
		b.WriteString(w.theme.WelcomeInfo.Render(" to upload a document"))
	}

	box := w.theme.WelcomeBox.Render(b.String())

	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
