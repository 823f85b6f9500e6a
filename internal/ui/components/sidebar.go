// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the dora TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/dora-tui/internal/ui/styles"
)

// =============================================================================
// DOCUMENT SIDEBAR
// =============================================================================

// SidebarWidth is the fixed column width of the document sidebar.
const SidebarWidth = 28

// Sidebar renders the document corpus panel shown on the right side of
// the chat view.
type Sidebar struct {
	theme *styles.Theme
}

// NewSidebar creates a sidebar bound to the active theme.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme}
}

// Render draws the sidebar for the given document list at the given
// height. Long names are truncated to the column width.
func (s *Sidebar) Render(documents []string, height int) string {
	var b strings.Builder

	title := s.theme.SidebarTitle.Render("Documents")
	counter := s.theme.SidebarCounter.Render(fmt.Sprintf("(%d)", len(documents)))
	b.WriteString(title + " " + counter + "\n\n")

	if len(documents) == 0 {
		b.WriteString(s.theme.SidebarEmpty.Render("none uploaded"))
		b.WriteString("\n\n")
		b.WriteString(s.theme.SidebarEmpty.Render("chat disabled until a"))
		b.WriteString("\n")
		b.WriteString(s.theme.SidebarEmpty.Render("document is added"))
	} else {
		// Leave room for title, blank line, and border padding.
		visible := height - 4
		if visible < 1 {
			visible = 1
		}
		for i, name := range documents {
			if i >= visible {
				b.WriteString(s.theme.SidebarEmpty.Render(fmt.Sprintf("+%d more", len(documents)-visible)))
				break
			}
			b.WriteString(s.theme.SidebarItem.Render(truncateName(name, SidebarWidth-4)))
			b.WriteString("\n")
		}
	}

	return s.theme.Sidebar.
		Width(SidebarWidth).
		Height(height).
		Render(b.String())
}

// truncateName shortens a document name to fit the sidebar column,
// accounting for wide runes.
func truncateName(name string, maxWidth int) string {
	if runewidth.StringWidth(name) <= maxWidth {
		return name
	}
	return runewidth.Truncate(name, maxWidth, "...")
}
