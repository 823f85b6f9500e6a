// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the dora TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/dora-tui/internal/model"
	"github.com/jeranaias/dora-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// MessageRenderer draws conversation turns as labeled bubbles.
type MessageRenderer struct {
	theme    *styles.Theme
	maxWidth int
	markdown *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer bound to the active theme.
func NewMessageRenderer(theme *styles.Theme) *MessageRenderer {
	return &MessageRenderer{theme: theme, maxWidth: 80}
}

// SetMaxWidth sets the wrap width for message content.
func (r *MessageRenderer) SetMaxWidth(width int) {
	if width > 20 {
		r.maxWidth = width
	}
	if r.markdown != nil {
		r.EnableMarkdown()
	}
}

// EnableMarkdown renders finalized assistant turns through Glamour.
// Streaming turns stay plain; re-rendering partial markdown every frame
// flickers badly. Falls back to plain rendering if Glamour fails.
func (r *MessageRenderer) EnableMarkdown() {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(r.maxWidth-4),
	)
	if err != nil {
		return
	}
	r.markdown = renderer
}

// DisableMarkdown returns finalized turns to plain rendering with
// Chroma-highlighted code fences.
func (r *MessageRenderer) DisableMarkdown() {
	r.markdown = nil
}

// Render draws one turn. Assistant content gets code blocks highlighted;
// the streaming flag appends a cursor to the in-flight turn.
func (r *MessageRenderer) Render(turn model.Turn, streaming bool) string {
	var label, body string

	if turn.IsUser() {
		label = r.theme.UserLabel.Render(turn.Role.DisplayName())
		body = r.theme.UserBubble.Width(r.maxWidth).Render(turn.Content)
	} else {
		label = r.theme.AssistantLabel.Render(turn.Role.DisplayName())
		content := turn.Content
		if streaming {
			content += "▌"
		} else {
			content = r.renderFinal(content)
		}
		body = r.theme.AssistantBubble.Width(r.maxWidth).Render(content)
	}

	timestamp := r.theme.Timestamp.Render(turn.Timestamp.Format("15:04"))
	return label + " " + timestamp + "\n" + body
}

// renderFinal formats a finalized assistant answer: Glamour when
// markdown is enabled, otherwise plain text with highlighted fences.
func (r *MessageRenderer) renderFinal(content string) string {
	if r.markdown != nil {
		if out, err := r.markdown.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return ParseCodeBlocks(content, r.maxWidth)
}

// RenderConversation draws all turns separated by blank lines. The last
// turn is treated as streaming when streaming is true.
func (r *MessageRenderer) RenderConversation(turns []model.Turn, streaming bool) string {
	if len(turns) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(turns))
	for i, turn := range turns {
		last := i == len(turns)-1
		rendered = append(rendered, r.Render(turn, streaming && last))
	}
	return strings.Join(rendered, "\n\n")
}
