// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the dora TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dora-tui/internal/ui/components"
)

// Fixed row budgets for the frame around the viewport.
const (
	headerHeight = 2
	inputHeight  = 3
	statusHeight = 1
)

// newViewport builds the conversation viewport.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting dora..."
	}

	body := m.viewport.View()
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			body,
			m.sidebar.Render(m.corpus.List(), m.viewport.Height),
		)
	}
	input := m.renderInput()
	status := m.statusBar.Render(m.statusInfo(), m.width)

	rows := make([]string, 0, 4)
	if !m.compact {
		rows = append(rows, m.renderHeader())
	}
	rows = append(rows, body, input, status)
	screen := lipgloss.JoinVertical(lipgloss.Left, rows...)

	// The toast draws over the composed screen rather than reflowing it.
	if notice := m.signal.Current(); notice != nil {
		toast := components.PlaceNotice(notice, m.width, m.height-statusHeight)
		return overlay(screen, toast)
	}
	return screen
}

// renderHeader draws the title row.
func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("dora")
	subtitle := m.theme.HeaderSubtitle.Render("chat with your documents")

	line := title + "  " + subtitle
	if m.streaming() {
		line += "  " + m.spinner.View() + m.theme.ThinkingText.Render(" thinking")
	} else if m.uploading {
		line += "  " + m.spinner.View() + m.theme.ThinkingText.Render(" ingesting")
	}

	return m.theme.Header.Width(m.width).Render(line)
}

// renderInput draws the input box, dimmed when sends are pointless.
func (m *Model) renderInput() string {
	style := m.theme.InputContainer
	if !m.corpus.IsEnabled() && m.mode == modeChat {
		style = m.theme.InputDisabled
	}

	return style.Width(m.width - 2).Render(m.input.View())
}

// statusInfo assembles the footer snapshot.
func (m *Model) statusInfo() components.StatusInfo {
	return components.StatusInfo{
		Connected:   m.connected,
		OllamaUp:    m.ollamaUp,
		Documents:   m.corpus.Count(),
		ChatEnabled: m.corpus.IsEnabled(),
		Streaming:   m.streaming(),
	}
}

// overlay draws top over base line by line. Lip Gloss has no real
// compositor; replacing whole lines where the toast has content is
// enough for a corner popup.
func overlay(base, top string) string {
	if top == "" {
		return base
	}

	baseLines := strings.Split(base, "\n")
	topLines := strings.Split(top, "\n")

	for i, line := range topLines {
		if i >= len(baseLines) {
			break
		}
		if strings.TrimSpace(line) != "" {
			baseLines[i] = line
		}
	}
	return strings.Join(baseLines, "\n")
}
