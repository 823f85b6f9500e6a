// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the dora TUI.
package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/notify"
	"github.com/jeranaias/dora-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update is the Bubble Tea update function.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case HealthMsg:
		first := !m.healthChecked
		m.healthChecked = true
		m.connected = msg.Err == nil
		m.ollamaUp = m.connected && msg.Health.Ollama

		// The startup probe surfaces a notice; the ongoing poll only
		// moves the status-bar indicator.
		if first {
			switch {
			case !m.connected:
				m.signal.Raise("Server not running. Start it with: dora serve")
			case !m.ollamaUp:
				m.signal.Raise("Start Ollama first")
			}
		}
		return m, nil

	case HealthTickMsg:
		return m, tea.Batch(checkHealthCmd(m.client), healthTickCmd())

	case DocumentsMsg:
		if msg.Err != nil {
			m.connected = false
			return m, nil
		}
		m.corpus.ReplaceAll(msg.Documents)
		m.refreshViewport()
		return m, nil

	case UploadResultMsg:
		m.uploading = false
		if msg.Err != nil {
			m.signal.Raise("Upload failed")
			return m, nil
		}
		m.signal.RaiseKind(
			fmt.Sprintf("ingested %s (%d chunks)", msg.Result.Filename, msg.Result.Chunks),
			notify.KindStatus,
		)
		// The backend owns the stored names; re-fetch rather than guess.
		return m, loadDocumentsCmd(m.client)

	case ClearResultMsg:
		if msg.Err != nil {
			m.signal.RaiseKind("backend clear failed; local corpus cleared", notify.KindWarning)
		}
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config, msg.Client)
		if msg.Client != nil {
			// New backend: re-probe and re-hydrate against it.
			return m, tea.Batch(checkHealthCmd(m.client), loadDocumentsCmd(m.client))
		}
		return m, nil

	case StoreUpdatedMsg:
		// Re-arm the listener first; more changes may already be queued.
		cmd := waitForUpdateCmd(m.updates)
		if !m.streaming() || m.coalescer.Take() {
			m.refreshViewport()
		}
		return m, cmd

	case StreamTickMsg:
		if m.streaming() {
			if m.coalescer.Take() {
				m.refreshViewport()
			}
			return m, streamTickCmd()
		}
		if m.coalescer.Drain() {
			m.refreshViewport()
		}
		return m, nil

	case SendFinishedMsg:
		// The controller already finalized the turn and raised any
		// notice; only the repaint is ours.
		m.coalescer.Drain()
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.streaming() && !m.uploading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateChildren(msg)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout()
	return m, nil
}

// layout recomputes the viewport and input dimensions from the current
// size and config-driven flags. Also run after a config reload, which
// can toggle the sidebar or header.
func (m *Model) layout() {
	m.theme.Resize(m.width, m.height)

	chatWidth := m.width - 2
	if m.showSidebar {
		chatWidth -= components.SidebarWidth
	}
	if chatWidth < 20 {
		chatWidth = 20
	}
	// Header, input box, and status bar frame the viewport.
	chatHeight := m.height - inputHeight - statusHeight
	if !m.compact {
		chatHeight -= headerHeight
	}
	if chatHeight < 3 {
		chatHeight = 3
	}

	if !m.ready {
		m.viewport = newViewport(chatWidth, chatHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = chatHeight
	}

	m.input.Width = chatWidth - 6
	m.renderer.SetMaxWidth(chatWidth - 4)
	m.refreshViewport()
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.controller.Cancel()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		return m.handleCancel()

	case key.Matches(msg, m.keys.Upload):
		if m.mode == modeChat && !m.uploading {
			m.enterUploadMode()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if !m.streaming() {
			m.session.Clear()
			m.refreshViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearDocs):
		if m.streaming() {
			return m, nil
		}
		// Local state clears immediately; the backend call is
		// best-effort and reported through ClearResultMsg.
		m.corpus.RemoveAll()
		m.refreshViewport()
		return m, clearDocumentsCmd(m.client)

	case key.Matches(msg, m.keys.Send):
		return m.handleEnter()

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDn):
		m.viewport.HalfViewDown()
		return m, nil
	}

	return m.updateChildren(msg)
}

// handleCancel unwinds whatever is most transient: upload mode first,
// then the in-flight send, then the notice.
func (m *Model) handleCancel() (tea.Model, tea.Cmd) {
	if m.mode == modeUpload {
		m.leaveUploadMode()
		return m, nil
	}
	if m.streaming() {
		m.controller.Cancel()
		return m, nil
	}
	m.signal.Dismiss()
	return m, nil
}

func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.mode == modeUpload {
		return m.submitUpload()
	}
	return m.submitMessage()
}

// submitMessage starts a send. Empty input, a disabled corpus, and a
// busy controller all reject quietly; the status bar already explains
// why input is a no-op.
func (m *Model) submitMessage() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || !m.corpus.IsEnabled() || m.controller.Busy() {
		return m, nil
	}

	m.input.Reset()
	return m, tea.Batch(
		sendCmd(m.controller, text),
		streamTickCmd(),
		m.spinner.Tick,
	)
}

// submitUpload validates the typed path locally before hitting the
// backend, so obvious mistakes fail without a round trip.
func (m *Model) submitUpload() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.input.Value())
	m.leaveUploadMode()
	if path == "" {
		return m, nil
	}

	if !api.AllowedExtension(path) {
		m.signal.Raise("unsupported file type: " + filepath.Ext(path) + " (want .pdf, .txt, or .md)")
		return m, nil
	}
	if _, err := os.Stat(path); err != nil {
		m.signal.Raise("cannot read " + path)
		return m, nil
	}

	m.uploading = true
	return m, tea.Batch(uploadCmd(m.client, path), m.spinner.Tick)
}

func (m *Model) enterUploadMode() {
	m.mode = modeUpload
	m.input.Reset()
	m.input.Placeholder = "Path to a .pdf, .txt, or .md file"
	m.input.Prompt = "upload> "
}

func (m *Model) leaveUploadMode() {
	m.mode = modeChat
	m.input.Reset()
	m.input.Prompt = "> "
	m.syncPlaceholder()
}

// syncPlaceholder keeps the chat placeholder honest about the corpus
// gate.
func (m *Model) syncPlaceholder() {
	if m.mode != modeChat {
		return
	}
	if m.corpus.IsEnabled() {
		m.input.Placeholder = "Ask about your documents..."
	} else {
		m.input.Placeholder = "Upload a document first (ctrl+u)"
	}
}

// =============================================================================
// CHILD COMPONENTS
// =============================================================================

// updateChildren forwards unhandled messages to the input and viewport.
func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// refreshViewport re-renders the conversation into the viewport and
// keeps the view pinned to the bottom while following the stream.
func (m *Model) refreshViewport() {
	m.syncPlaceholder()
	if !m.ready {
		return
	}

	atBottom := m.viewport.AtBottom()

	if m.session.Len() == 0 {
		m.viewport.SetContent(m.welcome.Render(m.viewport.Width, m.viewport.Height, m.corpus.IsEnabled()))
	} else {
		m.viewport.SetContent(m.renderer.RenderConversation(m.session.Snapshot(), m.streaming()))
	}

	if atBottom || m.streaming() {
		m.viewport.GotoBottom()
	}
}
