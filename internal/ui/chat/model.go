// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the dora TUI.
//
// The model composes the conversation viewport, the input line, the
// document sidebar, the status bar, and the notice toast into one view.
// All conversation state lives in the session store; the model holds
// only presentation state and re-reads the snapshot on every repaint.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/config"
	"github.com/jeranaias/dora-tui/internal/corpus"
	"github.com/jeranaias/dora-tui/internal/notify"
	"github.com/jeranaias/dora-tui/internal/session"
	"github.com/jeranaias/dora-tui/internal/ui/components"
	"github.com/jeranaias/dora-tui/internal/ui/styles"
)

// =============================================================================
// INPUT MODES
// =============================================================================

// inputMode selects what the input line is collecting.
type inputMode int

const (
	// modeChat collects a question for the assistant.
	modeChat inputMode = iota
	// modeUpload collects a local file path to upload.
	modeUpload
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the dora chat view.
//
// IMPORTANT: use as a pointer. The model shares mutable collaborators
// (controller, stores, signal) that must not be copied.
type Model struct {
	// Collaborators. The controller owns the send lifecycle; the stores
	// own state; the signal owns the error notice.
	client     *api.Client
	controller *session.Controller
	session    *session.Store
	corpus     *corpus.Store
	signal     *notify.Signal

	// Presentation.
	theme     *styles.Theme
	renderer  *components.MessageRenderer
	sidebar   *components.Sidebar
	statusBar *components.StatusBar
	welcome   *components.Welcome

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keys     keyMap

	// Layout.
	width       int
	height      int
	ready       bool
	showSidebar bool
	compact     bool

	// Backend status, refreshed by the periodic health probe. The first
	// result additionally drives the startup notice.
	connected     bool
	ollamaUp      bool
	healthChecked bool

	// Transient state.
	mode      inputMode
	uploading bool
	quitting  bool

	// Cross-goroutine plumbing. Store mutations and notice changes on
	// the streaming goroutine land here; waitForUpdateCmd converts them
	// into StoreUpdatedMsg. The coalescer caps the repaint rate.
	updates   chan struct{}
	coalescer *RepaintCoalescer

	version string
}

// New wires a chat model to its collaborators. The controller must be
// built over the same session store, corpus, and signal passed here.
// cfg supplies theme, markdown, and layout preferences.
func New(client *api.Client, controller *session.Controller, store *session.Store, docs *corpus.Store, signal *notify.Signal, cfg *config.Config, version string) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	theme := styles.NewTheme(cfg.UI.Theme)

	input := textinput.New()
	input.Placeholder = "Ask about your documents..."
	input.CharLimit = 4000
	input.Prompt = "> "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	renderer := components.NewMessageRenderer(theme)
	if cfg.UI.Markdown {
		renderer.EnableMarkdown()
	}

	m := &Model{
		client:      client,
		controller:  controller,
		session:     store,
		corpus:      docs,
		signal:      signal,
		theme:       theme,
		renderer:    renderer,
		showSidebar: cfg.UI.ShowSidebar,
		compact:     cfg.UI.CompactMode,
		sidebar:     components.NewSidebar(theme),
		statusBar:   components.NewStatusBar(theme),
		welcome:     components.NewWelcome(theme, version),
		input:       input,
		spinner:     sp,
		keys:        defaultKeyMap(),
		updates:     make(chan struct{}, 1),
		coalescer:   NewRepaintCoalescer(),
		version:     version,
	}

	// Both callbacks run off the Bubble Tea loop. They only poke the
	// channel; the loop does the reading.
	controller.OnUpdate(func() {
		m.coalescer.Mark()
		m.signalUpdate()
	})
	signal.OnChange(func() {
		m.signalUpdate()
	})

	return m
}

// signalUpdate nudges the update channel without blocking. A full
// channel already guarantees a pending StoreUpdatedMsg.
func (m *Model) signalUpdate() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

// Init starts the background machinery: the first health probe, corpus
// hydration, the store listener, and the cursor blink.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		checkHealthCmd(m.client),
		loadDocumentsCmd(m.client),
		waitForUpdateCmd(m.updates),
		healthTickCmd(),
		textinput.Blink,
	)
}

// streaming reports whether a send is in flight.
func (m *Model) streaming() bool {
	return m.controller.Busy()
}

// applyConfig rebuilds the theme-bound components after a config
// reload. client is non-nil when the backend URL changed.
func (m *Model) applyConfig(cfg *config.Config, client *api.Client) {
	if cfg == nil {
		return
	}

	m.theme = styles.NewTheme(cfg.UI.Theme)
	m.renderer = components.NewMessageRenderer(m.theme)
	if cfg.UI.Markdown {
		m.renderer.EnableMarkdown()
	}
	m.sidebar = components.NewSidebar(m.theme)
	m.statusBar = components.NewStatusBar(m.theme)
	m.welcome = components.NewWelcome(m.theme, m.version)
	m.spinner.Style = m.theme.Spinner

	m.showSidebar = cfg.UI.ShowSidebar
	m.compact = cfg.UI.CompactMode

	if client != nil {
		m.client = client
		m.connected = false
	}

	if m.ready {
		m.layout()
	}
}
