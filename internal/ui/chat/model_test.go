// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/config"
	"github.com/jeranaias/dora-tui/internal/corpus"
	"github.com/jeranaias/dora-tui/internal/model"
	"github.com/jeranaias/dora-tui/internal/notify"
	"github.com/jeranaias/dora-tui/internal/session"
)

// newTestModel builds a model over a no-op streamer. No command returned
// by Update is executed, so nothing touches the network.
func newTestModel(t *testing.T) *Model {
	t.Helper()

	streamer := session.StreamerFunc(func(ctx context.Context, message string, history []model.Turn, callback func(string)) error {
		return nil
	})

	store := session.NewStore()
	docs := corpus.NewStore()
	signal := notify.NewSignal()
	controller := session.NewController(streamer, store, docs, signal)

	cfg := config.Default()
	cfg.UI.Markdown = false

	return New(api.NewClient(), controller, store, docs, signal, cfg, "test")
}

func resize(m *Model) {
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
}

func TestResizeMakesModelReady(t *testing.T) {
	m := newTestModel(t)
	if m.ready {
		t.Fatal("model should not be ready before the first resize")
	}

	resize(m)
	if !m.ready {
		t.Error("model should be ready after a window size message")
	}
	if m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		t.Errorf("viewport %dx%d, want positive dimensions", m.viewport.Width, m.viewport.Height)
	}
}

func TestEnterIgnoredWithEmptyCorpus(t *testing.T) {
	m := newTestModel(t)
	resize(m)

	m.input.SetValue("hello")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("send should not start while the corpus is empty")
	}
	if m.input.Value() != "hello" {
		t.Error("rejected input should stay in the box")
	}
}

func TestEnterIgnoredWithEmptyInput(t *testing.T) {
	m := newTestModel(t)
	resize(m)
	m.corpus.Add("doc.pdf")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("send should not start on empty input")
	}
}

func TestEnterStartsSend(t *testing.T) {
	m := newTestModel(t)
	resize(m)
	m.corpus.Add("doc.pdf")

	m.input.SetValue("what is this about?")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("send should produce a command")
	}
	if m.input.Value() != "" {
		t.Error("input should clear when the send starts")
	}
}

func TestUploadModeToggle(t *testing.T) {
	m := newTestModel(t)
	resize(m)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if m.mode != modeUpload {
		t.Fatal("ctrl+u should enter upload mode")
	}
	if !strings.HasPrefix(m.input.Prompt, "upload") {
		t.Error("upload mode should change the prompt")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeChat {
		t.Error("esc should leave upload mode")
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	m := newTestModel(t)
	resize(m)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	m.input.SetValue("/tmp/photo.png")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("bad extension should not reach the backend")
	}
	notice := m.signal.Current()
	if notice == nil || !strings.Contains(notice.Message, "unsupported") {
		t.Error("bad extension should raise a notice")
	}
}

func TestDocumentsMsgHydratesCorpus(t *testing.T) {
	m := newTestModel(t)
	resize(m)

	m.Update(DocumentsMsg{Documents: []string{"a.pdf", "b.txt"}})
	if m.corpus.Count() != 2 {
		t.Errorf("corpus count = %d, want 2", m.corpus.Count())
	}
	if !m.corpus.IsEnabled() {
		t.Error("hydrated corpus should enable chat")
	}
}

func TestHealthMsgUpdatesStatus(t *testing.T) {
	m := newTestModel(t)

	m.Update(HealthMsg{Health: &api.HealthResponse{Status: "ok", Ollama: true}})
	if !m.connected || !m.ollamaUp {
		t.Error("healthy probe should mark backend connected")
	}
	if m.signal.Current() != nil {
		t.Error("a healthy first probe should stay quiet")
	}

	m.Update(HealthMsg{Err: api.ErrNotRunning})
	if m.connected {
		t.Error("failed probe should mark backend disconnected")
	}
}

func TestFirstHealthFailureRaisesNotice(t *testing.T) {
	m := newTestModel(t)

	m.Update(HealthMsg{Err: api.ErrNotRunning})

	notice := m.signal.Current()
	if notice == nil || !strings.Contains(notice.Message, "Server not running") {
		t.Fatalf("notice = %v, want a server-not-running notice", notice)
	}

	// Later poll results move the indicator without re-raising.
	m.signal.Dismiss()
	m.Update(HealthMsg{Err: api.ErrNotRunning})
	if m.signal.Current() != nil {
		t.Error("ongoing poll failures should not re-raise the notice")
	}
}

func TestFirstHealthOllamaDownRaisesNotice(t *testing.T) {
	m := newTestModel(t)

	m.Update(HealthMsg{Health: &api.HealthResponse{Status: "degraded", Ollama: false}})

	if !m.connected {
		t.Error("a reachable backend should count as connected")
	}
	notice := m.signal.Current()
	if notice == nil || !strings.Contains(notice.Message, "Start Ollama first") {
		t.Fatalf("notice = %v, want the Ollama hint", notice)
	}
}

func TestUploadSuccessRefreshesDocuments(t *testing.T) {
	m := newTestModel(t)
	resize(m)
	m.uploading = true

	_, cmd := m.Update(UploadResultMsg{
		Path:   "/tmp/report.pdf",
		Result: &api.UploadResponse{Filename: "report.pdf", Chunks: 12},
	})

	if m.uploading {
		t.Error("upload result should clear the uploading flag")
	}
	// The backend owns the stored names; the model re-fetches instead of
	// inserting its own guess.
	if cmd == nil {
		t.Fatal("successful upload should issue a document refresh")
	}
	if m.corpus.Count() != 0 {
		t.Error("corpus should wait for the refreshed list, not self-insert")
	}
	notice := m.signal.Current()
	if notice == nil || notice.Kind != notify.KindStatus {
		t.Error("successful upload should raise a status notice")
	}

	m.Update(DocumentsMsg{Documents: []string{"report.pdf"}})
	if m.corpus.Count() != 1 {
		t.Error("refresh result should hydrate the corpus")
	}
}

func TestUploadFailureRaisesError(t *testing.T) {
	m := newTestModel(t)
	resize(m)

	m.Update(UploadResultMsg{Path: "/tmp/x.pdf", Err: api.ErrUpload})

	notice := m.signal.Current()
	if notice == nil || notice.Kind != notify.KindError {
		t.Fatal("failed upload should raise an error notice")
	}
	if notice.Message != "Upload failed" {
		t.Errorf("notice = %q, want %q", notice.Message, "Upload failed")
	}
	if m.corpus.Count() != 0 {
		t.Error("failed upload must not land in the corpus")
	}
}

func TestEscDismissesNotice(t *testing.T) {
	m := newTestModel(t)
	resize(m)
	m.signal.Raise("boom")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.signal.Current() != nil {
		t.Error("esc should dismiss the notice when idle")
	}
}

func TestClearResetsConversation(t *testing.T) {
	m := newTestModel(t)
	resize(m)
	m.session.AppendUser("hi")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.session.Len() != 0 {
		t.Error("ctrl+l should clear the conversation")
	}
}

func TestPlaceholderTracksCorpusGate(t *testing.T) {
	m := newTestModel(t)
	resize(m)

	if !strings.Contains(m.input.Placeholder, "Upload a document") {
		t.Errorf("empty-corpus placeholder = %q", m.input.Placeholder)
	}

	m.Update(DocumentsMsg{Documents: []string{"a.pdf"}})
	if !strings.Contains(m.input.Placeholder, "Ask") {
		t.Errorf("enabled placeholder = %q", m.input.Placeholder)
	}
}

func TestClearDocsDisablesChat(t *testing.T) {
	m := newTestModel(t)
	resize(m)
	m.corpus.Add("a.pdf")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if cmd == nil {
		t.Error("clearing documents should issue the backend call")
	}
	if m.corpus.Count() != 0 {
		t.Error("local corpus should clear immediately")
	}
}

func TestSpinnerHasFrames(t *testing.T) {
	m := newTestModel(t)
	if len(m.spinner.Spinner.Frames) == 0 {
		t.Error("spinner should carry an animation")
	}
}

func TestConfigReloadAppliesPreferences(t *testing.T) {
	m := newTestModel(t)
	resize(m)

	cfg := config.Default()
	cfg.UI.Theme = "light"
	cfg.UI.ShowSidebar = false
	cfg.UI.CompactMode = true

	_, cmd := m.Update(ConfigReloadedMsg{Config: cfg})

	if m.showSidebar {
		t.Error("reload should hide the sidebar")
	}
	if !m.compact {
		t.Error("reload should enable compact mode")
	}
	if cmd != nil {
		t.Error("a reload without a client swap needs no backend calls")
	}
	if !m.ready || m.viewport.Width <= 0 {
		t.Error("reload should relayout in place")
	}
}

func TestConfigReloadWithNewClientRechecksBackend(t *testing.T) {
	m := newTestModel(t)
	resize(m)
	m.connected = true

	next := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://localhost:9999"})
	_, cmd := m.Update(ConfigReloadedMsg{Config: config.Default(), Client: next})

	if m.client != next {
		t.Error("reload should adopt the replacement client")
	}
	if m.connected {
		t.Error("a new backend starts unverified")
	}
	if cmd == nil {
		t.Error("a client swap should recheck health and re-hydrate")
	}
}

func TestViewRendersWelcomeWhenEmpty(t *testing.T) {
	m := newTestModel(t)
	resize(m)

	view := m.View()
	if !strings.Contains(view, "ctrl+u") {
		t.Error("empty view with empty corpus should hint at uploading")
	}
}
