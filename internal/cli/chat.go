// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the dora CLI.
//
// Handles the "dora chat" command which provides an interactive REPL
// for document-grounded conversation.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   dora chat                         Start interactive chat
//   dora chat --server http://host:8000
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /docs, /d           List the document corpus
//   /clear, /c          Clear conversation history
//   /status, /s         Show session statistics
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel current generation
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/config"
	"github.com/jeranaias/dora-tui/internal/corpus"
	"github.com/jeranaias/dora-tui/internal/model"
	"github.com/jeranaias/dora-tui/internal/notify"
	"github.com/jeranaias/dora-tui/internal/session"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	chatInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	chatWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatREPL holds the state for an interactive chat session.
type ChatREPL struct {
	Client     *api.Client
	Corpus     *corpus.Store
	Session    *session.Store
	Signal     *notify.Signal
	Controller *session.Controller
	InputCLI   *ChatCLI

	StartTime time.Time
	Sent      int
	Quiet     bool
}

// NewChatREPL wires the chat stores and controller for a REPL session.
func NewChatREPL(args Args) *ChatREPL {
	client := newClient(args)

	corpusStore := corpus.NewStore()
	sessionStore := session.NewStore()
	signal := notify.NewSignalWithDuration(config.Global().NoticeDuration())

	// The controller streams through the api client; tokens are echoed
	// to stdout as they arrive.
	streamer := session.StreamerFunc(func(ctx context.Context, message string, history []model.Turn, callback func(content string)) error {
		return client.ChatStream(ctx, message, history, func(event api.StreamEvent) {
			fmt.Print(event.Content)
			callback(event.Content)
		})
	})

	controller := session.NewController(streamer, sessionStore, corpusStore, signal)

	return &ChatREPL{
		Client:     client,
		Corpus:     corpusStore,
		Session:    sessionStore,
		Signal:     signal,
		Controller: controller,
		InputCLI:   NewChatCLI(),
		StartTime:  time.Now(),
		Quiet:      args.Quiet,
	}
}

// hydrate pulls the server-side document list into the local corpus.
func (r *ChatREPL) hydrate(ctx context.Context) error {
	docs, err := r.Client.ListDocuments(ctx)
	if err != nil {
		return err
	}
	r.Corpus.ReplaceAll(docs)
	return nil
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	repl := NewChatREPL(args)
	defer repl.InputCLI.Close()

	ctx := context.Background()
	if err := repl.hydrate(ctx); err != nil {
		return describeBackendError(err, repl.Client)
	}

	repl.printWelcome()

	for {
		input, err := repl.InputCLI.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C at the prompt aborts the line; Ctrl+D exits.
			if err == liner.ErrPromptAborted {
				continue
			}
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := repl.handleSlashCommand(ctx, input); done {
				break
			}
			continue
		}

		repl.sendMessage(ctx, input)
	}

	repl.printSummary()
	return nil
}

// sendMessage runs one send through the controller, echoing tokens and
// handling Ctrl+C cancellation while the stream is live.
func (r *ChatREPL) sendMessage(ctx context.Context, text string) {
	if !r.Corpus.IsEnabled() {
		fmt.Println(chatWarnStyle.Render("No documents uploaded; chat is disabled. Use: dora upload FILE"))
		return
	}

	fmt.Print(promptStyle.Render("dora> "))

	// Ctrl+C during streaming cancels the generation, not the REPL.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	done := make(chan error, 1)
	go func() {
		done <- r.Controller.Send(ctx, text)
	}()

	var err error
	select {
	case err = <-done:
	case <-interrupt:
		r.Controller.Cancel()
		err = <-done
	}
	fmt.Println()

	switch {
	case err == nil:
		r.Sent++
	case errors.Is(err, context.Canceled):
		fmt.Println(chatInfoStyle.Render("(cancelled; partial answer kept)"))
		r.Sent++
	case errors.Is(err, session.ErrChatDisabled):
		fmt.Println(chatWarnStyle.Render("No documents uploaded; chat is disabled."))
	case errors.Is(err, session.ErrBusy):
		fmt.Println(chatWarnStyle.Render("A response is already streaming."))
	default:
		if described := describeBackendError(err, r.Client); described != nil {
			fmt.Println(ErrorStyle.Render(described.Error()))
		}
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes an interactive command.
// Returns true when the REPL should exit.
func (r *ChatREPL) handleSlashCommand(ctx context.Context, input string) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(chatInfoStyle.Render(`Commands:
  /docs, /d     List the document corpus
  /clear, /c    Clear conversation history
  /status, /s   Show session statistics
  /quit, /q     Exit chat
  Ctrl+C        Cancel current generation`))

	case "/docs", "/d":
		if err := r.hydrate(ctx); err != nil {
			fmt.Println(ErrorStyle.Render(describeBackendError(err, r.Client).Error()))
			return false
		}
		docs := r.Corpus.List()
		if len(docs) == 0 {
			fmt.Println(chatInfoStyle.Render("No documents uploaded."))
			return false
		}
		for _, name := range docs {
			fmt.Println("  " + ValueStyle.Render(name))
		}

	case "/clear", "/c":
		r.Session.Clear()
		fmt.Println(chatInfoStyle.Render("Conversation history cleared."))

	case "/status", "/s":
		fmt.Printf("%s %d\n", RenderLabel("Messages sent:"), r.Sent)
		fmt.Printf("%s %d\n", RenderLabel("Turns in session:"), r.Session.Len())
		fmt.Printf("%s %d\n", RenderLabel("Documents:"), r.Corpus.Count())
		fmt.Printf("%s %s\n", RenderLabel("Session time:"), time.Since(r.StartTime).Round(time.Second))

	default:
		fmt.Println(chatWarnStyle.Render("Unknown command. Try /help"))
	}
	return false
}

// =============================================================================
// DISPLAY
// =============================================================================

func (r *ChatREPL) printWelcome() {
	if r.Quiet {
		return
	}
	fmt.Println(welcomeStyle.Render("dora chat"))
	if r.Corpus.IsEnabled() {
		fmt.Println(chatInfoStyle.Render(fmt.Sprintf("Grounded in %d document(s). Type /help for commands.", r.Corpus.Count())))
	} else {
		fmt.Println(chatWarnStyle.Render("No documents uploaded yet; chat is disabled until one is added."))
	}
	fmt.Println()
}

func (r *ChatREPL) printSummary() {
	if r.Quiet || r.Sent == 0 {
		return
	}
	fmt.Println()
	fmt.Println(chatInfoStyle.Render(fmt.Sprintf(
		"%d message(s) in %s", r.Sent, time.Since(r.StartTime).Round(time.Second))))
}
