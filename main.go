// dora TUI - chat with your documents from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dora-tui/internal/api"
	"github.com/jeranaias/dora-tui/internal/cli"
	"github.com/jeranaias/dora-tui/internal/config"
	"github.com/jeranaias/dora-tui/internal/corpus"
	"github.com/jeranaias/dora-tui/internal/model"
	"github.com/jeranaias/dora-tui/internal/notify"
	"github.com/jeranaias/dora-tui/internal/session"
	"github.com/jeranaias/dora-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with the cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args := cli.ParseArgs(os.Args[1:])

	var err error
	switch args.Cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAskCommand(args)
	case cli.CmdChat:
		err = cli.HandleChatCommand(args)
	case cli.CmdDocs:
		err = cli.HandleDocsCommand(args)
	case cli.CmdUpload:
		err = cli.HandleUploadCommand(args)
	case cli.CmdStatus:
		err = cli.HandleStatusCommand(args)
	case cli.CmdConfig:
		err = cli.HandleConfigCommand(args)
	case cli.CmdServe:
		err = cli.HandleServeCommand(args)
	case cli.CmdVersion:
		err = cli.HandleVersionCommand(args)
	case cli.CmdHelp:
		err = cli.HandleHelpCommand(args)
	default:
		cli.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the full-screen chat interface.
func runTUI(args cli.Args) error {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not lock the user out of the TUI.
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}
	config.SetGlobal(cfg)

	clientConfig := cfg.ToClientConfig()
	if args.Server != "" {
		clientConfig.BaseURL = args.Server
	}
	client := api.NewClientWithConfig(clientConfig)

	// The config watcher can swap the client mid-run; the streamer reads
	// it through the holder so in-flight wiring follows the switch.
	var clientMu sync.Mutex
	activeClient := client
	getClient := func() *api.Client {
		clientMu.Lock()
		defer clientMu.Unlock()
		return activeClient
	}

	store := session.NewStore()
	docs := corpus.NewStore()
	signal := notify.NewSignalWithDuration(cfg.NoticeDuration())

	streamer := session.StreamerFunc(func(ctx context.Context, message string, history []model.Turn, callback func(string)) error {
		return getClient().ChatStream(ctx, message, history, func(event api.StreamEvent) {
			callback(event.Content)
		})
	})
	controller := session.NewController(streamer, store, docs, signal)

	m := chat.New(client, controller, store, docs, signal, cfg, Version)

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Hot-reload the config file: theme and layout changes apply in
	// place; a backend URL change (unless --server pinned it) swaps the
	// client. Invalid intermediate saves are dropped by the watcher.
	if path, err := config.ConfigPathTOML(); err == nil {
		watcher, err := config.NewWatcher(path, func(newCfg *config.Config) {
			config.SetGlobal(newCfg)

			msg := chat.ConfigReloadedMsg{Config: newCfg}
			if args.Server == "" && newCfg.Server.URL != getClient().GetConfig().BaseURL {
				next := api.NewClientWithConfig(newCfg.ToClientConfig())
				clientMu.Lock()
				activeClient = next
				clientMu.Unlock()
				msg.Client = next
			}
			program.Send(msg)
		})
		if err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			} else {
				watcher.Close()
			}
		}
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI crashed: %w", err)
	}
	return nil
}
