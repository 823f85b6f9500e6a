// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface of dora.
//
// The default invocation (no arguments) starts the TUI; everything else
// is handled here:
//
//	dora ask "question"      One-shot question, streamed to stdout
//	dora chat                Interactive REPL with input history
//	dora docs [subcommand]   Document corpus management
//	dora upload FILE...      Shorthand for "docs add"
//	dora status              Backend health and corpus overview
//	dora config [show|get|set|path]
//	dora serve               Run the stub backend
//	dora version             Version information
//
// # Usage
//
// Parse and execute commands:
//
//	args := cli.ParseArgs(os.Args[1:])
//	switch args.Cmd {
//	case cli.CmdAsk:
//	    return cli.HandleAskCommand(args)
//	case cli.CmdChat:
//	    return cli.HandleChatCommand(args)
//	// ... other commands
//	}
//
// Output styling follows terminal capabilities: colors are disabled for
// piped output and when NO_COLOR is set, and markdown rendering only
// happens when stdout is a TTY.
package cli
