// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for dora.
package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdDocs
	CmdUpload
	CmdStatus
	CmdConfig
	CmdServe
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Cmd Command

	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Server  string // Backend URL override (--server)

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Port       int

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `dora - document-grounded chat assistant

Dora answers questions grounded in documents you upload. Chat is
disabled until the corpus has at least one document.

Usage:
  dora                       Start TUI (default)
  dora ask "question"        Ask a single question, stream to stdout
  dora chat                  Interactive chat REPL
  dora docs [subcommand]     Document corpus management
  dora upload FILE...        Upload documents (shorthand for docs add)
  dora status, s             Show backend health and corpus
  dora config [show|get|set|path]
  dora serve [--port N]      Run the stub backend server
  dora version, -v           Show version information
  dora help, -h              Show this help

Document Commands:
  dora docs list             List ingested documents
  dora docs add FILE...      Upload one or more documents (.pdf, .txt, .md)
  dora docs clear --confirm  Remove all documents from the backend

Config Commands:
  dora config show           Display current configuration
  dora config get KEY        Get a value (e.g. server.url)
  dora config set KEY VALUE  Set a value and save
  dora config path           Print the config file location

Global Flags:
  --server URL               Backend URL (overrides config)
  --json                     Machine-readable output where supported
  -q, --quiet                Minimal output
  --verbose                  Verbose output

Interactive Commands (during chat):
  /help                      Show available commands
  /docs                      List the document corpus
  /clear                     Clear conversation history
  /status                    Show session statistics
  /quit                      Exit chat
  Ctrl+C                     Cancel current generation

Environment:
  DORA_SERVER_URL            Backend URL
  DORA_TIMEOUT_SECS          Request timeout in seconds
  DORA_THEME                 UI theme (dark, light, auto)
  NO_COLOR                   Disable colored output
`

// Usage returns the top-level help text.
func Usage() string {
	return usageText
}

// ParseArgs parses command-line arguments into an Args struct.
// The first positional argument selects the command; everything after
// it is command-specific.
func ParseArgs(raw []string) Args {
	args := Args{Cmd: CmdTUI, Raw: raw}

	if len(raw) == 0 {
		return args
	}

	// Peel off global flags before the command word.
	rest := make([]string, 0, len(raw))
	i := 0
	for i < len(raw) {
		arg := raw[i]
		switch {
		case arg == "--quiet" || arg == "-q":
			args.Quiet = true
		case arg == "--verbose":
			args.Verbose = true
		case arg == "--json":
			args.JSON = true
		case arg == "--server":
			if i+1 < len(raw) {
				args.Server = raw[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--server="):
			args.Server = strings.TrimPrefix(arg, "--server=")
		default:
			rest = append(rest, arg)
		}
		i++
	}

	if len(rest) == 0 {
		return args
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "ask":
		args.Cmd = CmdAsk
		args.Query = strings.Join(cmdArgs, " ")
	case "chat":
		args.Cmd = CmdChat
	case "docs", "documents":
		args.Cmd = CmdDocs
		parser := NewArgParser(cmdArgs)
		args.Subcommand = parser.Subcommand()
		args.Raw = cmdArgs
	case "upload":
		args.Cmd = CmdUpload
		args.Raw = cmdArgs
	case "status", "s":
		args.Cmd = CmdStatus
	case "config":
		args.Cmd = CmdConfig
		parser := NewArgParser(cmdArgs)
		args.Subcommand = parser.Subcommand()
		args.ConfigKey = parser.Positional(1)
		args.ConfigVal = strings.Join(parser.PositionalFrom(2), " ")
		args.Raw = cmdArgs
	case "serve":
		args.Cmd = CmdServe
		parser := NewArgParser(cmdArgs)
		args.Port = parser.FlagIntOrDefault("port", 0)
	case "version", "-v", "--version":
		args.Cmd = CmdVersion
	case "help", "-h", "--help":
		args.Cmd = CmdHelp
	default:
		// Unknown word: treat it as an ask query so
		// `dora "what is X"` just works.
		args.Cmd = CmdAsk
		args.Query = strings.Join(rest, " ")
	}

	return args
}

// HandleVersionCommand prints version information.
func HandleVersionCommand(args Args) error {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q}\n", Version, GitCommit, BuildDate)
		return nil
	}
	fmt.Printf("dora %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	return nil
}

// HandleHelpCommand prints the top-level usage text.
func HandleHelpCommand(Args) error {
	fmt.Print(usageText)
	return nil
}
