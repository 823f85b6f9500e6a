// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jeranaias/dora-tui/internal/config"
	"github.com/jeranaias/dora-tui/internal/server"
)

// =============================================================================
// COMMAND PARSING TESTS
// =============================================================================

func TestParseArgsDefault(t *testing.T) {
	args := ParseArgs(nil)
	if args.Cmd != CmdTUI {
		t.Errorf("Cmd = %v, want CmdTUI", args.Cmd)
	}
}

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Command
	}{
		{"ask", []string{"ask", "what", "is", "dora"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"docs", []string{"docs", "list"}, CmdDocs},
		{"documents alias", []string{"documents"}, CmdDocs},
		{"upload", []string{"upload", "a.pdf"}, CmdUpload},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"config", []string{"config", "show"}, CmdConfig},
		{"serve", []string{"serve"}, CmdServe},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseArgs(tt.raw).Cmd; got != tt.want {
				t.Errorf("ParseArgs(%v).Cmd = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseArgsAskJoinsQuery(t *testing.T) {
	args := ParseArgs([]string{"ask", "what", "is", "in", "the", "corpus"})
	if args.Query != "what is in the corpus" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsBareQuestionIsAsk(t *testing.T) {
	args := ParseArgs([]string{"what is dora"})
	if args.Cmd != CmdAsk {
		t.Errorf("Cmd = %v, want CmdAsk", args.Cmd)
	}
	if args.Query != "what is dora" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	args := ParseArgs([]string{"--json", "--server", "http://host:9000", "status"})
	if args.Cmd != CmdStatus {
		t.Errorf("Cmd = %v, want CmdStatus", args.Cmd)
	}
	if !args.JSON {
		t.Error("JSON = false, want true")
	}
	if args.Server != "http://host:9000" {
		t.Errorf("Server = %q", args.Server)
	}
}

func TestParseArgsServerEquals(t *testing.T) {
	args := ParseArgs([]string{"ask", "--server=http://host:9000", "hello"})
	if args.Server != "http://host:9000" {
		t.Errorf("Server = %q", args.Server)
	}
	if args.Query != "hello" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsConfigSet(t *testing.T) {
	args := ParseArgs([]string{"config", "set", "server.url", "http://localhost:9000"})
	if args.Subcommand != "set" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if args.ConfigKey != "server.url" {
		t.Errorf("ConfigKey = %q", args.ConfigKey)
	}
	if args.ConfigVal != "http://localhost:9000" {
		t.Errorf("ConfigVal = %q", args.ConfigVal)
	}
}

func TestParseArgsServePort(t *testing.T) {
	args := ParseArgs([]string{"serve", "--port", "9000"})
	if args.Port != 9000 {
		t.Errorf("Port = %d, want 9000", args.Port)
	}
}

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParserFlagFormats(t *testing.T) {
	parser := NewArgParser([]string{"list", "--format", "json", "--since=yesterday", "--confirm"})

	if parser.Subcommand() != "list" {
		t.Errorf("Subcommand() = %q", parser.Subcommand())
	}
	if parser.Flag("format") != "json" {
		t.Errorf("Flag(format) = %q", parser.Flag("format"))
	}
	if parser.Flag("since") != "yesterday" {
		t.Errorf("Flag(since) = %q", parser.Flag("since"))
	}
	if !parser.BoolFlag("confirm") {
		t.Error("BoolFlag(confirm) = false")
	}
	if parser.BoolFlag("missing") {
		t.Error("BoolFlag(missing) = true")
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	parser := NewArgParser([]string{"--json=false", "--verbose=true"})
	if parser.BoolFlag("json") {
		t.Error("BoolFlag(json) = true, want false")
	}
	if !parser.BoolFlag("verbose") {
		t.Error("BoolFlag(verbose) = false, want true")
	}
}

func TestArgParserPositional(t *testing.T) {
	parser := NewArgParser([]string{"add", "a.pdf", "b.txt"})

	if parser.PositionalCount() != 3 {
		t.Errorf("PositionalCount() = %d", parser.PositionalCount())
	}
	if parser.Positional(1) != "a.pdf" {
		t.Errorf("Positional(1) = %q", parser.Positional(1))
	}
	if parser.Positional(10) != "" {
		t.Error("out-of-range Positional should be empty")
	}

	from := parser.PositionalFrom(1)
	if len(from) != 2 || from[0] != "a.pdf" || from[1] != "b.txt" {
		t.Errorf("PositionalFrom(1) = %v", from)
	}
}

func TestArgParserFlagIntOrDefault(t *testing.T) {
	parser := NewArgParser([]string{"--port", "9000", "--bad", "xyz"})

	if got := parser.FlagIntOrDefault("port", 8000); got != 9000 {
		t.Errorf("FlagIntOrDefault(port) = %d", got)
	}
	if got := parser.FlagIntOrDefault("bad", 7); got != 7 {
		t.Errorf("FlagIntOrDefault(bad) = %d, want default", got)
	}
	if got := parser.FlagIntOrDefault("missing", 42); got != 42 {
		t.Errorf("FlagIntOrDefault(missing) = %d, want default", got)
	}
}

func TestParseBoolString(t *testing.T) {
	truthy := []string{"true", "yes", "y", "1", "on", "TRUE", "Yes"}
	for _, s := range truthy {
		got, err := ParseBoolString(s)
		if err != nil || !got {
			t.Errorf("ParseBoolString(%q) = %v, %v; want true", s, got, err)
		}
	}

	falsy := []string{"false", "no", "n", "0", "off"}
	for _, s := range falsy {
		got, err := ParseBoolString(s)
		if err != nil || got {
			t.Errorf("ParseBoolString(%q) = %v, %v; want false", s, got, err)
		}
	}

	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("ParseBoolString(maybe) should error")
	}
}

// =============================================================================
// TEXT WRAPPING TESTS
// =============================================================================

func TestWrapTextPreservesShortLines(t *testing.T) {
	got := WrapText("short line", 80)
	if got != "short line" {
		t.Errorf("WrapText() = %q", got)
	}
}

func TestWrapTextBreaksLongLines(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	got := WrapText(text, 20)

	for i, line := range splitLines(got) {
		if len(line) > 18 {
			t.Errorf("line %d too long (%d chars): %q", i, len(line), line)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// =============================================================================
// STATUS HANDLER TESTS
// =============================================================================

func TestStatusReportsLoadedConfig(t *testing.T) {
	stub := server.NewServer(0).WithTokenDelay(0)
	ts := httptest.NewServer(stub.Handler())
	defer ts.Close()

	cfg := config.Default()
	cfg.UI.Theme = "light"
	config.SetGlobal(cfg)

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	handleErr := HandleStatusCommand(Args{JSON: true, Server: ts.URL})

	w.Close()
	os.Stdout = old
	out, _ := io.ReadAll(r)

	if handleErr != nil {
		t.Fatalf("status: %v", handleErr)
	}

	var report struct {
		Backend struct {
			URL       string `json:"url"`
			Reachable bool   `json:"reachable"`
			Ollama    bool   `json:"ollama"`
		} `json:"backend"`
		Theme      string `json:"theme"`
		ConfigPath string `json:"config_path"`
	}
	if err := json.Unmarshal(out, &report); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}

	if report.Theme != "light" {
		t.Errorf("theme = %q, want the loaded config's theme", report.Theme)
	}
	if !report.Backend.Reachable || !report.Backend.Ollama {
		t.Errorf("backend = %+v, want reachable with ollama up", report.Backend)
	}
	if report.ConfigPath == "" {
		t.Error("config path missing from report")
	}
}
