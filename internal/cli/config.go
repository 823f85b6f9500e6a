// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for dora.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration
//   get <key>           Get a single value
//   set <key> <value>   Set a configuration value and save
//   reset               Reset to default configuration
//   path                Show configuration file path
//
// Examples:
//   dora config                           Show current config (default)
//   dora config show --json              Config in JSON format
//   dora config get server.url
//   dora config set server.url http://localhost:9000
//   dora config set server.timeout_secs 60
//   dora config set ui.theme light
//   dora config reset
//   dora config path
//
// Configuration Keys:
//   server.url                  Backend URL
//   server.timeout_secs         Request timeout
//   server.upload_timeout_secs  Upload timeout
//   server.health_interval_secs Health probe interval
//   notice.duration_secs        Error notice display time
//   ui.theme                    Theme (dark/light/auto)
//   ui.compact_mode             Compact layout (true/false)
//   ui.show_sidebar             Document sidebar (true/false)
//   ui.markdown                 Markdown rendering (true/false)
//
// Flags:
//   --json              Output in JSON format
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dora-tui/internal/config"
)

// =============================================================================
// CONFIG STYLES
// =============================================================================

var (
	configTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")). // Cyan
				MarginBottom(1)

	configKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(28)

	configValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")) // Green

	configPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// =============================================================================
// CONFIG HANDLER
// =============================================================================

// HandleConfigCommand dispatches the "config" subcommands.
func HandleConfigCommand(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return runConfigShow(args)
	case "get":
		return runConfigGet(args)
	case "set":
		return runConfigSet(args)
	case "reset":
		return runConfigReset(args)
	case "path":
		return runConfigPath()
	default:
		return fmt.Errorf("unknown config subcommand: %s\n\nAvailable: show, get, set, reset, path", args.Subcommand)
	}
}

func runConfigShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	}

	fmt.Println(configTitleStyle.Render("dora configuration"))
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%s %s\n",
			configKeyStyle.Render(key),
			configValueStyle.Render(fmt.Sprintf("%v", value)))
	}

	if path, err := config.ConfigPathTOML(); err == nil {
		fmt.Println()
		fmt.Println(configPathStyle.Render(path))
	}
	return nil
}

func runConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return fmt.Errorf("no key specified\n\nUsage: dora config get KEY")
	}

	value, err := config.Global().Get(args.ConfigKey)
	if err != nil {
		return err
	}
	fmt.Printf("%v\n", value)
	return nil
}

func runConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return fmt.Errorf("key and value required\n\nUsage: dora config set KEY VALUE")
	}

	cfg := config.Global()
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if !args.Quiet {
		fmt.Printf("%s %s = %s\n",
			SuccessStyle.Render("set"),
			args.ConfigKey,
			configValueStyle.Render(args.ConfigVal))
	}
	return nil
}

func runConfigReset(args Args) error {
	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	config.SetGlobal(cfg)

	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("Configuration reset to defaults."))
	}
	return nil
}

func runConfigPath() error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
