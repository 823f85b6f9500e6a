// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the dora TUI.

This package defines the color palette and theme used throughout the
application. All colors use Lip Gloss AdaptiveColor for automatic
light/dark terminal detection.

# Color System (colors.go)

Primary accent colors:

  - Purple - Primary accent for assistant messages and selections
  - Cyan - Brand color for info and user highlights
  - Emerald - Success states and the chat-enabled indicator
  - Amber - Warnings and degraded-backend states
  - Rose - Errors and the notice toast

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation and holds every
component style (header, bubbles, sidebar, input, status bar, toasts):

	theme := styles.NewTheme(cfg.UI.Theme) // "dark", "light", or "auto"
	header := theme.HeaderTitle.Render("dora")

# Status Indicators

ASCII indicators paired with high-contrast colors for accessibility:

	StatusIndicators.Success   - [OK]
	StatusIndicators.Error     - [X]
	StatusIndicators.Warning   - [!]
	StatusIndicators.Info      - [i]
*/
package styles
