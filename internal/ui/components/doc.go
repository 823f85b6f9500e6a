// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the dora TUI.

This package contains styled components built on Lip Gloss, consistent
with the dora design language.

# Display Components

MessageRenderer (message.go) - Labeled bubbles for conversation turns.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.
Sidebar (sidebar.go) - Document corpus panel.
StatusBar (statusbar.go) - Bottom bar with connection state and shortcuts.
Welcome (welcome.go) - Empty-conversation splash screen.

# Feedback Components

RenderNotice / PlaceNotice (toast.go) - Bottom-right toast for the
current notify.Signal notice. The signal owns lifetime and expiry; the
component only draws.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme("auto")
	sidebar := components.NewSidebar(theme)
	view := sidebar.Render(docs, height)
*/
package components
