// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the single-slot error notice.
//
// At most one notice is live at a time. A newer notice supersedes the
// current one outright (no queue) and restarts the expiry clock. Expiry
// is timer-driven, so a notice clears itself even when the application
// is otherwise idle.
package notify
