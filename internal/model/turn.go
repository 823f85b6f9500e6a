// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversation turns.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Dora"
	default:
		return string(r)
	}
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn represents a single message in a conversation.
type Turn struct {
	// Identity
	ID        string    `json:"-"`
	Timestamp time.Time `json:"-"`

	// Wire fields (the /chat/stream history payload carries exactly these)
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTurn creates a new turn with a generated ID.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:        generateID(),
		Timestamp: time.Now(),
		Role:      role,
		Content:   content,
	}
}

// NewUserTurn creates a new user turn.
func NewUserTurn(content string) Turn {
	return NewTurn(RoleUser, content)
}

// NewAssistantTurn creates a new, empty assistant turn. The session store
// fills in content while the response streams.
func NewAssistantTurn() Turn {
	return NewTurn(RoleAssistant, "")
}

// IsUser returns true for user-authored turns.
func (t Turn) IsUser() bool {
	return t.Role == RoleUser
}

// IsEmpty returns true if the turn has no content.
func (t Turn) IsEmpty() bool {
	return len(t.Content) == 0
}

// Preview returns a truncated preview of the turn content.
// Uses rune-based truncation to handle Unicode correctly.
func (t Turn) Preview(maxLen int) string {
	runes := []rune(t.Content)
	if len(runes) <= maxLen {
		return t.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique turn ID.
func generateID() string {
	return "turn_" + uuid.NewString()
}
