// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package corpus tracks the set of documents ingested by the backend.
package corpus

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// CORPUS STORE
// =============================================================================

// Store holds the ingested document names, in ingestion order.
//
// Duplicate names are legal and remain distinct entries - the backend is
// the authority on identity, the store just mirrors what it reports.
// All methods are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	names []string
}

// NewStore creates an empty corpus store.
func NewStore() *Store {
	return &Store{}
}

// normalizeName applies NFC so visually identical names from different
// upload paths (macOS decomposes, Linux doesn't) compare and display
// consistently.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Add appends a document name. Empty (or whitespace-only) names are
// ignored; no other validation or dedup is applied.
func (s *Store) Add(name string) {
	name = normalizeName(name)
	if name == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
}

// ReplaceAll swaps the entire corpus for the given names, preserving
// their order. Used when re-hydrating from the backend document list.
func (s *Store) ReplaceAll(names []string) {
	replacement := make([]string, 0, len(names))
	for _, name := range names {
		if normalized := normalizeName(name); normalized != "" {
			replacement = append(replacement, normalized)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = replacement
}

// RemoveAll empties the corpus.
func (s *Store) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = nil
}

// List returns a copy of the document names in ingestion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Count returns the number of documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// IsEnabled reports whether chat is permitted: true iff the corpus is
// non-empty.
func (s *Store) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names) > 0
}
