// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package corpus tracks the set of documents ingested by the backend.
package corpus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreStartsEmpty(t *testing.T) {
	store := NewStore()

	assert.False(t, store.IsEnabled())
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, store.List())
}

func TestAddEnablesChat(t *testing.T) {
	store := NewStore()

	store.Add("report.pdf")

	assert.True(t, store.IsEnabled())
	assert.Equal(t, []string{"report.pdf"}, store.List())
}

func TestAddPreservesIngestionOrder(t *testing.T) {
	store := NewStore()

	store.Add("b.pdf")
	store.Add("a.txt")
	store.Add("c.md")

	assert.Equal(t, []string{"b.pdf", "a.txt", "c.md"}, store.List())
}

func TestAddAllowsDuplicates(t *testing.T) {
	store := NewStore()

	store.Add("notes.md")
	store.Add("notes.md")

	assert.Equal(t, 2, store.Count())
}

func TestAddIgnoresEmptyNames(t *testing.T) {
	store := NewStore()

	store.Add("")
	store.Add("   ")

	assert.False(t, store.IsEnabled())
}

func TestAddNormalizesToNFC(t *testing.T) {
	store := NewStore()

	// "é" as e + combining acute accent (NFD form)
	store.Add("résumé.pdf")

	assert.Equal(t, []string{"résumé.pdf"}, store.List())
}

func TestRemoveAllDisablesChat(t *testing.T) {
	store := NewStore()
	store.Add("a.pdf")
	store.Add("b.txt")

	store.RemoveAll()

	assert.False(t, store.IsEnabled())
	assert.Empty(t, store.List())
}

func TestReplaceAll(t *testing.T) {
	store := NewStore()
	store.Add("old.pdf")

	store.ReplaceAll([]string{"new1.txt", "", "new2.md"})

	assert.Equal(t, []string{"new1.txt", "new2.md"}, store.List())
}

func TestReplaceAllWithEmptyList(t *testing.T) {
	store := NewStore()
	store.Add("doc.pdf")

	store.ReplaceAll(nil)

	assert.False(t, store.IsEnabled())
}

// List hands out copies; mutating the result must not reach the store.
func TestListReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Add("original.pdf")

	names := store.List()
	names[0] = "mutated.pdf"

	assert.Equal(t, []string{"original.pdf"}, store.List())
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Add("doc.pdf")
		}()
		go func() {
			defer wg.Done()
			_ = store.List()
			_ = store.IsEnabled()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, store.Count())
}
