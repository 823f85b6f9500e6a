// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"testing"
	"time"
)

func TestCoalescerEmptyNeverFlushes(t *testing.T) {
	rc := NewRepaintCoalescer()
	if rc.Take() {
		t.Error("empty coalescer should not flush")
	}
	if rc.Drain() {
		t.Error("empty coalescer should not drain")
	}
}

func TestCoalescerBatchThreshold(t *testing.T) {
	// Huge interval so only the batch size can trigger.
	rc := NewRepaintCoalescerWithConfig(5, 1)

	for i := 0; i < 4; i++ {
		rc.Mark()
	}
	if rc.Take() {
		t.Error("flush before batch threshold")
	}

	rc.Mark()
	if !rc.Take() {
		t.Error("no flush at batch threshold")
	}
	if rc.Pending() != 0 {
		t.Errorf("pending = %d after flush, want 0", rc.Pending())
	}
}

func TestCoalescerTimeThreshold(t *testing.T) {
	// Batch size too large to trigger; 60fps interval (~16ms).
	rc := NewRepaintCoalescerWithConfig(1000, 60)

	rc.Mark()
	if rc.Take() {
		t.Error("flush before interval elapsed")
	}

	time.Sleep(25 * time.Millisecond)
	if !rc.Take() {
		t.Error("no flush after interval elapsed")
	}
}

func TestCoalescerDrain(t *testing.T) {
	rc := NewRepaintCoalescerWithConfig(1000, 1)

	rc.Mark()
	if !rc.Drain() {
		t.Error("drain should report pending content")
	}
	if rc.Pending() != 0 {
		t.Error("drain should clear pending count")
	}
}

func TestCoalescerReset(t *testing.T) {
	rc := NewRepaintCoalescerWithConfig(2, 30)

	rc.Mark()
	rc.Mark()
	rc.Reset()
	if rc.Take() {
		t.Error("reset should discard pending updates")
	}
}

func TestCoalescerDefaults(t *testing.T) {
	rc := NewRepaintCoalescerWithConfig(0, 0)
	if rc.batchSize != 15 {
		t.Errorf("batchSize = %d, want 15", rc.batchSize)
	}
	if rc.minInterval != 33*time.Millisecond {
		t.Errorf("minInterval = %v, want 33ms", rc.minInterval)
	}

	capped := NewRepaintCoalescerWithConfig(10, 120)
	if capped.minInterval != 33*time.Millisecond {
		t.Errorf("fps above cap should fall back to 30fps, got %v", capped.minInterval)
	}
}

func TestCoalescerConcurrentMark(t *testing.T) {
	rc := NewRepaintCoalescerWithConfig(1000000, 1)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rc.Mark()
			}
		}()
	}
	wg.Wait()

	if rc.Pending() != 1000 {
		t.Errorf("pending = %d, want 1000", rc.Pending())
	}
}
