// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the Dora
// backend.
package api

import (
	"context"
	"io"
	"strings"
	"testing"
)

// chunkedReader delivers its payload in fixed-size chunks so tests can
// prove that chunk boundaries carry no semantic meaning.
type chunkedReader struct {
	data  []byte
	pos   int
	chunk int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

// collect runs the decoder over the input and returns the deltas.
func collect(t *testing.T, r io.Reader) ([]string, error) {
	t.Helper()
	var deltas []string
	decoder := NewStreamDecoder(r)
	err := decoder.Process(context.Background(), func(event StreamEvent) {
		deltas = append(deltas, event.Content)
	})
	return deltas, err
}

// =============================================================================
// DECODER TESTS
// =============================================================================

const basicStream = "data: {\"content\":\"A\"}\n" +
	"data: {\"content\":\"B\"}\n" +
	"data: [DONE]\n"

func TestDecoderBasicStream(t *testing.T) {
	deltas, err := collect(t, strings.NewReader(basicStream))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(deltas) != 2 {
		t.Fatalf("got %d deltas, want 2: %v", len(deltas), deltas)
	}
	if deltas[0] != "A" || deltas[1] != "B" {
		t.Errorf("deltas = %v, want [A B]", deltas)
	}
}

// Splitting the byte sequence at any offset must not change the events.
func TestDecoderChunkBoundaryIndependence(t *testing.T) {
	for chunk := 1; chunk <= len(basicStream); chunk++ {
		deltas, err := collect(t, &chunkedReader{data: []byte(basicStream), chunk: chunk})
		if err != nil {
			t.Fatalf("chunk=%d: Process() error = %v", chunk, err)
		}
		if len(deltas) != 2 || deltas[0] != "A" || deltas[1] != "B" {
			t.Errorf("chunk=%d: deltas = %v, want [A B]", chunk, deltas)
		}
	}
}

// The [DONE] marker never terminates the stream by itself; records after
// it are still decoded.
func TestDecoderDoneMarkerIsNoOp(t *testing.T) {
	input := "data: [DONE]\n" +
		"data: {\"content\":\"after\"}\n"

	deltas, err := collect(t, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(deltas) != 1 || deltas[0] != "after" {
		t.Errorf("deltas = %v, want [after]", deltas)
	}
}

func TestDecoderMalformedLineDropped(t *testing.T) {
	input := "data: {\"content\":\"A\"}\n" +
		"data: {not json\n" +
		"data: {\"content\":\"B\"}\n"

	deltas, err := collect(t, strings.NewReader(input))
	if err != nil {
		t.Fatalf("malformed line must not raise an error, got %v", err)
	}
	if len(deltas) != 2 || deltas[0] != "A" || deltas[1] != "B" {
		t.Errorf("deltas = %v, want [A B]", deltas)
	}
}

func TestDecoderIgnoresInsignificantLines(t *testing.T) {
	input := "\n" +
		": comment\n" +
		"event: ping\n" +
		"data: {\"content\":\"X\"}\n" +
		"\r\n"

	deltas, err := collect(t, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(deltas) != 1 || deltas[0] != "X" {
		t.Errorf("deltas = %v, want [X]", deltas)
	}
}

// Records without a content field yield no event.
func TestDecoderEmptyContentYieldsNoEvent(t *testing.T) {
	input := "data: {}\n" +
		"data: {\"content\":\"\"}\n" +
		"data: {\"other\":\"field\"}\n"

	deltas, err := collect(t, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(deltas) != 0 {
		t.Errorf("deltas = %v, want none", deltas)
	}
}

func TestDecoderEmptyStream(t *testing.T) {
	deltas, err := collect(t, strings.NewReader(""))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(deltas) != 0 {
		t.Errorf("deltas = %v, want none", deltas)
	}
}

// A trailing partial line (no newline before close) is not a complete
// record and is discarded.
func TestDecoderPartialLineAtCloseDiscarded(t *testing.T) {
	input := "data: {\"content\":\"A\"}\n" +
		"data: {\"content\":\"trunca"

	deltas, err := collect(t, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(deltas) != 1 || deltas[0] != "A" {
		t.Errorf("deltas = %v, want [A]", deltas)
	}
}

// In-band error records stop the stream; earlier deltas survive.
func TestDecoderInBandError(t *testing.T) {
	input := "data: {\"content\":\"partial\"}\n" +
		"data: {\"error\":\"model exploded\"}\n" +
		"data: {\"content\":\"never seen\"}\n"

	decoder := NewStreamDecoder(strings.NewReader(input))
	var deltas []string
	err := decoder.Process(context.Background(), func(event StreamEvent) {
		deltas = append(deltas, event.Content)
	})

	if !IsGeneration(err) {
		t.Fatalf("Process() error = %v, want generation error", err)
	}
	if len(deltas) != 1 || deltas[0] != "partial" {
		t.Errorf("deltas = %v, want [partial]", deltas)
	}
	if !decoder.Failed() {
		t.Error("decoder.Failed() = false after error")
	}
	if decoder.Accumulated() != "partial" {
		t.Errorf("Accumulated() = %q, want 'partial'", decoder.Accumulated())
	}
}

func TestDecoderAccumulator(t *testing.T) {
	decoder := NewStreamDecoder(strings.NewReader(basicStream))
	if err := decoder.Process(context.Background(), nil); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if decoder.Accumulated() != "AB" {
		t.Errorf("Accumulated() = %q, want 'AB'", decoder.Accumulated())
	}
	if decoder.DeltaCount() != 2 {
		t.Errorf("DeltaCount() = %d, want 2", decoder.DeltaCount())
	}
}

func TestDecoderContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	decoder := NewStreamDecoder(strings.NewReader(basicStream))
	err := decoder.Process(ctx, func(event StreamEvent) {
		t.Errorf("unexpected delta %q after cancellation", event.Content)
	})

	if err != context.Canceled {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
}
