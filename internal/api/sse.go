// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the Dora
// backend.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// STREAM DECODER
// =============================================================================

// dataPrefix marks a significant stream record. Lines without it are
// ignored entirely.
const dataPrefix = "data: "

// doneMarker is emitted by the backend after the last content record.
// It is a no-op: stream termination is driven by the transport closing,
// never by this marker.
const doneMarker = "[DONE]"

// StreamDecoder handles line-by-line parsing of /chat/stream responses.
//
// The transport delivers newline-delimited records; chunk boundaries
// carry no meaning, so partial lines are buffered until the terminating
// newline arrives. A record is significant only when it begins with
// "data: ". Malformed payloads are dropped silently and never abort the
// stream.
type StreamDecoder struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	deltaCount  int
	failed      bool
}

// NewStreamDecoder creates a new stream decoder from an io.Reader.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	return &StreamDecoder{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each content
// delta, in arrival order. Blocks until the transport closes, the
// backend reports an in-band error, or the context is cancelled.
//
// A clean transport close returns nil. An unconsumed partial line at
// close time is not a complete record and is discarded. After an error
// return no further callbacks are made.
func (d *StreamDecoder) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			d.failed = true
			return ctx.Err()
		default:
			event, err := d.readEvent()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				d.failed = true
				return err
			}

			if event != nil && callback != nil {
				callback(*event)
			}
		}
	}
}

// readEvent reads lines until one yields an event, the stream ends, or
// an error occurs. Returns (nil, nil) for lines that yield no event so
// Process can re-check the context between records.
func (d *StreamDecoder) readEvent() (*StreamEvent, error) {
	line, err := d.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			// A partial line without its newline is not a complete
			// record; discard it.
			return nil, io.EOF
		}
		return nil, err
	}

	line = strings.TrimRight(line, "\r\n")

	// Only "data: "-prefixed records are significant.
	if !strings.HasPrefix(line, dataPrefix) {
		return nil, nil
	}

	payload := line[len(dataPrefix):]
	if payload == doneMarker {
		return nil, nil
	}

	var record streamRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		// Malformed frame: dropped, never surfaced.
		return nil, nil
	}

	if record.Error != "" {
		d.failed = true
		return nil, &ClientError{Type: ErrTypeGeneration, Message: record.Error}
	}

	if record.Content == "" {
		return nil, nil
	}

	d.accumulator.WriteString(record.Content)
	d.deltaCount++
	return &StreamEvent{Content: record.Content}, nil
}

// Accumulated returns all content received so far.
func (d *StreamDecoder) Accumulated() string {
	return d.accumulator.String()
}

// DeltaCount returns the number of content deltas emitted.
func (d *StreamDecoder) DeltaCount() int {
	return d.deltaCount
}

// Failed reports whether the decoder stopped on an error.
func (d *StreamDecoder) Failed() bool {
	return d.failed
}
