// Package core holds the authoritative editing state: the command buffer,
// cursor and geometry, and the generator that turns them into display
// content. Nothing in this package touches the terminal; what the terminal
// shows is always derived from here, never queried back.
package core

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"pkt.systems/termline/schema"
)

const minBufferCapacity = 64

// CommandBuffer owns a contiguous, null-free UTF-8 byte sequence. Capacity
// stays at least length+1 so the content is always addressable as a
// terminated span. The span touched by the most recent edit is tracked as
// a hint for incremental redraw.
type CommandBuffer struct {
	data   []byte
	length int

	lastEditPos int
	lastEditLen int
	fullRefresh bool
}

// NewCommandBuffer allocates a buffer with at least the requested capacity.
func NewCommandBuffer(capacity int) *CommandBuffer {
	if capacity < minBufferCapacity {
		capacity = minBufferCapacity
	}
	return &CommandBuffer{data: make([]byte, capacity)}
}

// Len returns the content length in bytes.
func (b *CommandBuffer) Len() int { return b.length }

// Cap returns the current capacity.
func (b *CommandBuffer) Cap() int { return len(b.data) }

// Bytes returns the content as a view that is invalidated by the next
// mutating call.
func (b *CommandBuffer) Bytes() []byte { return b.data[:b.length] }

func (b *CommandBuffer) String() string { return string(b.data[:b.length]) }

// LastEdit reports the offset and length of the most recent modification.
func (b *CommandBuffer) LastEdit() (pos, n int) {
	return b.lastEditPos, b.lastEditLen
}

// FullRefresh reports whether the next render must repaint everything.
func (b *CommandBuffer) FullRefresh() bool { return b.fullRefresh }

// MarkFullRefresh flags the buffer for a complete repaint.
func (b *CommandBuffer) MarkFullRefresh() { b.fullRefresh = true }

// ClearFullRefresh resets the repaint flag once a frame has consumed it.
func (b *CommandBuffer) ClearFullRefresh() { b.fullRefresh = false }

// ensure grows capacity in half steps until length+extra+1 fits.
func (b *CommandBuffer) ensure(extra int) {
	need := b.length + extra + 1
	if need <= len(b.data) {
		return
	}
	capacity := len(b.data)
	for capacity < need {
		capacity += capacity / 2
	}
	grown := make([]byte, capacity)
	copy(grown, b.data[:b.length])
	b.data = grown
}

// Insert places text at pos, shifting the tail with a block move. The
// payload must be valid UTF-8 without NUL bytes. A zero-length payload
// succeeds as a no-op.
func (b *CommandBuffer) Insert(pos int, text []byte) error {
	if pos < 0 || pos > b.length {
		return fmt.Errorf("%w: insert at %d in buffer of %d", schema.ErrInvalidParameter, pos, b.length)
	}
	if len(text) == 0 {
		return nil
	}
	if !utf8.Valid(text) {
		return fmt.Errorf("%w: insert payload", schema.ErrMalformedEncoding)
	}
	if bytes.IndexByte(text, 0) >= 0 {
		return fmt.Errorf("%w: NUL in insert payload", schema.ErrInvalidParameter)
	}
	b.ensure(len(text))
	copy(b.data[pos+len(text):], b.data[pos:b.length])
	copy(b.data[pos:], text)
	b.length += len(text)
	b.lastEditPos = pos
	b.lastEditLen = len(text)
	return nil
}

// Delete removes up to n bytes at pos and returns how many were removed.
// A non-positive n succeeds as a no-op.
func (b *CommandBuffer) Delete(pos, n int) (int, error) {
	if pos < 0 || pos >= b.length {
		return 0, fmt.Errorf("%w: delete at %d in buffer of %d", schema.ErrInvalidParameter, pos, b.length)
	}
	if n <= 0 {
		return 0, nil
	}
	if pos+n > b.length {
		n = b.length - pos
	}
	copy(b.data[pos:], b.data[pos+n:b.length])
	// Zero the vacated tail so the terminated-span invariant holds.
	for i := b.length - n; i < b.length; i++ {
		b.data[i] = 0
	}
	b.length -= n
	b.lastEditPos = pos
	b.lastEditLen = n
	return n, nil
}
