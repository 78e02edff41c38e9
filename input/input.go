// Package input turns raw terminal events into validated, sequence-stamped
// editor input. It owns the control-byte mapping, escape-sequence
// resolution and the transient event storage that is recycled between
// reads.
package input

import (
	"time"

	"pkt.systems/termline/schema"
)

// Source is the raw event supplier, normally a tty.Interface. ReadEvent
// blocks for at most timeout; negative blocks indefinitely, zero polls.
type Source interface {
	ReadEvent(timeout time.Duration) schema.Event
	Size() (int, int)
}

// escapeWait bounds the gap between ESC and the rest of a sequence. A
// human pressing the Escape key produces nothing after it; a terminal
// sending an arrow key delivers the remainder within a millisecond.
const escapeWait = 50 * time.Millisecond
