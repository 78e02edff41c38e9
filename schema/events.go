package schema

import "time"

// EventType discriminates the input event union.
type EventType uint8

const (
	// EventCharacter is a decoded Unicode codepoint with its raw byte span.
	EventCharacter EventType = iota
	// EventSpecialKey is a recognized key with modifiers, or the unknown-key
	// sentinel with a raw keycode.
	EventSpecialKey
	// EventResize reports new terminal geometry.
	EventResize
	// EventSignal reports an asynchronous process signal (resume paths).
	EventSignal
	// EventTimeout reports that the bounded wait elapsed without input.
	EventTimeout
	// EventError carries a system or decode failure.
	EventError
	// EventEOF reports that the input stream closed.
	EventEOF
)

var eventNames = [...]string{
	EventCharacter:  "character",
	EventSpecialKey: "special-key",
	EventResize:     "resize",
	EventSignal:     "signal",
	EventTimeout:    "timeout",
	EventError:      "error",
	EventEOF:        "eof",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "invalid"
}

// Event is a tagged union over the input event variants. Only the fields of
// the active variant are meaningful.
//
// Events returned by an input.Processor borrow transient storage that is
// recycled when the next event is requested; Bytes must be consumed or
// copied before then. Gen carries the allocation generation so a stale
// borrow can be detected (input.Processor.Expired).
type Event struct {
	Type EventType

	// Character
	Rune  rune
	Bytes []byte

	// SpecialKey
	Key  Key
	Mods Modifier
	Raw  byte

	// Resize
	Width  int
	Height int

	// Signal: the raw signal number.
	Signal int

	// Error
	Code ErrorCode
	Err  error

	Seq  uint64
	Time time.Time
	Gen  uint64
}

// Size returns the raw byte count of a character event.
func (e Event) Size() int {
	return len(e.Bytes)
}
