// Package escape recognizes terminal escape sequences one byte at a time.
// The parser is fed each byte after a leading ESC and reports whether the
// accumulated bytes are a known sequence, a prefix of one, or garbage that
// should be flushed back to the caller as literal input.
package escape

import "pkt.systems/termline/schema"

// Result is the parser's verdict after each byte.
type Result int

const (
	// Incomplete means the bytes so far are a proper prefix of at least one
	// known sequence; feed more.
	Incomplete Result = iota
	// Matched means a complete sequence was recognized.
	Matched
	// Rejected means no known sequence starts with these bytes.
	Rejected
)

func (r Result) String() string {
	switch r {
	case Incomplete:
		return "incomplete"
	case Matched:
		return "matched"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Parser consumes the bytes following an ESC and resolves them to a key.
// Feed returns the verdict for the accumulated input; after Matched, Key
// reports the recognized key and modifiers. Reset clears accumulated state
// for the next sequence.
type Parser interface {
	Feed(b byte) Result
	Key() (schema.Key, schema.Modifier)
	Reset()
}
