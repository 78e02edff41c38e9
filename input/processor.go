package input

import (
	"fmt"
	"time"
	"unicode/utf8"

	"pkt.systems/termline/escape"
	"pkt.systems/termline/internal/arena"
	"pkt.systems/termline/schema"
)

// eventStorage sizes the per-processor arena. Character spans and flushed
// escape bytes are tiny; one page is generous.
const eventStorage = 4096

// Processor validates and stamps events from a Source. Each call to
// ReadNext recycles the storage backing the previous event; callers that
// need a character's byte span beyond the next read must copy it first.
// Not safe for concurrent use.
type Processor struct {
	src    Source
	parser escape.Parser
	events *arena.Arena

	seq uint64
	gen uint64

	// escapeWait bounds the gap between ESC and the rest of a sequence.
	escapeWait time.Duration

	// pending holds bytes of a rejected escape sequence awaiting
	// re-delivery as literal input, and stash an out-of-band event (resize,
	// EOF) that arrived mid-sequence.
	pending  []byte
	stash    schema.Event
	hasStash bool
}

// NewProcessor wires a processor to src. parser may be nil, in which case
// ESC is delivered as the bare Escape key and sequences arrive as literal
// bytes.
func NewProcessor(src Source, parser escape.Parser) *Processor {
	return &Processor{
		src:        src,
		parser:     parser,
		events:     arena.New(nil, "input-events", eventStorage),
		gen:        1,
		escapeWait: escapeWait,
	}
}

// SetEscapeTimeout overrides the bounded wait for escape sequence bytes.
// Non-positive values keep the default.
func (p *Processor) SetEscapeTimeout(d time.Duration) {
	if d > 0 {
		p.escapeWait = d
	}
}

// Close releases the processor's event storage.
func (p *Processor) Close() {
	p.events.Destroy()
}

// Expired reports whether ev's borrowed storage has been recycled by a
// later ReadNext.
func (p *Processor) Expired(ev schema.Event) bool {
	return ev.Gen != 0 && ev.Gen < p.gen
}

// ReadNext returns the next validated event, waiting at most timeout for
// input. Every returned event carries a strictly increasing Seq and the
// current storage generation.
func (p *Processor) ReadNext(timeout time.Duration) schema.Event {
	p.events.Reset()
	p.gen++

	if len(p.pending) > 0 {
		b := p.pending[0]
		p.pending = p.pending[1:]
		return p.stamp(p.fromByte(b))
	}
	if p.hasStash {
		p.hasStash = false
		return p.stamp(p.stash)
	}

	ev := p.src.ReadEvent(timeout)
	if ev.Type == schema.EventCharacter && ev.Rune < 0x80 {
		ev = p.fromByte(byte(ev.Rune))
		if ev.Type == schema.EventSpecialKey && ev.Key == schema.KeyEscape {
			ev = p.resolveEscape()
		}
		return p.stamp(ev)
	}
	return p.stamp(p.intern(ev))
}

// fromByte maps a single ASCII byte onto its event: printable bytes become
// characters, control bytes become special keys.
func (p *Processor) fromByte(b byte) schema.Event {
	switch b {
	case '\r', '\n':
		return schema.Event{Type: schema.EventSpecialKey, Key: schema.KeyEnter, Raw: b}
	case '\t':
		return schema.Event{Type: schema.EventSpecialKey, Key: schema.KeyTab, Raw: b}
	case 0x08, 0x7F:
		return schema.Event{Type: schema.EventSpecialKey, Key: schema.KeyBackspace, Raw: b}
	case 0x1B:
		return schema.Event{Type: schema.EventSpecialKey, Key: schema.KeyEscape, Raw: b}
	}
	if b < 0x20 {
		return schema.Event{
			Type: schema.EventSpecialKey,
			Key:  schema.KeyUnknown,
			Mods: schema.ModCtrl,
			Raw:  b,
		}
	}
	data, err := p.events.Alloc(1)
	if err != nil {
		return schema.Event{Type: schema.EventError, Code: schema.CodeAllocFailed, Err: err}
	}
	data[0] = b
	return schema.Event{Type: schema.EventCharacter, Rune: rune(b), Bytes: data}
}

// resolveEscape reads the bytes following an ESC and runs them through the
// parser. An immediate timeout is the standalone Escape key. A rejected or
// interrupted sequence flushes its bytes back as literal input behind the
// Escape key event.
func (p *Processor) resolveEscape() schema.Event {
	esc := schema.Event{Type: schema.EventSpecialKey, Key: schema.KeyEscape, Raw: 0x1B}
	if p.parser == nil {
		return esc
	}
	p.parser.Reset()
	var fed []byte
	for {
		sub := p.src.ReadEvent(p.escapeWait)
		switch sub.Type {
		case schema.EventTimeout:
			if len(fed) == 0 {
				return esc
			}
			p.pending = append(p.pending, fed...)
			return esc
		case schema.EventCharacter:
			if sub.Rune >= 0x80 {
				// A multibyte character cannot continue a sequence; deliver
				// it after the flushed bytes. The span is copied to the heap
				// because the storage resets while the flush drains.
				sub.Bytes = append([]byte(nil), sub.Bytes...)
				p.stash, p.hasStash = sub, true
				p.pending = append(p.pending, fed...)
				return esc
			}
			b := byte(sub.Rune)
			fed = append(fed, b)
			switch p.parser.Feed(b) {
			case escape.Matched:
				key, mods := p.parser.Key()
				ev := schema.Event{Type: schema.EventSpecialKey, Key: key, Mods: mods}
				if key == schema.KeyUnknown {
					ev.Raw = b
				}
				return ev
			case escape.Rejected:
				p.pending = append(p.pending, fed...)
				return esc
			}
		default:
			p.stash, p.hasStash = sub, true
			p.pending = append(p.pending, fed...)
			return esc
		}
	}
}

// intern copies a borrowed byte span into the processor's storage so the
// event stays valid until the next read regardless of what the source does
// with its buffers.
func (p *Processor) intern(ev schema.Event) schema.Event {
	if ev.Type != schema.EventCharacter || len(ev.Bytes) == 0 {
		return ev
	}
	data, err := p.events.Alloc(len(ev.Bytes))
	if err != nil {
		return schema.Event{Type: schema.EventError, Code: schema.CodeAllocFailed, Err: err}
	}
	copy(data, ev.Bytes)
	ev.Bytes = data
	return ev
}

// stamp validates the event and assigns sequence and generation. Invalid
// events are replaced by an error event carrying the violation.
func (p *Processor) stamp(ev schema.Event) schema.Event {
	if err := validate(ev); err != nil {
		ev = schema.Event{Type: schema.EventError, Code: schema.CodeInvalidInputEvent, Err: err}
	}
	p.seq++
	ev.Seq = p.seq
	ev.Gen = p.gen
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	return ev
}

func validate(ev schema.Event) error {
	switch ev.Type {
	case schema.EventCharacter:
		if n := len(ev.Bytes); n < 1 || n > 8 {
			return fmt.Errorf("%w: character span %d bytes", schema.ErrInvalidInputEvent, n)
		}
		if ev.Rune < 0 || ev.Rune > utf8.MaxRune {
			return fmt.Errorf("%w: codepoint %#x out of range", schema.ErrInvalidInputEvent, ev.Rune)
		}
	case schema.EventSpecialKey:
		if ev.Key == schema.KeyNone {
			return fmt.Errorf("%w: special key without key code", schema.ErrInvalidInputEvent)
		}
		if ev.Key == schema.KeyUnknown && ev.Raw == 0 {
			return fmt.Errorf("%w: unknown key without raw code", schema.ErrInvalidInputEvent)
		}
	case schema.EventResize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return fmt.Errorf("%w: resize to %dx%d", schema.ErrInvalidInputEvent, ev.Width, ev.Height)
		}
	}
	return nil
}
