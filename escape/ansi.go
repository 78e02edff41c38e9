package escape

import "pkt.systems/termline/schema"

// ansiParser recognizes the CSI and SS3 sequences emitted by the common
// terminal families, plus the Alt-letter word motion chords. Parameterized
// CSI sequences with a modifier field (ESC [ 1 ; 5 C and friends) resolve
// to the base key with the xterm modifier bits mapped onto Modifier.
type ansiParser struct {
	buf  [16]byte
	n    int
	key  schema.Key
	mods schema.Modifier
}

// NewANSI returns a parser for the de facto ANSI/xterm sequence set.
func NewANSI() Parser {
	return &ansiParser{}
}

func (p *ansiParser) Reset() {
	p.n = 0
	p.key = schema.KeyNone
	p.mods = 0
}

func (p *ansiParser) Key() (schema.Key, schema.Modifier) {
	return p.key, p.mods
}

func (p *ansiParser) Feed(b byte) Result {
	if p.n >= len(p.buf) {
		return Rejected
	}
	p.buf[p.n] = b
	p.n++

	switch p.buf[0] {
	case '[':
		return p.feedCSI()
	case 'O':
		return p.feedSS3()
	case 'b':
		p.key, p.mods = schema.KeyUnknown, schema.ModAlt
		return Matched
	case 'f':
		p.key, p.mods = schema.KeyUnknown, schema.ModAlt
		return Matched
	default:
		return Rejected
	}
}

func (p *ansiParser) feedCSI() Result {
	if p.n == 1 {
		return Incomplete
	}
	body := p.buf[1:p.n]
	last := body[len(body)-1]

	// Intermediate bytes are digits and semicolons; a final byte in the
	// CSI dispatch range terminates the sequence.
	if last >= '0' && last <= '9' || last == ';' {
		return Incomplete
	}

	params, trailing := splitParams(body[:len(body)-1])
	if trailing {
		return Rejected
	}
	p.mods = xtermModifier(params)

	switch last {
	case 'A':
		p.key = schema.KeyUp
	case 'B':
		p.key = schema.KeyDown
	case 'C':
		p.key = schema.KeyRight
	case 'D':
		p.key = schema.KeyLeft
	case 'H':
		p.key = schema.KeyHome
	case 'F':
		p.key = schema.KeyEnd
	case 'Z':
		p.key = schema.KeyShiftTab
	case '~':
		if len(params) == 0 {
			return Rejected
		}
		switch params[0] {
		case 1, 7:
			p.key = schema.KeyHome
		case 2:
			p.key = schema.KeyInsert
		case 3:
			p.key = schema.KeyDelete
		case 4, 8:
			p.key = schema.KeyEnd
		case 5:
			p.key = schema.KeyPageUp
		case 6:
			p.key = schema.KeyPageDown
		case 11:
			p.key = schema.KeyF1
		case 12:
			p.key = schema.KeyF2
		case 13:
			p.key = schema.KeyF3
		case 14:
			p.key = schema.KeyF4
		default:
			return Rejected
		}
	default:
		return Rejected
	}
	return Matched
}

func (p *ansiParser) feedSS3() Result {
	if p.n == 1 {
		return Incomplete
	}
	switch p.buf[1] {
	case 'A':
		p.key = schema.KeyUp
	case 'B':
		p.key = schema.KeyDown
	case 'C':
		p.key = schema.KeyRight
	case 'D':
		p.key = schema.KeyLeft
	case 'H':
		p.key = schema.KeyHome
	case 'F':
		p.key = schema.KeyEnd
	case 'P':
		p.key = schema.KeyF1
	case 'Q':
		p.key = schema.KeyF2
	case 'R':
		p.key = schema.KeyF3
	case 'S':
		p.key = schema.KeyF4
	default:
		return Rejected
	}
	return Matched
}

// splitParams parses the semicolon-separated numeric parameters of a CSI
// body. trailing reports a dangling separator or empty numeric field other
// than a fully empty parameter list.
func splitParams(body []byte) (params []int, trailing bool) {
	if len(body) == 0 {
		return nil, false
	}
	cur, have := 0, false
	for _, b := range body {
		if b == ';' {
			if !have {
				return nil, true
			}
			params = append(params, cur)
			cur, have = 0, false
			continue
		}
		cur = cur*10 + int(b-'0')
		have = true
	}
	if !have {
		return nil, true
	}
	return append(params, cur), false
}

// xtermModifier maps the second CSI parameter to modifier bits. The wire
// encoding is 1 plus the bitmask (shift=1, alt=2, ctrl=4).
func xtermModifier(params []int) schema.Modifier {
	if len(params) < 2 || params[1] < 2 {
		return 0
	}
	bits := params[1] - 1
	var m schema.Modifier
	if bits&1 != 0 {
		m |= schema.ModShift
	}
	if bits&2 != 0 {
		m |= schema.ModAlt
	}
	if bits&4 != 0 {
		m |= schema.ModCtrl
	}
	return m
}
