package tty

import "unicode/utf8"

// utf8SeqLen classifies a lead byte. 0 means the byte cannot start a
// sequence (stray continuation byte or the invalid 0xF8..0xFF range).
func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// DecodeSequence assembles one codepoint starting from lead, pulling
// continuation bytes from next. On success buf[:n] holds the raw sequence.
// Any malformation (bad lead, short read, a byte failing the 10xxxxxx
// pattern, a codepoint above U+10FFFF or in the surrogate range) yields
// U+FFFD with a one-byte span; overlong encodings that follow the
// continuation pattern decode to their codepoint.
func DecodeSequence(lead byte, next func() (byte, bool), buf *[4]byte) (rune, int) {
	n := utf8SeqLen(lead)
	if n == 0 {
		buf[0] = lead
		return 0xFFFD, 1
	}
	buf[0] = lead
	if n == 1 {
		return rune(lead), 1
	}
	r := rune(lead & (0x7F >> n))
	for k := 1; k < n; k++ {
		b, ok := next()
		if !ok || b&0xC0 != 0x80 {
			buf[0] = lead
			return 0xFFFD, 1
		}
		buf[k] = b
		r = r<<6 | rune(b&0x3F)
	}
	if r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		buf[0] = lead
		return 0xFFFD, 1
	}
	return r, n
}
