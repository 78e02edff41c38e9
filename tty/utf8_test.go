package tty

import (
	"testing"
	"unicode/utf8"
)

func feeder(bytes []byte) func() (byte, bool) {
	i := 0
	return func() (byte, bool) {
		if i >= len(bytes) {
			return 0, false
		}
		b := bytes[i]
		i++
		return b, true
	}
}

func TestDecodeSequenceRoundTrip(t *testing.T) {
	var enc [4]byte
	var buf [4]byte
	for r := rune(0); r <= 0x10FFFF; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		n := utf8.EncodeRune(enc[:], r)
		got, size := DecodeSequence(enc[0], feeder(enc[1:n]), &buf)
		if got != r || size != n {
			t.Fatalf("codepoint %#x: decoded %#x size %d, want size %d", r, got, size, n)
		}
		for k := 0; k < n; k++ {
			if buf[k] != enc[k] {
				t.Fatalf("codepoint %#x: byte %d is %#x, want %#x", r, k, buf[k], enc[k])
			}
		}
	}
}

func TestDecodeSequenceInvalidLead(t *testing.T) {
	var buf [4]byte
	for _, lead := range []byte{0x80, 0x9F, 0xBF, 0xF8, 0xFC, 0xFF} {
		r, n := DecodeSequence(lead, feeder(nil), &buf)
		if r != 0xFFFD || n != 1 {
			t.Errorf("lead %#x: got %#x size %d, want U+FFFD size 1", lead, r, n)
		}
		if buf[0] != lead {
			t.Errorf("lead %#x: span byte is %#x", lead, buf[0])
		}
	}
}

func TestDecodeSequenceTruncated(t *testing.T) {
	var buf [4]byte
	// 0xE2 opens a three-byte sequence; only one continuation arrives.
	r, n := DecodeSequence(0xE2, feeder([]byte{0x82}), &buf)
	if r != 0xFFFD || n != 1 {
		t.Fatalf("got %#x size %d, want U+FFFD size 1", r, n)
	}
}

func TestDecodeSequenceBadContinuation(t *testing.T) {
	var buf [4]byte
	r, n := DecodeSequence(0xC3, feeder([]byte{0x41}), &buf)
	if r != 0xFFFD || n != 1 {
		t.Fatalf("got %#x size %d, want U+FFFD size 1", r, n)
	}
}

func TestDecodeSequenceOverlong(t *testing.T) {
	var buf [4]byte
	// Overlong encoding of '/' still follows the continuation pattern and
	// decodes to its codepoint rather than being replaced.
	r, n := DecodeSequence(0xC0, feeder([]byte{0xAF}), &buf)
	if r != '/' || n != 2 {
		t.Fatalf("got %#x size %d, want %#x size 2", r, n, '/')
	}
}

func TestDecodeSequenceOutOfRange(t *testing.T) {
	var buf [4]byte
	cases := []struct {
		name string
		lead byte
		rest []byte
	}{
		// F5..F7 leads assemble cleanly but land above U+10FFFF.
		{"above max rune", 0xF5, []byte{0x8F, 0xBF, 0xBF}},
		{"top of F7 range", 0xF7, []byte{0xBF, 0xBF, 0xBF}},
		// CESU-style surrogate halves are not scalar values.
		{"high surrogate", 0xED, []byte{0xA0, 0x80}},
		{"low surrogate", 0xED, []byte{0xBF, 0xBF}},
	}
	for _, c := range cases {
		r, n := DecodeSequence(c.lead, feeder(c.rest), &buf)
		if r != 0xFFFD || n != 1 {
			t.Errorf("%s: got %#x size %d, want U+FFFD size 1", c.name, r, n)
		}
		if buf[0] != c.lead {
			t.Errorf("%s: span byte is %#x, want %#x", c.name, buf[0], c.lead)
		}
	}
}

func TestUTF8SeqLen(t *testing.T) {
	cases := []struct {
		b    byte
		want int
	}{
		{0x00, 1}, {0x7F, 1},
		{0xC2, 2}, {0xDF, 2},
		{0xE0, 3}, {0xEF, 3},
		{0xF0, 4}, {0xF7, 4},
		{0x80, 0}, {0xBF, 0}, {0xF8, 0}, {0xFF, 0},
	}
	for _, c := range cases {
		if got := utf8SeqLen(c.b); got != c.want {
			t.Errorf("seqLen(%#x) = %d, want %d", c.b, got, c.want)
		}
	}
}
