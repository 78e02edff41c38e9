package sshserver

import (
	"context"
	"strings"
	"testing"
	"time"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/termline/schema"
)

func TestSourceReadsBytes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := newSSHSource(ctx, strings.NewReader("hi"), nil, 80, 24)

	for _, want := range []rune{'h', 'i'} {
		ev := src.ReadEvent(time.Second)
		if ev.Type != schema.EventCharacter || ev.Rune != want {
			t.Fatalf("event = %+v, want character %q", ev, want)
		}
	}
	if ev := src.ReadEvent(time.Second); ev.Type != schema.EventEOF {
		t.Fatalf("event after stream end = %+v, want EOF", ev)
	}
}

func TestSourceDecodesMultibyte(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := newSSHSource(ctx, strings.NewReader("\xc3\xa9\xe2\x82\xac"), nil, 80, 24)

	if ev := src.ReadEvent(time.Second); ev.Rune != 'é' {
		t.Fatalf("first rune = %q, want é", ev.Rune)
	}
	if ev := src.ReadEvent(time.Second); ev.Rune != '€' {
		t.Fatalf("second rune = %q, want €", ev.Rune)
	}
}

func TestSourceMalformedByteResyncs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Lone continuation byte, then a valid character.
	src := newSSHSource(ctx, strings.NewReader("\x80a"), nil, 80, 24)

	ev := src.ReadEvent(time.Second)
	if ev.Rune != '�' || len(ev.Bytes) != 1 {
		t.Fatalf("malformed byte = %+v, want one-byte replacement", ev)
	}
	if ev := src.ReadEvent(time.Second); ev.Rune != 'a' {
		t.Fatalf("resync rune = %q, want a", ev.Rune)
	}
}

func TestSourceResizePreemptsInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	winCh := make(chan gliderssh.Window, 1)
	winCh <- gliderssh.Window{Width: 132, Height: 50}
	src := newSSHSource(ctx, strings.NewReader("x"), winCh, 80, 24)

	ev := src.ReadEvent(time.Second)
	if ev.Type != schema.EventResize || ev.Width != 132 || ev.Height != 50 {
		t.Fatalf("event = %+v, want resize 132x50", ev)
	}
	if w, h := src.Size(); w != 132 || h != 50 {
		t.Fatalf("size = %dx%d, want 132x50", w, h)
	}
	if ev := src.ReadEvent(time.Second); ev.Rune != 'x' {
		t.Fatalf("event after resize = %+v, want character x", ev)
	}
}

func TestSourceResizeClampsDegenerateWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	winCh := make(chan gliderssh.Window, 1)
	winCh <- gliderssh.Window{Width: 0, Height: -1}
	src := newSSHSource(ctx, strings.NewReader(""), winCh, 80, 24)

	ev := src.ReadEvent(time.Second)
	if ev.Width != 80 || ev.Height != 24 {
		t.Fatalf("clamped resize = %+v, want 80x24", ev)
	}
}

func TestSourceZeroTimeoutPolls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	blocked := make(chan byte)
	defer close(blocked)
	src := newSSHSource(ctx, blockingReader{blocked}, nil, 80, 24)

	if ev := src.ReadEvent(0); ev.Type != schema.EventTimeout {
		t.Fatalf("poll on idle stream = %+v, want timeout", ev)
	}
}

func TestSourceContextCancelEndsRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	blocked := make(chan byte)
	src := newSSHSource(ctx, blockingReader{blocked}, nil, 80, 24)
	cancel()

	if ev := src.ReadEvent(time.Second); ev.Type != schema.EventEOF {
		t.Fatalf("event after cancel = %+v, want EOF", ev)
	}
}

// blockingReader never returns until its channel is closed.
type blockingReader struct {
	ch chan byte
}

func (r blockingReader) Read(p []byte) (int, error) {
	b, ok := <-r.ch
	if !ok {
		return 0, context.Canceled
	}
	p[0] = b
	return 1, nil
}
