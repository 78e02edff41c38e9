package sshserver

import (
	"context"
	"io"
	"time"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/termline/schema"
	"pkt.systems/termline/tty"
)

// sshSource adapts an SSH session's byte stream and window-change channel
// to the input.Source contract. A reader goroutine feeds single bytes into
// a channel; resize notifications preempt buffered bytes the same way the
// local terminal interface prioritizes its resize flag.
type sshSource struct {
	ctx   context.Context
	bytes chan byte
	winCh <-chan gliderssh.Window

	width  int
	height int
}

func newSSHSource(ctx context.Context, r io.Reader, winCh <-chan gliderssh.Window, width, height int) *sshSource {
	s := &sshSource{
		ctx:    ctx,
		bytes:  make(chan byte, 64),
		winCh:  winCh,
		width:  width,
		height: height,
	}
	go s.pump(r)
	return s
}

func (s *sshSource) pump(r io.Reader) {
	defer close(s.bytes)
	var buf [1]byte
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			select {
			case s.bytes <- buf[0]:
			case <-s.ctx.Done():
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *sshSource) Size() (int, int) {
	return s.width, s.height
}

func (s *sshSource) ReadEvent(timeout time.Duration) schema.Event {
	// Pending resizes outrank buffered input.
	select {
	case win, ok := <-s.winCh:
		if ok {
			return s.resize(win)
		}
	default:
	}

	var timer <-chan time.Time
	if timeout == 0 {
		// Immediate poll.
		select {
		case win, ok := <-s.winCh:
			if ok {
				return s.resize(win)
			}
			return schema.Event{Type: schema.EventEOF, Time: time.Now()}
		case b, ok := <-s.bytes:
			return s.byteEvent(b, ok)
		case <-s.ctx.Done():
			return schema.Event{Type: schema.EventEOF, Time: time.Now()}
		default:
			return schema.Event{Type: schema.EventTimeout, Time: time.Now()}
		}
	}
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	select {
	case win, ok := <-s.winCh:
		if ok {
			return s.resize(win)
		}
		return schema.Event{Type: schema.EventEOF, Time: time.Now()}
	case b, ok := <-s.bytes:
		return s.byteEvent(b, ok)
	case <-timer:
		return schema.Event{Type: schema.EventTimeout, Time: time.Now()}
	case <-s.ctx.Done():
		return schema.Event{Type: schema.EventEOF, Time: time.Now()}
	}
}

func (s *sshSource) resize(win gliderssh.Window) schema.Event {
	w, h := win.Width, win.Height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	s.width, s.height = w, h
	return schema.Event{Type: schema.EventResize, Width: w, Height: h, Time: time.Now()}
}

func (s *sshSource) byteEvent(b byte, ok bool) schema.Event {
	if !ok {
		return schema.Event{Type: schema.EventEOF, Time: time.Now()}
	}
	if b < 0x80 {
		return schema.Event{
			Type:  schema.EventCharacter,
			Rune:  rune(b),
			Bytes: []byte{b},
			Time:  time.Now(),
		}
	}
	var buf [4]byte
	r, n := tty.DecodeSequence(b, s.nextContinuation, &buf)
	return schema.Event{
		Type:  schema.EventCharacter,
		Rune:  r,
		Bytes: append([]byte(nil), buf[:n]...),
		Time:  time.Now(),
	}
}

// nextContinuation pulls one continuation byte with a bounded wait, so a
// truncated sequence degrades to a replacement character instead of
// stalling the session.
func (s *sshSource) nextContinuation() (byte, bool) {
	t := time.NewTimer(50 * time.Millisecond)
	defer t.Stop()
	select {
	case b, ok := <-s.bytes:
		return b, ok
	case <-t.C:
		return 0, false
	case <-s.ctx.Done():
		return 0, false
	}
}
