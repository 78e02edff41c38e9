//go:build unix

package tty

import (
	"time"

	"golang.org/x/sys/unix"

	"pkt.systems/termline/schema"
)

// continuationWait bounds how long a multibyte sequence may dangle before
// the partial input is declared malformed. Continuation bytes of a single
// keystroke arrive together; anything slower is a broken stream.
const continuationWait = 50 * time.Millisecond

// ReadEvent blocks for at most timeout waiting for terminal input and
// returns exactly one event. A negative timeout blocks indefinitely, zero
// polls. Pending resize and resume notifications preempt byte input so
// geometry changes are observed before the keystrokes typed after them.
func (i *Interface) ReadEvent(timeout time.Duration) schema.Event {
	if i.closed.Load() {
		return errorEvent(schema.CodeTerminal, schema.ErrInterfaceClosed)
	}
	if i.resizePending.Swap(false) {
		i.width, i.height = i.querySize()
		return schema.Event{
			Type:   schema.EventResize,
			Width:  i.width,
			Height: i.height,
			Time:   time.Now(),
		}
	}
	if sig := i.resumeSignal.Swap(0); sig != 0 {
		return schema.Event{Type: schema.EventSignal, Signal: int(sig), Time: time.Now()}
	}

	ready, ev, ok := i.wait(timeout)
	if !ok {
		return ev
	}
	if !ready {
		return schema.Event{Type: schema.EventTimeout, Time: time.Now()}
	}

	b, ev, ok := i.readByte()
	if !ok {
		return ev
	}
	if b < 0x80 {
		i.scratch[0] = b
		return schema.Event{
			Type:  schema.EventCharacter,
			Rune:  rune(b),
			Bytes: i.scratch[:1],
			Time:  time.Now(),
		}
	}
	r, n := DecodeSequence(b, i.nextContinuation, &i.scratch)
	return schema.Event{
		Type:  schema.EventCharacter,
		Rune:  r,
		Bytes: i.scratch[:n],
		Time:  time.Now(),
	}
}

// wait polls the descriptor. The first EINTR restarts the loop once so a
// resize delivered mid-wait is picked up by the caller; a second one is
// surfaced as a syscall error.
func (i *Interface) wait(timeout time.Duration) (ready bool, ev schema.Event, ok bool) {
	ms := -1
	switch {
	case timeout == 0:
		ms = 0
	case timeout > 0:
		ms = int(timeout.Milliseconds())
		if ms == 0 {
			ms = 1
		}
	}
	retried := false
	for {
		fds := []unix.PollFd{{Fd: int32(i.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, ms)
		if err == unix.EINTR {
			if i.resizePending.Load() || i.resumeSignal.Load() != 0 {
				return false, i.ReadEvent(timeout), false
			}
			if !retried {
				retried = true
				continue
			}
			return false, errorEvent(schema.CodeSyscall, err), false
		}
		if err != nil {
			return false, errorEvent(schema.CodeSyscall, err), false
		}
		return n > 0, schema.Event{}, true
	}
}

// readByte pulls one byte. Zero bytes on a ready descriptor is end of
// input. A read failure forces raw mode off so the terminal is never left
// raw behind an error return.
func (i *Interface) readByte() (byte, schema.Event, bool) {
	var buf [1]byte
	n, err := unix.Read(i.fd, buf[:])
	if err == unix.EINTR {
		n, err = unix.Read(i.fd, buf[:])
	}
	if err != nil {
		if i.rawActive.Load() {
			if rerr := unix.IoctlSetTermios(i.fd, ioctlWriteTermios, &i.orig); rerr != nil {
				return 0, errorEvent(schema.CodeRestoreFailed, schema.ErrRestoreFailed), false
			}
			i.rawActive.Store(false)
		}
		return 0, errorEvent(schema.CodeIOError, err), false
	}
	if n == 0 {
		return 0, schema.Event{Type: schema.EventEOF, Time: time.Now()}, false
	}
	return buf[0], schema.Event{}, true
}

// nextContinuation fetches one continuation byte with a bounded wait.
func (i *Interface) nextContinuation() (byte, bool) {
	fds := []unix.PollFd{{Fd: int32(i.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(continuationWait.Milliseconds()))
	if err != nil || n == 0 {
		return 0, false
	}
	var buf [1]byte
	rn, err := unix.Read(i.fd, buf[:])
	if err != nil || rn == 0 {
		return 0, false
	}
	return buf[0], true
}

func errorEvent(code schema.ErrorCode, err error) schema.Event {
	return schema.Event{Type: schema.EventError, Code: code, Err: err, Time: time.Now()}
}
