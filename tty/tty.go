//go:build unix

// Package tty is the OS-level terminal interface: raw/canonical mode
// transitions, signal-safe attribute restoration, bounded-timeout event
// acquisition and UTF-8 decoding of raw input.
//
// The terminal is never queried for what it currently shows; the only
// queries issued are attribute snapshots and window-size reads. One
// interface may be live per process: signal delivery carries no user
// context, so a single-slot registration routes signals to the active
// instance. This is a deliberate scaling limit, not an oversight.
package tty

import (
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"pkt.systems/termline/schema"
)

// Interface owns the controlling terminal descriptor and its attribute
// snapshots. The zero value is not usable; construct with Open.
type Interface struct {
	file     *os.File
	fd       int
	ownsFile bool

	// orig is the pristine snapshot taken at construction; every restore
	// path converges on it, no matter how many raw cycles ran in between.
	orig unix.Termios
	raw  unix.Termios

	rawActive     atomic.Bool
	resizePending atomic.Bool
	resumeSignal  atomic.Int32

	width  int
	height int

	sigCh  chan os.Signal
	sigDone chan struct{}

	closed atomic.Bool

	// scratch backs the byte span of the most recent character event; it is
	// overwritten by the next ReadEvent.
	scratch [4]byte
}

// active is the process-wide single-slot interface registration used by
// signal handling.
var active atomic.Pointer[Interface]

// Active returns the currently registered interface, if any.
func Active() *Interface {
	return active.Load()
}

// Open opens the controlling terminal, snapshots its attributes and
// registers the interface in the process signal slot. It fails with
// ErrNotATerminal when no tty is attached and with ErrInterfaceActive when
// another interface is already live.
func Open() (*Interface, error) {
	i := &Interface{}
	if f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		i.file = f
		i.ownsFile = true
	} else {
		i.file = os.Stdin
	}
	i.fd = int(i.file.Fd())
	if !term.IsTerminal(i.fd) {
		i.release()
		return nil, schema.ErrNotATerminal
	}

	orig, err := unix.IoctlGetTermios(i.fd, ioctlReadTermios)
	if err != nil {
		i.release()
		return nil, err
	}
	i.orig = *orig
	i.raw = makeRawTermios(*orig)

	if !active.CompareAndSwap(nil, i) {
		i.release()
		return nil, schema.ErrInterfaceActive
	}

	i.width, i.height = i.querySize()
	i.installSignals()
	return i, nil
}

func (i *Interface) release() {
	if i.ownsFile && i.file != nil {
		_ = i.file.Close()
	}
}

// EnterRawMode applies the computed raw attributes. Idempotent: a second
// call while raw is a no-op.
func (i *Interface) EnterRawMode() error {
	if i.closed.Load() {
		return schema.ErrInterfaceClosed
	}
	if i.rawActive.Load() {
		return nil
	}
	if err := unix.IoctlSetTermios(i.fd, ioctlWriteTermios, &i.raw); err != nil {
		return err
	}
	i.rawActive.Store(true)
	return nil
}

// ExitRawMode restores the construction-time attribute snapshot. Idempotent.
// A failed restore is escalated as ErrRestoreFailed: an un-restorable
// terminal is a hard failure for the whole session.
func (i *Interface) ExitRawMode() error {
	if i.closed.Load() {
		return schema.ErrInterfaceClosed
	}
	if !i.rawActive.Load() {
		return nil
	}
	if err := unix.IoctlSetTermios(i.fd, ioctlWriteTermios, &i.orig); err != nil {
		return schema.ErrRestoreFailed
	}
	i.rawActive.Store(false)
	return nil
}

// RawActive reports whether raw mode is currently applied.
func (i *Interface) RawActive() bool {
	return i.rawActive.Load()
}

// Size returns the cached window dimensions.
func (i *Interface) Size() (int, int) {
	return i.width, i.height
}

// Fd exposes the terminal descriptor for size probes by collaborators.
func (i *Interface) Fd() int {
	return i.fd
}

// Close restores the terminal, unregisters signal routing and releases the
// descriptor. The interface is unusable afterwards.
func (i *Interface) Close() error {
	if i.closed.Swap(true) {
		return nil
	}
	var err error
	if i.rawActive.Load() {
		if rerr := unix.IoctlSetTermios(i.fd, ioctlWriteTermios, &i.orig); rerr != nil {
			err = schema.ErrRestoreFailed
		}
		i.rawActive.Store(false)
	}
	i.teardownSignals()
	active.CompareAndSwap(i, nil)
	i.release()
	return err
}

func (i *Interface) querySize() (int, int) {
	ws, err := unix.IoctlGetWinsize(i.fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// makeRawTermios computes raw attributes from the pristine snapshot:
// byte-at-a-time input with no echo, no canonical processing, no signal
// generation, 8-bit characters, and a read that returns immediately.
// Output processing stays enabled; disabling it corrupts line-wrap
// semantics.
func makeRawTermios(t unix.Termios) unix.Termios {
	t.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	t.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
	return t
}

// EmergencyRestore forces the terminal back toward cooked mode on abnormal
// termination paths that bypass Close. Best effort; errors are ignored.
func EmergencyRestore() {
	if i := active.Load(); i != nil && !i.closed.Load() {
		_ = unix.IoctlSetTermios(i.fd, ioctlWriteTermios, &i.orig)
		i.rawActive.Store(false)
		return
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()
	fd := int(tty.Fd())
	if t, err := unix.IoctlGetTermios(fd, ioctlReadTermios); err == nil {
		t.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
		t.Iflag |= unix.ICRNL
		_ = unix.IoctlSetTermios(fd, ioctlWriteTermios, t)
	}
}
