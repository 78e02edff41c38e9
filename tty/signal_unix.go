//go:build unix

package tty

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// installSignals starts the routing goroutine. Handlers do only async-safe
// work: attribute ioctls, atomic flags and re-raising. Anything that needs
// the event loop happens on the next ReadEvent.
func (i *Interface) installSignals() {
	i.sigCh = make(chan os.Signal, 8)
	i.sigDone = make(chan struct{})
	signal.Notify(i.sigCh,
		syscall.SIGWINCH,
		syscall.SIGTSTP,
		syscall.SIGCONT,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	go i.signalLoop()
}

func (i *Interface) teardownSignals() {
	if i.sigCh == nil {
		return
	}
	signal.Stop(i.sigCh)
	close(i.sigDone)
}

func (i *Interface) signalLoop() {
	for {
		select {
		case <-i.sigDone:
			return
		case sig := <-i.sigCh:
			i.handleSignal(sig)
		}
	}
}

func (i *Interface) handleSignal(sig os.Signal) {
	switch sig {
	case syscall.SIGWINCH:
		i.resizePending.Store(true)
	case syscall.SIGTSTP:
		// Hand the shell a cooked terminal before stopping.
		if i.rawActive.Load() {
			_ = unix.IoctlSetTermios(i.fd, ioctlWriteTermios, &i.orig)
		}
		_ = unix.Kill(unix.Getpid(), unix.SIGSTOP)
	case syscall.SIGCONT:
		// The shell may have clobbered our attributes while we were stopped,
		// and the window may have changed size.
		if i.rawActive.Load() {
			_ = unix.IoctlSetTermios(i.fd, ioctlWriteTermios, &i.raw)
		}
		i.resizePending.Store(true)
		i.resumeSignal.Store(int32(unix.SIGCONT))
	case syscall.SIGINT, syscall.SIGTERM:
		s := sig.(syscall.Signal)
		if i.rawActive.Load() {
			_ = unix.IoctlSetTermios(i.fd, ioctlWriteTermios, &i.orig)
			i.rawActive.Store(false)
		}
		signal.Reset(sig)
		_ = unix.Kill(unix.Getpid(), s)
	}
}
