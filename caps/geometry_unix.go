//go:build unix

package caps

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
	minWidth       = 20
	minHeight      = 5
)

// detectGeometry queries the kernel for the window size, falling back to
// COLUMNS/LINES and then to 80x24. Anything below the usable floor clamps
// to the fallback geometry.
func detectGeometry(fd int) (int, int) {
	if ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ); err == nil {
		return clampGeometry(int(ws.Col), int(ws.Row))
	}
	w, _ := strconv.Atoi(os.Getenv("COLUMNS"))
	h, _ := strconv.Atoi(os.Getenv("LINES"))
	return clampGeometry(w, h)
}

// clampGeometry enforces the usable floor: a terminal narrower than 20
// columns or shorter than 5 rows cannot host the editor, so the fallback
// geometry wins.
func clampGeometry(w, h int) (int, int) {
	if w < minWidth || h < minHeight {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}
