// Package compositor turns generated display content into terminal output.
// It is the only place in the module that writes escape sequences; the
// editing core hands over DisplayContent values and never touches the
// stream itself.
package compositor

import (
	"fmt"
	"io"
	"strings"

	"pkt.systems/termline/schema"
)

// ANSI implements core.Client over an ANSI-capable writer. Frames with the
// same version as the previous submission are skipped. The painter honors
// the capability snapshot's optimization flags: batched writes are the
// default, synchronized-output bracketing is added when recommended.
type ANSI struct {
	out  io.Writer
	caps schema.Capabilities

	lastVersion uint64
	painted     int
	cursorRow   int
}

// NewANSI builds a painter for out using the given capability snapshot.
func NewANSI(out io.Writer, caps schema.Capabilities) *ANSI {
	return &ANSI{out: out, caps: caps}
}

// Submit paints one frame. The whole frame is composed into a single
// buffered write. A full-refresh frame clears the painted region first;
// otherwise lines are repainted in place.
func (a *ANSI) Submit(content schema.DisplayContent) error {
	if content.Version != 0 && content.Version == a.lastVersion {
		return nil
	}
	var b strings.Builder
	sync := a.caps.Optimizations&schema.OptSyncUpdates != 0
	if sync {
		b.WriteString("\x1b[?2026h")
	}
	b.WriteString("\x1b[?25l")

	// The cursor was parked on cursorRow of the previous frame; climb back
	// to the first painted row.
	if a.cursorRow > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", a.cursorRow)
	}
	b.WriteString("\r")
	if content.FullRefresh || len(content.Lines) < a.painted {
		b.WriteString("\x1b[J")
	}
	for i, line := range content.Lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(applyAttrs(line, a.caps))
		b.WriteString("\x1b[K")
	}

	// Park the cursor at its wrapped position, counting from the last
	// painted row.
	up := len(content.Lines) - 1 - content.CursorLine
	if up > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", up)
	}
	b.WriteString("\r")
	if content.CursorCol > 0 {
		fmt.Fprintf(&b, "\x1b[%dC", content.CursorCol)
	}
	if content.CursorVisible {
		b.WriteString("\x1b[?25h")
	}
	if sync {
		b.WriteString("\x1b[?2026l")
	}

	if _, err := io.WriteString(a.out, b.String()); err != nil {
		return err
	}
	a.lastVersion = content.Version
	a.painted = len(content.Lines)
	a.cursorRow = content.CursorLine
	return nil
}

// Clear erases the painted region, for teardown before leaving the line
// editor.
func (a *ANSI) Clear() error {
	if a.painted == 0 {
		return nil
	}
	var b strings.Builder
	if a.cursorRow > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", a.cursorRow)
	}
	b.WriteString("\r\x1b[J\x1b[?25h")
	a.painted = 0
	a.cursorRow = 0
	a.lastVersion = 0
	_, err := io.WriteString(a.out, b.String())
	return err
}

// applyAttrs wraps a line's text in SGR sequences the terminal is known to
// render. Minimal-attribute terminals get plain text.
func applyAttrs(line schema.DisplayLine, caps schema.Capabilities) string {
	if line.Attrs == 0 || caps.Optimizations&schema.OptMinimalAttrs != 0 {
		return line.Text
	}
	var codes []string
	if line.Attrs&schema.LineBold != 0 && caps.Attrs.Bold {
		codes = append(codes, "1")
	}
	if line.Attrs&schema.LineDim != 0 && caps.Attrs.Dim {
		codes = append(codes, "2")
	}
	if line.Attrs&schema.LineUnderline != 0 && caps.Attrs.Underline {
		codes = append(codes, "4")
	}
	if line.Attrs&schema.LineReverse != 0 && caps.Attrs.Reverse {
		codes = append(codes, "7")
	}
	if len(codes) == 0 {
		return line.Text
	}
	return "\x1b[" + strings.Join(codes, ";") + "m" + line.Text + "\x1b[0m"
}
