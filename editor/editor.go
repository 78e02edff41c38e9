// Package editor runs an interactive line-editing session over any input
// source and output writer. The local terminal and the SSH host both drive
// their sessions through it.
package editor

import (
	"context"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"pkt.systems/pslog"

	"pkt.systems/termline/compositor"
	"pkt.systems/termline/core"
	"pkt.systems/termline/escape"
	"pkt.systems/termline/input"
	"pkt.systems/termline/internal/diag"
	"pkt.systems/termline/schema"
)

// Session drives one line-editing session: events in through an input
// processor, frames out through the compositor. Submitted lines are echoed
// back above the prompt; a line of "exit" or Ctrl+D on an empty line ends
// the session.
type Session struct {
	out     io.Writer
	state   *core.State
	gen     *core.Generator
	painter core.Client
	proc    *input.Processor
	history core.History
	log     pslog.Logger
	report  *diag.Reporter
}

// SetReporter attaches a failure reporter. Nil is allowed and is the
// default; reporting then becomes a no-op.
func (s *Session) SetReporter(r *diag.Reporter) {
	s.report = r
}

// SetEscapeTimeout overrides how long the input processor waits for the
// remainder of an escape sequence.
func (s *Session) SetEscapeTimeout(d time.Duration) {
	s.proc.SetEscapeTimeout(d)
}

// New assembles a session from an input source and an output writer. The
// capability snapshot governs both editing geometry and frame encoding;
// when the source knows the current size, that wins over the snapshot.
// Deps collaborators left nil get defaults: an ANSI compositor on out, a
// 200-entry history ring, and the ambient context logger.
func New(out io.Writer, src input.Source, remoteCaps schema.Capabilities, prompt string, deps core.SessionDeps) *Session {
	if w, h := src.Size(); w > 0 && h > 0 {
		remoteCaps.Width, remoteCaps.Height = w, h
	}
	if deps.Client == nil {
		deps.Client = compositor.NewANSI(out, remoteCaps)
	}
	if deps.History == nil {
		deps.History = core.NewHistory(0)
	}
	if deps.Logger == nil {
		deps.Logger = pslog.Ctx(context.Background())
	}
	state := core.NewState(remoteCaps, prompt)
	return &Session{
		out:     out,
		state:   state,
		gen:     core.NewGenerator(state),
		painter: deps.Client,
		proc:    input.NewProcessor(src, escape.NewANSI()),
		history: deps.History,
		log:     deps.Logger,
	}
}

// Run paints and reads until the session ends. The context bounds the
// whole session; sources are expected to surface cancellation as EOF.
func (s *Session) Run(ctx context.Context) error {
	defer s.state.Destroy()
	defer s.proc.Close()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := s.painter.Submit(s.gen.Generate()); err != nil {
			s.report.Report(diag.New(schema.CodeIOError, "compositor", err.Error(), diag.FlagCriticalPath))
			return err
		}
		ev := s.proc.ReadNext(-1)
		switch ev.Type {
		case schema.EventCharacter:
			_ = s.state.Insert(s.state.Cursor(), string(ev.Rune))
		case schema.EventSpecialKey:
			done, err := s.handleKey(ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case schema.EventResize:
			s.state.UpdateGeometry(ev.Width, ev.Height)
		case schema.EventSignal:
			// Resumed from suspend: the screen contents are unknown.
			s.state.Buffer().MarkFullRefresh()
		case schema.EventEOF:
			return nil
		case schema.EventError:
			if ev.Code.Severity() < schema.SeverityError {
				// Malformed or unrepresentable input degrades to a logged
				// warning; the session keeps editing.
				s.log.Warn("editor input dropped", "code", int(ev.Code), "err", ev.Err)
				s.report.Report(diag.New(ev.Code, "input", ev.Err.Error()))
				continue
			}
			s.log.Warn("editor input error", "code", int(ev.Code), "err", ev.Err)
			s.report.Report(diag.New(ev.Code, "input", ev.Err.Error(), diag.FlagCriticalPath))
			return ev.Err
		}
	}
}

func (s *Session) handleKey(ev schema.Event) (bool, error) {
	st := s.state
	switch ev.Key {
	case schema.KeyEnter:
		line := st.Buffer().String()
		if err := s.painter.Clear(); err != nil {
			return false, err
		}
		if _, err := io.WriteString(s.out, st.Prompt()+line+"\r\n"); err != nil {
			return false, err
		}
		s.history.Append(line)
		_ = st.Delete(0, st.Buffer().Len())
		_ = st.SetCursor(0)
		if strings.TrimSpace(line) == "exit" {
			return true, nil
		}
	case schema.KeyBackspace:
		if start, ok := prevRuneStart(st.Buffer().Bytes(), st.Cursor()); ok {
			_ = st.Delete(start, st.Cursor()-start)
		}
	case schema.KeyDelete:
		if n := nextRuneLen(st.Buffer().Bytes(), st.Cursor()); n > 0 {
			_ = st.Delete(st.Cursor(), n)
		}
	case schema.KeyLeft:
		if start, ok := prevRuneStart(st.Buffer().Bytes(), st.Cursor()); ok {
			_ = st.SetCursor(start)
		}
	case schema.KeyRight:
		if n := nextRuneLen(st.Buffer().Bytes(), st.Cursor()); n > 0 {
			_ = st.SetCursor(st.Cursor() + n)
		}
	case schema.KeyHome:
		_ = st.SetCursor(0)
	case schema.KeyEnd:
		_ = st.SetCursor(st.Buffer().Len())
	case schema.KeyUp:
		if entry, ok := s.history.Prev(); ok {
			s.setLine(entry)
		}
	case schema.KeyDown:
		if entry, ok := s.history.Next(); ok {
			s.setLine(entry)
		} else {
			s.setLine("")
		}
	case schema.KeyUnknown:
		return s.handleControl(ev)
	}
	return false, nil
}

func (s *Session) handleControl(ev schema.Event) (bool, error) {
	st := s.state
	if ev.Mods&schema.ModAlt != 0 {
		switch ev.Raw {
		case 'b':
			_ = st.SetCursor(wordLeft(st.Buffer().Bytes(), st.Cursor()))
		case 'f':
			_ = st.SetCursor(wordRight(st.Buffer().Bytes(), st.Cursor()))
		}
		return false, nil
	}
	switch ev.Raw {
	case 0x01: // Ctrl+A
		_ = st.SetCursor(0)
	case 0x05: // Ctrl+E
		_ = st.SetCursor(st.Buffer().Len())
	case 0x03: // Ctrl+C
		s.setLine("")
		s.history.Reset()
	case 0x04: // Ctrl+D on an empty line ends the session
		if st.Buffer().Len() == 0 {
			s.log.Info("editor session exit", "reason", "ctrl-d")
			return true, nil
		}
		if n := nextRuneLen(st.Buffer().Bytes(), st.Cursor()); n > 0 {
			_ = st.Delete(st.Cursor(), n)
		}
	case 0x0B: // Ctrl+K kills to end of line
		if st.Cursor() < st.Buffer().Len() {
			_ = st.Delete(st.Cursor(), st.Buffer().Len()-st.Cursor())
		}
	case 0x15: // Ctrl+U kills to start of line
		if st.Cursor() > 0 {
			n := st.Cursor()
			_ = st.Delete(0, n)
			_ = st.SetCursor(0)
		}
	case 0x17: // Ctrl+W deletes the word behind the cursor
		start := wordLeft(st.Buffer().Bytes(), st.Cursor())
		if start < st.Cursor() {
			_ = st.Delete(start, st.Cursor()-start)
		}
	}
	return false, nil
}

func (s *Session) setLine(value string) {
	st := s.state
	if st.Buffer().Len() > 0 {
		_ = st.Delete(0, st.Buffer().Len())
	}
	_ = st.SetCursor(0)
	if value != "" {
		_ = st.Insert(0, value)
	}
}

// prevRuneStart finds the byte offset of the rune ending at pos.
func prevRuneStart(buf []byte, pos int) (int, bool) {
	if pos <= 0 {
		return 0, false
	}
	_, size := utf8.DecodeLastRune(buf[:pos])
	if size == 0 {
		return 0, false
	}
	return pos - size, true
}

// nextRuneLen reports the byte length of the rune starting at pos, zero at
// end of buffer.
func nextRuneLen(buf []byte, pos int) int {
	if pos >= len(buf) {
		return 0
	}
	_, size := utf8.DecodeRune(buf[pos:])
	return size
}

func wordLeft(buf []byte, pos int) int {
	runes := []rune(string(buf[:pos]))
	i := len(runes)
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return len(string(runes[:i]))
}

func wordRight(buf []byte, pos int) int {
	tail := []rune(string(buf[pos:]))
	i := 0
	for i < len(tail) && unicode.IsSpace(tail[i]) {
		i++
	}
	for i < len(tail) && !unicode.IsSpace(tail[i]) {
		i++
	}
	return pos + len(string(tail[:i]))
}
