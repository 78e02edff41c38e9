package core

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"pkt.systems/termline/schema"
)

// Geometry floors below which a reported size is treated as nonsense and
// replaced by the classic fallback.
const (
	minUsableWidth  = 20
	minUsableHeight = 5
	fallbackWidth   = 80
	fallbackHeight  = 24
)

// State is the single authority over editing state for one session. It
// exclusively owns its CommandBuffer and display-line cache; both die with
// it. Not safe for concurrent use.
type State struct {
	buf    *CommandBuffer
	cursor int

	selStart     int
	selEnd       int
	hasSelection bool

	width       int
	height      int
	prompt      string
	promptWidth int
	hScroll     int
	vScroll     int

	lines []schema.DisplayLine

	modCount uint64
	updated  time.Time

	caps schema.Capabilities
}

// NewState creates a session state against a capability snapshot. Geometry
// comes from the snapshot and passes through the same sanity clamp as
// UpdateGeometry.
func NewState(caps schema.Capabilities, prompt string) *State {
	w, h := clampGeometry(caps.Width, caps.Height)
	return &State{
		buf:         NewCommandBuffer(0),
		width:       w,
		height:      h,
		prompt:      prompt,
		promptWidth: runewidth.StringWidth(prompt),
		updated:     time.Now(),
		caps:        caps,
	}
}

// Destroy releases the owned buffer and display cache.
func (s *State) Destroy() {
	s.buf = nil
	s.lines = nil
}

// Buffer exposes the owned command buffer.
func (s *State) Buffer() *CommandBuffer { return s.buf }

// Cursor returns the logical cursor position in bytes.
func (s *State) Cursor() int { return s.cursor }

// ModCount returns the modification counter.
func (s *State) ModCount() uint64 { return s.modCount }

// Updated returns the last-update timestamp.
func (s *State) Updated() time.Time { return s.updated }

// Geometry returns the current terminal dimensions.
func (s *State) Geometry() (int, int) { return s.width, s.height }

// Prompt returns the prompt string rendered before the buffer content.
func (s *State) Prompt() string { return s.prompt }

// Capabilities returns the snapshot the state was created against.
func (s *State) Capabilities() schema.Capabilities { return s.caps }

func (s *State) touch() {
	s.modCount++
	s.updated = time.Now()
}

// Insert places text at pos and moves the cursor to the end of the
// inserted span.
func (s *State) Insert(pos int, text string) error {
	if err := s.buf.Insert(pos, []byte(text)); err != nil {
		return err
	}
	if len(text) == 0 {
		return nil
	}
	s.cursor = pos + len(text)
	s.clampSelection()
	s.touch()
	return nil
}

// Delete removes n bytes at pos and clamps the cursor into the remaining
// content.
func (s *State) Delete(pos, n int) error {
	removed, err := s.buf.Delete(pos, n)
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}
	if s.cursor > pos {
		s.cursor -= removed
		if s.cursor < pos {
			s.cursor = pos
		}
	}
	if s.cursor > s.buf.Len() {
		s.cursor = s.buf.Len()
	}
	s.clampSelection()
	s.touch()
	return nil
}

// SetCursor moves the logical cursor. The position must lie within
// [0, buffer length].
func (s *State) SetCursor(pos int) error {
	if pos < 0 || pos > s.buf.Len() {
		return fmt.Errorf("%w: cursor %d in buffer of %d", schema.ErrOutOfRange, pos, s.buf.Len())
	}
	s.cursor = pos
	return nil
}

// Select sets the selection range. Both offsets must be within buffer
// bounds and ordered.
func (s *State) Select(start, end int) error {
	if start < 0 || end > s.buf.Len() || start > end {
		return fmt.Errorf("%w: selection [%d,%d) in buffer of %d", schema.ErrOutOfRange, start, end, s.buf.Len())
	}
	s.selStart, s.selEnd, s.hasSelection = start, end, true
	return nil
}

// ClearSelection drops the selection.
func (s *State) ClearSelection() {
	s.hasSelection = false
	s.selStart, s.selEnd = 0, 0
}

// Selection returns the selection range, if any.
func (s *State) Selection() (start, end int, ok bool) {
	return s.selStart, s.selEnd, s.hasSelection
}

func (s *State) clampSelection() {
	if !s.hasSelection {
		return
	}
	if s.selEnd > s.buf.Len() {
		s.selEnd = s.buf.Len()
	}
	if s.selStart > s.selEnd {
		s.hasSelection = false
		s.selStart, s.selEnd = 0, 0
	}
}

// CursorDisplayPosition computes the wrapped visual position of the cursor
// in display cells. Pure: reads only state, never the terminal.
func (s *State) CursorDisplayPosition() (line, col int) {
	width := s.width
	if width <= 0 {
		width = fallbackWidth
	}
	_, line, col = s.layoutWithCursor(width)
	return line, col
}

// layoutWithCursor runs the shared wrapping walk over prompt plus buffer.
// Rendering and cursor positioning both go through here so the cursor can
// never disagree with the wrapping decisions.
func (s *State) layoutWithCursor(width int) ([]schema.DisplayLine, int, int) {
	lines, line, col := layoutCells(s.prompt+string(s.buf.Bytes()), width, len(s.prompt)+s.cursor)
	line -= s.vScroll
	if line < 0 {
		line = 0
	}
	col -= s.hScroll
	if col < 0 {
		col = 0
	}
	return lines, line, col
}

// UpdateGeometry records a new terminal size, forces a full repaint and
// bumps the modification counter. Dimensions below the usable floor,
// zero and negative included, clamp to the 80x24 fallback rather than
// failing; a garbled resize report must never wedge the session. The
// cursor is not repositioned; display position is recomputed lazily at
// the next render.
func (s *State) UpdateGeometry(w, h int) {
	s.width, s.height = clampGeometry(w, h)
	s.buf.MarkFullRefresh()
	s.touch()
}

// clampGeometry rejects dimensions below the usable floor in favor of the
// classic 80x24 fallback.
func clampGeometry(w, h int) (int, int) {
	if w < minUsableWidth || h < minUsableHeight {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}
