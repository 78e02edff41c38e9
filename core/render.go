package core

import (
	"time"

	"github.com/mattn/go-runewidth"

	"pkt.systems/termline/schema"
)

// Generator derives display content from a State. It never writes to the
// terminal; frames are submitted through a Client by the caller.
type Generator struct {
	state   *State
	version uint64
}

// NewGenerator binds a generator to a state.
func NewGenerator(state *State) *Generator {
	return &Generator{state: state}
}

// Generate produces the current frame: the prompt and buffer content
// wrapped at the terminal width, the cursor's wrapped position, and a
// monotonically increasing version. Consumes the buffer's full-refresh
// flag into the frame.
func (g *Generator) Generate() schema.DisplayContent {
	s := g.state
	width, _ := s.Geometry()
	if width <= 0 {
		width = fallbackWidth
	}

	lines, cursorLine, cursorCol := s.layoutWithCursor(width)
	for i := range lines {
		if i == cursorLine {
			lines[i].HasCursor = true
			lines[i].CursorCol = cursorCol
		}
	}

	g.version++
	content := schema.DisplayContent{
		Lines:         lines,
		CursorLine:    cursorLine,
		CursorCol:     cursorCol,
		CursorVisible: true,
		Version:       g.version,
		FullRefresh:   s.Buffer().FullRefresh(),
		Generated:     time.Now(),
	}
	s.Buffer().ClearFullRefresh()
	s.lines = content.Lines
	return content
}

// wrapCells breaks text into display lines of at most width cells. Wide
// runes never straddle a boundary; a rune that does not fit starts the
// next line. Always yields at least one line so an empty buffer still
// paints the prompt row.
func wrapCells(text string, width int) []schema.DisplayLine {
	lines, _, _ := layoutCells(text, width, -1)
	return lines
}

// layoutCells wraps text and locates the cursor at cursorBytes within the
// same walk, so the reported position always agrees with the wrapping
// decisions (early wraps shift the cursor with the text). A cursor landing
// exactly on a wrap boundary gets an empty continuation line appended so it
// always indexes a real line. A negative cursorBytes disables cursor
// tracking.
func layoutCells(text string, width, cursorBytes int) (lines []schema.DisplayLine, cursorLine, cursorCol int) {
	var cur []rune
	cells := 0
	cursorSet := cursorBytes < 0
	flush := func() {
		lines = append(lines, schema.DisplayLine{Text: string(cur), Width: cells})
		cur = cur[:0]
		cells = 0
	}
	for off, r := range text {
		w := runewidth.RuneWidth(r)
		if cells+w > width && cells > 0 {
			flush()
		}
		if !cursorSet && off >= cursorBytes {
			cursorLine, cursorCol = len(lines), cells
			cursorSet = true
		}
		cur = append(cur, r)
		cells += w
		if cells >= width {
			flush()
		}
	}
	if !cursorSet {
		cursorLine, cursorCol = len(lines), cells
	}
	if len(cur) > 0 || len(lines) == 0 {
		flush()
	}
	if cursorBytes >= 0 && cursorLine >= len(lines) {
		flush()
	}
	return lines, cursorLine, cursorCol
}
