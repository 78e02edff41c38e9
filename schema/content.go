package schema

import "time"

// LineAttrs is a bitmask of visual attributes for a display line.
type LineAttrs uint8

const (
	LineBold LineAttrs = 1 << iota
	LineDim
	LineReverse
	LineUnderline
)

// DisplayLine is one renderable line of the current frame.
type DisplayLine struct {
	Text  string
	Width int // display cells, not bytes

	Attrs LineAttrs

	// HasCursor marks the line containing the logical cursor; CursorCol is
	// the zero-based visual column within the line.
	HasCursor bool
	CursorCol int
}

// DisplayContent is a generated frame: everything the display client needs
// to paint, with no terminal escape knowledge on this side of the contract.
// Frames are regenerated, not diffed; Version lets a consumer detect
// identical frames without deep comparison.
type DisplayContent struct {
	Lines []DisplayLine

	CursorLine    int
	CursorCol     int
	CursorVisible bool

	Version     uint64
	FullRefresh bool
	Generated   time.Time
}
