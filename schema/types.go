package schema

import "time"

// TerminalFamily classifies the terminal emulator in use.
type TerminalFamily int

const (
	// FamilyGeneric is an unrecognized terminal with baseline capabilities.
	FamilyGeneric TerminalFamily = iota
	// FamilyXTerm covers xterm and close derivatives.
	FamilyXTerm
	// FamilyRxvt covers rxvt and urxvt.
	FamilyRxvt
	// FamilyKonsole is the KDE terminal.
	FamilyKonsole
	// FamilyGNOME is the GNOME (VTE) terminal.
	FamilyGNOME
	// FamilyScreen is GNU screen.
	FamilyScreen
	// FamilyTmux is the tmux multiplexer.
	FamilyTmux
	// FamilyLinuxConsole is the kernel virtual console.
	FamilyLinuxConsole
	// FamilyNative is the platform-native terminal (Terminal.app and kin).
	FamilyNative
	// FamilyITerm2 is iTerm2.
	FamilyITerm2
	// FamilyAlacritty is Alacritty.
	FamilyAlacritty
	// FamilyKitty is kitty.
	FamilyKitty
)

var familyNames = [...]string{
	FamilyGeneric:      "generic",
	FamilyXTerm:        "xterm",
	FamilyRxvt:         "rxvt",
	FamilyKonsole:      "konsole",
	FamilyGNOME:        "gnome-terminal",
	FamilyScreen:       "screen",
	FamilyTmux:         "tmux",
	FamilyLinuxConsole: "linux-console",
	FamilyNative:       "native",
	FamilyITerm2:       "iterm2",
	FamilyAlacritty:    "alacritty",
	FamilyKitty:        "kitty",
}

func (f TerminalFamily) String() string {
	if f >= 0 && int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "generic"
}

// ColorDepth is the terminal color capability class.
type ColorDepth int

const (
	// ColorNone means no color support.
	ColorNone ColorDepth = iota
	// Color16 is 4-bit ANSI color.
	Color16
	// Color256 is 8-bit indexed color.
	Color256
	// ColorTrue is 24-bit direct color.
	ColorTrue
)

var colorNames = [...]string{
	ColorNone:  "none",
	Color16:    "16",
	Color256:   "256",
	ColorTrue:  "truecolor",
}

func (c ColorDepth) String() string {
	if c >= 0 && int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "none"
}

// AttrSupport records which text attributes the terminal renders.
type AttrSupport struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Reverse       bool
	Dim           bool
}

// FeatureSet records advanced terminal features with no terminfo source;
// they are inferred from the terminal family.
type FeatureSet struct {
	Mouse          bool
	BracketedPaste bool
	FocusEvents    bool
	SyncOutput     bool
	Unicode        bool
}

// OptFlag is a bitmask of recommended rendering optimizations derived from
// the detected capabilities.
type OptFlag uint32

const (
	// OptBatchWrites recommends coalescing frame output into one write.
	OptBatchWrites OptFlag = 1 << iota
	// OptSyncUpdates recommends synchronized-output bracketing.
	OptSyncUpdates
	// OptTrueColorDirect recommends emitting 24-bit SGR directly.
	OptTrueColorDirect
	// OptMinimalAttrs recommends avoiding attribute churn on slow links.
	OptMinimalAttrs
)

// Capabilities is the one-shot startup probe result. It is immutable after
// detection except Width and Height, which may be refreshed after a resize
// signal.
type Capabilities struct {
	IsTTY    bool
	Family   TerminalFamily
	Colors   ColorDepth
	Attrs    AttrSupport
	Features FeatureSet

	Width  int
	Height int

	// Latency is the estimated round-trip latency for this terminal family.
	Latency time.Duration

	Optimizations OptFlag
}
