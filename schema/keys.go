package schema

// Key identifies a special key recognized by the escape-sequence parser or
// the control-byte mapping.
type Key int

const (
	// KeyNone marks the absence of a special key.
	KeyNone Key = iota
	// KeyUnknown is the sentinel for keys without a dedicated code; the raw
	// keycode accompanies it (control-letter combinations arrive this way).
	KeyUnknown
	KeyEnter
	KeyTab
	KeyShiftTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
)

var keyNames = [...]string{
	KeyNone:      "none",
	KeyUnknown:   "unknown",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyShiftTab:  "shift-tab",
	KeyBackspace: "backspace",
	KeyEscape:    "escape",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
}

func (k Key) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// Modifier is a bitmask of key modifiers.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
)
