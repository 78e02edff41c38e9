package caps

import (
	"os"

	"github.com/gdamore/tcell/v2/terminfo"
	_ "github.com/gdamore/tcell/v2/terminfo/base"
	"github.com/gdamore/tcell/v2/terminfo/dynamic"

	"pkt.systems/termline/schema"
)

// lookupTerminfo resolves the terminfo entry for the TERM name, first from
// the compiled-in database, then from the system database via infocmp. A
// nil return means attribute and color detection fall back to defaults.
func lookupTerminfo(name string) *terminfo.Terminfo {
	if name == "" {
		return nil
	}
	if ti, err := terminfo.LookupTerminfo(name); err == nil {
		return ti
	}
	if ti, _, err := dynamic.LoadTerminfo(name); err == nil {
		return ti
	}
	return nil
}

func detectColorDepth(family schema.TerminalFamily, ti *terminfo.Terminfo) schema.ColorDepth {
	depth := schema.Color16
	if ti != nil {
		switch {
		case ti.TrueColor || ti.Colors >= 1<<24:
			depth = schema.ColorTrue
		case ti.Colors >= 256:
			depth = schema.Color256
		case ti.Colors >= 8:
			depth = schema.Color16
		default:
			depth = schema.ColorNone
		}
	}
	if depth != schema.ColorTrue {
		colorterm := os.Getenv("COLORTERM")
		if colorterm == "truecolor" || colorterm == "24bit" || truecolorFamily(family) {
			depth = schema.ColorTrue
		}
	}
	return depth
}

func detectAttrs(family schema.TerminalFamily, ti *terminfo.Terminfo) schema.AttrSupport {
	attrs := schema.AttrSupport{
		// ANSI baseline when terminfo is unavailable.
		Bold:      true,
		Underline: true,
		Reverse:   true,
	}
	if ti != nil {
		attrs.Bold = ti.Bold != ""
		attrs.Italic = ti.Italic != ""
		attrs.Underline = ti.Underline != ""
		attrs.Reverse = ti.Reverse != ""
		attrs.Dim = ti.Dim != ""
	}
	attrs.Strikethrough = strikethroughFamily(family)
	return attrs
}
