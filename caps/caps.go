// Package caps probes terminal capabilities once at startup. Detection
// layers environment classification, the terminfo database, per-family
// whitelists and a geometry query into an immutable Capabilities record;
// only geometry may be refreshed afterwards. Detection never fails: each
// step falls back to conservative defaults on its own.
package caps

import (
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"pkt.systems/termline/schema"
)

// Detect runs the one-shot capability probe against the process's stdout.
func Detect() schema.Capabilities {
	return detect(int(os.Stdout.Fd()))
}

func detect(fd int) schema.Capabilities {
	c := schema.Capabilities{
		IsTTY:  term.IsTerminal(fd),
		Family: classifyFamily(),
	}
	ti := lookupTerminfo(os.Getenv("TERM"))
	c.Colors = detectColorDepth(c.Family, ti)
	c.Attrs = detectAttrs(c.Family, ti)
	c.Features = familyFeatures(c.Family)
	c.Width, c.Height = detectGeometry(fd)
	c.Latency = familyLatency(c.Family)
	c.Optimizations = deriveOptimizations(c)
	return c
}

// RefreshGeometry re-applies only the geometry step, for use after a resize
// signal. All other fields are left untouched.
func RefreshGeometry(c *schema.Capabilities) {
	if c == nil {
		return
	}
	c.Width, c.Height = detectGeometry(int(os.Stdout.Fd()))
}

// classifyFamily maps environment hints to the terminal family. Program
// specific variables outrank TERM prefixes; multiplexers outrank the
// terminal they run inside.
func classifyFamily() schema.TerminalFamily {
	termEnv := os.Getenv("TERM")
	switch {
	case os.Getenv("TMUX") != "" || strings.HasPrefix(termEnv, "tmux"):
		return schema.FamilyTmux
	case os.Getenv("STY") != "" || strings.HasPrefix(termEnv, "screen"):
		return schema.FamilyScreen
	case os.Getenv("KITTY_WINDOW_ID") != "" || strings.Contains(termEnv, "kitty"):
		return schema.FamilyKitty
	case os.Getenv("ITERM_SESSION_ID") != "" || os.Getenv("TERM_PROGRAM") == "iTerm.app":
		return schema.FamilyITerm2
	case os.Getenv("ALACRITTY_WINDOW_ID") != "" || os.Getenv("ALACRITTY_LOG") != "" || termEnv == "alacritty":
		return schema.FamilyAlacritty
	case os.Getenv("KONSOLE_VERSION") != "":
		return schema.FamilyKonsole
	case os.Getenv("GNOME_TERMINAL_SCREEN") != "" || os.Getenv("VTE_VERSION") != "":
		return schema.FamilyGNOME
	case termEnv == "linux":
		return schema.FamilyLinuxConsole
	case strings.HasPrefix(termEnv, "rxvt"):
		return schema.FamilyRxvt
	case os.Getenv("TERM_PROGRAM") == "Apple_Terminal":
		return schema.FamilyNative
	case strings.HasPrefix(termEnv, "xterm"):
		return schema.FamilyXTerm
	default:
		return schema.FamilyGeneric
	}
}

// truecolorFamilies have 24-bit color regardless of what terminfo claims.
func truecolorFamily(f schema.TerminalFamily) bool {
	switch f {
	case schema.FamilyKitty, schema.FamilyITerm2, schema.FamilyAlacritty,
		schema.FamilyKonsole, schema.FamilyGNOME:
		return true
	default:
		return false
	}
}

// strikethroughFamilies render CSI 9m; terminfo has no capability for it.
func strikethroughFamily(f schema.TerminalFamily) bool {
	switch f {
	case schema.FamilyKitty, schema.FamilyITerm2, schema.FamilyAlacritty,
		schema.FamilyKonsole, schema.FamilyGNOME:
		return true
	default:
		return false
	}
}

func familyFeatures(f schema.TerminalFamily) schema.FeatureSet {
	fs := schema.FeatureSet{Unicode: true}
	switch f {
	case schema.FamilyLinuxConsole:
		fs.Unicode = false
		return fs
	case schema.FamilyGeneric:
		return fs
	}
	fs.Mouse = true
	fs.BracketedPaste = true
	switch f {
	case schema.FamilyXTerm, schema.FamilyKonsole, schema.FamilyGNOME,
		schema.FamilyTmux, schema.FamilyITerm2, schema.FamilyAlacritty,
		schema.FamilyKitty:
		fs.FocusEvents = true
	}
	switch f {
	case schema.FamilyKitty, schema.FamilyAlacritty, schema.FamilyITerm2:
		fs.SyncOutput = true
	}
	return fs
}

func familyLatency(f schema.TerminalFamily) time.Duration {
	switch f {
	case schema.FamilyLinuxConsole, schema.FamilyAlacritty, schema.FamilyKitty:
		return 5 * time.Millisecond
	case schema.FamilyXTerm, schema.FamilyRxvt:
		return 10 * time.Millisecond
	case schema.FamilyKonsole, schema.FamilyGNOME, schema.FamilyITerm2, schema.FamilyNative:
		return 15 * time.Millisecond
	case schema.FamilyScreen, schema.FamilyTmux:
		return 20 * time.Millisecond
	default:
		return 30 * time.Millisecond
	}
}

func deriveOptimizations(c schema.Capabilities) schema.OptFlag {
	opts := schema.OptBatchWrites
	if c.Features.SyncOutput {
		opts |= schema.OptSyncUpdates
	}
	if c.Colors == schema.ColorTrue {
		opts |= schema.OptTrueColorDirect
	}
	if c.Latency >= 20*time.Millisecond {
		opts |= schema.OptMinimalAttrs
	}
	return opts
}
