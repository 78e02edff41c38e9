package caps

import (
	"testing"
	"time"

	"pkt.systems/termline/schema"
)

func clearTerminalEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TERM", "TERM_PROGRAM", "COLORTERM", "TMUX", "STY",
		"KITTY_WINDOW_ID", "ITERM_SESSION_ID", "ALACRITTY_WINDOW_ID",
		"ALACRITTY_LOG", "KONSOLE_VERSION", "GNOME_TERMINAL_SCREEN",
		"VTE_VERSION", "COLUMNS", "LINES",
	} {
		t.Setenv(key, "")
	}
}

func TestClassifyFamily(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want schema.TerminalFamily
	}{
		{"xterm", map[string]string{"TERM": "xterm-256color"}, schema.FamilyXTerm},
		{"tmux wins over inner term", map[string]string{"TERM": "screen-256color", "TMUX": "/tmp/tmux-1000/default,1,0"}, schema.FamilyTmux},
		{"screen", map[string]string{"TERM": "screen"}, schema.FamilyScreen},
		{"kitty", map[string]string{"TERM": "xterm-kitty", "KITTY_WINDOW_ID": "1"}, schema.FamilyKitty},
		{"iterm2", map[string]string{"TERM": "xterm-256color", "TERM_PROGRAM": "iTerm.app"}, schema.FamilyITerm2},
		{"alacritty", map[string]string{"TERM": "alacritty"}, schema.FamilyAlacritty},
		{"konsole", map[string]string{"TERM": "xterm-256color", "KONSOLE_VERSION": "230800"}, schema.FamilyKonsole},
		{"linux console", map[string]string{"TERM": "linux"}, schema.FamilyLinuxConsole},
		{"rxvt", map[string]string{"TERM": "rxvt-unicode-256color"}, schema.FamilyRxvt},
		{"apple terminal", map[string]string{"TERM": "nsterm", "TERM_PROGRAM": "Apple_Terminal"}, schema.FamilyNative},
		{"unknown", map[string]string{"TERM": "dumb"}, schema.FamilyGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearTerminalEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if got := classifyFamily(); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestColortermForcesTruecolor(t *testing.T) {
	clearTerminalEnv(t)
	t.Setenv("COLORTERM", "truecolor")
	if got := detectColorDepth(schema.FamilyGeneric, nil); got != schema.ColorTrue {
		t.Fatalf("COLORTERM=truecolor should yield truecolor, got %s", got)
	}
}

func TestTruecolorFamilyWhitelist(t *testing.T) {
	clearTerminalEnv(t)
	if got := detectColorDepth(schema.FamilyKitty, nil); got != schema.ColorTrue {
		t.Fatalf("kitty should be truecolor without terminfo, got %s", got)
	}
	if got := detectColorDepth(schema.FamilyGeneric, nil); got == schema.ColorTrue {
		t.Fatalf("generic terminal must not default to truecolor")
	}
}

func TestStrikethroughNeverFromTerminfo(t *testing.T) {
	attrs := detectAttrs(schema.FamilyKitty, nil)
	if !attrs.Strikethrough {
		t.Fatalf("kitty should report strikethrough support")
	}
	attrs = detectAttrs(schema.FamilyLinuxConsole, nil)
	if attrs.Strikethrough {
		t.Fatalf("linux console must not report strikethrough")
	}
}

func TestClampGeometry(t *testing.T) {
	if w, h := clampGeometry(19, 40); w != 80 || h != 24 {
		t.Fatalf("narrow terminal should clamp to 80x24, got %dx%d", w, h)
	}
	if w, h := clampGeometry(120, 4); w != 80 || h != 24 {
		t.Fatalf("short terminal should clamp to 80x24, got %dx%d", w, h)
	}
	if w, h := clampGeometry(120, 40); w != 120 || h != 40 {
		t.Fatalf("valid geometry should pass through, got %dx%d", w, h)
	}
	if w, h := clampGeometry(0, 0); w != 80 || h != 24 {
		t.Fatalf("missing geometry should fall back to 80x24, got %dx%d", w, h)
	}
}

func TestLatencyRange(t *testing.T) {
	for f := schema.FamilyGeneric; f <= schema.FamilyKitty; f++ {
		lat := familyLatency(f)
		if lat < 5*time.Millisecond || lat > 30*time.Millisecond {
			t.Fatalf("family %s latency %v outside 5-30ms", f, lat)
		}
	}
}

func TestOptimizationDerivation(t *testing.T) {
	c := schema.Capabilities{
		Colors:   schema.ColorTrue,
		Features: schema.FeatureSet{SyncOutput: true},
		Latency:  25 * time.Millisecond,
	}
	opts := deriveOptimizations(c)
	for _, want := range []schema.OptFlag{
		schema.OptBatchWrites, schema.OptSyncUpdates,
		schema.OptTrueColorDirect, schema.OptMinimalAttrs,
	} {
		if opts&want == 0 {
			t.Fatalf("missing optimization flag %b in %b", want, opts)
		}
	}
}
