package compositor

import (
	"bytes"
	"strings"
	"testing"

	"pkt.systems/termline/schema"
)

func frame(version uint64, lines ...string) schema.DisplayContent {
	dl := make([]schema.DisplayLine, len(lines))
	for i, l := range lines {
		dl[i] = schema.DisplayLine{Text: l, Width: len(l)}
	}
	return schema.DisplayContent{
		Lines:         dl,
		CursorLine:    len(lines) - 1,
		CursorCol:     len(lines[len(lines)-1]),
		CursorVisible: true,
		Version:       version,
	}
}

func TestSubmitPaintsLines(t *testing.T) {
	var out bytes.Buffer
	a := NewANSI(&out, schema.Capabilities{})
	if err := a.Submit(frame(1, "> hello")); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "> hello") {
		t.Fatalf("output %q missing line text", got)
	}
	if !strings.Contains(got, "\x1b[?25l") || !strings.Contains(got, "\x1b[?25h") {
		t.Fatal("cursor hide/show bracketing missing")
	}
}

func TestSubmitSkipsIdenticalVersion(t *testing.T) {
	var out bytes.Buffer
	a := NewANSI(&out, schema.Capabilities{})
	_ = a.Submit(frame(1, "> x"))
	n := out.Len()
	_ = a.Submit(frame(1, "> x"))
	if out.Len() != n {
		t.Fatal("identical version repainted")
	}
	_ = a.Submit(frame(2, "> x"))
	if out.Len() == n {
		t.Fatal("new version not painted")
	}
}

func TestSubmitFullRefreshClears(t *testing.T) {
	var out bytes.Buffer
	a := NewANSI(&out, schema.Capabilities{})
	_ = a.Submit(frame(1, "> abc"))
	out.Reset()
	f := frame(2, "> abc")
	f.FullRefresh = true
	_ = a.Submit(f)
	if !strings.Contains(out.String(), "\x1b[J") {
		t.Fatal("full refresh did not clear downward")
	}
}

func TestSubmitShrinkingFrameClears(t *testing.T) {
	var out bytes.Buffer
	a := NewANSI(&out, schema.Capabilities{})
	_ = a.Submit(frame(1, "> aaaa", "bbbb"))
	out.Reset()
	_ = a.Submit(frame(2, "> a"))
	if !strings.Contains(out.String(), "\x1b[J") {
		t.Fatal("shrinking frame left stale rows")
	}
}

func TestSubmitSyncBracketing(t *testing.T) {
	var out bytes.Buffer
	caps := schema.Capabilities{Optimizations: schema.OptSyncUpdates}
	a := NewANSI(&out, caps)
	_ = a.Submit(frame(1, "> x"))
	got := out.String()
	if !strings.HasPrefix(got, "\x1b[?2026h") || !strings.Contains(got, "\x1b[?2026l") {
		t.Fatalf("synchronized-output bracketing missing in %q", got)
	}
}

func TestApplyAttrsRespectsCapabilities(t *testing.T) {
	line := schema.DisplayLine{Text: "x", Attrs: schema.LineBold | schema.LineUnderline}

	caps := schema.Capabilities{Attrs: schema.AttrSupport{Bold: true, Underline: true}}
	if got := applyAttrs(line, caps); got != "\x1b[1;4mx\x1b[0m" {
		t.Fatalf("got %q", got)
	}

	// Bold only: underline is silently dropped.
	caps = schema.Capabilities{Attrs: schema.AttrSupport{Bold: true}}
	if got := applyAttrs(line, caps); got != "\x1b[1mx\x1b[0m" {
		t.Fatalf("got %q", got)
	}

	// Minimal-attribute terminals get plain text.
	caps = schema.Capabilities{
		Attrs:         schema.AttrSupport{Bold: true},
		Optimizations: schema.OptMinimalAttrs,
	}
	if got := applyAttrs(line, caps); got != "x" {
		t.Fatalf("got %q", got)
	}
}

func TestClear(t *testing.T) {
	var out bytes.Buffer
	a := NewANSI(&out, schema.Capabilities{})
	_ = a.Submit(frame(1, "> abc", "def"))
	out.Reset()
	if err := a.Clear(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\x1b[J") {
		t.Fatal("clear did not erase painted region")
	}
	// A second clear is a no-op.
	out.Reset()
	_ = a.Clear()
	if out.Len() != 0 {
		t.Fatal("second clear wrote output")
	}
}
