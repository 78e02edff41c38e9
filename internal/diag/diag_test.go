package diag

import (
	"testing"

	"pkt.systems/termline/schema"
)

func TestReportRespectsMinimumSeverity(t *testing.T) {
	var got []Context
	var r Reporter
	r.Attach(CallbackSink{
		Fn:          func(c Context) { got = append(got, c) },
		MinSeverity: schema.SeverityError,
	})

	r.Report(New(schema.CodeInvalidParameter, "core", "bad position"))
	if len(got) != 0 {
		t.Fatalf("warning-band context should not pass an error-threshold sink")
	}

	r.Report(New(schema.CodeSyscall, "tty", "poll failed"))
	if len(got) != 1 {
		t.Fatalf("expected 1 delivered context, got %d", len(got))
	}
	if got[0].Function == "" || got[0].Line == 0 {
		t.Fatalf("caller info not captured: %+v", got[0])
	}
}

func TestCriticalPathRaisesSeverity(t *testing.T) {
	c := New(schema.CodeInvalidParameter, "input", "bad event", FlagCriticalPath)
	if c.Severity() != schema.SeverityError {
		t.Fatalf("critical-path flag should raise severity to error, got %s", c.Severity())
	}
}

func TestRestoreFailureIsCritical(t *testing.T) {
	c := New(schema.CodeRestoreFailed, "tty", "double fault")
	if c.Severity() != schema.SeverityCritical {
		t.Fatalf("restore double fault must report critical, got %s", c.Severity())
	}
}

func TestFanOut(t *testing.T) {
	var a, b int
	var r Reporter
	r.Attach(CallbackSink{Fn: func(Context) { a++ }, MinSeverity: schema.SeverityDebug})
	r.Attach(CallbackSink{Fn: func(Context) { b++ }, MinSeverity: schema.SeverityDebug})
	r.Report(New(schema.CodeTimeout, "tty", "wait elapsed"))
	if a != 1 || b != 1 {
		t.Fatalf("expected both sinks to fire once, got %d and %d", a, b)
	}
}
