// Package diag provides error contexts and fan-out reporting. A Context
// captures where a failure happened; a Reporter hands it to every attached
// sink whose minimum severity admits it. Severity derives from the error
// code's numeric band and is raised by the critical-path flag.
package diag

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/termline/schema"
)

// Flag annotates a context beyond its code.
type Flag uint8

const (
	// FlagCriticalPath marks failures on the interactive hot path; severity
	// is raised to at least error.
	FlagCriticalPath Flag = 1 << iota
)

// Context is one reportable failure.
type Context struct {
	Code      schema.ErrorCode
	Message   string
	Function  string
	File      string
	Line      int
	Component string
	Flags     Flag
	Time      time.Time
}

// New builds a context, capturing the caller's function, file and line.
func New(code schema.ErrorCode, component, message string, flags ...Flag) Context {
	c := Context{
		Code:      code,
		Message:   message,
		Component: component,
		Time:      time.Now(),
	}
	for _, f := range flags {
		c.Flags |= f
	}
	if pc, file, line, ok := runtime.Caller(1); ok {
		c.File = file
		c.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			c.Function = fn.Name()
		}
	}
	return c
}

// Severity is the context's effective severity.
func (c Context) Severity() schema.Severity {
	sev := c.Code.Severity()
	if c.Flags&FlagCriticalPath != 0 && sev < schema.SeverityError {
		sev = schema.SeverityError
	}
	return sev
}

// Sink receives contexts at or above its minimum severity.
type Sink interface {
	Min() schema.Severity
	Emit(Context)
}

// Reporter fans contexts out to attached sinks.
type Reporter struct {
	mu    sync.Mutex
	sinks []Sink
}

// Attach registers a sink.
func (r *Reporter) Attach(s Sink) {
	if r == nil || s == nil {
		return
	}
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

// Report delivers the context to every sink admitting its severity.
func (r *Reporter) Report(c Context) {
	if r == nil {
		return
	}
	sev := c.Severity()
	r.mu.Lock()
	sinks := make([]Sink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.Unlock()
	for _, s := range sinks {
		if sev >= s.Min() {
			s.Emit(c)
		}
	}
}

// LogSink reports through a pslog logger.
type LogSink struct {
	Logger      pslog.Logger
	MinSeverity schema.Severity
}

func (s LogSink) Min() schema.Severity { return s.MinSeverity }

func (s LogSink) Emit(c Context) {
	if s.Logger == nil {
		return
	}
	log := s.Logger.With(
		"code", int(c.Code),
		"component", c.Component,
		"function", c.Function,
		"line", c.Line,
	)
	switch c.Severity() {
	case schema.SeverityDebug:
		log.Debug(c.Message)
	case schema.SeverityInfo:
		log.Info(c.Message)
	case schema.SeverityWarning:
		log.Warn(c.Message)
	default:
		log.Error(c.Message)
	}
}

// WriterSink reports one line per context to a writer.
type WriterSink struct {
	W           io.Writer
	MinSeverity schema.Severity
}

func (s WriterSink) Min() schema.Severity { return s.MinSeverity }

func (s WriterSink) Emit(c Context) {
	if s.W == nil {
		return
	}
	fmt.Fprintf(s.W, "%s [%s] %s code=%d %s:%d\n",
		c.Time.Format(time.RFC3339), c.Severity(), c.Message, int(c.Code), c.File, c.Line)
}

// CallbackSink forwards contexts to a function.
type CallbackSink struct {
	Fn          func(Context)
	MinSeverity schema.Severity
}

func (s CallbackSink) Min() schema.Severity { return s.MinSeverity }

func (s CallbackSink) Emit(c Context) {
	if s.Fn != nil {
		s.Fn(c)
	}
}
