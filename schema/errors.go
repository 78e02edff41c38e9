package schema

import "errors"

var (
	// ErrInvalidParameter indicates an argument outside its contract.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrOutOfRange indicates a position outside the valid buffer range.
	ErrOutOfRange = errors.New("position out of range")
	// ErrMalformedEncoding indicates invalid UTF-8 where valid text is required.
	ErrMalformedEncoding = errors.New("malformed utf-8")
	// ErrInvalidInputEvent indicates an event that failed processor validation.
	ErrInvalidInputEvent = errors.New("invalid input event")
	// ErrNotATerminal indicates the descriptor is not a tty.
	ErrNotATerminal = errors.New("not a terminal")
	// ErrInterfaceActive indicates a terminal interface is already registered
	// for this process; signal routing allows exactly one.
	ErrInterfaceActive = errors.New("terminal interface already active")
	// ErrInterfaceClosed indicates use of a closed terminal interface.
	ErrInterfaceClosed = errors.New("terminal interface closed")
	// ErrRestoreFailed indicates terminal attribute restoration failed while
	// recovering from a terminal error; the session is unrecoverable.
	ErrRestoreFailed = errors.New("terminal restore failed")
	// ErrArenaDestroyed indicates allocation from a destroyed arena.
	ErrArenaDestroyed = errors.New("arena destroyed")
	// ErrEventExpired indicates an event was used after its storage was
	// recycled by a subsequent read.
	ErrEventExpired = errors.New("event storage recycled")
)

// ErrorCode places a failure in a numeric band; severity derives from the
// band (see Severity).
type ErrorCode int

const (
	CodeNone ErrorCode = 0

	// Validation band.
	CodeInvalidParameter  ErrorCode = 1001
	CodeNilReference      ErrorCode = 1002
	CodeOutOfRange        ErrorCode = 1003
	CodeMalformedEncoding ErrorCode = 1004
	CodeInvalidInputEvent ErrorCode = 1005

	// Memory band.
	CodeAllocFailed    ErrorCode = 2001
	CodeArenaExhausted ErrorCode = 2002

	// System band.
	CodeSyscall    ErrorCode = 3001
	CodeIOError    ErrorCode = 3002
	CodeTimeout    ErrorCode = 3003
	CodePermission ErrorCode = 3004

	// Terminal band.
	CodeTerminal      ErrorCode = 4001
	CodeRawMode       ErrorCode = 4002
	CodeRestoreFailed ErrorCode = 4003

	// Input-parsing band.
	CodeInputParse ErrorCode = 5001
)

// Severity classifies reporting urgency.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

var severityNames = [...]string{
	SeverityDebug:    "debug",
	SeverityInfo:     "info",
	SeverityWarning:  "warning",
	SeverityError:    "error",
	SeverityCritical: "critical",
}

func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "error"
}

// Severity maps a code to its band severity. An un-restorable terminal is a
// hard failure for the whole interactive session, so the restore double
// fault reports critical.
func (c ErrorCode) Severity() Severity {
	switch {
	case c == CodeNone:
		return SeverityDebug
	case c == CodeRestoreFailed:
		return SeverityCritical
	case c >= 1000 && c < 2000:
		return SeverityWarning
	case c >= 2000 && c < 3000:
		return SeverityCritical
	case c >= 3000 && c < 4000:
		return SeverityError
	case c >= 4000 && c < 6000:
		return SeverityError
	default:
		return SeverityError
	}
}
