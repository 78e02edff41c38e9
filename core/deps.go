package core

import (
	"pkt.systems/pslog"

	"pkt.systems/termline/schema"
)

// Client receives generated frames and performs all actual terminal
// output. The core never emits escape sequences itself. Clear erases the
// painted region before the session hands the terminal back.
type Client interface {
	Submit(content schema.DisplayContent) error
	Clear() error
}

// History is line-recall storage browsed with Prev/Next. Append records a
// submitted line and resets the browse position; Reset leaves browsing
// without recording.
type History interface {
	Append(entry string) bool
	Prev() (string, bool)
	Next() (string, bool)
	Reset()
	Entries() []string
}

// SessionDeps captures optional collaborators for an editing session.
type SessionDeps struct {
	Client  Client
	History History
	Logger  pslog.Logger
}
