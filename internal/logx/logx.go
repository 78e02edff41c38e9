package logx

import (
	"context"

	"pkt.systems/pslog"
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithComponent annotates the context logger with a component name.
func WithComponent(ctx context.Context, component string) pslog.Logger {
	log := pslog.Ctx(ctx)
	if component != "" {
		log = log.With("component", component)
	}
	return log
}
