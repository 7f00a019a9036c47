package shutdown

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignals returns a context that is cancelled on SIGINT or
// SIGTERM. The returned cancel must be called to release the signal
// registration.
func WithSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
