// Package autemlog provides the loggers of the Autem services. They write
// through the root go-ethereum handler, so they follow the configured output
// format, and log errors with their stack traces.
package autemlog

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/log"
	zkrlog "github.com/zircuit-labs/zkr-go-common/log"
)

// New returns a logger tagged autem=true on top of the root handler.
func New() log.Logger {
	handler := zkrlog.NewLoggableErrorHandler(log.Root().Handler())
	return NewAdapter(slog.New(handler).With("autem", true))
}

// NewWith returns a New logger with extra context, typically a component name.
func NewWith(ctx ...any) log.Logger {
	return New().With(ctx...)
}
