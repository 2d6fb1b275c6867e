package autemlog

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	zkrlog "github.com/zircuit-labs/zkr-go-common/log"
)

// adapter exposes a *slog.Logger as a go-ethereum log.Logger.
type adapter struct {
	inner *slog.Logger
}

// NewAdapter wraps sl.
func NewAdapter(sl *slog.Logger) log.Logger {
	return &adapter{inner: sl}
}

// errorAttrs rewrites every error value stored under an err* key into a
// zkrlog.ErrAttr so the handler can print its details.
func errorAttrs(ctx []any) []any {
	if len(ctx) < 2 {
		return ctx
	}
	out := make([]any, 0, len(ctx))
	for len(ctx) > 0 {
		if len(ctx) == 1 {
			out = append(out, ctx[0])
			break
		}
		key, value := ctx[0], ctx[1]
		ctx = ctx[2:]
		if name, ok := key.(string); ok && strings.HasPrefix(strings.ToLower(name), "err") {
			if err, ok := value.(error); ok && err != nil {
				out = append(out, zkrlog.ErrAttr(err))
				continue
			}
		}
		out = append(out, key, value)
	}
	return out
}

func (a *adapter) With(ctx ...any) log.Logger {
	return &adapter{inner: a.inner.With(ctx...)}
}

// New is an alias of With.
func (a *adapter) New(ctx ...any) log.Logger {
	return a.With(ctx...)
}

func (a *adapter) Log(level slog.Level, msg string, ctx ...any) {
	a.Write(level, msg, ctx...)
}

func (a *adapter) Trace(msg string, ctx ...any) {
	a.Write(log.LevelTrace, msg, ctx...)
}

func (a *adapter) Debug(msg string, ctx ...any) {
	a.Write(slog.LevelDebug, msg, ctx...)
}

func (a *adapter) Info(msg string, ctx ...any) {
	a.Write(slog.LevelInfo, msg, ctx...)
}

func (a *adapter) Warn(msg string, ctx ...any) {
	a.Write(slog.LevelWarn, msg, ctx...)
}

func (a *adapter) Error(msg string, ctx ...any) {
	a.Write(slog.LevelError, msg, ctx...)
}

// Crit logs at log.LevelCrit and exits the process.
func (a *adapter) Crit(msg string, ctx ...any) {
	a.Write(log.LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (a *adapter) Write(level slog.Level, msg string, attrs ...any) {
	if !a.inner.Enabled(context.Background(), level) {
		return
	}
	a.inner.Log(context.Background(), level, msg, errorAttrs(attrs)...)
}

func (a *adapter) Enabled(ctx context.Context, level slog.Level) bool {
	return a.inner.Enabled(ctx, level)
}

func (a *adapter) Handler() slog.Handler {
	return a.inner.Handler()
}
