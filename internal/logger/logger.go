package logger

import (
	"context"
	"io"
	"log/slog"
)

// Options control the default logger.
type Options struct {
	Debug bool
	JSON  bool
}

// Init builds the logger writing to w and makes it the slog default.
func Init(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: opts.Debug,
	}

	var h slog.Handler = slog.NewTextHandler(w, handlerOpts)
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	}

	lg := slog.New(Handler{Handler: h})
	slog.SetDefault(lg)
	return lg
}

type sessionIDKey struct{}

// ContextWithSessionID returns a new context with the given session ID.
func ContextWithSessionID(parent context.Context, id string) context.Context {
	return context.WithValue(parent, sessionIDKey{}, id)
}

// SessionIDFromContext returns session id from context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey{}).(string)
	return v, ok
}

// Handler adds the session id found in the record context.
type Handler struct {
	slog.Handler
}

// Handle implements slog.Handler interface.
func (h Handler) Handle(ctx context.Context, rec slog.Record) error {
	if id, ok := SessionIDFromContext(ctx); ok {
		rec.AddAttrs(slog.String("session_id", id))
	}
	return h.Handler.Handle(ctx, rec)
}

// WithGroup returns a new Handler with the given group.
func (h Handler) WithGroup(group string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(group)}
}

// WithAttrs returns a new Handler with the given attributes.
func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}
