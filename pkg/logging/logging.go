// Package logging configures the slog logger shared by the CLI and the
// conversion pipeline, plus a rotating-file writer for long-running or
// scripted invocations that shouldn't grow an unbounded log on disk.
package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger builds a slog.Logger writing to w, either as JSON (for
// ingestion by a log pipeline) or as human-readable text, at the given
// minimum level. The returned logger also surfaces any attributes
// stashed on its context by AppendCtx.
func Logger(w io.Writer, jsonFormat bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if jsonFormat {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(&contextHandler{Handler: h})
}

type ctxKey struct{}

// contextHandler folds attributes stashed by AppendCtx into every
// record it handles, so a caller several layers removed from the
// logger can still tag its output without threading a *slog.Logger
// through every function signature.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx returns a context carrying attrs in addition to any already
// stashed on ctx, for loggers built by Logger to pick up automatically.
func AppendCtx(ctx context.Context, attrs ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		merged := make([]slog.Attr, 0, len(existing)+len(attrs))
		merged = append(merged, existing...)
		merged = append(merged, attrs...)
		return context.WithValue(ctx, ctxKey{}, merged)
	}
	return context.WithValue(ctx, ctxKey{}, attrs)
}

// RotatingFile returns a size- and age-bounded log file writer, for CLI
// runs invoked with --log-file instead of stderr.
func RotatingFile(path string, maxSizeMB, maxAgeDays, maxBackups int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxAge:     maxAgeDays,
		MaxBackups: maxBackups,
		Compress:   true,
	}
}
