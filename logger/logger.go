package logger

import (
	"context"
	"log/slog"
	"os"
	"unicode/utf8"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Setup installs the default slog logger. Verbose switches to debug level.
func Setup(verbose bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(NewRequestHandler(slog.NewTextHandler(os.Stdout, opts))))
}

// RequestHandler adds the request id carried by the context to every record.
type RequestHandler struct {
	slog.Handler
}

func NewRequestHandler(h slog.Handler) *RequestHandler {
	return &RequestHandler{Handler: h}
}

func (h *RequestHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *RequestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RequestHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *RequestHandler) WithGroup(name string) slog.Handler {
	return &RequestHandler{Handler: h.Handler.WithGroup(name)}
}

// WithRequestID returns a context carrying id for log enrichment.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id set by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Truncate shortens s to at most maxLen bytes, appending "..." when cut.
// The cut never splits a multi-byte rune.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := max(maxLen, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
