package log

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler is a slog handler that extracts the stacktrace recorded by
// cockroachdb/errors from an "error" attribute and re-emits it as a separate
// "stacktrace" attribute, so JSON log consumers get it as its own field.
type ErrFmtHandler struct {
	next slog.Handler
}

// WrapByErrFmtHandler wraps a standard slog handler with stacktrace
// extraction.
func WrapByErrFmtHandler(next slog.Handler) slog.Handler {
	return &ErrFmtHandler{next: next}
}

func (h *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var stacktrace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			stacktrace = extractStacktrace(err)
		}
		return false
	})
	if stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	return h.next.Handle(ctx, r)
}

func (h *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{next: h.next.WithGroup(g)}
}

func extractStacktrace(err error) string {
	details := errors.GetSafeDetails(err).SafeDetails
	if len(details) == 0 {
		return ""
	}
	return strings.TrimSpace(details[0])
}
