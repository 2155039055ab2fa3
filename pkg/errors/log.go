package errors

import (
	"log/slog"
	"os"
)

// LogHandler is a Handler that writes errors through a structured logger.
type LogHandler struct {
	// Verbose enables stack traces in the output.
	Verbose bool
	// Logger receives the records. Nil means a text logger on stderr.
	Logger *slog.Logger
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// HandleError logs a SwitchError.
func (h *LogHandler) HandleError(err *SwitchError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String(), "error", err.Err}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("switcher error", attrs...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"value", err.Value}
	if err.Op != "" {
		attrs = append(attrs, "op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("switcher panic", attrs...)
}

// DiscardLogger returns a logger that drops every record. Components use
// it when no logger is configured.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
