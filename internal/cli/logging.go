package cli

import (
	"io"
	"log/slog"
	"os"
)

// enableDebugLogging configures the global slog logger to emit debug logs to stderr.
//
// It is a no-op unless the user passes --debug, so library and test consumers
// keep the default logger.
func enableDebugLogging() {
	enableDebugLoggingTo(os.Stderr)
}

func enableDebugLoggingTo(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
