// Package logging provides structured logging setup for threadline.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the default slog logger on stdout.
// Dev mode uses human-readable text; prod uses JSON.
func Setup(devMode bool) {
	SetupWriter(os.Stdout, devMode)
}

// SetupWriter initializes the default slog logger on w.
func SetupWriter(w io.Writer, devMode bool) {
	var handler slog.Handler
	if devMode {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	slog.SetDefault(slog.New(handler))
}
