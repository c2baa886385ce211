// Package logger configures the application's structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// New returns a slog.Logger writing text records to stdout and, when the
// logs directory can be created, to logs/service.log as well. In prod the
// level is raised to Info; elsewhere Debug records are kept.
func New(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == "prod" {
		level = slog.LevelInfo
	}

	out := io.Writer(os.Stdout)
	if err := os.MkdirAll("logs", 0o755); err == nil {
		f, err := os.OpenFile(filepath.Join("logs", "service.log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			out = io.MultiWriter(os.Stdout, f)
		}
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
