package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// setupLogging installs the default logger writing to w, which is stderr
// so that diagnostics never mix with command output. TBX_ENV=prod selects
// JSON lines for wrappers that collect logs.
func setupLogging(w io.Writer, env, levelStr string) {
	slog.SetDefault(slog.New(newLogHandler(w, env, parseLevel(levelStr))))
}

func newLogHandler(w io.Writer, env string, level slog.Level) slog.Handler {
	if env == "prod" || env == "production" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	// Timestamps are printed at debug level only.
	opts := &tint.Options{
		Level:      level,
		NoColor:    !isTerminal(w),
		TimeFormat: "15:04:05.000",
	}
	if level > slog.LevelDebug {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
	}
	return tint.NewHandler(w, opts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseLevel maps --log-level to a slog level. Anything unrecognized,
// including "", is warn.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
