package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Options describes logger construction parameters.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format selects the file handler: "text" or "json".
	Format string

	// Path is the append-mode log file. Ignored when Console is set.
	Path string

	// Console logs to Writer (stdout when nil) with the colored handler.
	Console bool

	// Writer overrides the console destination.
	Writer io.Writer
}

// New constructs a slog logger using the provided options.
//
// The returned close function releases the log file, if any.
func New(opts Options) (*slog.Logger, func() error, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))
	noop := func() error { return nil }

	if opts.Console || strings.TrimSpace(opts.Path) == "" {
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		return slog.New(newConsoleHandler(w, levelVar, shouldColorize(w))), noop, nil
	}

	file, err := openAppend(opts.Path)
	if err != nil {
		return nil, nil, err
	}

	handler, err := newFileHandler(file, opts.Format, levelVar)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return slog.New(handler), file.Close, nil
}

// WithRun tags every record with the process id and a fresh run id.
func WithRun(logger *slog.Logger) (*slog.Logger, string) {
	runID := uuid.NewString()
	return logger.With(slog.Int("pid", os.Getpid()), slog.String("run_id", runID)), runID
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func newFileHandler(w io.Writer, format string, lvl *slog.LevelVar) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}
