// Package logging sets up slog for the server and request logs.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"killick/pkg/config"
)

// RequestLogger receives one line per HTTP request. It discards until Init.
var RequestLogger = slog.New(slog.DiscardHandler)

// Init opens both log files, rotating last run's files to .old, and
// installs the server logger as slog's default. The returned func closes
// the files.
func Init(cfg *config.LogConfig) (func(), error) {
	rotatePaths(cfg.Server.Path, cfg.Requests.Path)

	serverFile, serverHandler, err := openLog(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to setup server logger: %w", err)
	}
	level := ParseLevel(cfg.Server.Level)
	slog.SetDefault(slog.New(NewMultiHandler(
		serverHandler,
		// console and /api/log only see INFO and up
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: max(level, slog.LevelInfo)}),
		slog.NewTextHandler(GlobalLogCapture, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)))

	requestFile, requestHandler, err := openLog(cfg.Requests)
	if err != nil {
		serverFile.Close()
		return nil, fmt.Errorf("failed to setup requests logger: %w", err)
	}
	RequestLogger = slog.New(requestHandler)

	return func() {
		RequestLogger = slog.New(slog.DiscardHandler)
		for _, c := range []io.Closer{requestFile, serverFile} {
			c.Close()
		}
	}, nil
}

// ParseLevel maps a config level name to a slog level. Unknown names are INFO.
// TRACE is DEBUG with Trace output switched on.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG", "TRACE":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openLog opens s.Path for appending and returns a handler writing to it.
func openLog(s config.LogSettings) (*os.File, slog.Handler, error) {
	level := ParseLevel(s.Level)
	if strings.EqualFold(strings.TrimSpace(s.Level), "TRACE") {
		SetTrace(true)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	if strings.EqualFold(s.Format, "json") {
		return file, slog.NewJSONHandler(file, opts), nil
	}
	return file, slog.NewTextHandler(file, opts), nil
}

// NewMultiHandler fans every record out to each handler that accepts its
// level. A failing handler does not stop the others.
func NewMultiHandler(handlers ...slog.Handler) slog.Handler {
	return multiHandler(handlers)
}

type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Handler takes the record by value
func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m multiHandler) each(fn func(slog.Handler) slog.Handler) multiHandler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = fn(h)
	}
	return out
}

// rotatePaths moves each existing file to <path>.old.
func rotatePaths(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		old := p + ".old"
		_ = os.Remove(old)
		_ = os.Rename(p, old)
	}
}
