package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/rpggio/spacelease/internal/config"
)

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level := parseLogLevel(cfg.Level)
	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	case "color":
		return slog.New(tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.TimeOnly}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// The log file is cut back to its newest keepLogSizeBytes once it grows past
// maxLogSizeBytes.
const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	w := &logFileWriter{file: file}
	if err := w.truncateIfNeeded(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return w, nil
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, w.truncateIfNeeded()
}

func (w *logFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	tail := make([]byte, keepLogSizeBytes)
	n, err := w.file.ReadAt(tail, size-keepLogSizeBytes)
	if err != nil && err != io.EOF {
		return err
	}
	if err := w.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end after truncation.
	_, err = w.file.Write(tail[:n])
	return err
}
