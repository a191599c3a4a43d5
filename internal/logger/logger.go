// Package logger routes structured game logs to a file and keeps the most
// recent lines in memory for the on-screen event feed.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/game.txt"

// DefaultKeep is how many recent lines Lines returns by default.
const DefaultKeep = 64

// Logger is an io.Writer that appends to a file and remembers the last lines
// written. It is safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	lines   []string
	keep    int
	partial []byte
	file    *os.File
}

// New opens path for appending, creating its directory. An empty path keeps
// lines in memory only. keep <= 0 uses DefaultKeep.
func New(path string, keep int) (*Logger, error) {
	if keep <= 0 {
		keep = DefaultKeep
	}
	l := &Logger{keep: keep}
	if path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return l, nil
}

// Write implements io.Writer. Complete lines are kept for Lines; a trailing
// partial line waits for the rest.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.partial = append(l.partial, p...)
	for {
		i := bytes.IndexByte(l.partial, '\n')
		if i < 0 {
			break
		}
		l.lines = append(l.lines, string(l.partial[:i]))
		l.partial = l.partial[i+1:]
	}
	if over := len(l.lines) - l.keep; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
	if l.file != nil {
		if _, err := l.file.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Lines returns a copy of the most recent complete lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Tail returns at most n of the most recent lines.
func (l *Logger) Tail(n int) []string {
	lines := l.Lines()
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Slog returns a text slog.Logger writing to w, tagged with a fresh session id.
func Slog(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(slog.String("session", uuid.NewString()))
}

// ParseLevel maps "debug", "info", "warn" or "error" to a level; anything
// else is info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
