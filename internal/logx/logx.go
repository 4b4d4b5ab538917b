// Package logx writes the torchlive log file. Every subsystem logs through
// its own slog.Logger that tags lines with the subsystem name.
package logx

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Options tune the sink.
type Options struct {
	// MaxSize is the rotation threshold in bytes.
	MaxSize  int64
	MaxFiles int
	// Level defaults to info.
	Level slog.Leveler
	// Echo, when set, also receives every record at debug level in
	// slog's text format. The CLI points it at stderr for --verbose.
	Echo io.Writer
}

// Sink is the process-wide log destination.
type Sink struct {
	mu     *sync.Mutex
	out    io.Writer
	closer io.Closer
	path   string
	level  slog.Leveler
	echo   slog.Handler
}

// Open creates the logs directory and the rotating log file inside it. When
// that fails the returned sink discards file output and the error says why;
// the sink is usable either way.
func Open(dir string, opts Options) (*Sink, error) {
	path := filepath.Join(dir, FileName)
	file, err := OpenRotating(path, opts.MaxSize, opts.MaxFiles)
	if err != nil {
		s := NewSink(io.Discard, opts)
		return s, err
	}
	s := NewSink(file, opts)
	s.closer = file
	s.path = path
	return s, nil
}

// NewSink logs to w.
func NewSink(w io.Writer, opts Options) *Sink {
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	s := &Sink{mu: &sync.Mutex{}, out: w, level: level}
	if opts.Echo != nil {
		s.echo = slog.NewTextHandler(opts.Echo, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return s
}

// Discard returns a sink that drops everything.
func Discard() *Sink {
	return NewSink(io.Discard, Options{})
}

// Logger returns a logger whose lines carry subsystem.
func (s *Sink) Logger(subsystem string) *slog.Logger {
	h := newLineHandler(s.out, s.level, subsystem)
	h.mu = s.mu
	if s.echo == nil {
		return slog.New(h)
	}
	return slog.New(fanout{h, s.echo.WithAttrs([]slog.Attr{slog.String("subsystem", subsystem)})})
}

// Path returns the active log file, or "" for a discarding sink.
func (s *Sink) Path() string { return s.path }

// Close releases the log file.
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ReadAll returns the contents of the log file at path. A missing file reads
// as empty.
func ReadAll(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read log file: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
