package logx

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// FileName is the active log file inside the logs directory.
	FileName = "torchlive.log"

	DefaultMaxSize  int64 = 10 << 20
	DefaultMaxFiles       = 5
)

// RotatingFile appends to a log file and shifts it to numbered backups once a
// write would push it past MaxSize. At most MaxFiles files exist on disk,
// counting the active one.
type RotatingFile struct {
	path     string
	maxSize  int64
	maxFiles int

	mu   sync.Mutex
	file *os.File
	size int64
}

// OpenRotating opens (or creates) path for appending.
func OpenRotating(path string, maxSize int64, maxFiles int) (*RotatingFile, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure logs directory: %w", err)
	}
	r := &RotatingFile{path: path, maxSize: maxSize, maxFiles: maxFiles}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RotatingFile) open() error {
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	r.file = file
	r.size = info.Size()
	return nil
}

// Path returns the active log file.
func (r *RotatingFile) Path() string { return r.path }

// Write appends p, rotating first when needed. Failures are dropped: logging
// must never fail the operation being logged.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		r.rotate()
	}
	if r.file == nil {
		if err := r.open(); err != nil {
			return len(p), nil
		}
	}
	n, _ := r.file.Write(p)
	r.size += int64(n)
	return len(p), nil
}

// rotate closes the active file and renames torchlive.log.N-1 to .N down to
// .1. The oldest backup is removed.
func (r *RotatingFile) rotate() {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}
	oldest := r.backup(r.maxFiles - 1)
	_ = os.Remove(oldest)
	for i := r.maxFiles - 2; i >= 1; i-- {
		_ = os.Rename(r.backup(i), r.backup(i+1))
	}
	if r.maxFiles > 1 {
		_ = os.Rename(r.path, r.backup(1))
	} else {
		_ = os.Remove(r.path)
	}
	r.size = 0
}

func (r *RotatingFile) backup(n int) string {
	return fmt.Sprintf("%s.%d", r.path, n)
}

// Close closes the active file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
