//go:generate mockgen -destination=./mocks/executor.go -package=mocks . Executor

package sysenv

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// StreamOptions tunes a streamed process.
type StreamOptions struct {
	Dir      string
	Stdin    io.Reader
	ExtraEnv map[string]string
}

// Executor runs external processes with the augmented environment.
type Executor interface {
	// LookPath resolves name against the augmented PATH.
	LookPath(name string) (string, error)
	// Capture runs a short query and returns trimmed stdout.
	Capture(ctx context.Context, name string, args []string) (string, error)
	// CaptureCombined is Capture with stderr appended to stdout.
	CaptureCombined(ctx context.Context, name string, args []string) (string, error)
	// Stream forwards stdout line by line to update and fails with the
	// buffered stderr when the process exits non-zero.
	Stream(ctx context.Context, update func(string), name string, args []string, opts StreamOptions) error
	// Detach starts a long-lived process, forwards its stdout while it runs
	// and returns without waiting for it to exit.
	Detach(ctx context.Context, update func(string), name string, args []string) (*Process, error)
}

// ExitError reports a process that failed to start or exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	if e.Code < 0 {
		msg = fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n\n" + stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Process is a detached child.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// Wait blocks until the process exits and returns its error.
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// Pid returns the child's process id.
func (p *Process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Runner is the live Executor. EnvFunc is consulted on every call.
type Runner struct {
	EnvFunc func() Env
	Logger  *slog.Logger
}

// NewRunner returns a Runner using envFunc, or the inherited environment
// when envFunc is nil.
func NewRunner(envFunc func() Env, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{EnvFunc: envFunc, Logger: logger}
}

func (r *Runner) env() Env {
	if r.EnvFunc == nil {
		return EnvFromList(os.Environ())
	}
	return r.EnvFunc()
}

// LookPath implements Executor.
func (r *Runner) LookPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}
	for _, dir := range r.env().PathList() {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}

func (r *Runner) command(ctx context.Context, env Env, name string, args []string) *exec.Cmd {
	path := name
	if !strings.ContainsRune(name, filepath.Separator) {
		if resolved, err := r.LookPath(name); err == nil {
			path = resolved
		}
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = env.Environ()
	return cmd
}

// Capture implements Executor.
func (r *Runner) Capture(ctx context.Context, name string, args []string) (string, error) {
	stdout, _, err := r.capture(ctx, name, args)
	return strings.TrimSpace(stdout), err
}

// CaptureCombined implements Executor.
func (r *Runner) CaptureCombined(ctx context.Context, name string, args []string) (string, error) {
	stdout, stderr, err := r.capture(ctx, name, args)
	combined := strings.TrimSpace(stdout)
	if s := strings.TrimSpace(stderr); s != "" {
		if combined != "" {
			combined += "\n"
		}
		combined += s
	}
	return combined, err
}

func (r *Runner) capture(ctx context.Context, name string, args []string) (string, string, error) {
	cmd := r.command(ctx, r.env(), name, args)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	err := cmd.Run()
	if err != nil {
		return stdoutBuf.String(), stderrBuf.String(), exitError(name, args, stderrBuf.String(), err)
	}
	return stdoutBuf.String(), stderrBuf.String(), nil
}

// Stream implements Executor.
func (r *Runner) Stream(ctx context.Context, update func(string), name string, args []string, opts StreamOptions) error {
	env := r.env()
	for k, v := range opts.ExtraEnv {
		env[k] = v
	}
	cmd := r.command(ctx, env, name, args)
	cmd.Dir = opts.Dir
	cmd.Stdin = opts.Stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe for %s: %w", name, err)
	}
	var stderrBuf lockedBuffer
	cmd.Stderr = io.MultiWriter(&stderrBuf, logWriter{logger: r.Logger, command: name})

	r.Logger.Info("spawn", "command", commandLine(name, args), "dir", opts.Dir)
	if err := cmd.Start(); err != nil {
		return exitError(name, args, "", err)
	}

	forwardLines(stdout, r.Logger, update)

	if err := cmd.Wait(); err != nil {
		return exitError(name, args, stderrBuf.String(), err)
	}
	return nil
}

// Detach implements Executor.
func (r *Runner) Detach(ctx context.Context, update func(string), name string, args []string) (*Process, error) {
	cmd := r.command(ctx, r.env(), name, args)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", name, err)
	}
	var stderrBuf lockedBuffer
	cmd.Stderr = &stderrBuf

	r.Logger.Info("spawn detached", "command", commandLine(name, args))
	if err := cmd.Start(); err != nil {
		return nil, exitError(name, args, "", err)
	}

	proc := &Process{cmd: cmd, done: make(chan struct{})}
	go func() {
		forwardLines(stdout, r.Logger, update)
		if err := cmd.Wait(); err != nil {
			proc.err = exitError(name, args, stderrBuf.String(), err)
			r.Logger.Error("detached process exited", "command", name, "err", proc.err)
		}
		close(proc.done)
	}()
	return proc, nil
}

func forwardLines(r io.Reader, logger *slog.Logger, update func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		// With an update callback the caller logs the line itself.
		if update != nil {
			logger.Debug(line)
			update(line)
			continue
		}
		logger.Info(line)
	}
}

func exitError(name string, args []string, stderr string, err error) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ExitError{Command: commandLine(name, args), Code: code, Stderr: stderr, Err: err}
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	return info.Mode()&fs.FileMode(0o111) != 0
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type logWriter struct {
	logger  *slog.Logger
	command string
}

func (w logWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" {
		w.logger.Info(msg, "command", w.command, "stream", "stderr")
	}
	return len(p), nil
}

var _ Executor = (*Runner)(nil)
