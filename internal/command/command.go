package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"

	"github.com/hashicorp/go-version"

	"torchlive/internal/sysenv"
)

// ExecFunc runs a command's binary with args for one platform.
type ExecFunc func(ctx context.Context, c *Command, args []string) (string, error)

// Options customise how a Command is located, executed and versioned.
type Options struct {
	// Versionless tools never report a version.
	Versionless bool
	// VersionArgs defaults to --version.
	VersionArgs []string
	// VersionPattern extracts the version from the first capture group.
	VersionPattern *regexp.Regexp
	// ParseVersion defaults to the package level ParseVersion.
	ParseVersion func(raw string) (*version.Version, error)
	// VersionFunc replaces the execute, extract, parse pipeline entirely.
	VersionFunc func(ctx context.Context, c *Command) (*version.Version, error)
	// PathFunc replaces PATH lookup. It returns "" when the tool is absent.
	PathFunc func(ctx context.Context) string
	// Executors overrides execution per platform. Platforms missing from a
	// non-nil map are unsupported.
	Executors map[sysenv.Platform]ExecFunc
	// Platform defaults to sysenv.Current().
	Platform sysenv.Platform
	Logger   *slog.Logger
}

// Command is an external developer tool.
type Command struct {
	name string
	exec sysenv.Executor
	opts Options

	mu       sync.Mutex
	resolved bool
	version  *version.Version
}

// New builds a Command for the tool called name.
func New(name string, exec sysenv.Executor, opts Options) *Command {
	if len(opts.VersionArgs) == 0 {
		opts.VersionArgs = []string{"--version"}
	}
	if opts.ParseVersion == nil {
		opts.ParseVersion = ParseVersion
	}
	if opts.Platform == "" {
		opts.Platform = sysenv.Current()
	}
	if opts.Executors == nil {
		opts.Executors = map[sysenv.Platform]ExecFunc{
			sysenv.MacOS: captureExec,
			sysenv.Linux: captureExec,
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Command{name: name, exec: exec, opts: opts}
}

func captureExec(ctx context.Context, c *Command, args []string) (string, error) {
	return c.exec.Capture(ctx, c.name, args)
}

// Name returns the tool's identifier.
func (c *Command) Name() string { return c.name }

// Versionless reports whether the tool has no meaningful version.
func (c *Command) Versionless() bool { return c.opts.Versionless }

// Executor returns the executor the command runs through.
func (c *Command) Executor() sysenv.Executor { return c.exec }

// Path returns the tool's absolute path or "" when it cannot be found.
func (c *Command) Path(ctx context.Context) string {
	if c.opts.PathFunc != nil {
		return c.opts.PathFunc(ctx)
	}
	path, err := c.exec.LookPath(c.name)
	if err != nil {
		return ""
	}
	return path
}

// IsInstalled reports whether Path resolves.
func (c *Command) IsInstalled(ctx context.Context) bool {
	return c.Path(ctx) != ""
}

// Execute runs the tool with args using the strategy for the configured
// platform.
func (c *Command) Execute(ctx context.Context, args ...string) (string, error) {
	fn, ok := c.opts.Executors[c.opts.Platform]
	if !ok || fn == nil {
		return "", fmt.Errorf("execute %s on %s: %w", c.name, c.opts.Platform, sysenv.ErrUnsupportedPlatform)
	}
	return fn(ctx, c, args)
}

// Version returns the tool's version, resolving it on first use and caching
// it for the lifetime of the Command. Nil means unknown.
func (c *Command) Version(ctx context.Context) *version.Version {
	if c.opts.Versionless {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.resolved {
		c.version = c.resolveVersion(ctx)
		c.resolved = true
	}
	return c.version
}

// FreshVersion discards the cached version and resolves it again.
func (c *Command) FreshVersion(ctx context.Context) *version.Version {
	c.mu.Lock()
	c.resolved = false
	c.version = nil
	c.mu.Unlock()
	return c.Version(ctx)
}

// ParseVersion parses raw with the command's parser.
func (c *Command) ParseVersion(raw string) (*version.Version, error) {
	return c.opts.ParseVersion(raw)
}

func (c *Command) resolveVersion(ctx context.Context) *version.Version {
	if c.opts.VersionFunc != nil {
		v, err := c.opts.VersionFunc(ctx, c)
		if err != nil {
			c.opts.Logger.Debug("version lookup failed", "command", c.name, "err", err)
			return nil
		}
		return v
	}

	out, err := c.Execute(ctx, c.opts.VersionArgs...)
	if err != nil {
		c.opts.Logger.Debug("version lookup failed", "command", c.name, "err", err)
		return nil
	}
	v, err := c.opts.ParseVersion(Extract(out, c.opts.VersionPattern))
	if err != nil {
		c.opts.Logger.Debug("version unparseable", "command", c.name, "output", out, "err", err)
		return nil
	}
	return v
}

// FormatVersion renders v for display, "unknown" when nil.
func FormatVersion(v *version.Version) string {
	if v == nil {
		return "unknown"
	}
	return v.Original()
}
