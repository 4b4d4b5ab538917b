// Package toolchain defines the developer tools torchlive inspects and
// installs.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"torchlive/internal/android"
	"torchlive/internal/command"
	"torchlive/internal/sysenv"
)

var (
	brewVersion     = regexp.MustCompile(`Homebrew\s+([\d.]+)`)
	javacVersion    = regexp.MustCompile(`(?:javac|version)\s"?([\d._]+)"?`)
	toolVersionWord = regexp.MustCompile(`version\s([\d.]+)`)
)

// Toolchain holds one Command per tool. Build a new one per CLI invocation;
// each Command caches its own version.
type Toolchain struct {
	Exec     sysenv.Executor
	SDK      *android.SDK
	Platform sysenv.Platform

	Brew        *command.Command
	Python      *command.Command
	Watchman    *command.Command
	Node        *command.Command
	Yarn        *command.Command
	NPX         *command.Command
	Javac       *command.Command
	SDKManager  *command.Command
	AVDManager  *command.Command
	Emulator    *command.Command
	ADB         *command.Command
	CocoaPods   *command.Command
	ReactNative *command.Command
}

// New builds the catalogue on top of exec.
func New(exec sysenv.Executor, sdk *android.SDK, platform sysenv.Platform, logger *slog.Logger) *Toolchain {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &Toolchain{Exec: exec, SDK: sdk, Platform: platform}
	base := func(opts command.Options) command.Options {
		opts.Platform = platform
		opts.Logger = logger
		return opts
	}

	t.Brew = command.New("brew", exec, base(command.Options{VersionPattern: brewVersion}))
	t.Python = command.New("python3", exec, base(command.Options{}))
	t.Watchman = command.New("watchman", exec, base(command.Options{}))
	t.Node = command.New("node", exec, base(command.Options{}))
	t.Yarn = command.New("yarn", exec, base(command.Options{}))
	t.NPX = command.New("npx", exec, base(command.Options{}))
	t.CocoaPods = command.New("pod", exec, base(command.Options{}))
	t.ReactNative = command.New("react-native", exec, base(command.Options{Versionless: true}))

	t.Javac = command.New("javac", exec, base(command.Options{
		VersionArgs:    []string{"-version"},
		VersionPattern: javacVersion,
		PathFunc:       t.javacPath,
		Executors: map[sysenv.Platform]command.ExecFunc{
			sysenv.MacOS: combinedExec,
			sysenv.Linux: combinedExec,
		},
	}))

	sdkTool := func(name string, path func() string, opts command.Options) *command.Command {
		opts.PathFunc = func(context.Context) string { return path() }
		opts.Executors = map[sysenv.Platform]command.ExecFunc{
			sysenv.MacOS: pathExec,
			sysenv.Linux: pathExec,
		}
		return command.New(name, exec, base(opts))
	}
	t.SDKManager = sdkTool("sdkmanager", sdk.SDKManagerPath, command.Options{})
	t.AVDManager = sdkTool("avdmanager", sdk.AVDManagerPath, command.Options{Versionless: true})
	t.Emulator = sdkTool("emulator", sdk.EmulatorPath, command.Options{
		VersionArgs:    []string{"-version"},
		VersionPattern: toolVersionWord,
	})
	t.ADB = command.New("adb", exec, base(command.Options{
		VersionPattern: toolVersionWord,
		PathFunc:       t.adbPath,
	}))
	return t
}

// combinedExec reads both streams; javac reports its version on stderr.
func combinedExec(ctx context.Context, c *command.Command, args []string) (string, error) {
	return c.Executor().CaptureCombined(ctx, c.Name(), args)
}

// pathExec runs the command through its resolved path rather than PATH.
func pathExec(ctx context.Context, c *command.Command, args []string) (string, error) {
	path := c.Path(ctx)
	if path == "" {
		return "", fmt.Errorf("%s: %w", c.Name(), android.ErrNoSDK)
	}
	return c.Executor().Capture(ctx, path, args)
}

// javacPath prefers Homebrew's openjdk@8 on macOS, where /usr/bin/javac is
// a stub that exists without any JDK.
func (t *Toolchain) javacPath(ctx context.Context) string {
	if t.Platform == sysenv.MacOS {
		if !t.Brew.IsInstalled(ctx) {
			return ""
		}
		prefix, err := t.Exec.Capture(ctx, "brew", []string{"--prefix", "openjdk@8"})
		if err != nil {
			return ""
		}
		prefix = strings.TrimSpace(prefix)
		if prefix == "" || !fileExists(prefix) {
			return ""
		}
		return prefix
	}
	path, err := t.Exec.LookPath("javac")
	if err != nil {
		return ""
	}
	return path
}

func (t *Toolchain) adbPath(context.Context) string {
	if path, err := t.Exec.LookPath("adb"); err == nil {
		return path
	}
	return t.SDK.ADBPath()
}

// Environment returns the EnvFunc the process runner uses.
func Environment(home string, platform sysenv.Platform, sdk *android.SDK) func() sysenv.Env {
	return func() sysenv.Env {
		return sysenv.BuildEnvironment(sysenv.EnvOptions{
			Home:    home,
			JDKHome: func() string { return JDKHome(platform, os.Getenv("JAVA_HOME"), nil) },
			SDKRoot: sdk.Root,
		})
	}
}
