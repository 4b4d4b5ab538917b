// Package installers implements the setup tasks torchlive runs.
package installers

import (
	"io"
	"log/slog"
	"os"

	"torchlive/internal/android"
	"torchlive/internal/config"
	"torchlive/internal/paths"
	"torchlive/internal/sysenv"
	"torchlive/internal/task"
	"torchlive/internal/toolchain"
)

// ValueCocoaPodsInstaller is the run value that presets the CocoaPods
// installer choice ("gem" or "homebrew").
const ValueCocoaPodsInstaller = "cocoapods.installer"

// Deps carries what every installer needs. Build one per CLI invocation.
type Deps struct {
	Tools      *toolchain.Toolchain
	Exec       sysenv.Executor
	SDK        *android.SDK
	Sudo       *sysenv.Sudo
	Downloader *android.Downloader
	Paths      paths.UserPaths
	Config     config.Config
	Platform   sysenv.Platform
	// GOARCH selects the emulator ABI.
	GOARCH string
	// Stamp marks config files torchlive writes; a new release rewrites
	// them.
	Stamp string
	// TempDir defaults to os.TempDir().
	TempDir string
	Logger  *slog.Logger
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}

func (d *Deps) tempDir() string {
	if d.TempDir != "" {
		return d.TempDir
	}
	return os.TempDir()
}

func (d *Deps) abi() string {
	return android.EmulatorABI(string(d.Platform), d.GOARCH)
}

func (d *Deps) systemImage() string {
	return d.Config.Android.SystemImageFor(d.abi())
}

func (d *Deps) macOS() bool { return d.Platform == sysenv.MacOS }

func (d *Deps) macOSOrLinux() bool {
	return d.Platform == sysenv.MacOS || d.Platform == sysenv.Linux
}

// stream runs name with the task's update callback.
func (d *Deps) stream(tc *task.Context, name string, args []string, opts sysenv.StreamOptions) error {
	return d.Exec.Stream(tc.Context(), tc.UpdateFunc(), name, args, opts)
}

func (d *Deps) brewInstall(tc *task.Context, args ...string) error {
	return d.stream(tc, "brew", append([]string{"install"}, args...), sysenv.StreamOptions{})
}
