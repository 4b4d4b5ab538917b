// Package android locates the Android SDK and drives its command-line tools.
package android

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"torchlive/internal/sysenv"
)

// ErrNoSDK is returned when an operation needs an SDK and none is installed.
var ErrNoSDK = errors.New("android sdk not found")

// SDK resolves SDK locations for one user and platform. Nothing is cached;
// every call inspects the filesystem again so a fresh install is picked up.
type SDK struct {
	Home     string
	Platform sysenv.Platform
	// Exists defaults to os.Stat.
	Exists func(path string) bool
}

// NewSDK returns an SDK locator rooted at the user's home directory.
func NewSDK(home string, platform sysenv.Platform) *SDK {
	return &SDK{Home: home, Platform: platform}
}

func (s *SDK) exists(path string) bool {
	if s.Exists != nil {
		return s.Exists(path)
	}
	_, err := os.Stat(path)
	return err == nil
}

// SearchPaths lists candidate SDK roots in priority order.
func (s *SDK) SearchPaths() []string {
	switch s.Platform {
	case sysenv.MacOS:
		return []string{
			filepath.Join(s.Home, "Library", "Android", "sdk"),
			"/Library/Android/sdk",
			"/opt/android/sdk",
		}
	case sysenv.Linux:
		return []string{filepath.Join(s.Home, "Android", "Sdk")}
	default:
		return nil
	}
}

// DefaultRoot is where a new SDK gets installed.
func (s *SDK) DefaultRoot() (string, error) {
	paths := s.SearchPaths()
	if len(paths) == 0 {
		return "", fmt.Errorf("android sdk on %s: %w", s.Platform, sysenv.ErrUnsupportedPlatform)
	}
	return paths[0], nil
}

// Root returns the first existing SDK root, or "".
func (s *SDK) Root() string {
	for _, p := range s.SearchPaths() {
		if s.exists(p) {
			return p
		}
	}
	return ""
}

func (s *SDK) tool(rel ...string) string {
	root := s.Root()
	if root == "" {
		return ""
	}
	path := filepath.Join(append([]string{root}, rel...)...)
	if !s.exists(path) {
		return ""
	}
	return path
}

// SDKManagerPath returns tools/bin/sdkmanager, or "".
func (s *SDK) SDKManagerPath() string { return s.tool("tools", "bin", "sdkmanager") }

// AVDManagerPath returns tools/bin/avdmanager, or "".
func (s *SDK) AVDManagerPath() string { return s.tool("tools", "bin", "avdmanager") }

// EmulatorPath returns emulator/emulator, or "".
func (s *SDK) EmulatorPath() string { return s.tool("emulator", "emulator") }

// ADBPath returns platform-tools/adb, or "".
func (s *SDK) ADBPath() string { return s.tool("platform-tools", "adb") }

// CmdlineToolsInstalled reports whether cmdline-tools/bin/sdkmanager exists.
func (s *SDK) CmdlineToolsInstalled() bool {
	return s.tool("cmdline-tools", "bin", "sdkmanager") != ""
}

// SkinsPath returns <sdk>/skins.
func (s *SDK) SkinsPath() (string, error) {
	root := s.Root()
	if root == "" {
		return "", ErrNoSDK
	}
	return filepath.Join(root, "skins"), nil
}

// EmulatorABI returns the system image ABI the host can run.
func EmulatorABI(goos, goarch string) string {
	if goos == "darwin" && goarch == "arm64" {
		return "arm64-v8a"
	}
	return "x86_64"
}
