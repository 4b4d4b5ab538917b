package android

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/mholt/archives"

	"torchlive/internal/sysenv"
)

// SkinSources lists where Android Studio keeps its device frames.
func SkinSources(platform sysenv.Platform, home string) []string {
	const rel = "plugins/android/resources/device-art-resources"
	switch platform {
	case sysenv.MacOS:
		return []string{"/Applications/Android Studio.app/Contents/" + rel}
	case sysenv.Linux:
		return []string{
			"/opt/android-studio/" + rel,
			filepath.Join(home, "android-studio", filepath.FromSlash(rel)),
		}
	default:
		return nil
	}
}

// MissingSkins returns the skins without a directory under skinsDir.
func MissingSkins(skinsDir string, skins []string, exists func(string) bool) []string {
	var missing []string
	for _, skin := range skins {
		if !exists(filepath.Join(skinsDir, skin)) {
			missing = append(missing, skin)
		}
	}
	return missing
}

// InstallSkins copies each named skin from source, a directory or an
// archive, into skinsDir.
func InstallSkins(ctx context.Context, source, skinsDir string, skins []string) error {
	fsys, err := archives.FileSystem(ctx, source, nil)
	if err != nil {
		return fmt.Errorf("open skins source %s: %w", source, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	for _, skin := range skins {
		if _, err := fs.Stat(fsys, skin); err != nil {
			return fmt.Errorf("skin %s not found in %s: %w", skin, source, err)
		}
		if err := CopyFS(fsys, skin, filepath.Join(skinsDir, skin)); err != nil {
			return fmt.Errorf("copy skin %s: %w", skin, err)
		}
	}
	return nil
}
