package android

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torchlive/internal/sysenv"
)

func TestSkinSources(t *testing.T) {
	mac := SkinSources(sysenv.MacOS, "/Users/ada")
	require.Len(t, mac, 1)
	assert.Contains(t, mac[0], "Android Studio.app")

	linux := SkinSources(sysenv.Linux, "/home/ada")
	assert.Equal(t, "/home/ada/android-studio/plugins/android/resources/device-art-resources", linux[1])

	assert.Nil(t, SkinSources(sysenv.Windows, "C:/"))
}

func TestInstallSkinsFromDirectory(t *testing.T) {
	source := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "pixel_4"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "pixel_4", "layout"), []byte("parts {}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(source, "nexus_5"), 0o755))

	dest := filepath.Join(t.TempDir(), "skins")
	assert.Equal(t, []string{"pixel_4"}, MissingSkins(dest, []string{"pixel_4"}, fileExists))

	require.NoError(t, InstallSkins(context.Background(), source, dest, []string{"pixel_4"}))

	data, err := os.ReadFile(filepath.Join(dest, "pixel_4", "layout"))
	require.NoError(t, err)
	assert.Equal(t, "parts {}", string(data))
	assert.NoDirExists(t, filepath.Join(dest, "nexus_5"))
	assert.Empty(t, MissingSkins(dest, []string{"pixel_4"}, fileExists))
}

func TestInstallSkinsMissingSkin(t *testing.T) {
	err := InstallSkins(context.Background(), t.TempDir(), t.TempDir(), []string{"pixel_4"})
	assert.ErrorContains(t, err, "skin pixel_4 not found")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
