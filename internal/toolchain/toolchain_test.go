package toolchain

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"torchlive/internal/android"
	"torchlive/internal/command"
	"torchlive/internal/sysenv"
	"torchlive/internal/sysenv/mocks"
)

func newLinuxToolchain(t *testing.T, sdkFiles ...string) (*Toolchain, *mocks.MockExecutor) {
	t.Helper()
	exec := mocks.NewMockExecutor(gomock.NewController(t))
	sdk := android.NewSDK("/home/dev", sysenv.Linux)
	set := map[string]bool{}
	for _, f := range sdkFiles {
		set[f] = true
	}
	sdk.Exists = func(p string) bool { return set[p] }
	return New(exec, sdk, sysenv.Linux, nil), exec
}

func TestBrewVersionPattern(t *testing.T) {
	tc, exec := newLinuxToolchain(t)
	exec.EXPECT().Capture(gomock.Any(), "brew", []string{"--version"}).
		Return("Homebrew 3.2.0\nHomebrew/homebrew-core (git revision 1a2b; last commit 2021-06-20)", nil)
	assert.Equal(t, "3.2.0", command.FormatVersion(tc.Brew.Version(context.Background())))
}

func TestJavacVersionFromStderr(t *testing.T) {
	tests := []struct {
		name, output, want string
	}{
		{"javac", "javac 1.8.0_282", "1.8.0-282"},
		{"java style", `openjdk version "1.8.0_292"`, "1.8.0-292"},
		{"modern", "javac 17.0.1", "17.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, exec := newLinuxToolchain(t)
			exec.EXPECT().CaptureCombined(gomock.Any(), "javac", []string{"-version"}).Return(tt.output, nil)
			v := tc.Javac.Version(context.Background())
			require.NotNil(t, v)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestJavacMinimumBoundary(t *testing.T) {
	tc, exec := newLinuxToolchain(t)
	exec.EXPECT().CaptureCombined(gomock.Any(), "javac", []string{"-version"}).Return("javac 1.8.0_282", nil)
	v := tc.Javac.Version(context.Background())
	require.NotNil(t, v)
	assert.False(t, v.LessThan(command.MustParse("1.8.0_282")))
}

func TestSDKToolsRunThroughResolvedPath(t *testing.T) {
	root := filepath.Join("/home/dev", "Android", "Sdk")
	manager := filepath.Join(root, "tools", "bin", "sdkmanager")
	emulator := filepath.Join(root, "emulator", "emulator")
	tc, exec := newLinuxToolchain(t, root, manager, emulator)

	exec.EXPECT().Capture(gomock.Any(), manager, []string{"--version"}).Return("26.1.1", nil)
	exec.EXPECT().Capture(gomock.Any(), emulator, []string{"-version"}).
		Return("Android emulator version 30.5.6.0 (build_id 7378286) (CL:N/A)", nil)

	ctx := context.Background()
	assert.True(t, tc.SDKManager.IsInstalled(ctx))
	assert.Equal(t, "26.1.1", command.FormatVersion(tc.SDKManager.Version(ctx)))
	assert.Equal(t, "30.5.6.0", command.FormatVersion(tc.Emulator.Version(ctx)))
	assert.False(t, tc.AVDManager.IsInstalled(ctx))
	assert.Nil(t, tc.AVDManager.Version(ctx))
}

func TestSDKToolMissing(t *testing.T) {
	tc, _ := newLinuxToolchain(t)
	_, err := tc.SDKManager.Execute(context.Background(), "--list")
	assert.ErrorIs(t, err, android.ErrNoSDK)
	assert.Nil(t, tc.SDKManager.Version(context.Background()))
}

func TestADBFallsBackToSDK(t *testing.T) {
	root := filepath.Join("/home/dev", "Android", "Sdk")
	adb := filepath.Join(root, "platform-tools", "adb")
	tc, exec := newLinuxToolchain(t, root, adb)
	exec.EXPECT().LookPath("adb").Return("", errors.New("not found"))
	assert.Equal(t, adb, tc.ADB.Path(context.Background()))
}

func TestJDKHome(t *testing.T) {
	present := map[string]bool{
		filepath.Join("/custom/jdk", "bin", "javac"):              true,
		filepath.Join("/usr/local/opt/openjdk@8", "bin", "javac"): true,
	}
	exists := func(p string) bool { return present[p] }

	assert.Equal(t, "/custom/jdk", JDKHome(sysenv.MacOS, "/custom/jdk", exists))
	assert.Equal(t, "/usr/local/opt/openjdk@8", JDKHome(sysenv.MacOS, "/broken", exists))
	assert.Equal(t, "/usr/local/opt/openjdk@8", JDKHome(sysenv.MacOS, "", exists))
	assert.Empty(t, JDKHome(sysenv.Linux, "", exists))
	assert.Empty(t, JDKHome(sysenv.Windows, "", exists))
}
