package android

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"torchlive/internal/sysenv"
	"torchlive/internal/sysenv/mocks"
)

const generatedConfig = `AvdId=pytorch_live
PlayStore.enabled=true
abi.type=x86_64
hw.lcd.density=420
image.sysdir.1=system-images/android-29/google_apis/x86_64/
`

func TestApplyConfigMergesAndStamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(generatedConfig), 0o644))

	assert.False(t, ConfigUpToDate(path, "0.2.0"))

	values := DeviceConfig(DeviceSpec{ABI: "x86_64", SDKRoot: "/opt/android/sdk"})
	require.NoError(t, ApplyConfig(path, values, "0.2.0"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "AvdId=pytorch_live")
	assert.Contains(t, content, "image.sysdir.1=system-images/android-29/google_apis/x86_64/")
	assert.Contains(t, content, "PlayStore.enabled=false")
	assert.Contains(t, content, "hw.lcd.density=440")
	assert.Contains(t, content, "skin.path="+filepath.Join("/opt/android/sdk", "skins", "pixel_4"))
	assert.Contains(t, content, StampKey+"=0.2.0")
	assert.NotContains(t, content, "PlayStore.enabled=true")

	assert.True(t, ConfigUpToDate(path, "0.2.0"))
	assert.False(t, ConfigUpToDate(path, "0.3.0"))
}

func TestApplyConfigMissingFile(t *testing.T) {
	err := ApplyConfig(filepath.Join(t.TempDir(), "missing.ini"), nil, "0.2.0")
	assert.Error(t, err)
	assert.False(t, ConfigUpToDate(filepath.Join(t.TempDir(), "missing.ini"), "0.2.0"))
}

func TestDeviceConfigForARM(t *testing.T) {
	values := DeviceConfig(DeviceSpec{ABI: "arm64-v8a", Skin: "pixel_5", SDKRoot: "/sdk"})
	assert.Equal(t, "arm64-v8a", values["abi.type"])
	assert.Equal(t, "arm64", values["hw.cpu.arch"])
	assert.Equal(t, "pixel_5", values["skin.name"])
	assert.Equal(t, "256", values["vm.heapSize"])
}

func TestCreateAVD(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	spec := DeviceSpec{
		Name:        "pytorch_live",
		Device:      "pixel",
		ABI:         "x86_64",
		SystemImage: "system-images;android-29;google_apis;x86_64",
	}
	exec.EXPECT().
		Stream(gomock.Any(), gomock.Any(), "/sdk/tools/bin/avdmanager", []string{
			"create", "avd", "--name", "pytorch_live", "--device", "pixel", "--force",
			"--abi", "google_apis/x86_64", "--package", "system-images;android-29;google_apis;x86_64",
		}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ func(string), _ string, _ []string, opts sysenv.StreamOptions) error {
			answer := make([]byte, 8)
			n, _ := opts.Stdin.Read(answer)
			assert.Equal(t, "no\n", string(answer[:n]))
			return nil
		})

	require.NoError(t, CreateAVD(context.Background(), exec, nil, "/sdk/tools/bin/avdmanager", spec))
	assert.ErrorIs(t, CreateAVD(context.Background(), exec, nil, "", spec), ErrNoSDK)
}

func TestAVDExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Capture(gomock.Any(), "avdmanager", []string{"list", "avd", "-c"}).
		Return(strings.Join([]string{"Pixel_3a_API_30", "pytorch_live"}, "\n"), nil)
	assert.True(t, AVDExists(context.Background(), exec, "avdmanager", "pytorch_live"))

	exec.EXPECT().Capture(gomock.Any(), "avdmanager", []string{"list", "avd", "-c"}).
		Return("pytorch_live_old", nil)
	assert.False(t, AVDExists(context.Background(), exec, "avdmanager", "pytorch_live"))

	exec.EXPECT().Capture(gomock.Any(), "avdmanager", gomock.Any()).Return("", errors.New("boom"))
	assert.False(t, AVDExists(context.Background(), exec, "avdmanager", "pytorch_live"))
}
