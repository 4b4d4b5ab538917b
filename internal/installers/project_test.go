package installers_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"torchlive/internal/android"
	"torchlive/internal/installers"
	"torchlive/internal/sysenv"
	"torchlive/internal/task"
)

func TestCleanRunsGradleInAndroidDir(t *testing.T) {
	d, exec := newDeps(t, sysenv.Linux, "amd64")
	exec.EXPECT().Stream(gomock.Any(), gomock.Any(), "./gradlew", []string{"clean"},
		sysenv.StreamOptions{Dir: filepath.Join("app", "android")}).Return(nil)

	clean := installers.Clean(d, "app")
	assert.Equal(t, "clean Android build", clean.Description())
	require.NoError(t, clean.Run(task.NewContext(context.Background(), nil, nil, nil)))
}

func TestInitScaffoldsAndInstalls(t *testing.T) {
	d, exec := newDeps(t, sysenv.Linux, "amd64")
	gomock.InOrder(
		exec.EXPECT().Stream(gomock.Any(), gomock.Any(), "npx",
			[]string{"react-native", "init", "Demo", "--skip-install", "--template", installers.DefaultTemplate},
			sysenv.StreamOptions{Dir: "work"}).Return(nil),
		exec.EXPECT().Stream(gomock.Any(), gomock.Any(), "yarn", []string{"install"},
			sysenv.StreamOptions{Dir: filepath.Join("work", "Demo")}).Return(nil),
	)

	var updates []string
	tc := task.NewContext(context.Background(), func(s string) { updates = append(updates, s) }, nil, nil)
	initTask := installers.Init(d, "work", "Demo", installers.DefaultTemplate)
	assert.Equal(t, "project Demo", initTask.Description())
	require.NoError(t, initTask.Run(tc))
	assert.Equal(t, []string{"Init template " + installers.DefaultTemplate, "Initialized project Demo"}, updates)
}

func TestInitValidOnlyWithYarnAndNPX(t *testing.T) {
	ctx := context.Background()
	d, exec := newDeps(t, sysenv.Linux, "amd64")
	exec.EXPECT().LookPath("yarn").Return("/usr/bin/yarn", nil).Times(2)
	gomock.InOrder(
		exec.EXPECT().LookPath("npx").Return("", errors.New("not found")),
		exec.EXPECT().LookPath("npx").Return("/usr/bin/npx", nil),
	)

	initTask := installers.Init(d, "", "Demo", installers.DefaultTemplate)
	assert.False(t, initTask.IsValid(ctx))
	assert.True(t, initTask.IsValid(ctx))
}

func TestRunAndroidWithConnectedDevice(t *testing.T) {
	d, exec := newDeps(t, sysenv.Linux, "amd64")
	gomock.InOrder(
		exec.EXPECT().Capture(gomock.Any(), "adb", []string{"devices"}).
			Return("List of devices attached\nemulator-5554\tdevice", nil),
		exec.EXPECT().Stream(gomock.Any(), gomock.Any(), "yarn", []string{"android"}, sysenv.StreamOptions{Dir: "app"}).Return(nil),
	)

	run := installers.RunAndroid(d, "app", "pytorch_live")
	require.NoError(t, run.Run(task.NewContext(context.Background(), nil, nil, nil)))
}

func TestBootEmulatorWaitsForBoot(t *testing.T) {
	d, exec := newDeps(t, sysenv.Linux, "amd64")
	d.Config.Android.BootPollInterval = "1ms"
	emulator := filepath.Join(sdkRoot(d), "emulator", "emulator")
	touch(t, emulator, "")

	gomock.InOrder(
		exec.EXPECT().Capture(gomock.Any(), "adb", []string{"devices"}).Return("List of devices attached", nil),
		exec.EXPECT().Detach(gomock.Any(), gomock.Any(), emulator, []string{"-avd", "pytorch_live"}).Return(nil, nil),
		exec.EXPECT().Stream(gomock.Any(), gomock.Any(), "adb", []string{"wait-for-device"}, sysenv.StreamOptions{}).Return(nil),
		exec.EXPECT().Capture(gomock.Any(), "adb", []string{"shell", "getprop", "sys.boot_completed"}).Return("", nil),
		exec.EXPECT().Capture(gomock.Any(), "adb", []string{"shell", "getprop", "sys.boot_completed"}).Return("1", nil),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	boot := installers.BootEmulator(d, "pytorch_live")
	require.NoError(t, boot.Run(task.NewContext(ctx, nil, nil, nil)))
}

func TestBootEmulatorTimesOut(t *testing.T) {
	d, exec := newDeps(t, sysenv.Linux, "amd64")
	d.Config.Android.BootPollInterval = "1ms"
	d.Config.Android.BootTimeout = "20ms"
	emulator := filepath.Join(sdkRoot(d), "emulator", "emulator")
	touch(t, emulator, "")

	exec.EXPECT().Capture(gomock.Any(), "adb", []string{"devices"}).Return("List of devices attached", nil)
	exec.EXPECT().Detach(gomock.Any(), gomock.Any(), emulator, gomock.Any()).Return(nil, nil)
	exec.EXPECT().Stream(gomock.Any(), gomock.Any(), "adb", []string{"wait-for-device"}, gomock.Any()).Return(nil)
	exec.EXPECT().Capture(gomock.Any(), "adb", []string{"shell", "getprop", "sys.boot_completed"}).Return("0", nil).AnyTimes()

	err := installers.BootEmulator(d, "pytorch_live").Run(task.NewContext(context.Background(), nil, nil, nil))
	assert.ErrorIs(t, err, android.ErrBootTimeout)
}
