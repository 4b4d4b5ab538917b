package installers

import (
	"context"
	"path/filepath"

	"torchlive/internal/android"
	"torchlive/internal/sysenv"
	"torchlive/internal/task"
)

const (
	DefaultProjectName = "MyTorchliveProject"
	DefaultTemplate    = "react-native-template-pytorch-live"
)

// Clean runs the Gradle clean task of the project in dir.
func Clean(d *Deps, dir string) task.Task {
	return task.Func{
		Name: "clean Android build",
		Action: func(tc *task.Context) error {
			return d.stream(tc, "./gradlew", []string{"clean"}, sysenv.StreamOptions{Dir: filepath.Join(dir, "android")})
		},
	}
}

// Init scaffolds a project from template and installs its dependencies.
func Init(d *Deps, dir, name, template string) task.Task {
	desc := "project " + name
	return task.Func{
		Name: desc,
		Valid: func(ctx context.Context) bool {
			return d.Tools.Yarn.IsInstalled(ctx) && d.Tools.NPX.IsInstalled(ctx)
		},
		Action: func(tc *task.Context) error {
			tc.Updatef("Init template %s", template)
			args := []string{"react-native", "init", name, "--skip-install", "--template", template}
			if err := d.stream(tc, "npx", args, sysenv.StreamOptions{Dir: dir}); err != nil {
				return err
			}
			if err := d.stream(tc, "yarn", []string{"install"}, sysenv.StreamOptions{Dir: filepath.Join(dir, name)}); err != nil {
				return err
			}
			tc.Updatef("Initialized %s", desc)
			return nil
		},
	}
}

// BootEmulator starts the named AVD unless a device is already connected and
// waits until it has booted.
func BootEmulator(d *Deps, name string) task.Task {
	return task.Func{
		Name:   "Android emulator " + name,
		Action: func(tc *task.Context) error { return bootDevice(d, tc, name) },
	}
}

// RunAndroid boots a device when needed and deploys the project in dir.
func RunAndroid(d *Deps, dir, name string) task.Task {
	return task.Func{
		Name: "run Android app",
		Action: func(tc *task.Context) error {
			if err := bootDevice(d, tc, name); err != nil {
				return err
			}
			return d.stream(tc, "yarn", []string{"android"}, sysenv.StreamOptions{Dir: dir})
		},
	}
}

func bootDevice(d *Deps, tc *task.Context, name string) error {
	ctx := tc.Context()
	if android.DeviceConnected(ctx, d.Exec) {
		tc.Update("Device connected")
		return nil
	}
	tc.Updatef("Booting %s", name)
	// The emulator outlives this command; its output only goes to the log.
	if _, err := android.BootEmulator(context.WithoutCancel(ctx), d.Exec, nil, d.SDK.EmulatorPath(), name); err != nil {
		return err
	}
	if err := android.WaitForDevice(ctx, d.Exec, tc.UpdateFunc()); err != nil {
		return err
	}
	tc.Update("Waiting for boot to complete")
	return android.WaitForBoot(ctx, d.Exec, android.BootOptions{
		Interval: d.Config.Android.BootPollDuration(),
		Timeout:  d.Config.Android.BootTimeoutDuration(),
	})
}
