package installers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"torchlive/internal/android"
	"torchlive/internal/paths"
	"torchlive/internal/sysenv"
	"torchlive/internal/task"
	"torchlive/internal/toolchain"
)

const (
	studioLink      = "https://developer.android.com/studio"
	sdkLicenseLink  = "https://developer.android.com/studio/terms"
	repositoriesCfg = "### User Sources for Android SDK Manager"
)

// AndroidSDK bootstraps the SDK from Google's command-line tools archive.
type AndroidSDK struct{ *Deps }

func (AndroidSDK) Description() string { return "Android SDK" }

func (a AndroidSDK) IsValid(context.Context) bool { return a.macOSOrLinux() }

// IsInstalled accepts either the cmdline-tools bootstrap or the legacy
// tools package it installs.
func (a AndroidSDK) IsInstalled(context.Context) bool {
	return a.SDK.CmdlineToolsInstalled() || a.SDK.SDKManagerPath() != ""
}

func (a AndroidSDK) MitigateOnError() string {
	return task.InstallerMitigation(a.Description(), studioLink)
}

func (a AndroidSDK) Run(tc *task.Context) error {
	root, err := a.SDK.DefaultRoot()
	if err != nil {
		return err
	}
	url := a.Config.Android.CmdlineToolsURLFor(string(a.Platform))
	if url == "" {
		return fmt.Errorf("command-line tools for %s: %w", a.Platform, sysenv.ErrUnsupportedPlatform)
	}

	tc.Update("Installing cmdline-tools")
	a.logger().Info("downloading command-line tools", "url", url)
	dir, err := a.Downloader.DownloadCommandLineTools(tc.Context(), url, a.tempDir())
	if err != nil {
		return fmt.Errorf("download command-line tools: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	manager := filepath.Join(dir, "cmdline-tools", "bin", "sdkmanager")
	err = a.stream(tc, manager, []string{"--sdk_root=" + root, "tools"}, sysenv.StreamOptions{Stdin: sysenv.Yes()})
	if err != nil {
		return err
	}
	tc.Updatef("Installed %s", a.Description())
	return nil
}

// AndroidSDKManager accepts the SDK licenses and installs the packages a
// project build needs.
type AndroidSDKManager struct{ *Deps }

func (AndroidSDKManager) Description() string { return "Android SDK Manager" }

func (a AndroidSDKManager) IsValid(context.Context) bool { return a.macOSOrLinux() }

func (a AndroidSDKManager) packages() []string {
	return toolchain.RequiredPackages(a.Config.Android.Platform, a.systemImage())
}

func (a AndroidSDKManager) IsInstalled(ctx context.Context) bool {
	root := a.SDK.Root()
	if root == "" {
		return false
	}
	for _, dir := range []string{"tools", "platform-tools", "emulator"} {
		if ok, _ := paths.DirExists(filepath.Join(root, dir)); !ok {
			return false
		}
	}
	installed, err := android.InstalledPackages(ctx, a.Exec, a.SDK)
	if err != nil {
		return false
	}
	have := make(map[string]bool, len(installed))
	for _, p := range installed {
		have[p.Path] = true
	}
	for _, want := range a.packages() {
		if !have[want] {
			return false
		}
	}
	return true
}

func (a AndroidSDKManager) MitigateOnError() string {
	return task.InstallerMitigation(a.Description(), studioLink)
}

func (a AndroidSDKManager) Run(tc *task.Context) error {
	root := a.SDK.Root()
	manager := a.SDK.SDKManagerPath()
	if root == "" || manager == "" {
		return android.ErrNoSDK
	}

	tc.Update("Setting up ~/.android/repositories.cfg")
	if err := os.MkdirAll(filepath.Dir(a.Paths.RepositoriesCfg), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(a.Paths.RepositoriesCfg), err)
	}
	if err := os.WriteFile(a.Paths.RepositoriesCfg, []byte(repositoriesCfg), 0o644); err != nil {
		return fmt.Errorf("write repositories.cfg: %w", err)
	}

	if err := task.RequireConsent(tc, "Android SDK", sdkLicenseLink); err != nil {
		return err
	}
	tc.Update("Accepting licenses")
	if err := a.stream(tc, manager, []string{"--licenses"}, sysenv.StreamOptions{Stdin: sysenv.Yes()}); err != nil {
		return fmt.Errorf("accept sdk licenses: %w", err)
	}

	platform := "platforms;" + a.Config.Android.Platform
	for _, group := range [][]string{{"platform-tools", "emulator"}, {platform}, {a.systemImage()}} {
		tc.Updatef("Installing %s", strings.Join(group, " and "))
		args := append([]string{"--sdk_root=" + root}, group...)
		if err := a.stream(tc, manager, args, sysenv.StreamOptions{Stdin: sysenv.Yes()}); err != nil {
			return err
		}
	}
	return nil
}

// AndroidEmulatorSkins copies device frames into <sdk>/skins. It is only
// valid when a skins source can be found.
type AndroidEmulatorSkins struct{ *Deps }

func (AndroidEmulatorSkins) Description() string { return "Android Emulator Skins" }

func (a AndroidEmulatorSkins) IsValid(context.Context) bool {
	if !a.macOSOrLinux() {
		return false
	}
	_, err := a.source()
	return err == nil
}

func (a AndroidEmulatorSkins) IsInstalled(context.Context) bool {
	dir, err := a.SDK.SkinsPath()
	if err != nil {
		return false
	}
	return len(android.MissingSkins(dir, a.Config.Android.Skins, exists)) == 0
}

func (a AndroidEmulatorSkins) MitigateOnError() string {
	return fmt.Sprintf(`Set android.skins_source in %s to a directory or archive containing the %s skins, then run 'torchlive setup-dev' again.`,
		a.Paths.ConfigFile, strings.Join(a.Config.Android.Skins, ", "))
}

// source picks the configured skins source or the first Android Studio
// install found.
func (a AndroidEmulatorSkins) source() (string, error) {
	if src := a.Config.Android.SkinsSource; src != "" {
		return a.Paths.Expand(src), nil
	}
	for _, candidate := range android.SkinSources(a.Platform, a.Paths.Home) {
		if exists(candidate) {
			return candidate, nil
		}
	}
	return "", errors.New("no emulator skins source found")
}

func (a AndroidEmulatorSkins) Run(tc *task.Context) error {
	dir, err := a.SDK.SkinsPath()
	if err != nil {
		return err
	}
	missing := android.MissingSkins(dir, a.Config.Android.Skins, exists)
	src, err := a.source()
	if err != nil {
		return err
	}
	tc.Updatef("Copying %s from %s", strings.Join(missing, ", "), src)
	return android.InstallSkins(tc.Context(), src, dir, missing)
}

// AndroidEmulator creates the torchlive AVD and rewrites its hardware
// config. A config stamped by an older release is rewritten in place.
type AndroidEmulator struct{ *Deps }

func (AndroidEmulator) Description() string { return "Android Emulator" }

func (a AndroidEmulator) IsValid(context.Context) bool { return a.macOSOrLinux() }

func (a AndroidEmulator) name() string { return a.Config.Android.AVDName }

func (a AndroidEmulator) IsInstalled(ctx context.Context) bool {
	if !android.AVDExists(ctx, a.Exec, a.SDK.AVDManagerPath(), a.name()) {
		return false
	}
	return android.ConfigUpToDate(a.Paths.AVDConfig(a.name()), a.Stamp)
}

func (a AndroidEmulator) MitigateOnError() string {
	return task.InstallerMitigation(a.Description(), "https://developer.android.com/studio/run/managing-avds")
}

func (a AndroidEmulator) spec() android.DeviceSpec {
	skin := ""
	if len(a.Config.Android.Skins) > 0 {
		skin = a.Config.Android.Skins[0]
	}
	return android.DeviceSpec{
		Name:        a.name(),
		Device:      a.Config.Android.Device,
		SystemImage: a.systemImage(),
		ABI:         a.abi(),
		Skin:        skin,
		SDKRoot:     a.SDK.Root(),
	}
}

func (a AndroidEmulator) Run(tc *task.Context) error {
	ctx := tc.Context()
	avdmanager := a.SDK.AVDManagerPath()
	spec := a.spec()

	tc.Updatef("Setting up %s", a.Description())
	if !android.AVDExists(ctx, a.Exec, avdmanager, spec.Name) {
		if err := android.CreateAVD(ctx, a.Exec, tc.UpdateFunc(), avdmanager, spec); err != nil {
			return err
		}
	}
	tc.Updatef("Writing %s", a.Paths.AVDConfig(spec.Name))
	return android.ApplyConfig(a.Paths.AVDConfig(spec.Name), android.DeviceConfig(spec), a.Stamp)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
