package android

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"torchlive/internal/sysenv"
)

// StampKey records which torchlive release last wrote an AVD config.
const StampKey = "torchlive.version"

func init() {
	// The emulator writes config.ini as key=value without padding.
	ini.PrettyFormat = false
}

// DeviceSpec describes the virtual device torchlive creates.
type DeviceSpec struct {
	Name        string
	Device      string
	SystemImage string
	ABI         string
	Skin        string
	SDKRoot     string
}

// CreateAVD runs `avdmanager create avd`, answering "no" to the custom
// hardware profile question.
func CreateAVD(ctx context.Context, exec sysenv.Executor, update func(string), avdmanager string, spec DeviceSpec) error {
	if avdmanager == "" {
		return ErrNoSDK
	}
	args := []string{
		"create", "avd",
		"--name", spec.Name,
		"--device", spec.Device,
		"--force",
		"--abi", "google_apis/" + spec.ABI,
		"--package", spec.SystemImage,
	}
	if err := exec.Stream(ctx, update, avdmanager, args, sysenv.StreamOptions{Stdin: sysenv.Answer("no")}); err != nil {
		return fmt.Errorf("create avd %s: %w", spec.Name, err)
	}
	return nil
}

// AVDExists reports whether `avdmanager list avd -c` names the device.
func AVDExists(ctx context.Context, exec sysenv.Executor, avdmanager, name string) bool {
	if avdmanager == "" {
		return false
	}
	out, err := exec.Capture(ctx, avdmanager, []string{"list", "avd", "-c"})
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}

// DeviceConfig returns the hardware settings written over the generated
// config.ini.
func DeviceConfig(spec DeviceSpec) map[string]string {
	skin := spec.Skin
	if skin == "" {
		skin = "pixel_4"
	}
	return map[string]string{
		"PlayStore.enabled":                "false",
		"abi.type":                         spec.ABI,
		"avd.ini.encoding":                 "UTF-8",
		"disk.dataPartition.size":          "16G",
		"fastboot.chosenSnapshotFile":      "",
		"fastboot.forceChosenSnapshotBoot": "no",
		"fastboot.forceColdBoot":           "no",
		"fastboot.forceFastBoot":           "yes",
		"hw.accelerometer":                 "yes",
		"hw.arc":                           "false",
		"hw.audioInput":                    "yes",
		"hw.battery":                       "yes",
		"hw.camera.back":                   "webcam0",
		"hw.camera.front":                  "webcam0",
		"hw.cpu.arch":                      cpuArch(spec.ABI),
		"hw.dPad":                          "no",
		"hw.device.hash2":                  "MD5:6b5943207fe196d842659d2e43022e20",
		"hw.device.manufacturer":           "Google",
		"hw.device.name":                   skin,
		"hw.gps":                           "yes",
		"hw.gpu.enabled":                   "yes",
		"hw.gpu.mode":                      "host",
		"hw.initialOrientation":            "Portrait",
		"hw.keyboard":                      "no",
		"hw.lcd.density":                   "440",
		"hw.lcd.height":                    "2280",
		"hw.lcd.width":                     "1080",
		"hw.mainKeys":                      "no",
		"hw.ramSize":                       "1536",
		"hw.sdCard":                        "yes",
		"hw.sensors.orientation":           "yes",
		"hw.sensors.proximity":             "yes",
		"hw.trackBall":                     "no",
		"runtime.network.latency":          "none",
		"runtime.network.speed":            "full",
		"showDeviceFrame":                  "yes",
		"skin.dynamic":                     "yes",
		"skin.name":                        skin,
		"skin.path":                        filepath.Join(spec.SDKRoot, "skins", skin),
		"tag.display":                      "Google APIs",
		"tag.id":                           "google_apis",
		"vm.heapSize":                      "256",
	}
}

func cpuArch(abi string) string {
	if abi == "arm64-v8a" {
		return "arm64"
	}
	return abi
}

// ApplyConfig merges values into the config.ini at path and stamps it with
// stamp. Keys not named in values are kept.
func ApplyConfig(path string, values map[string]string, stamp string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("read avd config: %w", err)
	}
	section := cfg.Section(ini.DefaultSection)
	for k, v := range values {
		section.Key(k).SetValue(v)
	}
	section.Key(StampKey).SetValue(stamp)
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("write avd config: %w", err)
	}
	return nil
}

// ConfigUpToDate reports whether the config.ini at path carries stamp.
func ConfigUpToDate(path, stamp string) bool {
	cfg, err := ini.Load(path)
	if err != nil {
		return false
	}
	section := cfg.Section(ini.DefaultSection)
	return section.HasKey(StampKey) && section.Key(StampKey).String() == stamp
}
