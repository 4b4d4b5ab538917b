package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config captures the user's torchlive settings.
type Config struct {
	Version int `yaml:"version" toml:"version"`
	// Minimums overrides the minimum version of a doctor check, keyed by
	// lower-case tool name.
	Minimums  map[string]string `yaml:"minimums,omitempty" toml:"minimums,omitempty"`
	Android   AndroidConfig     `yaml:"android" toml:"android"`
	Log       LogConfig         `yaml:"log" toml:"log"`
	CocoaPods CocoaPodsConfig   `yaml:"cocoapods" toml:"cocoapods"`
}

// AndroidConfig describes the SDK packages and the virtual device.
type AndroidConfig struct {
	AVDName string `yaml:"avd_name" toml:"avd_name"`
	// SystemImage is derived from Platform and the host ABI when empty.
	SystemImage string   `yaml:"system_image,omitempty" toml:"system_image,omitempty"`
	Platform    string   `yaml:"platform" toml:"platform"`
	Device      string   `yaml:"device" toml:"device"`
	Skins       []string `yaml:"skins" toml:"skins"`
	// SkinsSource is a directory or archive holding one folder per skin.
	SkinsSource      string `yaml:"skins_source,omitempty" toml:"skins_source,omitempty"`
	CmdlineToolsURL  string `yaml:"cmdline_tools_url" toml:"cmdline_tools_url"`
	BootTimeout      string `yaml:"boot_timeout" toml:"boot_timeout"`
	BootPollInterval string `yaml:"boot_poll_interval" toml:"boot_poll_interval"`
}

// LogConfig controls log rotation.
type LogConfig struct {
	MaxSizeMB int `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxFiles  int `yaml:"max_files" toml:"max_files"`
}

// CocoaPodsConfig presets the CocoaPods installer choice.
type CocoaPodsConfig struct {
	Installer string `yaml:"installer,omitempty" toml:"installer,omitempty"`
}

const (
	InstallerGem      = "gem"
	InstallerHomebrew = "homebrew"
)

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Android: AndroidConfig{
			AVDName:          "pytorch_live",
			Platform:         "android-29",
			Device:           "pixel",
			Skins:            []string{"pixel_4"},
			CmdlineToolsURL:  "https://dl.google.com/android/repository/commandlinetools-{os}-6858069_latest.zip",
			BootTimeout:      "0s",
			BootPollInterval: "2s",
		},
		Log: LogConfig{
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// Load reads the configuration from disk if it exists, otherwise returns the
// default configuration. Files ending in .toml are decoded as TOML, anything
// else as YAML.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(contents, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	} else if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to sensible defaults when the file
// omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if strings.TrimSpace(c.Android.AVDName) == "" {
		c.Android.AVDName = defaults.Android.AVDName
	}
	if c.Android.Platform == "" {
		c.Android.Platform = defaults.Android.Platform
	}
	if c.Android.Device == "" {
		c.Android.Device = defaults.Android.Device
	}
	if len(c.Android.Skins) == 0 {
		c.Android.Skins = defaults.Android.Skins
	}
	if c.Android.CmdlineToolsURL == "" {
		c.Android.CmdlineToolsURL = defaults.Android.CmdlineToolsURL
	}
	if c.Android.BootTimeout == "" {
		c.Android.BootTimeout = defaults.Android.BootTimeout
	}
	if c.Android.BootPollInterval == "" {
		c.Android.BootPollInterval = defaults.Android.BootPollInterval
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
	if c.Log.MaxFiles == 0 {
		c.Log.MaxFiles = defaults.Log.MaxFiles
	}
	c.CocoaPods.Installer = strings.ToLower(strings.TrimSpace(c.CocoaPods.Installer))
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// SystemImageFor returns the emulator system image for abi.
func (a AndroidConfig) SystemImageFor(abi string) string {
	if a.SystemImage != "" {
		return a.SystemImage
	}
	return fmt.Sprintf("system-images;%s;google_apis;%s", a.Platform, abi)
}

// CmdlineToolsURLFor fills the {os} placeholder for goos.
func (a AndroidConfig) CmdlineToolsURLFor(goos string) string {
	name := "linux"
	if goos == "darwin" {
		name = "mac"
	}
	return strings.ReplaceAll(a.CmdlineToolsURL, "{os}", name)
}

// BootTimeoutDuration returns the boot wait limit, 0 meaning no limit.
// Unparseable values also mean no limit; Validate reports them.
func (a AndroidConfig) BootTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(a.BootTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// BootPollDuration returns how often the boot state is polled.
func (a AndroidConfig) BootPollDuration() time.Duration {
	d, err := time.ParseDuration(a.BootPollInterval)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// MaxSizeBytes returns the log rotation threshold.
func (l LogConfig) MaxSizeBytes() int64 {
	return int64(l.MaxSizeMB) << 20
}
