package config

import (
	"fmt"
	"sort"
	"time"

	"torchlive/internal/command"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks values that ApplyDefaults cannot repair.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateDurations()...)
	results = append(results, c.validateLog()...)
	results = append(results, c.validateInstaller()...)
	results = append(results, c.validateMinimums()...)
	return results
}

func (c Config) validateDurations() []ValidationResult {
	var results []ValidationResult
	fields := []struct {
		key, value string
	}{
		{"android.boot_timeout", c.Android.BootTimeout},
		{"android.boot_poll_interval", c.Android.BootPollInterval},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.value)
		if err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s: %q is not a duration", f.key, f.value),
			})
			continue
		}
		if d < 0 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s must not be negative", f.key),
			})
		}
	}
	return results
}

func (c Config) validateLog() []ValidationResult {
	var results []ValidationResult
	if c.Log.MaxSizeMB < 0 {
		results = append(results, ValidationResult{Level: "error", Message: "log.max_size_mb must be positive"})
	}
	if c.Log.MaxFiles < 0 {
		results = append(results, ValidationResult{Level: "error", Message: "log.max_files must be positive"})
	}
	return results
}

func (c Config) validateInstaller() []ValidationResult {
	switch c.CocoaPods.Installer {
	case "", InstallerGem, InstallerHomebrew:
		return nil
	}
	return []ValidationResult{{
		Level:   "error",
		Message: fmt.Sprintf("cocoapods.installer %q is not one of %s, %s", c.CocoaPods.Installer, InstallerGem, InstallerHomebrew),
	}}
}

func (c Config) validateMinimums() []ValidationResult {
	names := make([]string, 0, len(c.Minimums))
	for name := range c.Minimums {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []ValidationResult
	for _, name := range names {
		if _, err := command.ParseVersion(c.Minimums[name]); err != nil {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("minimums.%s: %q is not a version and will be ignored", name, c.Minimums[name]),
			})
		}
	}
	return results
}
