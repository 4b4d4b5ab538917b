package config

import (
	"fmt"
	"strings"

	"torchlive/internal/command"
)

// MinimumFor resolves the minimum version for tool. An override from the
// config only applies when it is at least the built-in default; otherwise the
// default stays and a note explains why.
func (c Config) MinimumFor(tool, def string) (string, []string) {
	override := ""
	for name, value := range c.Minimums {
		if strings.EqualFold(name, tool) {
			override = strings.TrimSpace(value)
			break
		}
	}
	if override == "" {
		return def, nil
	}

	ov, err := command.ParseVersion(override)
	if err != nil {
		return def, []string{fmt.Sprintf("config minimum %q ignored; not a version", override)}
	}
	if def == "" {
		return override, []string{fmt.Sprintf("minimum set by config (%s)", override)}
	}
	dv, err := command.ParseVersion(def)
	if err != nil {
		return override, []string{fmt.Sprintf("minimum overridden by config (%s)", override)}
	}

	if ov.LessThan(dv) {
		return def, []string{fmt.Sprintf("config minimum %s ignored; default minimum %s is higher", override, def)}
	}
	if ov.Equal(dv) {
		return def, nil
	}
	return override, []string{fmt.Sprintf("minimum overridden by config (%s)", override)}
}
