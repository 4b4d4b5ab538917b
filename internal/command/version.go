package command

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"
)

var coerceRegex = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)*`)

// ParseVersion converts a raw version string into a structured version.
// Underscores become hyphens so JDK style versions (1.8.0_282) parse. When
// the string is not a version as a whole, the first dotted numeric run is
// used.
func ParseVersion(raw string) (*version.Version, error) {
	cleaned := strings.TrimSpace(firstLine(raw))
	if cleaned == "" {
		return nil, errors.New("empty version string")
	}
	cleaned = strings.TrimPrefix(cleaned, "v")
	cleaned = strings.ReplaceAll(cleaned, "_", "-")

	if v, err := version.NewVersion(cleaned); err == nil {
		return v, nil
	}
	return Coerce(cleaned)
}

// Coerce extracts the first dotted numeric run of raw and parses it.
func Coerce(raw string) (*version.Version, error) {
	match := coerceRegex.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("no version in %q", raw)
	}
	return version.NewVersion(match)
}

// MustParse is ParseVersion for compile-time constants.
func MustParse(raw string) *version.Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Extract returns the first capture group of pattern in output, or output
// unchanged when the pattern does not match.
func Extract(output string, pattern *regexp.Regexp) string {
	if pattern == nil {
		return output
	}
	m := pattern.FindStringSubmatch(output)
	if len(m) > 1 {
		return m[1]
	}
	return output
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
