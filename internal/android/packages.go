package android

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"torchlive/internal/healthcheck"
	"torchlive/internal/sysenv"
)

var packageLine = regexp.MustCompile(`(?m)^\s\s(\S+)\s*\|\s([\d.]+)\s+\|\s(.*)\s+\|\s(.+)\s*$`)

// ParsePackageList extracts the installed packages from `sdkmanager --list`
// output. Only the table before "Available Packages" is considered.
func ParsePackageList(out string) []healthcheck.Package {
	if i := strings.Index(out, "Available Packages"); i >= 0 {
		out = out[:i]
	}
	var pkgs []healthcheck.Package
	for _, m := range packageLine.FindAllStringSubmatch(out, -1) {
		pkgs = append(pkgs, healthcheck.Package{
			Path:        m[1],
			Version:     m[2],
			Description: strings.TrimSpace(m[3]),
			Location:    strings.TrimSpace(m[4]),
		})
	}
	return pkgs
}

// InstalledPackages runs `sdkmanager --list` and parses the result.
func InstalledPackages(ctx context.Context, exec sysenv.Executor, sdk *SDK) ([]healthcheck.Package, error) {
	manager := sdk.SDKManagerPath()
	if manager == "" {
		return nil, ErrNoSDK
	}
	out, err := exec.Capture(ctx, manager, []string{"--list"})
	if err != nil {
		return nil, fmt.Errorf("list sdk packages: %w", err)
	}
	return ParsePackageList(out), nil
}
