package toolchain

import (
	"context"

	"github.com/hashicorp/go-version"

	"torchlive/internal/android"
	"torchlive/internal/command"
	"torchlive/internal/healthcheck"
)

// MinimumFunc resolves the effective minimum for a tool, returning notes
// that explain any override.
type MinimumFunc func(tool, def string) (string, []string)

// CheckOptions customise HealthChecks.
type CheckOptions struct {
	Minimum MinimumFunc
	// Packages are the SDK packages the Android SDK Manager check requires.
	Packages []string
}

// Diagnosis is a health check together with notes about how its minimum
// was chosen.
type Diagnosis struct {
	Check *healthcheck.Check
	Notes []string
}

type checkDef struct {
	key, title string
	cmd        *command.Command
	min        string
	remove     bool
	packages   bool
}

// RequiredPackages lists the SDK packages a project build needs.
func RequiredPackages(platform, systemImage string) []string {
	return []string{"emulator", "platform-tools", "platforms;" + platform, systemImage}
}

// HealthChecks returns the doctor checks in display order.
func (t *Toolchain) HealthChecks(opts CheckOptions) []Diagnosis {
	minimum := opts.Minimum
	if minimum == nil {
		minimum = func(_, def string) (string, []string) { return def, nil }
	}

	defs := []checkDef{
		{key: "homebrew", title: "Homebrew", cmd: t.Brew},
		{key: "python", title: "Python", cmd: t.Python, min: "3.7.5"},
		{key: "watchman", title: "Watchman", cmd: t.Watchman},
		{key: "node", title: "Node.js", cmd: t.Node, min: "12.15.0"},
		{key: "react-native", title: "React Native should not be installed locally", cmd: t.ReactNative, remove: true},
		{key: "yarn", title: "Yarn", cmd: t.Yarn, min: "1.17.0-20190429.1820"},
		{key: "javac", title: "Java Development Kit (javac)", cmd: t.Javac, min: "1.8.0_282"},
		{key: "sdkmanager", title: "Android SDK Manager", cmd: t.SDKManager, min: "26.1.1", packages: true},
		{key: "avdmanager", title: "Android AVD Manager", cmd: t.AVDManager},
		{key: "emulator", title: "Android Emulator", cmd: t.Emulator, min: "30.5.6.0"},
		{key: "cocoapods", title: "CocoaPods", cmd: t.CocoaPods, min: "1.10.2"},
	}

	out := make([]Diagnosis, 0, len(defs))
	for _, d := range defs {
		req := healthcheck.Requirement{ShouldRemove: d.remove}
		var notes []string
		if !d.remove {
			var min string
			min, notes = minimum(d.key, d.min)
			req.MinVersion = parseMinimum(min)
		}
		if d.packages {
			for _, path := range opts.Packages {
				req.Packages = append(req.Packages, healthcheck.Package{Path: path})
			}
			req.InstalledPackages = func(ctx context.Context) ([]healthcheck.Package, error) {
				return android.InstalledPackages(ctx, t.Exec, t.SDK)
			}
		}
		out = append(out, Diagnosis{Check: healthcheck.New(d.title, d.cmd, req), Notes: notes})
	}
	return out
}

func parseMinimum(raw string) *version.Version {
	if raw == "" {
		return nil
	}
	v, err := command.ParseVersion(raw)
	if err != nil {
		return nil
	}
	return v
}
