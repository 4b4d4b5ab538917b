// Package healthcheck pairs a tool with the version and SDK packages a
// working environment requires.
package healthcheck

import (
	"context"

	"github.com/hashicorp/go-version"

	"torchlive/internal/command"
)

// Package is an SDK component as reported by the SDK manager.
type Package struct {
	Path        string `json:"path"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// PackageResult reports whether a required package is installed.
type PackageResult struct {
	Package   Package `json:"package"`
	Satisfies bool    `json:"satisfies"`
}

// Requirement describes what a check expects of its command.
type Requirement struct {
	// MinVersion nil means any version satisfies.
	MinVersion *version.Version
	Packages   []Package
	// InstalledPackages lists the packages currently installed. It is called
	// on every check and never cached.
	InstalledPackages func(ctx context.Context) ([]Package, error)
	// ShouldRemove marks tools that must not be present.
	ShouldRemove bool
}

// Check is a read-only assessment of one tool.
type Check struct {
	title string
	cmd   *command.Command
	req   Requirement
}

// New returns a Check titled title for cmd.
func New(title string, cmd *command.Command, req Requirement) *Check {
	return &Check{title: title, cmd: cmd, req: req}
}

func (c *Check) Title() string { return c.title }

func (c *Check) Command() *command.Command { return c.cmd }

func (c *Check) MinVersion() *version.Version { return c.req.MinVersion }

func (c *Check) ShouldRemove() bool { return c.req.ShouldRemove }

// RequiredPackages returns the declared package requirements.
func (c *Check) RequiredPackages() []Package { return c.req.Packages }

// HasPackages reports whether the requirement declares any package.
func (c *Check) HasPackages() bool { return len(c.req.Packages) > 0 }

// Satisfies reports whether the command meets the requirement. An unknown
// version never satisfies a minimum.
func (c *Check) Satisfies(ctx context.Context) bool {
	if c.req.ShouldRemove {
		return !c.cmd.IsInstalled(ctx)
	}
	if c.req.MinVersion == nil {
		return true
	}
	v := c.cmd.Version(ctx)
	if v == nil {
		return false
	}
	return !v.LessThan(c.req.MinVersion)
}

// InstalledPackages queries the installed package list.
func (c *Check) InstalledPackages(ctx context.Context) ([]Package, error) {
	if c.req.InstalledPackages == nil {
		return nil, nil
	}
	return c.req.InstalledPackages(ctx)
}

// CheckPackages returns one result per required package, in declaration
// order. A package matches on path, and on version when the requirement
// names one.
func (c *Check) CheckPackages(ctx context.Context) ([]PackageResult, error) {
	if !c.HasPackages() {
		return nil, nil
	}
	installed, err := c.InstalledPackages(ctx)
	if err != nil {
		return nil, err
	}
	return MatchPackages(c.req.Packages, installed), nil
}

// MatchPackages evaluates required against installed.
func MatchPackages(required, installed []Package) []PackageResult {
	byPath := make(map[string][]Package, len(installed))
	for _, pkg := range installed {
		byPath[pkg.Path] = append(byPath[pkg.Path], pkg)
	}

	results := make([]PackageResult, 0, len(required))
	for _, want := range required {
		ok := false
		for _, have := range byPath[want.Path] {
			if want.Version == "" || want.Version == have.Version {
				ok = true
				break
			}
		}
		results = append(results, PackageResult{Package: want, Satisfies: ok})
	}
	return results
}
