package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"torchlive/internal/android"
	"torchlive/internal/command"
	"torchlive/internal/healthcheck"
	"torchlive/internal/toolchain"
	"torchlive/internal/tui"
)

var doctorJSON bool

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the development environment",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
	cmd.Flags().BoolVar(&doctorJSON, "json", false, "Output machine-readable JSON")
	return cmd
}

// checkReport is the evaluated state of one health check.
type checkReport struct {
	Title        string   `json:"title"`
	ShouldRemove bool     `json:"should_remove,omitempty"`
	Installed    bool     `json:"installed"`
	Path         string   `json:"path,omitempty"`
	Versionless  bool     `json:"versionless,omitempty"`
	Version      string   `json:"version,omitempty"`
	MinVersion   string   `json:"min_version,omitempty"`
	Satisfies    bool     `json:"satisfies"`
	Notes        []string `json:"notes,omitempty"`

	RequiredPackages  []healthcheck.PackageResult `json:"required_packages,omitempty"`
	InstalledPackages []healthcheck.Package       `json:"installed_packages,omitempty"`
	PackagesError     string                      `json:"packages_error,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	diagnoses := a.tools.HealthChecks(toolchain.CheckOptions{
		Minimum:  a.cfg.MinimumFor,
		Packages: toolchain.RequiredPackages(a.cfg.Android.Platform, a.cfg.Android.SystemImageFor(android.EmulatorABI(string(a.platform), runtime.GOARCH))),
	})

	var status func(string)
	if tui.DetectMode(cmd.ErrOrStderr(), noProgress, doctorJSON) == tui.ModeTUI {
		sp := tui.NewCheckSpinner(cmd.ErrOrStderr())
		defer sp.Stop()
		status = sp.Begin
	}
	reports := evaluateChecks(cmd.Context(), diagnoses, status)
	a.logger.Info("doctor finished", "checks", len(reports))

	if doctorJSON {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printHeader(cmd.OutOrStdout())
	writeDoctorReport(cmd.OutOrStdout(), reports)
	return nil
}

// evaluateChecks runs every check once, reporting progress through status
// when it is set.
func evaluateChecks(ctx context.Context, diagnoses []toolchain.Diagnosis, status func(string)) []checkReport {
	reports := make([]checkReport, 0, len(diagnoses))
	for _, d := range diagnoses {
		if status != nil {
			status("Checking " + d.Check.Title())
		}
		reports = append(reports, evaluateCheck(ctx, d))
	}
	return reports
}

func evaluateCheck(ctx context.Context, d toolchain.Diagnosis) checkReport {
	c := d.Check
	cmd := c.Command()
	r := checkReport{
		Title:        c.Title(),
		ShouldRemove: c.ShouldRemove(),
		Notes:        d.Notes,
		Path:         cmd.Path(ctx),
		Versionless:  cmd.Versionless(),
	}
	r.Installed = r.Path != ""

	if r.ShouldRemove {
		r.Satisfies = !r.Installed
		return r
	}
	if !r.Installed {
		return r
	}
	if floor := c.MinVersion(); floor != nil {
		r.MinVersion = floor.Original()
	}
	if !r.Versionless {
		r.Version = command.FormatVersion(cmd.Version(ctx))
	}
	r.Satisfies = c.Satisfies(ctx)

	if c.HasPackages() {
		// One sdkmanager listing serves both sections.
		installed, err := c.InstalledPackages(ctx)
		if err != nil {
			r.PackagesError = err.Error()
			return r
		}
		r.RequiredPackages = healthcheck.MatchPackages(c.RequiredPackages(), installed)
		r.InstalledPackages = installed
	}
	return r
}

func writeDoctorReport(w io.Writer, reports []checkReport) {
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	faint := lipgloss.NewStyle().Faint(true).Inline(true)

	for _, r := range reports {
		fmt.Fprintln(w, green.Render(r.Title))
		if r.ShouldRemove {
			if !r.Installed {
				fmt.Fprintln(w, "  ✅ package does not exist.")
			} else {
				fmt.Fprintf(w, "  📍 path: %s\n", r.Path)
				fmt.Fprintln(w, "  🚫 package should not exist, please remove.")
			}
			fmt.Fprintln(w)
			continue
		}

		if !r.Installed {
			fmt.Fprintln(w, "  🚫 not installed")
			fmt.Fprintln(w)
			continue
		}

		fmt.Fprintf(w, "  📍 path: %s\n", r.Path)
		if !r.Versionless {
			if r.MinVersion != "" {
				fmt.Fprintf(w, "  🏁 min version: %s\n", r.MinVersion)
			}
			fmt.Fprintf(w, "  %s version: %s\n", mark(r.Satisfies, "✅", "🚫"), r.Version)
		}
		for _, note := range r.Notes {
			fmt.Fprintf(w, "  %s\n", faint.Render(note))
		}

		if r.PackagesError != "" {
			fmt.Fprintf(w, "  🚫 could not list Android packages: %s\n", firstLine(r.PackagesError))
		} else if len(r.RequiredPackages) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %s\n", green.Render("Required Android Packages"))
			for _, p := range r.RequiredPackages {
				fmt.Fprintf(w, "    📦 %s %s%s\n", mark(p.Satisfies, "✅", "❌"), p.Package.Path, versionSuffix(p.Package.Version))
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %s\n", green.Render("Installed Android Packages"))
			for _, p := range r.InstalledPackages {
				fmt.Fprintf(w, "    📦 %s (%s)\n", p.Path, p.Version)
			}
		}
		fmt.Fprintln(w)
	}
}

func mark(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func versionSuffix(v string) string {
	if v == "" {
		return ""
	}
	return " (" + v + ")"
}

func firstLine(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	return s
}
