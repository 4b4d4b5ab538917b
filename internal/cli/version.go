package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"
)

// version is set at build time with -ldflags "-X torchlive/internal/cli.version=...".
var version = "dev"

var versionCheck bool

// releaseSource is where released versions are tagged.
var releaseSource latest.Source = &latest.GithubTag{
	Owner:             "pytorch",
	Repository:        "live",
	FixVersionStrFunc: latest.DeleteFrontV(),
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the torchlive version",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, version)
	if !versionCheck {
		return nil
	}

	res, err := latest.Check(releaseSource, version)
	if err != nil {
		return fmt.Errorf("check latest release: %w", err)
	}
	if res.Outdated {
		fmt.Fprintf(out, "✨ A new version is available: %s (you have %s)\n", res.Current, version)
		fmt.Fprintln(out, "👉 Release notes: https://github.com/pytorch/live/releases")
		return nil
	}
	fmt.Fprintf(out, "✅ You are using the latest version: %s\n", version)
	return nil
}
