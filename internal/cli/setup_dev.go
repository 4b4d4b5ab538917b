package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"torchlive/internal/config"
	"torchlive/internal/installers"
	"torchlive/internal/task"
)

var (
	setupYes       bool
	setupCocoaPods installerChoice
)

// installerChoice is the --cocoapods-installer flag value.
type installerChoice string

var _ pflag.Value = (*installerChoice)(nil)

func (c *installerChoice) String() string { return string(*c) }

func (c *installerChoice) Set(value string) error {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case config.InstallerGem, config.InstallerHomebrew:
		*c = installerChoice(value)
		return nil
	}
	return fmt.Errorf("must be %q or %q", config.InstallerGem, config.InstallerHomebrew)
}

func (c *installerChoice) Type() string { return "installer" }

func newSetupDevCmd() *cobra.Command {
	setupCocoaPods = ""
	cmd := &cobra.Command{
		Use:   "setup-dev",
		Short: "Set up the development environment",
		Args:  cobra.NoArgs,
		RunE:  runSetupDev,
	}
	cmd.Flags().BoolVarP(&setupYes, "yes", "y", false, "Accept licenses and default choices without prompting")
	cmd.Flags().Var(&setupCocoaPods, "cocoapods-installer", "Install CocoaPods with gem or homebrew")
	return cmd
}

// setupValues presets answers for the installers from flags and config.
func setupValues(cfg config.Config) *task.Values {
	values := task.NewValues()
	choice := string(setupCocoaPods)
	if choice == "" {
		choice = cfg.CocoaPods.Installer
	}
	if choice != "" {
		values.Set(installers.ValueCocoaPodsInstaller, choice)
	}
	return values
}

func runSetupDev(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return runTasks(cmd, a.sink.Logger("Orchestrator"), installers.SetupDevTasks(a.deps()), runOptions{
		title:  "Setting up development environment",
		yes:    setupYes,
		values: setupValues(a.cfg),
	})
}
