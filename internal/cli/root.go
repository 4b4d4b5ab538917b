package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	homeDir    string
	noProgress bool
	verbose    bool
)

// exitError ends the process with code once the command has reported the
// failure itself.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the root cobra command and returns the process exit code.
func Execute(ctx context.Context) int {
	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "torchlive",
		Short:         "Set up and run the PyTorch Live development environment",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.torchlive/config.yaml)")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable interactive progress output")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Also write debug logs to stderr")
	cmd.PersistentFlags().StringVar(&homeDir, "home", "", "Override the home directory")
	_ = cmd.PersistentFlags().MarkHidden("home")

	cmd.AddCommand(newSetupDevCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newCleanCmd())
	cmd.AddCommand(newRunAndroidCmd())
	cmd.AddCommand(newEmulatorCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newLogCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
