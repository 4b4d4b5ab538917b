package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"torchlive/internal/logx"
	"torchlive/internal/paths"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Print the torchlive log",
		Args:  cobra.NoArgs,
		RunE:  runLog,
	}
}

func runLog(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(homeDir)
	if err != nil {
		return err
	}
	contents, err := logx.ReadAll(pp.LogFile)
	if err != nil {
		return err
	}
	if contents == "" {
		contents = "(no log entries)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), contents)
	return nil
}
