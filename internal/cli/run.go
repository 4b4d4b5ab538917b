package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"torchlive/internal/orchestrator"
	"torchlive/internal/task"
	"torchlive/internal/tui"
)

type runOptions struct {
	// title heads the progress table.
	title string
	// yes answers every confirmation and selection with its default.
	yes    bool
	values *task.Values
}

func printHeader(w io.Writer) {
	fmt.Fprintln(w, tui.TitleStyle.Render("PyTorch Live")+" "+tui.FaintStyle.Render("torchlive "+version))
	fmt.Fprintln(w)
}

// runTasks runs tasks through the orchestrator, rendering progress as a
// bubbletea table on a terminal and as plain lines otherwise. A failed task
// prints the failure banner to stderr and yields exit code 1.
func runTasks(cmd *cobra.Command, logger *slog.Logger, tasks []task.Task, opts runOptions) error {
	out := cmd.OutOrStdout()
	printHeader(out)

	build := func(hooks orchestrator.Hooks, prompter task.Prompter) *orchestrator.Orchestrator {
		if opts.yes {
			prompter = tui.AutoPrompter{Fallback: prompter}
		}
		return orchestrator.New(logger,
			orchestrator.WithHooks(hooks),
			orchestrator.WithPrompter(prompter),
			orchestrator.WithValues(opts.values),
		)
	}

	var runErr error
	switch tui.DetectMode(out, noProgress, false) {
	case tui.ModeTUI:
		model := tui.NewProgressModel(opts.title, tui.TaskColumns())
		err := tui.RunWithWork(cmd.Context(), out, model, func(ctx context.Context, send func(tea.Msg)) {
			reporter := tui.NewEventReporter(send)
			prompter := tui.NewPrompter(send, ctx.Done())
			_, runErr = build(orchestrator.Hooks{OnEvent: reporter.OnEvent}, prompter).Run(ctx, tasks)
		})
		if err != nil && runErr == nil {
			runErr = err
		}
	default:
		reporter := tui.NewPlainReporter(out)
		prompter := tui.NewLinePrompter(cmd.InOrStdin(), out)
		_, runErr = build(orchestrator.Hooks{OnEvent: reporter.OnEvent}, prompter).Run(cmd.Context(), tasks)
	}

	if runErr != nil {
		logger.Error("run failed", "err", runErr)
		fmt.Fprint(cmd.ErrOrStderr(), orchestrator.FailureBanner(runErr))
		return &exitError{code: 1}
	}
	return nil
}
