// Package orchestrator runs tasks one at a time, skipping the ones whose work
// is already done and stopping at the first failure.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-version"

	"torchlive/internal/command"
	"torchlive/internal/task"
)

// Orchestrator runs task lists.
type Orchestrator struct {
	logger   *slog.Logger
	hooks    Hooks
	prompter task.Prompter
	values   *task.Values
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithHooks(h Hooks) Option {
	return func(o *Orchestrator) { o.hooks = h }
}

func WithPrompter(p task.Prompter) Option {
	return func(o *Orchestrator) { o.prompter = p }
}

// WithValues shares a context bag with the caller.
func WithValues(v *task.Values) Option {
	return func(o *Orchestrator) { o.values = v }
}

// New returns an Orchestrator logging to logger.
func New(logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	o := &Orchestrator{logger: logger}
	for _, opt := range opts {
		opt(o)
	}
	if o.values == nil {
		o.values = task.NewValues()
	}
	return o
}

func (o *Orchestrator) emit(ev Event) {
	if o.hooks.OnEvent != nil {
		o.hooks.OnEvent(ev)
	}
}

// Run executes tasks in order. Tasks that are not valid for this machine are
// dropped silently. On failure the returned error is a *TaskError carrying
// the task's mitigation text and no later task runs.
func (o *Orchestrator) Run(ctx context.Context, tasks []task.Task) (Result, error) {
	var valid []task.Task
	for _, t := range tasks {
		if t.IsValid(ctx) {
			valid = append(valid, t)
		}
	}

	result := Result{Outcomes: make([]Outcome, len(valid))}
	for i, t := range valid {
		result.Outcomes[i] = Outcome{Description: t.Description(), Title: t.Description(), State: StatePending}
		o.emit(Event{Index: i, Description: t.Description(), State: StatePending, Title: t.Description()})
	}

	for i, t := range valid {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		desc := t.Description()
		if label, skip := skipLabel(ctx, t); skip {
			o.logger.Info("skipping task", "task", desc, "reason", label)
			result.Outcomes[i] = Outcome{Description: desc, Title: label, State: StateSkipped}
			o.emit(Event{Index: i, Description: desc, State: StateSkipped, Title: label})
			continue
		}

		title := "Installing " + desc
		result.Outcomes[i].State = StateRunning
		result.Outcomes[i].Title = title
		o.emit(Event{Index: i, Description: desc, State: StateRunning, Title: title})
		o.logger.Info("running task", "task", desc)

		update := func(msg string) {
			o.logger.Info(msg, "task", desc)
			o.emit(Event{Index: i, Description: desc, State: StateRunning, Title: title, Message: msg})
		}
		tc := task.NewContext(ctx, update, o.values, o.prompter)

		if err := t.Run(tc); err != nil {
			taskErr := &TaskError{Description: desc, Err: err, Mitigation: t.MitigateOnError()}
			o.logger.Error(fmt.Sprintf("Failed to execute installer %s\n\n%s", desc, taskErr.Mitigation), "err", err)
			result.Outcomes[i].State = StateFailed
			result.Err = taskErr
			o.emit(Event{Index: i, Description: desc, State: StateFailed, Title: title, Err: taskErr})
			return result, taskErr
		}

		final := desc
		if ci, ok := t.(task.CommandInstaller); ok {
			if cmd := ci.Command(); cmd != nil {
				final = versionTitle(ctx, desc, cmd, cmd.FreshVersion)
			}
		}
		result.Outcomes[i] = Outcome{Description: desc, Title: final, State: StateSucceeded}
		o.emit(Event{Index: i, Description: desc, State: StateSucceeded, Title: final})
	}

	return result, nil
}

// skipLabel decides whether t's work is already done. A bound command that
// is installed wins over the task's own check.
func skipLabel(ctx context.Context, t task.Task) (string, bool) {
	if ci, ok := t.(task.CommandInstaller); ok {
		if cmd := ci.Command(); cmd != nil && cmd.IsInstalled(ctx) {
			return versionTitle(ctx, t.Description(), cmd, cmd.Version), true
		}
	}
	if inst, ok := t.(task.Installer); ok && inst.IsInstalled(ctx) {
		return t.Description() + " is installed", true
	}
	return "", false
}

func versionTitle(ctx context.Context, desc string, cmd *command.Command, lookup func(context.Context) *version.Version) string {
	if cmd.Versionless() {
		return desc
	}
	return fmt.Sprintf("%s (%s)", desc, command.FormatVersion(lookup(ctx)))
}
