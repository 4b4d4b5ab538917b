// Package task defines the units of setup work the orchestrator runs.
package task

import (
	"context"

	"torchlive/internal/command"
)

// Task is a named unit of setup work.
type Task interface {
	Description() string
	// IsValid reports whether the task applies to this machine at all.
	// Invalid tasks are dropped before a run starts.
	IsValid(ctx context.Context) bool
	Run(tc *Context) error
	// MitigateOnError is shown to the user when Run fails.
	MitigateOnError() string
}

// Installer is a Task that can tell whether its work is already done.
type Installer interface {
	Task
	IsInstalled(ctx context.Context) bool
}

// CommandInstaller is an Installer bound to the command it installs, so the
// installed version can be reported. Command may return nil.
type CommandInstaller interface {
	Installer
	Command() *command.Command
}

// Func adapts closures to a Task.
type Func struct {
	Name       string
	Valid      func(ctx context.Context) bool
	Action     func(tc *Context) error
	Mitigation string
}

func (f Func) Description() string { return f.Name }

func (f Func) IsValid(ctx context.Context) bool {
	if f.Valid == nil {
		return true
	}
	return f.Valid(ctx)
}

func (f Func) Run(tc *Context) error { return f.Action(tc) }

func (f Func) MitigateOnError() string { return f.Mitigation }
