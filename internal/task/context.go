package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNonInteractive is returned by prompters that cannot ask the user.
var ErrNonInteractive = errors.New("input required but running non-interactively")

// Prompter asks the user for input. Every call blocks until answered.
type Prompter interface {
	Confirm(message string) (bool, error)
	// Select returns the chosen entry of choices.
	Select(message string, choices []string) (string, error)
	Password(message string) (string, error)
}

// Values is the mutable bag shared by all tasks of one run.
type Values struct {
	mu sync.Mutex
	m  map[string]any
}

// NewValues returns an empty bag.
func NewValues() *Values {
	return &Values{m: map[string]any{}}
}

func (v *Values) Get(key string) (any, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.m[key]
	return val, ok
}

func (v *Values) Set(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[key] = value
}

// String returns the string stored under key, or "".
func (v *Values) String(key string) string {
	val, _ := v.Get(key)
	s, _ := val.(string)
	return s
}

// Context is handed to Task.Run.
type Context struct {
	ctx      context.Context
	update   func(string)
	Values   *Values
	Prompter Prompter
}

// NewContext wires a task context. A nil update discards messages and a nil
// prompter fails every prompt with ErrNonInteractive.
func NewContext(ctx context.Context, update func(string), values *Values, prompter Prompter) *Context {
	if update == nil {
		update = func(string) {}
	}
	if values == nil {
		values = NewValues()
	}
	if prompter == nil {
		prompter = nonInteractive{}
	}
	return &Context{ctx: ctx, update: update, Values: values, Prompter: prompter}
}

// Context returns the run's context.
func (c *Context) Context() context.Context { return c.ctx }

// Update reports progress.
func (c *Context) Update(msg string) { c.update(msg) }

func (c *Context) Updatef(format string, args ...any) {
	c.update(fmt.Sprintf(format, args...))
}

// UpdateFunc exposes Update for process streaming.
func (c *Context) UpdateFunc() func(string) { return c.update }

type nonInteractive struct{}

func (nonInteractive) Confirm(string) (bool, error) { return false, ErrNonInteractive }

func (nonInteractive) Select(string, []string) (string, error) { return "", ErrNonInteractive }

func (nonInteractive) Password(string) (string, error) { return "", ErrNonInteractive }
