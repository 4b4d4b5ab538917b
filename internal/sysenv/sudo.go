package sysenv

import (
	"context"
	"errors"
	"fmt"
)

// ErrSudoRejected is returned when sudo does not accept the supplied password.
var ErrSudoRejected = errors.New("sudo rejected the password")

// PasswordPrompter asks the user for a secret.
type PasswordPrompter interface {
	Password(message string) (string, error)
}

// Sudo caches sudo credentials for installers that shell out to privileged
// commands.
type Sudo struct {
	exec Executor
}

// NewSudo returns a Sudo that runs sudo through exec.
func NewSudo(exec Executor) *Sudo {
	return &Sudo{exec: exec}
}

// Elevate makes sure sudo credentials are cached. When sudo already has a
// valid timestamp no prompt is shown.
func (s *Sudo) Elevate(ctx context.Context, prompter PasswordPrompter, message string) error {
	if _, err := s.exec.Capture(ctx, "sudo", []string{"-n", "true"}); err == nil {
		return nil
	}
	if prompter == nil {
		return fmt.Errorf("sudo requires a password: %w", ErrSudoRejected)
	}
	password, err := prompter.Password(message)
	if err != nil {
		return fmt.Errorf("read sudo password: %w", err)
	}
	err = s.exec.Stream(ctx, nil, "sudo", []string{"-S", "-p", "", "-v"}, StreamOptions{Stdin: Answer(password)})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSudoRejected, err)
	}
	return nil
}

// Release drops cached sudo credentials.
func (s *Sudo) Release(ctx context.Context) error {
	_, err := s.exec.Capture(ctx, "sudo", []string{"-k"})
	return err
}
