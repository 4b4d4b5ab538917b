package android

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"torchlive/internal/sysenv"
)

// ErrBootTimeout is returned when the emulator does not finish booting in
// time.
var ErrBootTimeout = errors.New("timed out waiting for device to boot")

// BootOptions controls WaitForBoot.
type BootOptions struct {
	// Interval between boot state polls, 2s when zero.
	Interval time.Duration
	// Timeout of zero waits until ctx is done.
	Timeout time.Duration
}

// DeviceConnected reports whether `adb devices` lists anything beyond its
// header line.
func DeviceConnected(ctx context.Context, exec sysenv.Executor) bool {
	out, err := exec.Capture(ctx, "adb", []string{"devices"})
	if err != nil {
		return false
	}
	return len(strings.Split(out, "\n")) > 1
}

// BootEmulator starts the emulator for the named AVD without waiting for it.
func BootEmulator(ctx context.Context, exec sysenv.Executor, update func(string), emulator, name string) (*sysenv.Process, error) {
	if emulator == "" {
		return nil, ErrNoSDK
	}
	proc, err := exec.Detach(ctx, update, emulator, []string{"-avd", name})
	if err != nil {
		return nil, fmt.Errorf("start emulator %s: %w", name, err)
	}
	return proc, nil
}

// WaitForDevice blocks on `adb wait-for-device`.
func WaitForDevice(ctx context.Context, exec sysenv.Executor, update func(string)) error {
	if err := exec.Stream(ctx, update, "adb", []string{"wait-for-device"}, sysenv.StreamOptions{}); err != nil {
		return fmt.Errorf("wait for device: %w", err)
	}
	return nil
}

// WaitForBoot polls sys.boot_completed until the device reports 1.
func WaitForBoot(ctx context.Context, exec sysenv.Executor, opts BootOptions) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	var deadline <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		out, err := exec.Capture(ctx, "adb", []string{"shell", "getprop", "sys.boot_completed"})
		if err == nil && strings.TrimSpace(out) == "1" {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrBootTimeout
		case <-ticker.C:
		}
	}
}
