package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"torchlive/internal/config"
	"torchlive/internal/installers"
	"torchlive/internal/task"
)

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootRegistersCommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"setup-dev", "init", "clean", "run-android", "emulator", "doctor", "log", "version"} {
		found, _, err := cmd.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	if f := cmd.PersistentFlags().Lookup("home"); f == nil || !f.Hidden {
		t.Error("expected hidden --home flag")
	}
}

func TestLogCommandEmpty(t *testing.T) {
	out, _, err := executeRoot(t, "--home", t.TempDir(), "log")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out != "(no log entries)\n" {
		t.Errorf("got %q", out)
	}
}

func TestLogCommandPrintsFile(t *testing.T) {
	home := t.TempDir()
	logs := filepath.Join(home, ".torchlive", "logs")
	if err := os.MkdirAll(logs, 0o755); err != nil {
		t.Fatal(err)
	}
	line := "[2026-10-18 10:00:00][INFO][CLI] invoked\n"
	if err := os.WriteFile(filepath.Join(logs, "torchlive.log"), []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := executeRoot(t, "--home", home, "log")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out != line {
		t.Errorf("got %q, want %q", out, line)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := executeRoot(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("got %q, want %q", out, version)
	}
}

func TestInstallerChoiceSet(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"gem", "gem", false},
		{" Homebrew ", "homebrew", false},
		{"port", "", true},
	}

	for _, tt := range tests {
		var c installerChoice
		err := c.Set(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if c.String() != tt.want {
			t.Errorf("Set(%q) = %q, want %q", tt.input, c.String(), tt.want)
		}
	}
}

func TestSetupDevRejectsUnknownInstaller(t *testing.T) {
	_, _, err := executeRoot(t, "setup-dev", "--cocoapods-installer", "port")
	if err == nil || !strings.Contains(err.Error(), "cocoapods-installer") {
		t.Errorf("got err=%v, want flag error", err)
	}
}

func TestSetupValues(t *testing.T) {
	cfg := config.Default()
	cfg.CocoaPods.Installer = config.InstallerHomebrew

	tests := []struct {
		name string
		flag installerChoice
		cfg  config.Config
		want string
	}{
		{"flag wins", "gem", cfg, "gem"},
		{"config fallback", "", cfg, "homebrew"},
		{"unset", "", config.Default(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCocoaPods = tt.flag
			t.Cleanup(func() { setupCocoaPods = "" })
			got := setupValues(tt.cfg).String(installers.ValueCocoaPodsInstaller)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func newTaskCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetContext(context.Background())
	return cmd, &stdout, &stderr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunTasksPlain(t *testing.T) {
	cmd, stdout, stderr := newTaskCmd()
	ran := 0
	tasks := []task.Task{
		task.Func{Name: "Watchman", Action: func(tc *task.Context) error {
			ran++
			tc.Update("brew install watchman")
			return nil
		}},
	}

	if err := runTasks(cmd, discardLogger(), tasks, runOptions{title: "test"}); err != nil {
		t.Fatalf("runTasks: %v", err)
	}
	if ran != 1 {
		t.Errorf("ran %d times, want 1", ran)
	}
	out := stdout.String()
	for _, want := range []string{"PyTorch Live", "Installing Watchman", "brew install watchman", "✔ Watchman"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestRunTasksFailure(t *testing.T) {
	cmd, _, stderr := newTaskCmd()
	tasks := []task.Task{
		task.Func{Name: "clean Android build", Action: func(*task.Context) error { return errors.New("gradlew missing") }},
	}

	err := runTasks(cmd, discardLogger(), tasks, runOptions{})
	var exit *exitError
	if !errors.As(err, &exit) || exit.code != 1 {
		t.Fatalf("got err=%v, want exit code 1", err)
	}
	if !strings.Contains(stderr.String(), "🚨 💥 🚨 💥 🚨\n\ngradlew missing") {
		t.Errorf("missing failure banner: %q", stderr.String())
	}
}

func TestRunTasksPromptWithoutInput(t *testing.T) {
	consent := task.Func{Name: "Android SDK Manager", Action: func(tc *task.Context) error {
		return task.RequireConsent(tc, "Android SDK", "https://developer.android.com/studio/terms")
	}}

	cmd, _, stderr := newTaskCmd()
	if err := runTasks(cmd, discardLogger(), []task.Task{consent}, runOptions{}); err == nil {
		t.Fatal("expected failure without input")
	}
	if !strings.Contains(stderr.String(), "license prompt for Android SDK") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}

	cmd, _, _ = newTaskCmd()
	if err := runTasks(cmd, discardLogger(), []task.Task{consent}, runOptions{yes: true}); err != nil {
		t.Errorf("expected -y to accept, got %v", err)
	}
}
