package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"torchlive/internal/installers"
	"torchlive/internal/task"
)

var (
	initTemplate string
	deviceName   string
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Clean the Android build of the project in the current directory",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a new project from the PyTorch Live template",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().StringVarP(&initTemplate, "template", "t", installers.DefaultTemplate, "Project template package")
	return cmd
}

func newRunAndroidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-android",
		Short: "Boot an Android device if needed and run the app on it",
		Args:  cobra.NoArgs,
		RunE:  runRunAndroid,
	}
	cmd.Flags().StringVarP(&deviceName, "name", "n", "", "Name of the virtual device (default from config)")
	return cmd
}

func newEmulatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emulator",
		Short: "Boot the Android emulator",
		Args:  cobra.NoArgs,
		RunE:  runEmulator,
	}
	cmd.Flags().StringVarP(&deviceName, "name", "n", "", "Name of the virtual device (default from config)")
	return cmd
}

// runProjectTask runs the single task build returns in the current directory.
func runProjectTask(cmd *cobra.Command, title string, build func(a *app, dir string) task.Task) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return runTasks(cmd, a.sink.Logger("Orchestrator"), []task.Task{build(a, dir)}, runOptions{title: title})
}

func runClean(cmd *cobra.Command, _ []string) error {
	return runProjectTask(cmd, "Cleaning project", func(a *app, dir string) task.Task {
		return installers.Clean(a.deps(), dir)
	})
}

func runInit(cmd *cobra.Command, args []string) error {
	name := installers.DefaultProjectName
	if len(args) == 1 {
		name = args[0]
	}
	return runProjectTask(cmd, "Creating project", func(a *app, dir string) task.Task {
		return installers.Init(a.deps(), dir, name, initTemplate)
	})
}

func avdName(a *app) string {
	if deviceName != "" {
		return deviceName
	}
	return a.cfg.Android.AVDName
}

func runRunAndroid(cmd *cobra.Command, _ []string) error {
	return runProjectTask(cmd, "Running Android app", func(a *app, dir string) task.Task {
		return installers.RunAndroid(a.deps(), dir, avdName(a))
	})
}

func runEmulator(cmd *cobra.Command, _ []string) error {
	return runProjectTask(cmd, "Starting emulator", func(a *app, _ string) task.Task {
		return installers.BootEmulator(a.deps(), avdName(a))
	})
}
