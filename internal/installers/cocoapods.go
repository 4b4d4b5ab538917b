package installers

import (
	"context"
	"fmt"

	"torchlive/internal/command"
	"torchlive/internal/config"
	"torchlive/internal/sysenv"
	"torchlive/internal/task"
)

const (
	choiceGem      = "Yes, with gem (may require sudo)"
	choiceHomebrew = "Yes, with Homebrew"

	cocoaPodsQuestion = "CocoaPods (https://cocoapods.org/) is not installed. It's necessary for iOS project to run correctly. Do you want to install it?"
	sudoMessage       = "CocoaPods install requires `sudo` access\n\nPassword:"
)

// CocoaPods installs pod with gem or Homebrew. The choice comes from the
// run values when preset, otherwise the user is asked.
type CocoaPods struct{ *Deps }

func (CocoaPods) Description() string { return "CocoaPods" }

func (c CocoaPods) IsValid(context.Context) bool { return c.macOS() }

func (c CocoaPods) IsInstalled(ctx context.Context) bool { return c.Tools.CocoaPods.IsInstalled(ctx) }

func (c CocoaPods) Command() *command.Command { return c.Tools.CocoaPods }

func (c CocoaPods) MitigateOnError() string {
	return task.InstallerMitigation(c.Description(), "https://guides.cocoapods.org/using/getting-started.html")
}

func (c CocoaPods) installer(tc *task.Context) (string, error) {
	if preset := tc.Values.String(ValueCocoaPodsInstaller); preset != "" {
		return preset, nil
	}
	choice, err := tc.Prompter.Select(cocoaPodsQuestion, []string{choiceGem, choiceHomebrew})
	if err != nil {
		return "", fmt.Errorf("choose cocoapods installer: %w", err)
	}
	if choice == choiceGem {
		return config.InstallerGem, nil
	}
	return config.InstallerHomebrew, nil
}

func (c CocoaPods) Run(tc *task.Context) error {
	installer, err := c.installer(tc)
	if err != nil {
		return err
	}
	c.logger().Info("installing cocoapods", "installer", installer)
	switch installer {
	case config.InstallerGem:
		return c.installWithGem(tc)
	case config.InstallerHomebrew:
		return c.brewInstall(tc, "cocoapods")
	default:
		return fmt.Errorf("unknown cocoapods installer %q", installer)
	}
}

func (c CocoaPods) installWithGem(tc *task.Context) error {
	sudo := c.Sudo
	if sudo == nil {
		sudo = sysenv.NewSudo(c.Exec)
	}
	tc.Update("CocoaPods requires sudo privileges to install")
	if err := sudo.Elevate(tc.Context(), tc.Prompter, sudoMessage); err != nil {
		return err
	}
	defer func() {
		if err := sudo.Release(context.WithoutCancel(tc.Context())); err != nil {
			c.logger().Warn("release sudo", "err", err)
		}
	}()

	tc.Updatef("Installing %s", c.Description())
	if err := c.stream(tc, "sudo", []string{"gem", "install", "cocoapods"}, sysenv.StreamOptions{}); err != nil {
		return err
	}
	tc.Updatef("Installed %s", c.Description())
	return nil
}
