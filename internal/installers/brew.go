package installers

import (
	"context"
	"strings"

	"torchlive/internal/command"
	"torchlive/internal/sysenv"
	"torchlive/internal/task"
	"torchlive/internal/toolchain"
)

const homebrewScript = `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`

// Homebrew installs the Homebrew package manager.
type Homebrew struct{ *Deps }

func (Homebrew) Description() string { return "Homebrew" }

func (h Homebrew) IsValid(context.Context) bool { return h.macOS() }

func (h Homebrew) IsInstalled(ctx context.Context) bool { return h.Tools.Brew.IsInstalled(ctx) }

func (h Homebrew) Command() *command.Command { return h.Tools.Brew }

func (h Homebrew) MitigateOnError() string {
	return task.InstallerMitigation(h.Description(), "https://brew.sh")
}

func (h Homebrew) Run(tc *task.Context) error {
	tc.Updatef("Installing %s", h.Description())
	err := h.stream(tc, "/bin/bash", []string{"-c", homebrewScript}, sysenv.StreamOptions{
		ExtraEnv: map[string]string{"NONINTERACTIVE": "1"},
	})
	if err != nil {
		return err
	}
	tc.Updatef("Installed %s", h.Description())
	return nil
}

// Formula installs a Homebrew formula or cask and reports the version of
// the command it provides.
type Formula struct {
	*Deps
	Name string
	// Args follow `brew install`.
	Args []string
	Cmd  *command.Command
	// Installed overrides the bound command's IsInstalled.
	Installed func(ctx context.Context) bool
	Link      string
}

func (f Formula) Description() string { return f.Name }

func (f Formula) IsValid(context.Context) bool { return f.macOS() }

func (f Formula) IsInstalled(ctx context.Context) bool {
	if f.Installed != nil {
		return f.Installed(ctx)
	}
	return f.Cmd != nil && f.Cmd.IsInstalled(ctx)
}

func (f Formula) Command() *command.Command { return f.Cmd }

func (f Formula) MitigateOnError() string {
	if f.Link == "" {
		return ""
	}
	return task.InstallerMitigation(f.Name, f.Link)
}

func (f Formula) Run(tc *task.Context) error {
	tc.Updatef("brew install %s", strings.Join(f.Args, " "))
	return f.brewInstall(tc, f.Args...)
}

// OpenJDK installs openjdk@8. It counts as installed once a JDK home is
// discoverable.
func OpenJDK(d *Deps) Formula {
	return Formula{
		Deps: d,
		Name: "OpenJDK",
		Args: []string{"openjdk@8"},
		Cmd:  d.Tools.Javac,
		Installed: func(context.Context) bool {
			return toolchain.JDKHome(d.Platform, "", nil) != ""
		},
		Link: "https://openjdk.java.net/install/",
	}
}

func Watchman(d *Deps) Formula {
	return Formula{Deps: d, Name: "Watchman", Args: []string{"watchman"}, Cmd: d.Tools.Watchman,
		Link: "https://facebook.github.io/watchman/docs/install"}
}

// Node needs npm alongside node.
func Node(d *Deps) Formula {
	return Formula{
		Deps: d,
		Name: "Node",
		Args: []string{"node"},
		Cmd:  d.Tools.Node,
		Installed: func(ctx context.Context) bool {
			if !d.Tools.Node.IsInstalled(ctx) {
				return false
			}
			_, err := d.Exec.LookPath("npm")
			return err == nil
		},
		Link: "https://nodejs.org/en/download/",
	}
}

func Yarn(d *Deps) Formula {
	return Formula{Deps: d, Name: "Yarn", Args: []string{"yarn"}, Cmd: d.Tools.Yarn,
		Link: "https://classic.yarnpkg.com/en/docs/install"}
}

// IntelHAXM installs the hardware accelerator on Intel Macs that have no
// Intel kernel extension loaded. It never reports itself installed.
type IntelHAXM struct{ *Deps }

func (IntelHAXM) Description() string { return "Intel HAXM" }

func (h IntelHAXM) IsValid(ctx context.Context) bool {
	if !h.macOS() || h.GOARCH != "amd64" {
		return false
	}
	out, err := h.Exec.Capture(ctx, "kextstat", nil)
	if err != nil {
		return false
	}
	return !strings.Contains(strings.ToLower(out), "intel")
}

func (IntelHAXM) IsInstalled(context.Context) bool { return false }

func (h IntelHAXM) MitigateOnError() string {
	return task.InstallerMitigation(h.Description(), "https://github.com/intel/haxm")
}

func (h IntelHAXM) Run(tc *task.Context) error {
	return h.brewInstall(tc, "--cask", "intel-haxm")
}
