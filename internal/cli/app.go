package cli

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"torchlive/internal/android"
	"torchlive/internal/config"
	"torchlive/internal/installers"
	"torchlive/internal/logx"
	"torchlive/internal/paths"
	"torchlive/internal/sysenv"
	"torchlive/internal/toolchain"
)

// app holds everything one invocation shares: paths, config, the log sink
// and the tool catalogue.
type app struct {
	paths    paths.UserPaths
	cfg      config.Config
	sink     *logx.Sink
	platform sysenv.Platform
	exec     sysenv.Executor
	sdk      *android.SDK
	tools    *toolchain.Toolchain
	logger   *slog.Logger
}

func resolveConfigPath(pp paths.UserPaths) string {
	if strings.TrimSpace(configPath) == "" {
		return pp.ConfigFile
	}
	return pp.Expand(configPath)
}

func newApp(cmd *cobra.Command) (*app, error) {
	pp, err := paths.Resolve(homeDir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(resolveConfigPath(pp))
	if err != nil {
		return nil, err
	}
	stderr := cmd.ErrOrStderr()
	for _, v := range cfg.Validate() {
		if v.Level == "error" {
			return nil, fmt.Errorf("invalid config: %s", v.Message)
		}
		fmt.Fprintf(stderr, "warning: %s\n", v.Message)
	}

	var echo io.Writer
	if verbose {
		echo = stderr
	}
	if err := pp.EnsureRoot(); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
	sink, err := logx.Open(pp.LogsDir, logx.Options{
		MaxSize:  cfg.Log.MaxSizeBytes(),
		MaxFiles: cfg.Log.MaxFiles,
		Echo:     echo,
	})
	if err != nil {
		fmt.Fprintf(stderr, "warning: log file disabled: %v\n", err)
	}

	platform := sysenv.Current()
	sdk := android.NewSDK(pp.Home, platform)
	runner := sysenv.NewRunner(toolchain.Environment(pp.Home, platform, sdk), sink.Logger("SystemUtils"))

	a := &app{
		paths:    pp,
		cfg:      cfg,
		sink:     sink,
		platform: platform,
		exec:     runner,
		sdk:      sdk,
		tools:    toolchain.New(runner, sdk, platform, sink.Logger("Command")),
		logger:   sink.Logger("CLI"),
	}
	a.logger.Info("invoked", "command", cmd.CommandPath(), "platform", platform, "version", version)
	return a, nil
}

func (a *app) Close() error {
	return a.sink.Close()
}

// deps builds the installer dependencies for this invocation.
func (a *app) deps() *installers.Deps {
	return &installers.Deps{
		Tools:      a.tools,
		Exec:       a.exec,
		SDK:        a.sdk,
		Sudo:       sysenv.NewSudo(a.exec),
		Downloader: android.NewDownloader(),
		Paths:      a.paths,
		Config:     a.cfg,
		Platform:   a.platform,
		GOARCH:     runtime.GOARCH,
		Stamp:      version,
		Logger:     a.sink.Logger("Installer"),
	}
}
