package command_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"torchlive/internal/command"
	"torchlive/internal/sysenv"
	"torchlive/internal/sysenv/mocks"
)

func TestVersionEmptyOutputIsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Capture(gomock.Any(), "java2", []string{"-version"}).Return("", nil).Times(1)

	cmd := command.New("java2", exec, command.Options{
		VersionArgs: []string{"-version"},
		Platform:    sysenv.Linux,
	})
	assert.Nil(t, cmd.Version(context.Background()))
}

func TestVersionCachedAfterFirstResolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Capture(gomock.Any(), "test", []string{"--version"}).Return("1.2.2", nil).Times(1)

	cmd := command.New("test", exec, command.Options{Platform: sysenv.MacOS})
	ctx := context.Background()
	first := cmd.Version(ctx)
	second := cmd.Version(ctx)
	require.NotNil(t, first)
	assert.Equal(t, "1.2.2", first.String())
	assert.Same(t, first, second)
}

func TestFreshVersionBypassesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	gomock.InOrder(
		exec.EXPECT().Capture(gomock.Any(), "node", gomock.Any()).Return("v12.0.0", nil),
		exec.EXPECT().Capture(gomock.Any(), "node", gomock.Any()).Return("v16.3.1", nil),
	)

	cmd := command.New("node", exec, command.Options{Platform: sysenv.Linux})
	ctx := context.Background()
	assert.Equal(t, "12.0.0", cmd.Version(ctx).String())
	assert.Equal(t, "16.3.1", cmd.FreshVersion(ctx).String())
	assert.Equal(t, "16.3.1", cmd.Version(ctx).String())
}

func TestVersionExecuteFailureIsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Capture(gomock.Any(), "pod", gomock.Any()).
		Return("", &sysenv.ExitError{Command: "pod --version", Code: 1, Stderr: "dyld: Library not loaded"})

	cmd := command.New("pod", exec, command.Options{Platform: sysenv.MacOS})
	assert.Nil(t, cmd.Version(context.Background()))
}

func TestVersionlessNeverExecutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	cmd := command.New("avdmanager", exec, command.Options{Versionless: true, Platform: sysenv.MacOS})
	assert.True(t, cmd.Versionless())
	assert.Nil(t, cmd.Version(context.Background()))
}

func TestVersionPatternAndCustomParser(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().CaptureCombined(gomock.Any(), "javac", []string{"-version"}).
		Return(`openjdk version "1.8.0_292"`, nil)

	cmd := command.New("javac", exec, command.Options{
		VersionArgs:    []string{"-version"},
		VersionPattern: regexp.MustCompile(`\sversion\s"([\d._]*)"`),
		Platform:       sysenv.MacOS,
		Executors: map[sysenv.Platform]command.ExecFunc{
			sysenv.MacOS: func(ctx context.Context, c *command.Command, args []string) (string, error) {
				return c.Executor().CaptureCombined(ctx, c.Name(), args)
			},
		},
	})
	v := cmd.Version(context.Background())
	require.NotNil(t, v)
	assert.False(t, v.LessThan(command.MustParse("1.8.0_282")))
}

func TestExecuteUnsupportedPlatform(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	cmd := command.New("brew", exec, command.Options{Platform: sysenv.Windows})
	_, err := cmd.Execute(context.Background(), "--version")
	assert.ErrorIs(t, err, sysenv.ErrUnsupportedPlatform)
	assert.Nil(t, cmd.Version(context.Background()))
}

func TestPathAndIsInstalled(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().LookPath("yarn").Return("/usr/local/bin/yarn", nil).AnyTimes()
	exec.EXPECT().LookPath("watchman").Return("", errors.New("watchman: executable file not found in $PATH")).AnyTimes()

	ctx := context.Background()
	yarn := command.New("yarn", exec, command.Options{})
	assert.Equal(t, "/usr/local/bin/yarn", yarn.Path(ctx))
	assert.True(t, yarn.IsInstalled(ctx))

	watchman := command.New("watchman", exec, command.Options{})
	assert.Empty(t, watchman.Path(ctx))
	assert.False(t, watchman.IsInstalled(ctx))
}

func TestPathFuncOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	cmd := command.New("java", exec, command.Options{
		PathFunc: func(context.Context) string { return "/opt/homebrew/opt/openjdk@8" },
	})
	assert.Equal(t, "/opt/homebrew/opt/openjdk@8", cmd.Path(context.Background()))
}

func TestVersionFuncOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)

	calls := 0
	cmd := command.New("emulator", exec, command.Options{
		VersionFunc: func(context.Context, *command.Command) (*version.Version, error) {
			calls++
			return nil, errors.New("no binary")
		},
	})
	assert.Nil(t, cmd.Version(context.Background()))
	assert.Nil(t, cmd.Version(context.Background()))
	assert.Equal(t, 1, calls)
}
