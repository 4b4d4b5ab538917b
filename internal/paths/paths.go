package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// UserPaths captures the per-user locations torchlive reads and writes.
type UserPaths struct {
	Home       string
	Root       string
	ConfigFile string
	LogsDir    string
	LogFile    string

	AndroidDir      string
	AVDDir          string
	RepositoriesCfg string
}

// Resolve determines the user's home directory using the optional override
// or the current user's home when it is empty.
func Resolve(homeFlag string) (UserPaths, error) {
	var (
		home string
		err  error
	)

	if homeFlag != "" {
		home, err = filepath.Abs(homeFlag)
	} else {
		home, err = os.UserHomeDir()
	}
	if err != nil {
		return UserPaths{}, fmt.Errorf("resolve home directory: %w", err)
	}

	return newUserPaths(home), nil
}

func newUserPaths(home string) UserPaths {
	root := filepath.Join(home, ".torchlive")
	logs := filepath.Join(root, "logs")
	android := filepath.Join(home, ".android")
	return UserPaths{
		Home:            home,
		Root:            root,
		ConfigFile:      filepath.Join(root, "config.yaml"),
		LogsDir:         logs,
		LogFile:         filepath.Join(logs, "torchlive.log"),
		AndroidDir:      android,
		AVDDir:          filepath.Join(android, "avd"),
		RepositoriesCfg: filepath.Join(android, "repositories.cfg"),
	}
}

// AVDConfig returns the config.ini of the named virtual device.
func (p UserPaths) AVDConfig(name string) string {
	return filepath.Join(p.AVDDir, name+".avd", "config.ini")
}

// Expand resolves a leading ~ against Home.
func (p UserPaths) Expand(value string) string {
	if value == "~" {
		return p.Home
	}
	if len(value) > 1 && value[0] == '~' && (value[1] == '/' || value[1] == filepath.Separator) {
		return filepath.Join(p.Home, value[2:])
	}
	return value
}

// EnsureRoot creates ~/.torchlive and its logs directory.
func (p UserPaths) EnsureRoot() error {
	for _, dir := range []string{p.Root, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
