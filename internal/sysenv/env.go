package sysenv

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Env is a process environment keyed by variable name.
type Env map[string]string

// EnvFromList parses KEY=VALUE pairs as returned by os.Environ.
func EnvFromList(list []string) Env {
	env := make(Env, len(list))
	for _, kv := range list {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Get returns the value of key or an empty string.
func (e Env) Get(key string) string {
	return e[key]
}

// PathList splits PATH into its entries.
func (e Env) PathList() []string {
	raw := e["PATH"]
	if raw == "" {
		return nil
	}
	return filepath.SplitList(raw)
}

// Environ renders the environment in os/exec form, sorted by key.
func (e Env) Environ() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e[k])
	}
	return out
}

// EnvOptions controls BuildEnvironment. Zero values fall back to the live
// process state.
type EnvOptions struct {
	// Base is the inherited environment. Nil means os.Environ().
	Base []string
	// Home is the user's home directory. Empty means os.UserHomeDir().
	Home string
	// JDKHome returns the discovered JDK home or "".
	JDKHome func() string
	// SDKRoot returns the discovered Android SDK root or "".
	SDKRoot func() string
	// Exists reports whether a directory exists. Nil means os.Stat.
	Exists func(path string) bool
}

// BuildEnvironment derives the environment external tools run with. Yarn's
// global bin directories are prepended when present, followed by JDK and
// Android SDK directories when those are discoverable, followed by the
// inherited PATH. No PATH entry appears twice. The result is recomputed on
// every call so a freshly installed tool becomes visible immediately.
func BuildEnvironment(opts EnvOptions) Env {
	base := opts.Base
	if base == nil {
		base = os.Environ()
	}
	env := EnvFromList(base)

	home := opts.Home
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	exists := opts.Exists
	if exists == nil {
		exists = dirExists
	}

	original := env.PathList()
	seen := make(map[string]bool, len(original))
	for _, p := range original {
		seen[filepath.Clean(p)] = true
	}

	var prefix []string
	add := func(dir string) {
		clean := filepath.Clean(dir)
		if seen[clean] {
			return
		}
		seen[clean] = true
		prefix = append(prefix, dir)
	}

	if home != "" {
		for _, dir := range []string{
			filepath.Join(home, ".yarn", "bin"),
			filepath.Join(home, ".config", "yarn", "global", "node_modules", ".bin"),
		} {
			if exists(dir) {
				add(dir)
			}
		}
	}

	if opts.JDKHome != nil {
		if jdk := opts.JDKHome(); jdk != "" {
			env["JAVA_HOME"] = jdk
			add(filepath.Join(jdk, "bin"))
		}
	}

	if opts.SDKRoot != nil {
		if sdk := opts.SDKRoot(); sdk != "" {
			env["ANDROID_HOME"] = sdk
			env["ANDROID_SDK_ROOT"] = sdk
			for _, sub := range []string{"platform-tools", "emulator", "tools", filepath.Join("tools", "bin")} {
				add(filepath.Join(sdk, sub))
			}
		}
	}

	dedup := make([]string, 0, len(original))
	kept := make(map[string]bool, len(original))
	for _, p := range original {
		clean := filepath.Clean(p)
		if kept[clean] {
			continue
		}
		kept[clean] = true
		dedup = append(dedup, p)
	}

	env["PATH"] = strings.Join(append(prefix, dedup...), string(os.PathListSeparator))
	return env
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
