package toolchain

import (
	"os"
	"path/filepath"

	"torchlive/internal/sysenv"
)

// JDKCandidates lists the directories checked for an OpenJDK 8 install.
func JDKCandidates(platform sysenv.Platform) []string {
	switch platform {
	case sysenv.MacOS:
		return []string{
			"/opt/homebrew/opt/openjdk@8",
			"/usr/local/opt/openjdk@8",
		}
	case sysenv.Linux:
		return []string{
			"/usr/lib/jvm/java-8-openjdk-amd64",
			"/usr/lib/jvm/java-1.8.0-openjdk",
			"/usr/lib/jvm/java-8-openjdk",
		}
	default:
		return nil
	}
}

// JDKHome finds the JDK the environment should expose. An explicit
// JAVA_HOME wins when it contains bin/javac. Only the filesystem is
// consulted so the result can feed the process environment without running
// anything.
func JDKHome(platform sysenv.Platform, javaHome string, exists func(string) bool) string {
	if exists == nil {
		exists = fileExists
	}
	if javaHome != "" && exists(filepath.Join(javaHome, "bin", "javac")) {
		return javaHome
	}
	for _, dir := range JDKCandidates(platform) {
		if exists(filepath.Join(dir, "bin", "javac")) {
			return dir
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
