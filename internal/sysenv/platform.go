package sysenv

import (
	"errors"
	"runtime"
)

// Platform identifies the host operating system.
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Windows Platform = "windows"
)

// ErrUnsupportedPlatform is returned when an operation has no strategy for the
// host platform. It signals a programming or packaging mistake.
var ErrUnsupportedPlatform = errors.New("platform unsupported")

// Current returns the platform the binary is running on.
func Current() Platform {
	return Platform(runtime.GOOS)
}

func (p Platform) IsMacOS() bool { return p == MacOS }

func (p Platform) IsLinux() bool { return p == Linux }

func (p Platform) String() string { return string(p) }
