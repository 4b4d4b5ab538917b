package installers

import "torchlive/internal/task"

// SetupDevTasks returns the setup-dev installers in run order.
func SetupDevTasks(d *Deps) []task.Task {
	return []task.Task{
		Homebrew{d},
		OpenJDK(d),
		Watchman(d),
		Node(d),
		Yarn(d),
		AndroidSDK{d},
		AndroidSDKManager{d},
		AndroidEmulatorSkins{d},
		AndroidEmulator{d},
		IntelHAXM{d},
		CocoaPods{d},
	}
}
