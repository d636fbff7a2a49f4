package editor

import (
	"os"
	"path/filepath"
)

// defaultRecoveryDir locates the platform state-home recovery directory
// (§6 "Persisted recovery layout") when Settings.RecoveryDir is empty.
// No library in the retrieval pack provides a platform state-dir helper,
// so this uses os.UserConfigDir directly rather than hand-rolling one.
func defaultRecoveryDir() string {
	return filepath.Join(platformStateDir(), "corestash", "recovery")
}

// defaultLogDir locates the platform state-home log directory (§6 "Log
// layout") per-process log files are swept and written under.
func defaultLogDir() string {
	return filepath.Join(platformStateDir(), "corestash", "logs")
}

func platformStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return base
}
