package klog

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/corestash/corestash/internal/procutil"
)

// SweepStaleLogs removes per-process log files under dir that are older
// than 24h and whose suffixed PID is no longer a live process, per spec
// §6 "Log layout".
func SweepStaleLogs(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "corestash.") || !strings.HasSuffix(name, ".log") {
			continue
		}
		pid, ok := pidFromName(name)
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if procutil.IsAlive(pid) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
}

func pidFromName(name string) (int, bool) {
	trimmed := strings.TrimPrefix(name, "corestash.")
	trimmed = strings.TrimSuffix(trimmed, ".log")
	pid, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return pid, true
}
