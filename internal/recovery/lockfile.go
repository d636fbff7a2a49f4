package recovery

import (
	"encoding/json"
	"io/fs"
	"os"
	"time"

	"github.com/corestash/corestash/internal/procutil"
	"github.com/corestash/corestash/internal/vfs"
)

const lockfileName = "session.lock"

// AcquireSession writes a fresh session lockfile recording the current
// process, after checking whether an existing one names a still-live
// process (§4.10 startup). stale is true when a lockfile existed but its
// pid was not alive — the caller should treat every entry under dir as
// an orphan worth offering for recovery.
func AcquireSession(v vfs.VFS, dir string) (stale bool, err error) {
	path := v.Join(dir, lockfileName)

	if data, readErr := v.ReadFile(path); readErr == nil {
		var existing Lock
		if json.Unmarshal(data, &existing) == nil {
			stale = !procutil.IsAlive(existing.PID)
		}
	}

	wd, _ := os.Getwd()
	lock := Lock{PID: os.Getpid(), StartedAt: time.Now(), WorkingDir: wd}
	data, err := json.Marshal(lock)
	if err != nil {
		return stale, err
	}
	if err := vfs.WriteFileAtomic(v, path, data, fs.FileMode(0o644)); err != nil {
		return stale, err
	}
	return stale, nil
}

// ReleaseSession deletes the session lockfile, the clean-shutdown half
// of §4.10's lifecycle.
func ReleaseSession(v vfs.VFS, dir string) error {
	path := v.Join(dir, lockfileName)
	err := v.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
