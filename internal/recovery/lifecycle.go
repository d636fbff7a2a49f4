package recovery

import "github.com/corestash/corestash/internal/vfs"

// StartSession acquires the session lockfile and, if the previous
// session left it stale, returns every orphaned recovery entry found
// under dir for the caller to offer the user (§4.10 startup).
func StartSession(v vfs.VFS, dir string) (orphans []Entry, errs []error, err error) {
	stale, acquireErr := AcquireSession(v, dir)
	if acquireErr != nil {
		return nil, nil, acquireErr
	}
	if !stale {
		return nil, nil, nil
	}
	orphans, errs = ListOrphans(v, dir)
	return orphans, errs, nil
}

// EndSession deletes the recovery entries for every cleanly-saved
// buffer id and releases the session lockfile (§4.10 shutdown).
func EndSession(v vfs.VFS, dir string, cleanlySavedIDs []string) error {
	entries, _ := ListOrphans(v, dir)
	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	for _, id := range cleanlySavedIDs {
		if e, ok := byID[id]; ok {
			_ = Discard(v, dir, e)
		}
	}
	return ReleaseSession(v, dir)
}
