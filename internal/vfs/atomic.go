package vfs

import (
	"fmt"
	"io/fs"
	"os"
)

// WriteFileAtomic writes data to path via a temp-file-then-rename sequence:
// write to path+".tmp", fsync it, then rename over path. The recovery
// engine (C10) writes its chunks, metadata, lockfile and accepted files
// through it so a crash mid-write never leaves a half-written file in place.
//
// When v is an *OSFS the temp file is fsynced before the rename; other VFS
// backends (e.g. the in-memory test double) fall back to a plain
// WriteFile, since they have no durability story to protect.
func WriteFileAtomic(v VFS, path string, data []byte, perm fs.FileMode) error {
	osfs, ok := v.(*OSFS)
	if !ok {
		return v.WriteFile(path, data, perm)
	}
	return osfs.writeFileAtomic(path, data, perm)
}

func (f *OSFS) writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create temp file %s: %w", tmp, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file %s: %w", tmp, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("fsync temp file %s: %w", tmp, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	return nil
}

// IsPermissionDenied reports whether err represents an EACCES-class
// failure, the trigger for escalating a save to SudoSaveRequired (§7).
func IsPermissionDenied(err error) bool {
	return os.IsPermission(err)
}
