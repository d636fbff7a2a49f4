// Package recovery implements the crash-recovery auto-save engine of
// §4.10 (C10): a periodic snapshot loop that writes each modified
// buffer's changed regions to a chunk file, a session lockfile that lets
// the next launch tell a clean exit from a crash, and the recovery/apply
// path that replays chunks back onto a file on disk.
//
// Every write goes through vfs.WriteFileAtomic (temp file, fsync,
// rename) so a crash mid-write never corrupts a previously-good
// snapshot; the session lockfile is probed for liveness with
// procutil.IsAlive rather than just its existence, since a stale lockfile
// left by a killed process must not be mistaken for a running instance.
package recovery
