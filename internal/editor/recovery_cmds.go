package editor

import "github.com/corestash/corestash/internal/recovery"

// cmdRecoveryList implements "recovery-list": enumerates recoverable
// entries from a prior crashed session. Corrupted entries are skipped
// (and logged) rather than failing the whole command, per §7
// RecoveryCorrupted's "entry is logged and skipped" policy.
func (e *Editor) cmdRecoveryList(_ Payload) error {
	entries, errs := recovery.ListOrphans(e.fs, e.recovery.Dir())
	for _, err := range errs {
		e.log.Warn("editor.recovery_corrupted").Err(err).Send()
	}
	for _, entry := range entries {
		e.reportInfo("recoverable: " + entry.ID)
	}
	return nil
}

// cmdRecoveryAcceptAll implements "recovery-accept-all": applies every
// listed entry, reporting (but not failing on) any whose original file
// was modified since the snapshot (§7 OriginalFileModified).
func (e *Editor) cmdRecoveryAcceptAll(_ Payload) error {
	entries, _ := recovery.ListOrphans(e.fs, e.recovery.Dir())
	for _, entry := range entries {
		if err := recovery.Accept(e.fs, e.recovery.Dir(), entry); err != nil {
			e.reportError("recovery-accept-all", err)
		}
	}
	return nil
}

// cmdRecoveryDiscardAll implements "recovery-discard-all": deletes every
// listed entry's chunk and metadata files without applying them.
func (e *Editor) cmdRecoveryDiscardAll(_ Payload) error {
	entries, _ := recovery.ListOrphans(e.fs, e.recovery.Dir())
	for _, entry := range entries {
		if err := recovery.Discard(e.fs, e.recovery.Dir(), entry); err != nil {
			e.reportError("recovery-discard-all", err)
		}
	}
	return nil
}
