package config

import "time"

// Settings is the typed view of the merged configuration layers that the
// editor core actually reads. Unlike the raw map exposed by Merged, this
// is what gets handed to the façade and re-derived on every reload.
type Settings struct {
	// TabWidth is the number of columns a tab character occupies when
	// expanding display lines (§6 tab expansion still uses the fixed
	// 8-column rule; this only affects indentation commands).
	TabWidth int

	// CoalesceWindowMs bounds how long the event log keeps grouping
	// consecutive single-character Insert/Delete events from the same
	// cursor into one undo step.
	CoalesceWindowMs int

	// AutoSaveIntervalMs is the recovery engine's auto-save tick period.
	AutoSaveIntervalMs int

	// RecoveryDir is where recovery metadata and chunk files are written.
	// Empty means the platform state directory's default.
	RecoveryDir string

	// MaxUndoEntries bounds the event log's undo stack.
	MaxUndoEntries int

	// ScrollSyncAnchorWindow is loaded from scrollSync.anchorWindow (in
	// lines). No scroll-sync code reads it; groups use only the anchors
	// they are given.
	ScrollSyncAnchorWindow int

	// PositionHistoryByteThreshold is loaded from
	// positionHistory.byteThreshold (in bytes). The position-history
	// stack is not configured from it; the editor passes it only
	// PositionHistoryMaxEntries.
	PositionHistoryByteThreshold int

	// PositionHistoryMaxEntries bounds the position-history stack.
	PositionHistoryMaxEntries int
}

// CoalesceWindow returns CoalesceWindowMs as a time.Duration.
func (s Settings) CoalesceWindow() time.Duration {
	return time.Duration(s.CoalesceWindowMs) * time.Millisecond
}

// AutoSaveInterval returns AutoSaveIntervalMs as a time.Duration.
func (s Settings) AutoSaveInterval() time.Duration {
	return time.Duration(s.AutoSaveIntervalMs) * time.Millisecond
}

// DefaultSettings returns the built-in defaults layer, matching spec §4.4,
// §4.9, §4.10 defaults and the 400ms coalescing window recovered from
// original_source (SPEC_FULL §12).
func DefaultSettings() Settings {
	return Settings{
		TabWidth:                     4,
		CoalesceWindowMs:             400,
		AutoSaveIntervalMs:           5000,
		RecoveryDir:                  "",
		MaxUndoEntries:               1000,
		ScrollSyncAnchorWindow:       10,
		PositionHistoryByteThreshold: 50,
		PositionHistoryMaxEntries:    100,
	}
}

// defaultsMap mirrors DefaultSettings as a nested map so it can sit in the
// layer.Manager's builtin layer alongside user/workspace TOML data.
func defaultsMap() map[string]any {
	d := DefaultSettings()
	return map[string]any{
		"editor": map[string]any{
			"tabWidth": d.TabWidth,
		},
		"history": map[string]any{
			"coalesceWindowMs": d.CoalesceWindowMs,
			"maxUndoEntries":   d.MaxUndoEntries,
		},
		"recovery": map[string]any{
			"autoSaveIntervalMs": d.AutoSaveIntervalMs,
			"dir":                d.RecoveryDir,
		},
		"scrollSync": map[string]any{
			"anchorWindow": d.ScrollSyncAnchorWindow,
		},
		"positionHistory": map[string]any{
			"byteThreshold": d.PositionHistoryByteThreshold,
			"maxEntries":    d.PositionHistoryMaxEntries,
		},
	}
}

// settingsFromMap reads a merged layer map into a Settings value, falling
// back to defaults for anything missing or mistyped.
func settingsFromMap(m map[string]any) Settings {
	s := DefaultSettings()
	s.TabWidth = intAt(m, s.TabWidth, "editor", "tabWidth")
	s.CoalesceWindowMs = intAt(m, s.CoalesceWindowMs, "history", "coalesceWindowMs")
	s.MaxUndoEntries = intAt(m, s.MaxUndoEntries, "history", "maxUndoEntries")
	s.AutoSaveIntervalMs = intAt(m, s.AutoSaveIntervalMs, "recovery", "autoSaveIntervalMs")
	s.RecoveryDir = stringAt(m, s.RecoveryDir, "recovery", "dir")
	s.ScrollSyncAnchorWindow = intAt(m, s.ScrollSyncAnchorWindow, "scrollSync", "anchorWindow")
	s.PositionHistoryByteThreshold = intAt(m, s.PositionHistoryByteThreshold, "positionHistory", "byteThreshold")
	s.PositionHistoryMaxEntries = intAt(m, s.PositionHistoryMaxEntries, "positionHistory", "maxEntries")
	return s
}

func intAt(m map[string]any, fallback int, path ...string) int {
	v, ok := navigate(m, path)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

func stringAt(m map[string]any, fallback string, path ...string) string {
	v, ok := navigate(m, path)
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

func navigate(m map[string]any, path []string) (any, bool) {
	var cur any = m
	for _, p := range path {
		cm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = cm[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
