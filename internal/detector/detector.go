// Package detector decides what a run actually needs to do: it persists a
// file-set/hash snapshot across invocations, classifies file-system changes
// against it, maps changed paths to affected diagram types, and recommends
// full versus incremental regeneration.
package detector

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"archviz/internal/analyzer"
)

// regenerateAbsoluteThreshold is the change count above which a full
// regeneration is always recommended.
const regenerateAbsoluteThreshold = 10

// ChangeSet classifies the file-system delta since the previous run.
type ChangeSet struct {
	Changed []string
	Added   []string
	Deleted []string

	// PreviousCount is the number of files known to the prior snapshot,
	// used by the full-regeneration heuristic.
	PreviousCount int
}

// Total returns the overall number of changed, added, and deleted files.
func (cs *ChangeSet) Total() int {
	return len(cs.Changed) + len(cs.Added) + len(cs.Deleted)
}

// Empty reports whether nothing changed.
func (cs *ChangeSet) Empty() bool { return cs.Total() == 0 }

// Detector compares the current source tree against the persisted
// snapshot.
type Detector struct {
	scanner   *analyzer.Analyzer
	statePath string
	logger    *zap.Logger
}

// New creates a Detector that scans with the given analyzer and keeps its
// snapshot at statePath.
func New(logger *zap.Logger, scanner *analyzer.Analyzer, statePath string) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{scanner: scanner, statePath: statePath, logger: logger}
}

// LastRun returns the timestamp of the previous snapshot, or the zero time
// when no prior state exists.
func (d *Detector) LastRun() time.Time {
	return LoadState(d.statePath).LastRun
}

// DetectChanges loads the snapshot, rescans the source tree, and
// classifies every file: present and newer than lastRun with a different
// hash is changed (if previously known) or added (if not); known files
// absent from the scan are deleted. The new snapshot is persisted before
// returning, so an immediate second call with no intervening change yields
// empty sets.
func (d *Detector) DetectChanges(ctx context.Context, lastRun time.Time) (*ChangeSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := LoadState(d.statePath)

	stats, err := d.scanner.ScanFiles()
	if err != nil {
		return nil, err
	}

	cs := &ChangeSet{PreviousCount: len(state.FileHashes)}
	current := make(map[string]string, len(stats))

	for _, st := range stats {
		current[st.RelPath] = st.Hash

		prevHash, known := state.FileHashes[st.RelPath]
		switch {
		case !known:
			cs.Added = append(cs.Added, st.RelPath)
		case st.ModTime.After(lastRun) && prevHash != st.Hash:
			cs.Changed = append(cs.Changed, st.RelPath)
		case prevHash != st.Hash:
			// Content differs even though the mtime predates the last run
			// (clock skew, restored files). Still a change.
			cs.Changed = append(cs.Changed, st.RelPath)
		}
	}

	for relPath := range state.FileHashes {
		if _, ok := current[relPath]; !ok {
			cs.Deleted = append(cs.Deleted, relPath)
		}
	}

	sort.Strings(cs.Changed)
	sort.Strings(cs.Added)
	sort.Strings(cs.Deleted)

	state.FileHashes = current
	state.LastRun = time.Now()
	if err := state.Save(d.statePath); err != nil {
		return nil, err
	}

	d.logger.Debug("change detection complete",
		zap.Int("changed", len(cs.Changed)),
		zap.Int("added", len(cs.Added)),
		zap.Int("deleted", len(cs.Deleted)))

	return cs, nil
}

// Snapshot rescans the tree and persists a fresh snapshot without
// classifying changes. Full runs call this so the next incremental run has
// a baseline.
func (d *Detector) Snapshot(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats, err := d.scanner.ScanFiles()
	if err != nil {
		return err
	}

	state := &State{
		FileHashes: make(map[string]string, len(stats)),
		LastRun:    time.Now(),
	}
	for _, st := range stats {
		state.FileHashes[st.RelPath] = st.Hash
	}
	return state.Save(d.statePath)
}

// ShouldRegenerateAll recommends a full regeneration when the change set
// is too large for incremental updates to pay off: more than half the
// previously known file count, or more than ten files, whichever triggers
// first.
func ShouldRegenerateAll(cs *ChangeSet) bool {
	total := cs.Total()
	if total == 0 {
		return false
	}
	if cs.PreviousCount > 0 && total*2 > cs.PreviousCount {
		return true
	}
	return total > regenerateAbsoluteThreshold
}
