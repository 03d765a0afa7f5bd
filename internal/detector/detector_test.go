package detector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archviz/internal/analyzer"
)

func newTestDetector(t *testing.T, root string) *Detector {
	t.Helper()
	scanner := analyzer.New(nil, analyzer.Options{Root: root})
	statePath := filepath.Join(t.TempDir(), "state.json")
	return New(nil, scanner, statePath)
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectChanges_FirstRunReportsAllAdded(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.py", "a = 1\n")
	write(t, root, "b.py", "b = 2\n")

	d := newTestDetector(t, root)
	cs, err := d.DetectChanges(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "b.py"}, cs.Added)
	assert.Empty(t, cs.Changed)
	assert.Empty(t, cs.Deleted)
	assert.Zero(t, cs.PreviousCount)
}

func TestDetectChanges_Idempotent(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.py", "a = 1\n")

	d := newTestDetector(t, root)

	first, err := d.DetectChanges(context.Background(), time.Time{})
	require.NoError(t, err)
	require.False(t, first.Empty())

	// No intervening file change: an immediate second call sees nothing.
	second, err := d.DetectChanges(context.Background(), d.LastRun())
	require.NoError(t, err)
	assert.True(t, second.Empty(), "second call should report no changes: %+v", second)
}

func TestDetectChanges_ClassifiesChangeAddDelete(t *testing.T) {
	root := t.TempDir()
	write(t, root, "keep.py", "k = 1\n")
	write(t, root, "gone.py", "g = 1\n")
	write(t, root, "edit.py", "e = 1\n")

	d := newTestDetector(t, root)
	_, err := d.DetectChanges(context.Background(), time.Time{})
	require.NoError(t, err)
	lastRun := d.LastRun()

	write(t, root, "edit.py", "e = 2\n")
	write(t, root, "new.py", "n = 1\n")
	require.NoError(t, os.Remove(filepath.Join(root, "gone.py")))

	cs, err := d.DetectChanges(context.Background(), lastRun)
	require.NoError(t, err)

	assert.Equal(t, []string{"edit.py"}, cs.Changed)
	assert.Equal(t, []string{"new.py"}, cs.Added)
	assert.Equal(t, []string{"gone.py"}, cs.Deleted)
	assert.Equal(t, 3, cs.PreviousCount)
}

func TestDetectChanges_HashChangeWithOldMtime(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.py", "a = 1\n")

	d := newTestDetector(t, root)
	_, err := d.DetectChanges(context.Background(), time.Time{})
	require.NoError(t, err)

	// Rewrite content but backdate the mtime past the last run.
	write(t, root, "a.py", "a = 999\n")
	old := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "a.py"), old, old))

	cs, err := d.DetectChanges(context.Background(), d.LastRun())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, cs.Changed, "content change must register despite stale mtime")
}

func TestSnapshot_BaselinesForNextRun(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.py", "a = 1\n")

	d := newTestDetector(t, root)
	require.NoError(t, d.Snapshot(context.Background()))

	cs, err := d.DetectChanges(context.Background(), d.LastRun())
	require.NoError(t, err)
	assert.True(t, cs.Empty())
}

func TestLoadState_MissingOrCorrupt(t *testing.T) {
	missing := LoadState(filepath.Join(t.TempDir(), "nope.json"))
	require.NotNil(t, missing)
	assert.Empty(t, missing.FileHashes)

	corruptPath := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(corruptPath, []byte("{not json"), 0o644))
	corrupt := LoadState(corruptPath)
	require.NotNil(t, corrupt)
	assert.Empty(t, corrupt.FileHashes)
}

func TestStateSave_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s := &State{
		FileHashes: map[string]string{"a.py": "deadbeef"},
		LastRun:    time.Now().Truncate(time.Second),
	}
	require.NoError(t, s.Save(path))

	loaded := LoadState(path)
	assert.Equal(t, s.FileHashes, loaded.FileHashes)
	assert.True(t, s.LastRun.Equal(loaded.LastRun))
}

func TestShouldRegenerateAll_Thresholds(t *testing.T) {
	cases := []struct {
		name     string
		total    int
		previous int
		want     bool
	}{
		{"empty change set", 0, 20, false},
		{"majority of small tree", 11, 20, true},
		{"single file in small tree", 1, 20, false},
		{"many files in large tree", 11, 100, true},
		{"few files in large tree", 5, 100, false},
		{"no prior state, small set", 2, 0, false},
		{"no prior state, large set", 11, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cs := &ChangeSet{PreviousCount: tc.previous}
			for i := 0; i < tc.total; i++ {
				cs.Changed = append(cs.Changed, "f")
			}
			assert.Equal(t, tc.want, ShouldRegenerateAll(cs))
		})
	}
}

func TestAffectedTypes_KeywordMapping(t *testing.T) {
	cs := &ChangeSet{
		Changed: []string{"models/order.py"},
		Added:   []string{"api/handlers/users.py"},
		Deleted: []string{"tests/test_orders.py"},
	}

	affected := AffectedTypes(cs)

	// Whole-graph types are always affected.
	assert.True(t, affected["architecture"])
	assert.True(t, affected["component"])
	assert.True(t, affected["package"])
	assert.True(t, affected["class"])

	assert.True(t, affected["er"], "model change must affect the ER diagram")
	assert.True(t, affected["sequence"], "handler change must affect sequences")
	assert.True(t, affected["usecase"])
	assert.True(t, affected["coverage"], "test change must affect coverage")
	assert.False(t, affected["deployment"])
}

func TestAffectedTypes_EmptyChangeSet(t *testing.T) {
	affected := AffectedTypes(&ChangeSet{})
	assert.False(t, affected["class"], "no change means no class regeneration")
	assert.True(t, affected["architecture"])
}
