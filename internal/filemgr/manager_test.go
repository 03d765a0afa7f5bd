package filemgr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archviz/internal/diagram"
)

func sampleDiagram() *diagram.Diagram {
	return &diagram.Diagram{
		Type:        diagram.TypeClass,
		Title:       "Class Diagram (2 types)",
		Markup:      "classDiagram\n    class A\n    class B\n",
		SourceFiles: []string{"core/a.py", "core/b.py"},
		GeneratedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
	}
}

func TestSerialize_DocumentLayout(t *testing.T) {
	doc := Serialize(sampleDiagram(), "1.2.3")

	assert.True(t, strings.HasPrefix(doc, "# Class Diagram (2 types)\n"))
	assert.Contains(t, doc, "- Generated: 2026-08-23T12:00:00Z")
	assert.Contains(t, doc, "- Generator: archviz 1.2.3")
	assert.Contains(t, doc, "- Source files: 2")
	assert.Contains(t, doc, "```mermaid\nclassDiagram\n")
	assert.Contains(t, doc, "## Source Files\n\n- core/a.py\n- core/b.py\n")
	assert.NotContains(t, doc, ManualEditMarker)
}

func TestWrite_CreatesDocument(t *testing.T) {
	m := New(nil, "dev", true, true)
	outDir := filepath.Join(t.TempDir(), "diagrams")

	path, err := m.Write(sampleDiagram(), outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "class.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "classDiagram")
}

func TestWrite_BacksUpBeforeOverwrite(t *testing.T) {
	m := New(nil, "dev", true, true)
	outDir := t.TempDir()

	_, err := m.Write(sampleDiagram(), outDir)
	require.NoError(t, err)

	d := sampleDiagram()
	d.Markup = "classDiagram\n    class C\n"
	_, err = m.Write(d, outDir)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(outDir, "class.md.*.bak"))
	require.NoError(t, err)
	assert.Len(t, matches, 1, "one backup per overwrite")

	backup, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(backup), "class A", "backup keeps the previous content")
}

func TestWrite_NoBackupWhenDisabled(t *testing.T) {
	m := New(nil, "dev", false, true)
	outDir := t.TempDir()

	_, err := m.Write(sampleDiagram(), outDir)
	require.NoError(t, err)
	_, err = m.Write(sampleDiagram(), outDir)
	require.NoError(t, err)

	matches, _ := filepath.Glob(filepath.Join(outDir, "*.bak"))
	assert.Empty(t, matches)
}

func TestDetectManualEdits(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.md")
	edited := filepath.Join(dir, "edited.md")

	require.NoError(t, os.WriteFile(clean, []byte("# Doc\n"), 0o644))
	require.NoError(t, os.WriteFile(edited, []byte("# Doc\n"+ManualEditMarker+"\nmy notes\n"), 0o644))

	assert.False(t, DetectManualEdits(clean))
	assert.True(t, DetectManualEdits(edited))
	assert.False(t, DetectManualEdits(filepath.Join(dir, "absent.md")))
}

func TestWrite_PreservesManuallyEditedDocument(t *testing.T) {
	m := New(nil, "dev", true, true)
	outDir := t.TempDir()

	_, err := m.Write(sampleDiagram(), outDir)
	require.NoError(t, err)

	// A user edits the generated document and flags it.
	path := OutputPath(outDir, diagram.TypeClass)
	edited := "# My Diagram\n" + ManualEditMarker + "\nhand-drawn content\n"
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	d := sampleDiagram()
	_, err = m.Write(d, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, string(data), "manual edits must survive regeneration")
	assert.True(t, d.ManualEdits, "diagram flagged so the run can warn")
}

func TestWrite_OverwritesManualEditsWhenPreservationOff(t *testing.T) {
	m := New(nil, "dev", false, false)
	outDir := t.TempDir()

	path := OutputPath(outDir, diagram.TypeClass)
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(ManualEditMarker), 0o644))

	d := sampleDiagram()
	_, err := m.Write(d, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "classDiagram")
	assert.False(t, d.ManualEdits)
}

func TestCreateBackup_MissingFileIsNoop(t *testing.T) {
	m := New(nil, "dev", true, true)
	backup, err := m.CreateBackup(filepath.Join(t.TempDir(), "absent.md"))
	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestExtractMarkup(t *testing.T) {
	doc := Serialize(sampleDiagram(), "dev")
	markup := ExtractMarkup(doc)
	assert.Equal(t, "classDiagram\n    class A\n    class B\n", markup)

	// Bare markup passes through untouched.
	assert.Equal(t, "graph TD\n", ExtractMarkup("graph TD\n"))
}
