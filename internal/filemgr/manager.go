// Package filemgr persists diagrams as markdown documents with an embedded
// metadata header, manages backups before overwrites, and detects
// hand-authored edits in previously generated documents.
package filemgr

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"archviz/internal/apperr"
	"archviz/internal/diagram"
)

// ManualEditMarker flags a document as hand-edited. Users place it anywhere
// in a generated file to protect their changes from being overwritten.
const ManualEditMarker = "<!-- manual-edits -->"

// generatedMarker opens the metadata block of every generated document.
const generatedMarker = "<!-- archviz:generated -->"

// Manager serializes diagram writes. Writes to the same output path are
// serialized through a per-path lock so the backup-then-write sequence
// never interleaves.
type Manager struct {
	version        string
	backup         bool
	preserveManual bool
	logger         *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Manager. version is embedded in every document's metadata
// block.
func New(logger *zap.Logger, version string, backup, preserveManual bool) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		version:        version,
		backup:         backup,
		preserveManual: preserveManual,
		logger:         logger,
		locks:          make(map[string]*sync.Mutex),
	}
}

// pathLock returns the mutex guarding one output path.
func (m *Manager) pathLock(path string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[path] = lock
	}
	return lock
}

// OutputPath returns the document path for a diagram type.
func OutputPath(outputDir string, t diagram.Type) string {
	return filepath.Join(outputDir, string(t)+".md")
}

// Write persists a diagram under outputDir and returns the document path.
// When the existing document carries manual edits and preservation is
// enabled, the file is left untouched and the diagram is flagged instead.
func (m *Manager) Write(d *diagram.Diagram, outputDir string) (string, error) {
	path := OutputPath(outputDir, d.Type)

	lock := m.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(path); err == nil {
		if m.preserveManual && DetectManualEdits(path) {
			merged := m.MergePreservingManualEdits(d, path)
			*d = *merged
			m.logger.Warn("manual edits detected, preserving existing document",
				zap.String("path", path),
				zap.String("type", string(d.Type)))
			return path, nil
		}
		if m.backup {
			if _, err := m.CreateBackup(path); err != nil {
				return "", err
			}
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", &apperr.FileIOError{Path: outputDir, Op: "mkdir", Err: err}
	}
	if err := os.WriteFile(path, []byte(Serialize(d, m.version)), 0o644); err != nil {
		return "", &apperr.FileIOError{Path: path, Op: "write", Err: err}
	}
	return path, nil
}

// CreateBackup copies an existing file to a timestamp-suffixed sibling
// before any overwrite. It is a no-op when the file does not exist.
func (m *Manager) CreateBackup(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &apperr.FileIOError{Path: path, Op: "backup", Err: err}
	}
	defer src.Close()

	backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
	dst, err := os.Create(backupPath)
	if err != nil {
		return "", &apperr.FileIOError{Path: backupPath, Op: "backup", Err: err}
	}

	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil {
		return "", &apperr.FileIOError{Path: backupPath, Op: "backup", Err: copyErr}
	}
	if closeErr != nil {
		return "", &apperr.FileIOError{Path: backupPath, Op: "backup", Err: closeErr}
	}
	return backupPath, nil
}

// DetectManualEdits reports whether the document at path contains the
// manual-edit marker.
func DetectManualEdits(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), ManualEditMarker)
}

// MergePreservingManualEdits flags the generated diagram as carrying
// manual edits. Content-level merging is intentionally not attempted: the
// safe behavior is to preserve the hand-edited document and surface the
// flag in the diagram metadata.
func (m *Manager) MergePreservingManualEdits(generated *diagram.Diagram, existingPath string) *diagram.Diagram {
	merged := *generated
	merged.ManualEdits = true
	return &merged
}

// Serialize renders a diagram as a markdown document: title, metadata
// block, fenced mermaid markup, and the contributing source files.
func Serialize(d *diagram.Diagram, version string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	b.WriteString(generatedMarker + "\n")
	fmt.Fprintf(&b, "- Generated: %s\n", d.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Generator: archviz %s\n", version)
	fmt.Fprintf(&b, "- Source files: %d\n", len(d.SourceFiles))
	if d.ManualEdits {
		b.WriteString("- Manual edits: preserved\n")
	}
	b.WriteString("\n```mermaid\n")
	b.WriteString(d.Markup)
	if !strings.HasSuffix(d.Markup, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("```\n\n## Source Files\n\n")
	for _, f := range d.SourceFiles {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return b.String()
}

// ExtractMarkup pulls the fenced mermaid block out of a generated
// document. It returns the raw content unchanged when no fence is found,
// so bare markup files can be validated too.
func ExtractMarkup(document string) string {
	const fence = "```mermaid"
	start := strings.Index(document, fence)
	if start < 0 {
		return document
	}
	rest := document[start+len(fence):]
	rest = strings.TrimPrefix(rest, "\n")
	if end := strings.Index(rest, "```"); end >= 0 {
		return rest[:end]
	}
	return rest
}
