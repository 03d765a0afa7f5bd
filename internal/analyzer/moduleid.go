package analyzer

import (
	"path/filepath"
	"strings"
)

// ModuleID derives the module identifier for a file path relative to the
// analyzed root. The derivation is pure and deterministic: strip the
// extension, convert path separators to dots, collapse package index files,
// and drop the configured root package prefix. Two distinct files never
// collide and the same file always maps to the same identifier across runs.
func ModuleID(relPath, rootPackage string) string {
	p := filepath.ToSlash(relPath)

	ext := filepath.Ext(p)
	if ext != "" {
		p = p[:len(p)-len(ext)]
	}

	// A Python package's __init__ file identifies the package itself.
	p = strings.TrimSuffix(p, "/__init__")
	if p == "__init__" {
		p = ""
	}

	id := strings.ReplaceAll(p, "/", ".")

	if rootPackage != "" {
		if id == rootPackage {
			return id
		}
		id = strings.TrimPrefix(id, rootPackage+".")
	}

	return id
}

// stripRelativeMarkers removes leading relative-import dots from an import
// target (e.g. "..pkg.mod" -> "pkg.mod"). The count of markers is not
// preserved; resolution matches against known module identifiers by suffix.
func stripRelativeMarkers(target string) string {
	return strings.TrimLeft(target, ".")
}
