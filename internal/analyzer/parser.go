package analyzer

import (
	"path/filepath"
	"strings"
)

// Parser turns raw file content into a StructuralRecord. Implementations
// must be stateless: a file either yields a complete record or an error,
// never a partial result. The rest of the system only depends on this
// interface, not on any particular language grammar.
type Parser interface {
	// Parse analyzes content read from relPath (relative to the analyzed
	// root). The returned record has FilePath, ModuleID, ContentHash and
	// IsTest left for the caller to fill in.
	Parse(relPath string, content []byte) (*StructuralRecord, error)
}

// ForLanguage returns the parser registered for the given language.
func ForLanguage(lang string) (Parser, bool) {
	switch lang {
	case "Go":
		return &GoParser{}, true
	case "Python":
		return &PythonParser{}, true
	default:
		return nil, false
	}
}

// extensionToLanguage maps file extensions to language names for the
// languages the scanner cares about.
var extensionToLanguage = map[string]string{
	".go":   "Go",
	".py":   "Python",
	".pyi":  "Python",
	".ts":   "TypeScript",
	".tsx":  "TypeScript",
	".js":   "JavaScript",
	".jsx":  "JavaScript",
	".java": "Java",
	".rs":   "Rust",
	".rb":   "Ruby",
	".sh":   "Shell",
	".sql":  "SQL",
	".yaml": "YAML",
	".yml":  "YAML",
	".json": "JSON",
	".toml": "TOML",
	".md":   "Markdown",
	".tf":   "Terraform",
}

// filenameToLanguage maps exact filenames to language names.
var filenameToLanguage = map[string]string{
	"Dockerfile": "Dockerfile",
	"Makefile":   "Makefile",
}

// DetectLanguage returns the language for a filename based on its
// extension or exact name, or "unknown".
func DetectLanguage(filename string) string {
	base := filepath.Base(filename)
	if lang, ok := filenameToLanguage[base]; ok {
		return lang
	}
	ext := strings.ToLower(filepath.Ext(base))
	if lang, ok := extensionToLanguage[ext]; ok {
		return lang
	}
	return "unknown"
}

// isTestFile returns true if the filename or path looks like a test file.
func isTestFile(relPath string) bool {
	lower := strings.ToLower(filepath.Base(relPath))

	if strings.HasSuffix(lower, "_test.go") {
		return true
	}
	if strings.HasPrefix(lower, "test_") || strings.HasSuffix(lower, "_test.py") {
		return true
	}
	for _, suffix := range []string{".test.js", ".test.ts", ".spec.js", ".spec.ts"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	relSlash := filepath.ToSlash(strings.ToLower(relPath))
	if strings.Contains(relSlash, "/test/") || strings.Contains(relSlash, "/tests/") ||
		strings.HasPrefix(relSlash, "test/") || strings.HasPrefix(relSlash, "tests/") {
		return true
	}
	return false
}
