// Package apperr defines the error taxonomy shared across the pipeline.
// File-level and diagram-level errors are recoverable and stay isolated to
// their unit of work; only AnalysisError and ConfigurationError are fatal.
package apperr

import "fmt"

// ParseError reports that a single source file could not be parsed.
// Callers skip the file and continue the scan.
type ParseError struct {
	Path   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Detail)
}

// AnalysisError reports a whole-tree failure (source root missing or
// unreadable). It aborts the run before any generation starts.
type AnalysisError struct {
	Root string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s: %v", e.Root, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// GenerationError reports that one diagram type failed to generate.
// Sibling diagram types continue.
type GenerationError struct {
	DiagramType string
	Err         error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s diagram: %v", e.DiagramType, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// FileIOError reports a write or backup failure for one output document.
type FileIOError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid configuration value. It fails the
// run before the pipeline starts and is never silently corrected.
type ConfigurationError struct {
	Field  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Detail)
}
