package analyzer

// StructuralRecord is the parsed representation of one source file. It is
// created fresh per analysis pass and never mutated afterwards; every
// downstream component keys on ModuleID.
type StructuralRecord struct {
	FilePath    string       `json:"file_path"`
	RelPath     string       `json:"rel_path"`
	ModuleID    string       `json:"module_id"`
	Language    string       `json:"language"`
	Doc         string       `json:"doc,omitempty"`
	Types       []TypeDecl   `json:"types,omitempty"`
	Functions   []FuncDecl   `json:"functions,omitempty"`
	Imports     []ImportDecl `json:"imports,omitempty"`
	ContentHash string       `json:"content_hash"`
	IsTest      bool         `json:"is_test,omitempty"`
}

// TypeDecl describes a declared type (struct, interface, or class).
type TypeDecl struct {
	Name    string      `json:"name"`
	Bases   []string    `json:"bases,omitempty"`
	Methods []FuncDecl  `json:"methods,omitempty"`
	Fields  []FieldDecl `json:"fields,omitempty"`
	Line    int         `json:"line,omitempty"`
}

// FuncDecl describes a function or method.
type FuncDecl struct {
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
	Doc       string `json:"doc,omitempty"`
	Line      int    `json:"line,omitempty"`
}

// FieldDecl describes a field within a declared type.
type FieldDecl struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// ImportDecl describes one import statement. External is a parser-level
// guess (stdlib or hosted module); the graph builder recomputes membership
// against the set of analyzed modules.
type ImportDecl struct {
	Target   string   `json:"target"`
	Names    []string `json:"names,omitempty"`
	External bool     `json:"external"`
}

// ProgressFunc is called as files are analyzed to report progress.
type ProgressFunc func(processed, total int, currentFile string)
