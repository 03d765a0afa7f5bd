package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates a file tree under a temp dir and returns its root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func TestAnalyzeDirectory_Basic(t *testing.T) {
	root := writeTree(t, map[string]string{
		"core/parser.py": "class Parser:\n    def run(self):\n        pass\n",
		"core/render.py": "from .parser import Parser\n",
		"notes.txt":      "not source",
	})

	a := New(nil, Options{Root: root})
	records, err := a.AnalyzeDirectory(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeDirectory() error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	byID := map[string]*StructuralRecord{}
	for _, rec := range records {
		byID[rec.ModuleID] = rec
	}
	if _, ok := byID["core.parser"]; !ok {
		t.Error("core.parser not analyzed")
	}
	if _, ok := byID["core.render"]; !ok {
		t.Error("core.render not analyzed")
	}

	for id, rec := range byID {
		if rec.ContentHash == "" {
			t.Errorf("%s has empty content hash", id)
		}
	}
}

func TestAnalyzeDirectory_SkipsUnparseableFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.py": "class Good:\n    pass\n",
		"bad.go":  "package broken\nfunc {",
	})

	a := New(nil, Options{Root: root})
	records, err := a.AnalyzeDirectory(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeDirectory() error: %v", err)
	}
	if len(records) != 1 || records[0].ModuleID != "good" {
		t.Fatalf("expected only the parseable file, got %v", records)
	}
}

func TestAnalyzeDirectory_MissingRootIsFatal(t *testing.T) {
	a := New(nil, Options{Root: filepath.Join(t.TempDir(), "absent")})
	_, err := a.AnalyzeDirectory(context.Background())
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestAnalyzeDirectory_ExcludePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"keep.py":          "x = 1\n",
		"generated/gen.py": "y = 2\n",
	})

	a := New(nil, Options{Root: root, Exclude: []string{"generated/**"}})
	records, err := a.AnalyzeDirectory(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeDirectory() error: %v", err)
	}
	if len(records) != 1 || records[0].ModuleID != "keep" {
		t.Fatalf("exclusion not applied, got %d records", len(records))
	}
}

func TestAnalyzeDirectory_MaxDepth(t *testing.T) {
	root := writeTree(t, map[string]string{
		"top.py":        "a = 1\n",
		"sub/mid.py":    "b = 2\n",
		"sub/deep/x.py": "c = 3\n",
	})

	a := New(nil, Options{Root: root, MaxDepth: 2})
	records, err := a.AnalyzeDirectory(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeDirectory() error: %v", err)
	}

	for _, rec := range records {
		if rec.ModuleID == "sub.deep.x" {
			t.Error("file below max depth was analyzed")
		}
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestAnalyzeFile_TestFlag(t *testing.T) {
	root := writeTree(t, map[string]string{
		"tests/test_parser.py": "def test_run():\n    pass\n",
	})

	a := New(nil, Options{Root: root})
	rec, err := a.AnalyzeFile(filepath.Join(root, "tests", "test_parser.py"))
	if err != nil {
		t.Fatalf("AnalyzeFile() error: %v", err)
	}
	if !rec.IsTest {
		t.Error("test file not flagged as test")
	}
}

func TestScanFiles_HashesAndPaths(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":     "a = 1\n",
		"sub/b.py": "b = 2\n",
	})

	a := New(nil, Options{Root: root})
	stats, err := a.ScanFiles()
	if err != nil {
		t.Fatalf("ScanFiles() error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}
	for _, st := range stats {
		if st.Hash == "" {
			t.Errorf("%s has empty hash", st.RelPath)
		}
		if st.ModTime.IsZero() {
			t.Errorf("%s has zero mtime", st.RelPath)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"main.go":    "Go",
		"app.py":     "Python",
		"Dockerfile": "Dockerfile",
		"x.unknown":  "unknown",
	}
	for name, want := range cases {
		if got := DetectLanguage(name); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", name, got, want)
		}
	}
}
