// Package analyzer extracts structural records (declared types, functions,
// imports, documentation) from raw source files. Per-file analysis is a
// pure function of file content; directory scans isolate per-file parse
// failures so one broken file never aborts the run.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"archviz/internal/apperr"
)

// DefaultMaxFileSize is the largest file the scanner will parse (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

const defaultConcurrency = 4

// Options controls directory analysis.
type Options struct {
	Root        string   // Root directory to analyze.
	Exclude     []string // Glob patterns excluding files by relative path.
	MaxDepth    int      // Maximum directory depth below Root (0 = unlimited).
	MaxFileSize int64    // Files larger than this are skipped (0 = default).
	RootPackage string   // Package prefix dropped from module identifiers.
	Concurrency int      // Parallel file parses (0 = default).
}

// Analyzer turns a source tree into StructuralRecords.
type Analyzer struct {
	opts       Options
	logger     *zap.Logger
	onProgress ProgressFunc
}

// New creates an Analyzer for the given root.
func New(logger *zap.Logger, opts Options) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{opts: opts, logger: logger}
}

// SetProgressFunc sets the progress callback for directory scans.
func (a *Analyzer) SetProgressFunc(fn ProgressFunc) {
	a.onProgress = fn
}

// AnalyzeFile parses one file into a complete StructuralRecord. A file
// either yields a full record or a *apperr.ParseError; there is no partial
// success.
func (a *Analyzer) AnalyzeFile(path string) (*StructuralRecord, error) {
	root, err := filepath.Abs(a.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	relPath, err := filepath.Rel(root, abs)
	if err != nil {
		relPath = filepath.Base(abs)
	}
	relPath = filepath.ToSlash(relPath)

	lang := DetectLanguage(abs)
	p, ok := ForLanguage(lang)
	if !ok {
		return nil, &apperr.ParseError{Path: relPath, Detail: fmt.Sprintf("no parser for language %q", lang)}
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, &apperr.ParseError{Path: relPath, Detail: err.Error()}
	}

	rec, err := p.Parse(relPath, content)
	if err != nil {
		return nil, err
	}

	rec.FilePath = abs
	rec.ModuleID = ModuleID(relPath, a.opts.RootPackage)
	rec.ContentHash = hashContent(content)
	rec.IsTest = isTestFile(relPath)
	return rec, nil
}

// AnalyzeDirectory recursively scans the root, parses every supported file
// concurrently, and returns the records. Per-file parse failures are logged
// and skipped; only a whole-tree failure (unreadable root) is fatal and
// returned as *apperr.AnalysisError. Result order is not guaranteed:
// consumers index by ModuleID.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context) ([]*StructuralRecord, error) {
	files, err := a.listFiles()
	if err != nil {
		return nil, err
	}

	total := len(files)
	var processed int64

	var mu sync.Mutex
	records := make([]*StructuralRecord, 0, total)

	g, ctx := errgroup.WithContext(ctx)
	concurrency := a.opts.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	g.SetLimit(concurrency)

	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rec, err := a.AnalyzeFile(path)

			count := atomic.AddInt64(&processed, 1)
			if a.onProgress != nil {
				a.onProgress(int(count), total, path)
			}

			if err != nil {
				var pe *apperr.ParseError
				if errors.As(err, &pe) {
					a.logger.Warn("skipping unparseable file",
						zap.String("path", pe.Path),
						zap.String("detail", pe.Detail))
					return nil
				}
				return err
			}

			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &apperr.AnalysisError{Root: a.opts.Root, Err: err}
	}
	return records, nil
}

// FileStat describes one scanned file for change detection.
type FileStat struct {
	RelPath string
	Hash    string
	ModTime time.Time
}

// ScanFiles walks the tree with the same filters as AnalyzeDirectory and
// returns per-file content hashes and modification times. The change
// detector compares these against its persisted snapshot.
func (a *Analyzer) ScanFiles() ([]FileStat, error) {
	root, err := filepath.Abs(a.opts.Root)
	if err != nil {
		return nil, &apperr.AnalysisError{Root: a.opts.Root, Err: err}
	}

	files, err := a.listFiles()
	if err != nil {
		return nil, err
	}

	stats := make([]FileStat, 0, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		hash, err := HashFile(path)
		if err != nil {
			continue
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		stats = append(stats, FileStat{
			RelPath: filepath.ToSlash(relPath),
			Hash:    hash,
			ModTime: info.ModTime(),
		})
	}
	return stats, nil
}

// listFiles walks the tree and returns the absolute paths of parseable
// files, applying depth limits, exclusion globs, size caps, and a binary
// sniff.
func (a *Analyzer) listFiles() ([]string, error) {
	root, err := filepath.Abs(a.opts.Root)
	if err != nil {
		return nil, &apperr.AnalysisError{Root: a.opts.Root, Err: err}
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, &apperr.AnalysisError{Root: a.opts.Root, Err: err}
	}
	if !info.IsDir() {
		return nil, &apperr.AnalysisError{Root: a.opts.Root, Err: fmt.Errorf("not a directory")}
	}

	maxSize := a.opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip unreadable entries instead of aborting the scan.
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			if a.opts.MaxDepth > 0 && pathDepth(relPath) >= a.opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if matchesAny(relPath, a.opts.Exclude) {
			return nil
		}
		if _, ok := ForLanguage(DetectLanguage(d.Name())); !ok {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if fi.Size() > maxSize {
			return nil
		}
		if isBinary(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, &apperr.AnalysisError{Root: a.opts.Root, Err: err}
	}
	return files, nil
}

// pathDepth counts directory levels below the root for a relative path.
func pathDepth(relPath string) int {
	return strings.Count(relPath, "/") + 1
}

// isBinary reads the first 512 bytes of a file and checks for NUL bytes.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}

// hashContent computes the SHA-256 hex digest used to detect content
// changes between runs.
func hashContent(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

// HashFile computes the SHA-256 hex digest of a file on disk.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
