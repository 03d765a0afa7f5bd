// Package orchestrator drives the full pipeline: analyze the source tree,
// build the shared analysis view, generate the enabled diagram types, and
// persist the documents. Failures are isolated per diagram type; only a
// whole-tree analysis failure aborts a run.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"archviz/internal/analyzer"
	"archviz/internal/apperr"
	"archviz/internal/config"
	"archviz/internal/detector"
	"archviz/internal/diagram"
	"archviz/internal/filemgr"
	"archviz/internal/graph"
	"archviz/internal/progress"
)

// stateDirName and stateFileName locate the change-detection snapshot
// under the output directory, outside the analyzed tree.
const (
	stateDirName  = ".archviz"
	stateFileName = "state.json"
)

// Status tracks where a run is in its lifecycle.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusAnalyzing  Status = "analyzing"
	StatusGenerating Status = "generating"
	StatusPersisting Status = "persisting"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// RunResult summarizes one orchestrated run.
type RunResult struct {
	RunID    string
	Status   Status
	Enabled  []diagram.Type
	Diagrams []*diagram.Diagram
	Produced []string // output document paths
	Errors   []string // per-type generation and persistence failures
	Warnings []string // skipped types, deadline cuts, preserved documents
	Duration time.Duration
}

// Orchestrator wires the analyzer, generators, change detector, and file
// manager together according to one configuration.
type Orchestrator struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer *analyzer.Analyzer
	detector *detector.Detector
	files    *filemgr.Manager
	reporter progress.Reporter
	registry map[diagram.Type]diagram.Generator
	version  string

	status Status
}

// New builds an Orchestrator from a validated configuration.
func New(logger *zap.Logger, cfg *config.Config, version string) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := analyzer.New(logger, analyzer.Options{
		Root:        cfg.SourceDir,
		Exclude:     cfg.Exclude,
		MaxDepth:    cfg.MaxDepth,
		MaxFileSize: cfg.MaxFileSize,
		RootPackage: cfg.RootPackage,
		Concurrency: cfg.MaxConcurrency,
	})

	statePath := filepath.Join(cfg.OutputDir, stateDirName, stateFileName)

	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		analyzer: a,
		detector: detector.New(logger, a, statePath),
		files:    filemgr.New(logger, version, cfg.Backup, cfg.PreserveManual),
		reporter: progress.NopReporter{},
		registry: diagram.Registry(),
		version:  version,
		status:   StatusIdle,
	}
}

// SetReporter replaces the progress reporter. The default discards all
// progress events.
func (o *Orchestrator) SetReporter(r progress.Reporter) {
	if r != nil {
		o.reporter = r
	}
}

// Status returns the current lifecycle state.
func (o *Orchestrator) Status() Status { return o.status }

// enabledTypes resolves the configured type names in canonical generation
// order.
func (o *Orchestrator) enabledTypes() []diagram.Type {
	configured := make(map[string]bool, len(o.cfg.EnabledTypes()))
	for _, name := range o.cfg.EnabledTypes() {
		configured[name] = true
	}

	enabled := make([]diagram.Type, 0, len(configured))
	for _, t := range diagram.AllTypes() {
		if configured[string(t)] {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

// layerRules converts the configured layer table into graph rules, falling
// back to the defaults when the configuration is silent.
func (o *Orchestrator) layerRules() []graph.LayerRule {
	if len(o.cfg.Layers) == 0 {
		return graph.DefaultLayerRules
	}
	rules := make([]graph.LayerRule, 0, len(o.cfg.Layers))
	for _, r := range o.cfg.Layers {
		rules = append(rules, graph.LayerRule{
			Layer:    graph.Layer(r.Layer),
			Keywords: r.Keywords,
		})
	}
	return rules
}

// GenerateAll runs the full pipeline for every enabled diagram type and
// refreshes the change-detection snapshot on success.
func (o *Orchestrator) GenerateAll(ctx context.Context) (*RunResult, error) {
	result, err := o.run(ctx, o.enabledTypes())
	if err != nil {
		return result, err
	}

	if err := o.detector.Snapshot(ctx); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("snapshot not persisted, next run regenerates everything: %v", err))
		o.logger.Warn("snapshot persistence failed", zap.Error(err))
	}
	return result, nil
}

// UpdateChanged regenerates only the diagram types affected by file changes
// since the previous run. Large change sets escalate to a full run; an
// empty change set is a no-op.
func (o *Orchestrator) UpdateChanged(ctx context.Context) (*RunResult, error) {
	return o.UpdateChangedSince(ctx, o.detector.LastRun())
}

// UpdateChangedSince is UpdateChanged with an explicit change horizon,
// overriding the snapshot's recorded last-run time.
func (o *Orchestrator) UpdateChangedSince(ctx context.Context, lastRun time.Time) (*RunResult, error) {
	changes, err := o.detector.DetectChanges(ctx, lastRun)
	if err != nil {
		o.status = StatusFailed
		return nil, err
	}

	if changes.Empty() {
		o.status = StatusDone
		o.logger.Info("no changes since last run, nothing to regenerate")
		return &RunResult{
			RunID:  uuid.NewString(),
			Status: StatusDone,
		}, nil
	}

	if detector.ShouldRegenerateAll(changes) {
		o.logger.Info("change set too large for incremental update, regenerating all",
			zap.Int("changed", changes.Total()),
			zap.Int("previous", changes.PreviousCount))
		// DetectChanges already refreshed the snapshot.
		return o.run(ctx, o.enabledTypes())
	}

	affected := detector.AffectedTypes(changes)
	var types []diagram.Type
	for _, t := range o.enabledTypes() {
		if affected[t] {
			types = append(types, t)
		}
	}

	o.logger.Info("incremental update",
		zap.Int("changed_files", changes.Total()),
		zap.Int("affected_types", len(types)))

	return o.run(ctx, types)
}

// Validate checks every existing generated document under the output
// directory and returns the per-type validation messages.
func (o *Orchestrator) Validate() (map[diagram.Type][]string, error) {
	problems := make(map[diagram.Type][]string)
	for _, t := range o.enabledTypes() {
		path := filemgr.OutputPath(o.cfg.OutputDir, t)
		msgs, err := validateDocument(path)
		if err != nil {
			continue // absent documents are not a validation failure
		}
		if len(msgs) > 0 {
			problems[t] = msgs
		}
	}
	return problems, nil
}

// run executes one pipeline pass over the given diagram types. Generation
// and persistence failures are collected per type; a deadline expiring
// mid-loop turns the remaining types into warnings rather than errors.
func (o *Orchestrator) run(ctx context.Context, types []diagram.Type) (result *RunResult, err error) {
	start := time.Now()
	result = &RunResult{
		RunID:   uuid.NewString(),
		Enabled: types,
	}
	defer func() {
		result.Duration = time.Since(start)
		result.Status = o.status
	}()

	o.logger.Info("run started",
		zap.String("run_id", result.RunID),
		zap.String("source", o.cfg.SourceDir),
		zap.Int("types", len(types)))

	o.status = StatusAnalyzing
	records, err := o.analyzer.AnalyzeDirectory(ctx)
	if err != nil {
		o.status = StatusFailed
		return result, err
	}
	if len(records) == 0 {
		o.status = StatusDone
		result.Warnings = append(result.Warnings, "no analyzable source files found")
		return result, nil
	}

	view := diagram.NewView(records, o.layerRules(), rootPrefixes(o.cfg.RootPackage))

	o.status = StatusGenerating
	o.reporter.Start(len(types))
	defer o.reporter.Finish()

	for i, t := range types {
		if ctx.Err() != nil {
			for _, remaining := range types[i:] {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s skipped: deadline exceeded", remaining))
			}
			break
		}

		o.reporter.Update(i+1, fmt.Sprintf("generating %s", t))

		d, genErr := o.generateOne(view, t)
		if genErr != nil {
			result.Errors = append(result.Errors, genErr.Error())
			o.logger.Error("diagram generation failed",
				zap.String("type", string(t)),
				zap.Error(genErr))
			continue
		}

		o.status = StatusPersisting
		path, writeErr := o.files.Write(d, o.cfg.OutputDir)
		o.status = StatusGenerating
		if writeErr != nil {
			result.Errors = append(result.Errors, writeErr.Error())
			o.logger.Error("diagram persistence failed",
				zap.String("type", string(t)),
				zap.Error(writeErr))
			continue
		}

		if d.ManualEdits {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s has manual edits, existing document preserved", t))
		}
		result.Diagrams = append(result.Diagrams, d)
		result.Produced = append(result.Produced, path)
	}

	sort.Strings(result.Produced)
	o.status = StatusDone

	o.logger.Info("run finished",
		zap.String("run_id", result.RunID),
		zap.Int("produced", len(result.Produced)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// generateOne invokes a single generator with panic isolation: a panicking
// generator becomes a GenerationError for its type and siblings continue.
func (o *Orchestrator) generateOne(view *diagram.AnalysisView, t diagram.Type) (d *diagram.Diagram, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = &apperr.GenerationError{
				DiagramType: string(t),
				Err:         fmt.Errorf("generator panic: %v", r),
			}
		}
	}()

	gen, ok := o.registry[t]
	if !ok {
		return nil, &apperr.GenerationError{
			DiagramType: string(t),
			Err:         fmt.Errorf("no generator registered"),
		}
	}

	d, err = gen.Generate(view)
	if err != nil {
		return nil, &apperr.GenerationError{DiagramType: string(t), Err: err}
	}
	return d, nil
}

// rootPrefixes lists the module-path prefixes treated as internal when the
// graph resolves imports.
func rootPrefixes(rootPackage string) []string {
	if rootPackage == "" {
		return nil
	}
	return []string{rootPackage}
}
