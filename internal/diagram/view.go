package diagram

import (
	"sort"

	"archviz/internal/analyzer"
	"archviz/internal/graph"
	"archviz/internal/schema"
)

// AnalysisView is the aggregate every generator consumes. It is built once
// per run and treated as immutable for the duration of the generation
// pass; generators derive their own diagram-appropriate slices from it.
type AnalysisView struct {
	Records  map[string]*analyzer.StructuralRecord // keyed by ModuleID
	Graph    *graph.Graph
	Layers   map[string]graph.Layer
	Cycles   []graph.Cycle
	Coupling map[string]graph.Metrics
	Entities []schema.Entity
	Routes   []schema.Route
}

// NewView assembles the analysis view from the records: it builds the
// dependency graph, runs the graph algorithms, and invokes the
// domain-specific extractors.
func NewView(records []*analyzer.StructuralRecord, layerRules []graph.LayerRule, rootPrefixes []string) *AnalysisView {
	byID := make(map[string]*analyzer.StructuralRecord, len(records))
	for _, rec := range records {
		byID[rec.ModuleID] = rec
	}

	g := graph.Build(records, graph.Options{RootPrefixes: rootPrefixes})

	return &AnalysisView{
		Records:  byID,
		Graph:    g,
		Layers:   graph.IdentifyLayers(g, layerRules),
		Cycles:   graph.DetectCycles(g),
		Coupling: graph.CouplingAll(g),
		Entities: schema.ExtractEntities(records),
		Routes:   schema.ExtractRoutes(records),
	}
}

// SortedRecords returns the records ordered by module identifier.
func (v *AnalysisView) SortedRecords() []*analyzer.StructuralRecord {
	ids := make([]string, 0, len(v.Records))
	for id := range v.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	recs := make([]*analyzer.StructuralRecord, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, v.Records[id])
	}
	return recs
}

// AllFiles returns the sorted relative paths of every analyzed file.
func (v *AnalysisView) AllFiles() []string {
	files := make([]string, 0, len(v.Records))
	for _, rec := range v.Records {
		files = append(files, rec.RelPath)
	}
	sort.Strings(files)
	return files
}
