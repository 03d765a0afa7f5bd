package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archviz/internal/analyzer"
)

// record builds a minimal structural record with the given imports.
func record(moduleID string, imports ...string) *analyzer.StructuralRecord {
	rec := &analyzer.StructuralRecord{
		ModuleID: moduleID,
		RelPath:  moduleID + ".py",
	}
	for _, imp := range imports {
		rec.Imports = append(rec.Imports, analyzer.ImportDecl{Target: imp})
	}
	return rec
}

func TestBuild_EdgesAndExternals(t *testing.T) {
	records := []*analyzer.StructuralRecord{
		record("a", "b", "os"),
		record("b", "os"),
	}

	g := Build(records, Options{})

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "a", g.Edges[0].From)
	assert.Equal(t, "b", g.Edges[0].To)

	assert.Equal(t, []string{"os"}, g.External["a"])
	assert.Equal(t, []string{"os"}, g.External["b"])
}

func TestBuild_DropsSelfImportsAndDuplicates(t *testing.T) {
	rec := record("a", "a", "b", "b")
	g := Build([]*analyzer.StructuralRecord{rec, record("b")}, Options{})

	require.Len(t, g.Edges, 1)
	assert.Equal(t, Edge{From: "a", To: "b", Kind: EdgeKindDependency}, g.Edges[0])
}

func TestBuild_ResolvesRelativeImports(t *testing.T) {
	records := []*analyzer.StructuralRecord{
		record("pkg.core", "..util.helpers"),
		record("util.helpers"),
	}

	g := Build(records, Options{})

	require.Len(t, g.Edges, 1)
	assert.Equal(t, "util.helpers", g.Edges[0].To)
}

func TestBuild_StripsRootPrefix(t *testing.T) {
	records := []*analyzer.StructuralRecord{
		record("core", "app.db"),
		record("db"),
	}

	g := Build(records, Options{RootPrefixes: []string{"app"}})

	require.Len(t, g.Edges, 1)
	assert.Equal(t, "db", g.Edges[0].To)
}

func TestDetectCycles_SingleCycle(t *testing.T) {
	g := Build([]*analyzer.StructuralRecord{
		record("a", "b"),
		record("b", "c"),
		record("c", "a"),
	}, Options{})

	cycles := DetectCycles(g)
	require.Len(t, cycles, 1)

	cycle := cycles[0]
	assert.Equal(t, cycle[0], cycle[len(cycle)-1], "cycle must close on its first node")
	assert.Len(t, cycle, 4)
}

func TestDetectCycles_AcyclicAfterEdgeRemoval(t *testing.T) {
	// Same triangle without the closing edge.
	g := Build([]*analyzer.StructuralRecord{
		record("a", "b"),
		record("b", "c"),
		record("c"),
	}, Options{})

	assert.Empty(t, DetectCycles(g))
}

func TestDetectCycles_SelfContainedTwoNodeCycle(t *testing.T) {
	g := Build([]*analyzer.StructuralRecord{
		record("x", "y"),
		record("y", "x"),
	}, Options{})

	cycles := DetectCycles(g)
	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0], 3)
}

func TestCoupling_Instability(t *testing.T) {
	// "hub" has two incoming and three outgoing dependencies:
	// instability = 3 / (2 + 3) = 0.6.
	g := Build([]*analyzer.StructuralRecord{
		record("hub", "o1", "o2", "o3"),
		record("in1", "hub"),
		record("in2", "hub"),
		record("o1"),
		record("o2"),
		record("o3"),
	}, Options{})

	m := Coupling(g, "hub")
	assert.Equal(t, 2, m.Afferent)
	assert.Equal(t, 3, m.Efferent)
	assert.InDelta(t, 0.6, m.Instability, 1e-9)
}

func TestCoupling_IsolatedModuleIsZero(t *testing.T) {
	g := Build([]*analyzer.StructuralRecord{record("lonely")}, Options{})

	m := Coupling(g, "lonely")
	assert.Zero(t, m.Afferent)
	assert.Zero(t, m.Efferent)
	assert.Zero(t, m.Instability)
}

func TestCouplingAll_MatchesPerNode(t *testing.T) {
	g := Build([]*analyzer.StructuralRecord{
		record("a", "b"),
		record("b", "c"),
		record("c"),
	}, Options{})

	all := CouplingAll(g)
	for _, id := range g.SortedNodeIDs() {
		assert.Equal(t, Coupling(g, id), all[id], "node %s", id)
	}
}

func TestIdentifyLayers_DefaultRules(t *testing.T) {
	g := Build([]*analyzer.StructuralRecord{
		record("api.users"),
		record("services.orders"),
		record("models.order"),
		record("misc.helpers"),
	}, Options{})

	layers := IdentifyLayers(g, nil)

	assert.Equal(t, LayerPresentation, layers["api.users"])
	assert.Equal(t, LayerBusiness, layers["services.orders"])
	assert.Equal(t, LayerData, layers["models.order"])
	assert.Equal(t, LayerUnknown, layers["misc.helpers"])
}

func TestIdentifyLayers_FirstMatchWins(t *testing.T) {
	g := Build([]*analyzer.StructuralRecord{record("api.models")}, Options{})

	rules := []LayerRule{
		{Layer: LayerPresentation, Keywords: []string{"api"}},
		{Layer: LayerData, Keywords: []string{"models"}},
	}
	layers := IdentifyLayers(g, rules)
	assert.Equal(t, LayerPresentation, layers["api.models"])
}
