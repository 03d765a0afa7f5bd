// Package graph derives a module dependency graph from structural records
// and hosts the graph algorithms: cycle detection, coupling metrics, and
// layer classification.
package graph

import (
	"sort"
	"strings"

	"archviz/internal/analyzer"
)

// Node is one analyzed module.
type Node struct {
	ID      string
	RelPath string
}

// Edge is a directed dependency between two analyzed modules.
type Edge struct {
	From string
	To   string
	Kind string
}

// EdgeKindDependency is the only edge kind the builder emits.
const EdgeKindDependency = "dependency"

// Graph holds the module dependency graph. Every edge endpoint corresponds
// to a known node identifier; imports that do not resolve to an analyzed
// module are recorded in External instead.
type Graph struct {
	Nodes map[string]Node
	Edges []Edge

	// External maps a module identifier to the sorted set of import
	// targets that fall outside the analyzed tree.
	External map[string][]string
}

// Options controls import resolution during Build.
type Options struct {
	// RootPrefixes are leading package segments stripped from import
	// targets before matching against module identifiers.
	RootPrefixes []string
}

// Build creates one node per record and one edge per import whose target
// resolves to another analyzed module. Self-imports are dropped and
// duplicate edges are collapsed.
func Build(records []*analyzer.StructuralRecord, opts Options) *Graph {
	g := &Graph{
		Nodes:    make(map[string]Node, len(records)),
		External: make(map[string][]string),
	}

	for _, rec := range records {
		g.Nodes[rec.ModuleID] = Node{ID: rec.ModuleID, RelPath: rec.RelPath}
	}

	seen := make(map[[2]string]bool)
	externalSeen := make(map[[2]string]bool)

	for _, rec := range records {
		for _, imp := range rec.Imports {
			target, ok := resolve(imp.Target, g.Nodes, opts.RootPrefixes)
			if ok && target != rec.ModuleID {
				key := [2]string{rec.ModuleID, target}
				if !seen[key] {
					seen[key] = true
					g.Edges = append(g.Edges, Edge{From: rec.ModuleID, To: target, Kind: EdgeKindDependency})
				}
				continue
			}
			if !ok {
				key := [2]string{rec.ModuleID, imp.Target}
				if !externalSeen[key] {
					externalSeen[key] = true
					g.External[rec.ModuleID] = append(g.External[rec.ModuleID], imp.Target)
				}
			}
		}
	}

	// Deterministic edge and external ordering keeps diagram output stable
	// across runs.
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})
	for id := range g.External {
		sort.Strings(g.External[id])
	}

	return g
}

// resolve maps an import target onto a known module identifier. The target
// is normalized (relative markers stripped, path separators to dots, root
// prefixes dropped) and then matched exactly, or by identifier suffix when
// the import carries a longer absolute path.
func resolve(target string, nodes map[string]Node, rootPrefixes []string) (string, bool) {
	t := strings.TrimLeft(target, ".")
	t = strings.ReplaceAll(t, "/", ".")
	for _, prefix := range rootPrefixes {
		if t == prefix {
			break
		}
		t = strings.TrimPrefix(t, prefix+".")
	}
	if t == "" {
		return "", false
	}

	if _, ok := nodes[t]; ok {
		return t, true
	}

	// An absolute import such as "github.com.acme.app.core.parser" still
	// resolves when its trailing segments name a known module.
	var best string
	for id := range nodes {
		if strings.HasSuffix(t, "."+id) || strings.HasSuffix(id, "."+t) {
			if len(id) > len(best) {
				best = id
			}
		}
	}
	if best != "" {
		return best, true
	}
	return "", false
}

// SortedNodeIDs returns the node identifiers in lexical order.
func (g *Graph) SortedNodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
