package diagram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"archviz/internal/mermaid"
)

// packageGenerator renders the package structure: one node per containing
// package (module identifier minus its last segment) with aggregated
// inter-package dependencies.
type packageGenerator struct{}

func (g *packageGenerator) Type() Type { return TypePackage }

func (g *packageGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	members := make(map[string]int)
	for id := range view.Graph.Nodes {
		members[packageOf(id)]++
	}

	doc := mermaid.GraphDoc{Direction: "TD"}
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Nodes = append(doc.Nodes, mermaid.Node{
			ID:    "pkg_" + name,
			Label: fmt.Sprintf("%s (%d)", name, members[name]),
		})
	}

	edgeSeen := make(map[[2]string]bool)
	for _, e := range view.Graph.Edges {
		from, to := packageOf(e.From), packageOf(e.To)
		if from == to {
			continue
		}
		key := [2]string{from, to}
		if !edgeSeen[key] {
			edgeSeen[key] = true
			doc.Edges = append(doc.Edges, mermaid.Edge{From: "pkg_" + from, To: "pkg_" + to})
		}
	}

	return &Diagram{
		Type:        TypePackage,
		Title:       fmt.Sprintf("Packages (%d)", len(names)),
		Markup:      mermaid.RenderGraph(doc),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}

// packageOf strips the last segment of a dotted module identifier;
// top-level modules fall into the root package.
func packageOf(moduleID string) string {
	if i := strings.LastIndexByte(moduleID, '.'); i > 0 {
		return moduleID[:i]
	}
	return "(root)"
}
