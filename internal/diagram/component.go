package diagram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"archviz/internal/mermaid"
)

// componentGenerator aggregates modules into top-level components (the
// first path segment of the module identifier) and renders the
// dependencies between them.
type componentGenerator struct{}

func (g *componentGenerator) Type() Type { return TypeComponent }

func (g *componentGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	members := make(map[string]int)
	for id := range view.Graph.Nodes {
		members[topSegment(id)]++
	}

	doc := mermaid.GraphDoc{Direction: "LR"}
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Nodes = append(doc.Nodes, mermaid.Node{
			ID:    name,
			Label: fmt.Sprintf("%s (%d modules)", name, members[name]),
		})
	}

	edgeSeen := make(map[[2]string]bool)
	for _, e := range view.Graph.Edges {
		from, to := topSegment(e.From), topSegment(e.To)
		if from == to {
			continue
		}
		key := [2]string{from, to}
		if !edgeSeen[key] {
			edgeSeen[key] = true
			doc.Edges = append(doc.Edges, mermaid.Edge{From: from, To: to})
		}
	}

	return &Diagram{
		Type:        TypeComponent,
		Title:       fmt.Sprintf("Components (%d)", len(names)),
		Markup:      mermaid.RenderGraph(doc),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}

// topSegment returns the leading segment of a dotted module identifier.
func topSegment(moduleID string) string {
	if i := strings.IndexByte(moduleID, '.'); i > 0 {
		return moduleID[:i]
	}
	return moduleID
}
