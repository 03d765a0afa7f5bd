package diagram

import (
	"fmt"
	"time"

	"archviz/internal/mermaid"
)

// architectureGenerator renders the whole-tree dependency graph grouped by
// architectural layer. Edges participating in a dependency cycle render
// dashed and labelled.
type architectureGenerator struct{}

func (g *architectureGenerator) Type() Type { return TypeArchitecture }

func (g *architectureGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	doc := mermaid.GraphDoc{Direction: "TD"}

	for _, id := range view.Graph.SortedNodeIDs() {
		doc.Nodes = append(doc.Nodes, mermaid.Node{
			ID:    id,
			Label: id,
			Group: string(view.Layers[id]),
		})
	}

	cyclic := cycleEdgeSet(view)
	for _, e := range view.Graph.Edges {
		edge := mermaid.Edge{From: e.From, To: e.To}
		if cyclic[[2]string{e.From, e.To}] {
			edge.Dashed = true
			edge.Label = "cycle"
		}
		doc.Edges = append(doc.Edges, edge)
	}

	return &Diagram{
		Type:        TypeArchitecture,
		Title:       fmt.Sprintf("Architecture Overview (%d modules)", len(view.Graph.Nodes)),
		Markup:      mermaid.RenderGraph(doc),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}

// cycleEdgeSet collects the directed edges that occur inside any detected
// cycle.
func cycleEdgeSet(view *AnalysisView) map[[2]string]bool {
	set := make(map[[2]string]bool)
	for _, c := range view.Cycles {
		for i := 0; i+1 < len(c); i++ {
			set[[2]string{c[i], c[i+1]}] = true
		}
	}
	return set
}
