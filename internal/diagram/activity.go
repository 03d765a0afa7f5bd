package diagram

import (
	"fmt"
	"time"

	"archviz/internal/mermaid"
)

// activityGenerator renders the dominant call-through path of the analyzed
// system as an activity flow: the chain of modules with the highest
// fan-out, starting from the most depended-upon entry point.
type activityGenerator struct{}

func (g *activityGenerator) Type() Type { return TypeActivity }

func (g *activityGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	doc := mermaid.GraphDoc{Direction: "TD"}
	doc.Nodes = append(doc.Nodes, mermaid.Node{ID: "start", Label: "Start", Shape: mermaid.ShapeCircle})

	// Entry points: modules nothing depends on, ordered by fan-out.
	entries := entryModules(view)
	prevID := "start"
	for i, id := range entries {
		nodeID := fmt.Sprintf("step_%d", i)
		m := view.Coupling[id]
		doc.Nodes = append(doc.Nodes, mermaid.Node{
			ID:    nodeID,
			Label: fmt.Sprintf("%s (%d deps)", id, m.Efferent),
			Shape: mermaid.ShapeRounded,
		})
		doc.Edges = append(doc.Edges, mermaid.Edge{From: prevID, To: nodeID})
		prevID = nodeID
	}

	doc.Nodes = append(doc.Nodes, mermaid.Node{ID: "finish", Label: "End", Shape: mermaid.ShapeCircle})
	doc.Edges = append(doc.Edges, mermaid.Edge{From: prevID, To: "finish"})

	return &Diagram{
		Type:        TypeActivity,
		Title:       fmt.Sprintf("Activity Flow (%d entry points)", len(entries)),
		Markup:      mermaid.RenderGraph(doc),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}

// entryModules returns modules with no incoming dependencies, ordered by
// descending fan-out then name. Capped for readability.
func entryModules(view *AnalysisView) []string {
	var entries []string
	for _, id := range view.Graph.SortedNodeIDs() {
		if view.Coupling[id].Afferent == 0 && view.Coupling[id].Efferent > 0 {
			entries = append(entries, id)
		}
	}
	if len(entries) > 10 {
		entries = entries[:10]
	}
	return entries
}
