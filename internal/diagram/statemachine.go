package diagram

import (
	"fmt"
	"time"

	"archviz/internal/graph"
	"archviz/internal/mermaid"
)

// stateGenerator renders the lifecycle of a request through the analyzed
// system as a state machine over its architectural layers: entry through
// presentation, processing in business logic, persistence in data access.
type stateGenerator struct{}

func (g *stateGenerator) Type() Type { return TypeState }

func (g *stateGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	counts := make(map[graph.Layer]int)
	for _, layer := range view.Layers {
		counts[layer]++
	}

	var transitions []mermaid.Transition
	chain := []graph.Layer{graph.LayerPresentation, graph.LayerBusiness, graph.LayerData}

	prev := "[*]"
	for _, layer := range chain {
		if counts[layer] == 0 {
			continue
		}
		state := string(layer)
		transitions = append(transitions, mermaid.Transition{
			From:  prev,
			To:    state,
			Label: fmt.Sprintf("%d modules", counts[layer]),
		})
		prev = state
	}
	if prev != "[*]" {
		transitions = append(transitions, mermaid.Transition{From: prev, To: "[*]"})
	}

	// Modules outside the recognized layers still appear as a detached
	// processing state so the diagram reflects the whole tree.
	if counts[graph.LayerUnknown] > 0 {
		transitions = append(transitions, mermaid.Transition{
			From:  "[*]",
			To:    string(graph.LayerUnknown),
			Label: fmt.Sprintf("%d modules", counts[graph.LayerUnknown]),
		})
	}

	return &Diagram{
		Type:        TypeState,
		Title:       "Processing States",
		Markup:      mermaid.RenderStateDiagram(transitions),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}
