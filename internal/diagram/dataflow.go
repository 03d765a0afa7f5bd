package diagram

import (
	"fmt"
	"time"

	"archviz/internal/graph"
	"archviz/internal/mermaid"
)

// dataFlowGenerator aggregates the dependency graph by architectural layer
// and renders how data moves between layers, with external dependencies as
// a separate sink.
type dataFlowGenerator struct{}

func (g *dataFlowGenerator) Type() Type { return TypeDataFlow }

func (g *dataFlowGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	counts := make(map[graph.Layer]int)
	for _, layer := range view.Layers {
		counts[layer]++
	}

	doc := mermaid.GraphDoc{Direction: "LR"}
	order := []graph.Layer{graph.LayerPresentation, graph.LayerBusiness, graph.LayerData, graph.LayerUnknown}
	for _, layer := range order {
		if counts[layer] == 0 {
			continue
		}
		shape := mermaid.ShapeBox
		if layer == graph.LayerData {
			shape = mermaid.ShapeCylinder
		}
		doc.Nodes = append(doc.Nodes, mermaid.Node{
			ID:    string(layer),
			Label: fmt.Sprintf("%s (%d modules)", layer, counts[layer]),
			Shape: shape,
		})
	}

	flow := make(map[[2]string]int)
	for _, e := range view.Graph.Edges {
		from, to := string(view.Layers[e.From]), string(view.Layers[e.To])
		if from == to {
			continue
		}
		flow[[2]string{from, to}]++
	}
	for _, layer := range order {
		for _, target := range order {
			if n := flow[[2]string{string(layer), string(target)}]; n > 0 {
				doc.Edges = append(doc.Edges, mermaid.Edge{
					From:  string(layer),
					To:    string(target),
					Label: fmt.Sprintf("%d deps", n),
				})
			}
		}
	}

	externalCount := 0
	for _, deps := range view.Graph.External {
		externalCount += len(deps)
	}
	if externalCount > 0 {
		doc.Nodes = append(doc.Nodes, mermaid.Node{
			ID:    "external",
			Label: fmt.Sprintf("External (%d imports)", externalCount),
			Shape: mermaid.ShapeRounded,
		})
		for _, layer := range order {
			n := 0
			for id, deps := range view.Graph.External {
				if view.Layers[id] == layer {
					n += len(deps)
				}
			}
			if n > 0 {
				doc.Edges = append(doc.Edges, mermaid.Edge{
					From:   string(layer),
					To:     "external",
					Dashed: true,
				})
			}
		}
	}

	return &Diagram{
		Type:        TypeDataFlow,
		Title:       "Data Flow Between Layers",
		Markup:      mermaid.RenderGraph(doc),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}
