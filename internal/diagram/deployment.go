package diagram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"archviz/internal/mermaid"
)

// maxExternalNodes caps how many external dependency roots the deployment
// diagram shows.
const maxExternalNodes = 12

// deploymentGenerator renders the deployable unit and the external systems
// it talks to, derived from the external dependency set of the graph.
type deploymentGenerator struct{}

func (g *deploymentGenerator) Type() Type { return TypeDeployment }

func (g *deploymentGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	// Aggregate external imports by their root segment.
	roots := make(map[string]int)
	for _, deps := range view.Graph.External {
		for _, dep := range deps {
			roots[externalRoot(dep)]++
		}
	}

	type rootCount struct {
		name  string
		count int
	}
	sorted := make([]rootCount, 0, len(roots))
	for name, count := range roots {
		sorted = append(sorted, rootCount{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})
	if len(sorted) > maxExternalNodes {
		sorted = sorted[:maxExternalNodes]
	}

	doc := mermaid.GraphDoc{Direction: "TD"}
	doc.Nodes = append(doc.Nodes, mermaid.Node{
		ID:    "app",
		Label: fmt.Sprintf("Application (%d modules)", len(view.Graph.Nodes)),
	})
	for _, rc := range sorted {
		id := "ext_" + rc.name
		doc.Nodes = append(doc.Nodes, mermaid.Node{
			ID:    id,
			Label: fmt.Sprintf("%s (%d imports)", rc.name, rc.count),
			Shape: mermaid.ShapeRounded,
		})
		doc.Edges = append(doc.Edges, mermaid.Edge{From: "app", To: id, Dashed: true})
	}

	return &Diagram{
		Type:        TypeDeployment,
		Title:       "Deployment Dependencies",
		Markup:      mermaid.RenderGraph(doc),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}

// externalRoot returns the leading segment of an external import target.
func externalRoot(target string) string {
	t := strings.TrimLeft(target, ".")
	for _, sep := range []byte{'.', '/'} {
		if i := strings.IndexByte(t, sep); i > 0 {
			t = t[:i]
		}
	}
	return t
}
