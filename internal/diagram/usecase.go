package diagram

import (
	"fmt"
	"sort"
	"time"

	"archviz/internal/mermaid"
)

// useCaseGenerator renders actors and the operations they can invoke,
// derived from the extracted routes. Authenticated endpoints attach to an
// authenticated-user actor.
type useCaseGenerator struct{}

func (g *useCaseGenerator) Type() Type { return TypeUseCase }

func (g *useCaseGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	doc := mermaid.GraphDoc{Direction: "LR"}
	doc.Nodes = append(doc.Nodes, mermaid.Node{ID: "actor_user", Label: "User", Shape: mermaid.ShapeCircle})

	hasAuth := false
	sources := make(map[string]bool)
	seen := make(map[string]bool)

	for _, r := range view.Routes {
		sources[r.Source] = true

		id := "uc_" + r.Handler
		if !seen[id] {
			seen[id] = true
			doc.Nodes = append(doc.Nodes, mermaid.Node{ID: id, Label: r.Handler, Shape: mermaid.ShapeRounded})
		}

		actor := "actor_user"
		if r.RequiresAuth {
			actor = "actor_auth_user"
			hasAuth = true
		}
		doc.Edges = append(doc.Edges, mermaid.Edge{From: actor, To: id})
	}

	if hasAuth {
		doc.Nodes = append(doc.Nodes, mermaid.Node{ID: "actor_auth_user", Label: "Authenticated User", Shape: mermaid.ShapeCircle})
	}

	files := make([]string, 0, len(sources))
	for f := range sources {
		files = append(files, f)
	}
	sort.Strings(files)

	return &Diagram{
		Type:        TypeUseCase,
		Title:       fmt.Sprintf("Use Cases (%d operations)", len(seen)),
		Markup:      mermaid.RenderGraph(doc),
		SourceFiles: files,
		GeneratedAt: time.Now(),
	}, nil
}
