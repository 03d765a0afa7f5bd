package diagram

import (
	"fmt"
	"sort"
	"time"

	"archviz/internal/mermaid"
)

// coverageGenerator maps test files onto top-level components and renders
// which parts of the tree carry tests.
type coverageGenerator struct{}

func (g *coverageGenerator) Type() Type { return TypeCoverage }

func (g *coverageGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	type tally struct {
		files int
		tests int
	}
	byComponent := make(map[string]*tally)

	for id, rec := range view.Records {
		comp := topSegment(id)
		t, ok := byComponent[comp]
		if !ok {
			t = &tally{}
			byComponent[comp] = t
		}
		if rec.IsTest {
			t.tests++
		} else {
			t.files++
		}
	}

	names := make([]string, 0, len(byComponent))
	for name := range byComponent {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := mermaid.GraphDoc{Direction: "LR"}
	tested, untested := 0, 0
	for _, name := range names {
		t := byComponent[name]
		shape := mermaid.ShapeBox
		if t.tests == 0 {
			shape = mermaid.ShapeRounded
			untested++
		} else {
			tested++
		}
		doc.Nodes = append(doc.Nodes, mermaid.Node{
			ID:    "cov_" + name,
			Label: fmt.Sprintf("%s: %d tests / %d files", name, t.tests, t.files),
			Shape: shape,
		})
	}

	return &Diagram{
		Type:        TypeCoverage,
		Title:       fmt.Sprintf("Test Coverage Map (%d of %d components tested)", tested, tested+untested),
		Markup:      mermaid.RenderGraph(doc),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}
