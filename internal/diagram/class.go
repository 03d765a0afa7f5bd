package diagram

import (
	"fmt"
	"time"

	"archviz/internal/mermaid"
)

// classGenerator renders every declared type with its fields and methods,
// plus an inheritance relation for each listed base type.
type classGenerator struct{}

func (g *classGenerator) Type() Type { return TypeClass }

func (g *classGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	var classes []mermaid.Class
	var relations []mermaid.ClassRelation
	typeCount := 0

	for _, rec := range view.SortedRecords() {
		for _, td := range rec.Types {
			typeCount++
			c := mermaid.Class{Name: td.Name}
			for _, f := range td.Fields {
				c.Members = append(c.Members, mermaid.ClassMember{Name: f.Name})
			}
			for _, m := range td.Methods {
				c.Members = append(c.Members, mermaid.ClassMember{Name: m.Name, Operation: true})
			}
			classes = append(classes, c)

			for _, base := range td.Bases {
				relations = append(relations, mermaid.ClassRelation{
					From:        td.Name,
					To:          base,
					Inheritance: true,
				})
			}
		}
	}

	return &Diagram{
		Type:        TypeClass,
		Title:       fmt.Sprintf("Class Diagram (%d types)", typeCount),
		Markup:      mermaid.RenderClassDiagram(classes, relations),
		SourceFiles: view.AllFiles(),
		GeneratedAt: time.Now(),
	}, nil
}
