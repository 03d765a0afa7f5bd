package diagram

import (
	"fmt"
	"sort"
	"time"

	"archviz/internal/mermaid"
)

// erGenerator renders the extracted entity schema. Its source-file set is
// exactly the files the entities were extracted from.
type erGenerator struct{}

func (g *erGenerator) Type() Type { return TypeER }

func (g *erGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	var entities []mermaid.EREntity
	var relations []mermaid.ERRelation

	sources := make(map[string]bool)
	for _, e := range view.Entities {
		sources[e.Source] = true

		ent := mermaid.EREntity{Name: e.Name}
		for _, col := range e.Columns {
			ent.Attributes = append(ent.Attributes, mermaid.ERAttribute{
				Name: col.Name,
				Type: col.Type,
				Key:  col.PrimaryKey,
			})
		}
		entities = append(entities, ent)

		for _, rel := range e.Relations {
			relations = append(relations, mermaid.ERRelation{From: rel.From, To: rel.To, Label: rel.Label})
		}
	}

	files := make([]string, 0, len(sources))
	for f := range sources {
		files = append(files, f)
	}
	sort.Strings(files)

	return &Diagram{
		Type:        TypeER,
		Title:       fmt.Sprintf("Entity Relationships (%d entities)", len(entities)),
		Markup:      mermaid.RenderERDiagram(entities, relations),
		SourceFiles: files,
		GeneratedAt: time.Now(),
	}, nil
}
