package diagram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"archviz/internal/mermaid"
	"archviz/internal/schema"
)

// maxSequenceRoutes caps how many endpoints a sequence diagram shows;
// beyond that the diagram stops being readable.
const maxSequenceRoutes = 20

// sequenceGenerator renders request flows for the extracted routes:
// client, router, and owning module for each endpoint.
type sequenceGenerator struct{}

func (g *sequenceGenerator) Type() Type { return TypeSequence }

func (g *sequenceGenerator) Generate(view *AnalysisView) (*Diagram, error) {
	routes := view.Routes
	if len(routes) > maxSequenceRoutes {
		routes = routes[:maxSequenceRoutes]
	}

	participants := []string{"Client", "Router"}
	seen := map[string]bool{"Client": true, "Router": true}
	var steps []mermaid.SequenceStep

	sources := make(map[string]bool)
	for _, r := range routes {
		sources[r.Source] = true

		module := moduleParticipant(r)
		if !seen[module] {
			seen[module] = true
			participants = append(participants, module)
		}

		method := "GET"
		if len(r.Methods) > 0 {
			method = r.Methods[0]
		}
		steps = append(steps,
			mermaid.SequenceStep{From: "Client", To: "Router", Message: method + " " + r.Path},
			mermaid.SequenceStep{From: "Router", To: module, Message: r.Handler},
			mermaid.SequenceStep{From: module, To: "Client", Message: "response", Reply: true},
		)
	}

	files := make([]string, 0, len(sources))
	for f := range sources {
		files = append(files, f)
	}
	sort.Strings(files)

	return &Diagram{
		Type:        TypeSequence,
		Title:       fmt.Sprintf("Request Sequences (%d endpoints)", len(routes)),
		Markup:      mermaid.RenderSequence(participants, steps),
		SourceFiles: files,
		GeneratedAt: time.Now(),
	}, nil
}

// moduleParticipant derives the participant name for a route's owning file.
func moduleParticipant(r schema.Route) string {
	base := r.Source
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
