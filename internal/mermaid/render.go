// Package mermaid renders generic node/edge diagram descriptions into
// mermaid markup and validates the result. Generators describe what to
// draw; the family-specific builders here own the markup syntax.
package mermaid

import (
	"fmt"
	"sort"
	"strings"
)

// Node is one element in a generic diagram description.
type Node struct {
	ID    string
	Label string
	Group string // optional subgraph / layer grouping
	Shape Shape
}

// Edge connects two nodes.
type Edge struct {
	From   string
	To     string
	Label  string
	Dashed bool
}

// Shape selects the node outline in graph-family diagrams.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeRounded
	ShapeCylinder
	ShapeCircle
)

// GraphDoc is the generic description consumed by the graph-family
// renderer.
type GraphDoc struct {
	Direction string // "TD" or "LR"; defaults to TD
	Nodes     []Node
	Edges     []Edge
}

// RenderGraph emits a mermaid flowchart. Nodes sharing a Group are wrapped
// in a subgraph.
func RenderGraph(doc GraphDoc) string {
	dir := doc.Direction
	if dir == "" {
		dir = "TD"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", dir)

	grouped := make(map[string][]Node)
	var ungrouped []Node
	for _, n := range doc.Nodes {
		if n.Group == "" {
			ungrouped = append(ungrouped, n)
		} else {
			grouped[n.Group] = append(grouped[n.Group], n)
		}
	}

	for _, n := range ungrouped {
		b.WriteString("    " + nodeDecl(n) + "\n")
	}

	groups := make([]string, 0, len(grouped))
	for g := range grouped {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		fmt.Fprintf(&b, "    subgraph %s\n", SanitizeID(g))
		for _, n := range grouped[g] {
			b.WriteString("        " + nodeDecl(n) + "\n")
		}
		b.WriteString("    end\n")
	}

	for _, e := range doc.Edges {
		arrow := "-->"
		if e.Dashed {
			arrow = "-.->"
		}
		if e.Label != "" {
			fmt.Fprintf(&b, "    %s %s|%s| %s\n", SanitizeID(e.From), arrow, EscapeLabel(e.Label), SanitizeID(e.To))
		} else {
			fmt.Fprintf(&b, "    %s %s %s\n", SanitizeID(e.From), arrow, SanitizeID(e.To))
		}
	}

	return b.String()
}

func nodeDecl(n Node) string {
	id := SanitizeID(n.ID)
	label := EscapeLabel(n.Label)
	if label == "" {
		label = id
	}
	switch n.Shape {
	case ShapeRounded:
		return fmt.Sprintf("%s(\"%s\")", id, label)
	case ShapeCylinder:
		return fmt.Sprintf("%s[(\"%s\")]", id, label)
	case ShapeCircle:
		return fmt.Sprintf("%s((\"%s\"))", id, label)
	default:
		return fmt.Sprintf("%s[\"%s\"]", id, label)
	}
}

// ClassMember is one attribute or operation in a class box.
type ClassMember struct {
	Name      string
	Operation bool
}

// Class is one box in a class diagram.
type Class struct {
	Name    string
	Members []ClassMember
}

// ClassRelation links two classes; Inheritance renders as <|--.
type ClassRelation struct {
	From        string
	To          string
	Inheritance bool
	Label       string
}

// RenderClassDiagram emits a mermaid classDiagram.
func RenderClassDiagram(classes []Class, relations []ClassRelation) string {
	var b strings.Builder
	b.WriteString("classDiagram\n")

	for _, c := range classes {
		name := SanitizeID(c.Name)
		if len(c.Members) == 0 {
			fmt.Fprintf(&b, "    class %s\n", name)
			continue
		}
		fmt.Fprintf(&b, "    class %s {\n", name)
		for _, m := range c.Members {
			if m.Operation {
				fmt.Fprintf(&b, "        +%s()\n", sanitizeMember(m.Name))
			} else {
				fmt.Fprintf(&b, "        +%s\n", sanitizeMember(m.Name))
			}
		}
		b.WriteString("    }\n")
	}

	for _, r := range relations {
		if r.Inheritance {
			// Base <|-- Derived
			fmt.Fprintf(&b, "    %s <|-- %s\n", SanitizeID(r.To), SanitizeID(r.From))
		} else if r.Label != "" {
			fmt.Fprintf(&b, "    %s --> %s : %s\n", SanitizeID(r.From), SanitizeID(r.To), EscapeLabel(r.Label))
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", SanitizeID(r.From), SanitizeID(r.To))
		}
	}

	return b.String()
}

// ERAttribute is one column in an entity box.
type ERAttribute struct {
	Name string
	Type string
	Key  bool
}

// EREntity is one entity in an entity-relationship diagram.
type EREntity struct {
	Name       string
	Attributes []ERAttribute
}

// ERRelation links two entities.
type ERRelation struct {
	From  string
	To    string
	Label string
}

// RenderERDiagram emits a mermaid erDiagram.
func RenderERDiagram(entities []EREntity, relations []ERRelation) string {
	var b strings.Builder
	b.WriteString("erDiagram\n")

	for _, e := range entities {
		name := SanitizeID(e.Name)
		if len(e.Attributes) == 0 {
			fmt.Fprintf(&b, "    %s\n", name)
			continue
		}
		fmt.Fprintf(&b, "    %s {\n", name)
		for _, a := range e.Attributes {
			typ := sanitizeMember(a.Type)
			if typ == "" {
				typ = "string"
			}
			if a.Key {
				fmt.Fprintf(&b, "        %s %s PK\n", typ, sanitizeMember(a.Name))
			} else {
				fmt.Fprintf(&b, "        %s %s\n", typ, sanitizeMember(a.Name))
			}
		}
		b.WriteString("    }\n")
	}

	for _, r := range relations {
		label := r.Label
		if label == "" {
			label = "references"
		}
		fmt.Fprintf(&b, "    %s ||--o{ %s : \"%s\"\n", SanitizeID(r.From), SanitizeID(r.To), EscapeLabel(label))
	}

	return b.String()
}

// SequenceStep is one message in a sequence diagram.
type SequenceStep struct {
	From    string
	To      string
	Message string
	Reply   bool
}

// RenderSequence emits a mermaid sequenceDiagram over the given
// participants and steps.
func RenderSequence(participants []string, steps []SequenceStep) string {
	var b strings.Builder
	b.WriteString("sequenceDiagram\n")

	for _, p := range participants {
		fmt.Fprintf(&b, "    participant %s\n", SanitizeID(p))
	}
	for _, s := range steps {
		arrow := "->>"
		if s.Reply {
			arrow = "-->>"
		}
		fmt.Fprintf(&b, "    %s%s%s: %s\n", SanitizeID(s.From), arrow, SanitizeID(s.To), EscapeLabel(s.Message))
	}

	return b.String()
}

// Transition is one edge in a state diagram.
type Transition struct {
	From  string
	To    string
	Label string
}

// RenderStateDiagram emits a mermaid stateDiagram-v2. "[*]" is allowed as
// a pseudo-state on either end.
func RenderStateDiagram(transitions []Transition) string {
	var b strings.Builder
	b.WriteString("stateDiagram-v2\n")

	for _, t := range transitions {
		from, to := stateRef(t.From), stateRef(t.To)
		if t.Label != "" {
			fmt.Fprintf(&b, "    %s --> %s: %s\n", from, to, EscapeLabel(t.Label))
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", from, to)
		}
	}

	return b.String()
}

func stateRef(s string) string {
	if s == "[*]" {
		return s
	}
	return SanitizeID(s)
}
