package mermaid

import (
	"strings"
	"testing"
)

func TestRenderGraph_SubgraphsAndEdges(t *testing.T) {
	doc := GraphDoc{
		Direction: "LR",
		Nodes: []Node{
			{ID: "api.users", Label: "api.users", Group: "presentation"},
			{ID: "core.orders", Label: "core.orders", Group: "business"},
			{ID: "ext", Label: "externals", Shape: ShapeCylinder},
		},
		Edges: []Edge{
			{From: "api.users", To: "core.orders"},
			{From: "core.orders", To: "api.users", Dashed: true, Label: "cycle"},
		},
	}

	out := RenderGraph(doc)

	if !strings.HasPrefix(out, "graph LR\n") {
		t.Errorf("missing direction header:\n%s", out)
	}
	for _, want := range []string{
		"subgraph presentation",
		"subgraph business",
		`api_users["api.users"]`,
		"api_users --> core_orders",
		"core_orders -.->|cycle| api_users",
		`ext[("externals")]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	res := Validate(out)
	if !res.Valid || len(res.Warnings) > 0 {
		t.Errorf("rendered graph fails validation: %+v", res)
	}
}

func TestRenderClassDiagram_Inheritance(t *testing.T) {
	classes := []Class{
		{Name: "Base", Members: []ClassMember{{Name: "run", Operation: true}}},
		{Name: "Derived", Members: []ClassMember{{Name: "count"}}},
	}
	relations := []ClassRelation{
		{From: "Derived", To: "Base", Inheritance: true},
	}

	out := RenderClassDiagram(classes, relations)

	if !strings.HasPrefix(out, "classDiagram\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Base <|-- Derived") {
		t.Errorf("inheritance arrow missing:\n%s", out)
	}
	if !strings.Contains(out, "+run()") {
		t.Errorf("operation member missing:\n%s", out)
	}
	if !strings.Contains(out, "+count") {
		t.Errorf("attribute member missing:\n%s", out)
	}

	if res := Validate(out); !res.Valid {
		t.Errorf("rendered class diagram fails validation: %+v", res)
	}
}

func TestRenderERDiagram(t *testing.T) {
	entities := []EREntity{
		{Name: "Order", Attributes: []ERAttribute{
			{Name: "id", Type: "int", Key: true},
			{Name: "total", Type: "float"},
		}},
		{Name: "Customer"},
	}
	relations := []ERRelation{{From: "Order", To: "Customer", Label: "customer"}}

	out := RenderERDiagram(entities, relations)

	if !strings.HasPrefix(out, "erDiagram\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "int id PK") {
		t.Errorf("primary key attribute missing:\n%s", out)
	}
	if !strings.Contains(out, `Order ||--o{ Customer : "customer"`) {
		t.Errorf("relation missing:\n%s", out)
	}
}

func TestRenderSequence(t *testing.T) {
	out := RenderSequence(
		[]string{"Client", "api.users"},
		[]SequenceStep{
			{From: "Client", To: "api.users", Message: "GET /users"},
			{From: "api.users", To: "Client", Message: "200 OK", Reply: true},
		},
	)

	if !strings.HasPrefix(out, "sequenceDiagram\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "participant api_users") {
		t.Errorf("participant missing:\n%s", out)
	}
	if !strings.Contains(out, "Client->>api_users: GET /users") {
		t.Errorf("call arrow missing:\n%s", out)
	}
	if !strings.Contains(out, "api_users-->>Client: 200 OK") {
		t.Errorf("reply arrow missing:\n%s", out)
	}
}

func TestRenderStateDiagram_PseudoStates(t *testing.T) {
	out := RenderStateDiagram([]Transition{
		{From: "[*]", To: "Idle"},
		{From: "Idle", To: "Running", Label: "start"},
		{From: "Running", To: "[*]"},
	})

	if !strings.HasPrefix(out, "stateDiagram-v2\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "[*] --> Idle") {
		t.Errorf("entry transition missing:\n%s", out)
	}
	if !strings.Contains(out, "Idle --> Running: start") {
		t.Errorf("labeled transition missing:\n%s", out)
	}
}

func TestSanitizeID(t *testing.T) {
	cases := map[string]string{
		"a.b/c":    "a_b_c",
		"x y":      "x_y",
		"f(n)":     "f_n_",
		"plain":    "plain",
		"a-b[c]{}": "a_b_c___",
	}
	for in, want := range cases {
		if got := SanitizeID(in); got != want {
			t.Errorf("SanitizeID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeLabel(t *testing.T) {
	got := EscapeLabel(`say "hi" (loud)`)
	if strings.ContainsAny(got, `"()`) {
		t.Errorf("EscapeLabel left specials: %q", got)
	}
}
