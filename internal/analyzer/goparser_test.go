package analyzer

import "testing"

const goSample = `// Package widgets renders widgets.
package widgets

import (
	"fmt"

	"example.com/app/store"
)

// Widget is a drawable element.
type Widget struct {
	Base
	Name string
	size int
}

// Resize changes the widget size.
func (w *Widget) Resize(n int) {
	w.size = n
}

func (w *Widget) Draw() string {
	return fmt.Sprintf("%s:%d", w.Name, w.size)
}

// Drawable is anything that can draw itself.
type Drawable interface {
	Draw() string
}

// NewWidget constructs a named widget.
func NewWidget(name string) *Widget {
	_ = store.Open
	return &Widget{Name: name}
}
`

func TestGoParser_TypesAndMethods(t *testing.T) {
	p := &GoParser{}
	rec, err := p.Parse("widgets/widget.go", []byte(goSample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if rec.Language != "Go" {
		t.Errorf("Language = %q, want Go", rec.Language)
	}
	if rec.Doc == "" {
		t.Error("package doc not extracted")
	}

	if len(rec.Types) != 2 {
		t.Fatalf("got %d types, want 2", len(rec.Types))
	}

	widget := rec.Types[0]
	if widget.Name != "Widget" {
		t.Fatalf("first type = %q, want Widget", widget.Name)
	}
	if len(widget.Fields) != 2 {
		t.Errorf("Widget has %d fields, want 2 (Name, size)", len(widget.Fields))
	}
	if len(widget.Bases) != 1 || widget.Bases[0] != "Base" {
		t.Errorf("Widget bases = %v, want [Base]", widget.Bases)
	}
	if len(widget.Methods) != 2 {
		t.Errorf("Widget has %d methods, want 2 (Resize, Draw)", len(widget.Methods))
	}

	drawable := rec.Types[1]
	if drawable.Name != "Drawable" {
		t.Fatalf("second type = %q, want Drawable", drawable.Name)
	}
	if len(drawable.Methods) != 1 || drawable.Methods[0].Name != "Draw" {
		t.Errorf("Drawable methods = %v, want [Draw]", drawable.Methods)
	}

	if len(rec.Functions) != 1 || rec.Functions[0].Name != "NewWidget" {
		t.Fatalf("top-level functions = %v, want [NewWidget]", rec.Functions)
	}
}

func TestGoParser_Imports(t *testing.T) {
	p := &GoParser{}
	rec, err := p.Parse("widgets/widget.go", []byte(goSample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if len(rec.Imports) != 2 {
		t.Fatalf("got %d imports, want 2", len(rec.Imports))
	}
	targets := map[string]bool{}
	for _, imp := range rec.Imports {
		targets[imp.Target] = true
	}
	if !targets["fmt"] || !targets["example.com/app/store"] {
		t.Errorf("import targets = %v", targets)
	}
}

func TestGoParser_SyntaxError(t *testing.T) {
	p := &GoParser{}
	_, err := p.Parse("bad.go", []byte("package broken\nfunc {"))
	if err == nil {
		t.Fatal("expected parse error for invalid source")
	}
}
