// Package diagram defines the closed set of diagram types, the shared
// analysis view they consume, and the generator for each type. Generators
// only read the view; markup rendering is delegated to internal/mermaid.
package diagram

import "time"

// Type tags one of the twelve supported diagram variants.
type Type string

const (
	TypeArchitecture Type = "architecture"
	TypeER           Type = "er"
	TypeClass        Type = "class"
	TypeSequence     Type = "sequence"
	TypeComponent    Type = "component"
	TypePackage      Type = "package"
	TypeDataFlow     Type = "dataflow"
	TypeState        Type = "state"
	TypeUseCase      Type = "usecase"
	TypeDeployment   Type = "deployment"
	TypeActivity     Type = "activity"
	TypeCoverage     Type = "coverage"
)

// AllTypes returns the closed set of diagram types in generation order.
func AllTypes() []Type {
	return []Type{
		TypeArchitecture,
		TypeER,
		TypeClass,
		TypeSequence,
		TypeComponent,
		TypePackage,
		TypeDataFlow,
		TypeState,
		TypeUseCase,
		TypeDeployment,
		TypeActivity,
		TypeCoverage,
	}
}

// ValidType reports whether s names a supported diagram type.
func ValidType(s string) bool {
	for _, t := range AllTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Diagram is one generated output: its markup plus the exact set of source
// files consumed to produce it. SourceFiles is the traceability link the
// change detector uses to map file changes back to diagram types.
type Diagram struct {
	Type        Type
	Title       string
	Markup      string
	SourceFiles []string
	GeneratedAt time.Time
	ManualEdits bool
}
