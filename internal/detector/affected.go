package detector

import (
	"strings"

	"archviz/internal/diagram"
)

// typeKeywordRule maps path substrings to the diagram types they affect.
type typeKeywordRule struct {
	keywords []string
	types    []diagram.Type
}

// affectedRules is the fixed keyword-to-diagram-type table. Whole-graph
// diagram types are added unconditionally in AffectedTypes.
var affectedRules = []typeKeywordRule{
	{
		keywords: []string{"entity", "entities", "model", "models", "schema", "schemas"},
		types:    []diagram.Type{diagram.TypeER},
	},
	{
		keywords: []string{"route", "routes", "controller", "controllers", "handler", "handlers", "api", "view", "views"},
		types:    []diagram.Type{diagram.TypeSequence, diagram.TypeUseCase},
	},
	{
		keywords: []string{"test", "tests", "spec"},
		types:    []diagram.Type{diagram.TypeCoverage},
	},
	{
		keywords: []string{"config", "deploy", "deployment", "docker", "infra", "settings"},
		types:    []diagram.Type{diagram.TypeDeployment},
	},
}

// AffectedTypes maps a change set to the diagram types that must be
// regenerated. Architecture, component, and package diagrams derive from
// the whole-tree dependency graph and are always affected; any change at
// all also marks the class diagram.
func AffectedTypes(cs *ChangeSet) map[diagram.Type]bool {
	affected := map[diagram.Type]bool{
		diagram.TypeArchitecture: true,
		diagram.TypeComponent:    true,
		diagram.TypePackage:      true,
	}
	if !cs.Empty() {
		affected[diagram.TypeClass] = true
	}

	paths := make([]string, 0, cs.Total())
	paths = append(paths, cs.Changed...)
	paths = append(paths, cs.Added...)
	paths = append(paths, cs.Deleted...)

	for _, path := range paths {
		lower := strings.ToLower(path)
		for _, rule := range affectedRules {
			for _, kw := range rule.keywords {
				if strings.Contains(lower, kw) {
					for _, t := range rule.types {
						affected[t] = true
					}
					break
				}
			}
		}
	}

	return affected
}
