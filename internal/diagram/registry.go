package diagram

// Generator produces one diagram type from the shared analysis view.
// Implementations must not mutate the view.
type Generator interface {
	Type() Type
	Generate(view *AnalysisView) (*Diagram, error)
}

// Registry returns a generator for every supported diagram type. The
// variant set is closed: enabling a type not present here is a
// configuration error upstream.
func Registry() map[Type]Generator {
	gens := []Generator{
		&architectureGenerator{},
		&erGenerator{},
		&classGenerator{},
		&sequenceGenerator{},
		&componentGenerator{},
		&packageGenerator{},
		&dataFlowGenerator{},
		&stateGenerator{},
		&useCaseGenerator{},
		&deploymentGenerator{},
		&activityGenerator{},
		&coverageGenerator{},
	}

	reg := make(map[Type]Generator, len(gens))
	for _, g := range gens {
		reg[g.Type()] = g
	}
	return reg
}
