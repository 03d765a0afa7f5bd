package graph

// Metrics holds the coupling measurements for one module.
type Metrics struct {
	Afferent    int     // incoming edges: modules that depend on this one
	Efferent    int     // outgoing edges: modules this one depends on
	Instability float64 // efferent / (afferent + efferent); 0 when isolated
}

// Coupling counts the edges touching the given module and derives its
// instability. A module with no edges at all has instability 0.
func Coupling(g *Graph, id string) Metrics {
	var m Metrics
	for _, e := range g.Edges {
		if e.To == id {
			m.Afferent++
		}
		if e.From == id {
			m.Efferent++
		}
	}
	if total := m.Afferent + m.Efferent; total > 0 {
		m.Instability = float64(m.Efferent) / float64(total)
	}
	return m
}

// CouplingAll computes metrics for every node in one pass over the edges.
func CouplingAll(g *Graph) map[string]Metrics {
	all := make(map[string]Metrics, len(g.Nodes))
	for id := range g.Nodes {
		all[id] = Metrics{}
	}
	for _, e := range g.Edges {
		to := all[e.To]
		to.Afferent++
		all[e.To] = to

		from := all[e.From]
		from.Efferent++
		all[e.From] = from
	}
	for id, m := range all {
		if total := m.Afferent + m.Efferent; total > 0 {
			m.Instability = float64(m.Efferent) / float64(total)
			all[id] = m
		}
	}
	return all
}
