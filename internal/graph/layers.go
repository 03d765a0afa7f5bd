package graph

import "strings"

// Layer is a coarse architectural bucket assigned by path-keyword
// heuristics.
type Layer string

const (
	LayerPresentation Layer = "presentation"
	LayerBusiness     Layer = "business"
	LayerData         Layer = "data"
	LayerUnknown      Layer = "unknown"
)

// LayerRule binds a layer to the path keywords that select it. Rules are
// evaluated in order; the first match wins.
type LayerRule struct {
	Layer    Layer
	Keywords []string
}

// DefaultLayerRules is the keyword table used when the configuration does
// not override it.
var DefaultLayerRules = []LayerRule{
	{Layer: LayerPresentation, Keywords: []string{"ui", "view", "views", "handler", "handlers", "controller", "controllers", "web", "api", "cmd", "cli"}},
	{Layer: LayerBusiness, Keywords: []string{"service", "services", "core", "domain", "logic", "usecase", "usecases", "pipeline"}},
	{Layer: LayerData, Keywords: []string{"repo", "repos", "repository", "store", "storage", "db", "database", "model", "models", "dao", "entity", "entities", "schema"}},
}

// IdentifyLayers classifies every node into a layer by matching the
// module's dotted path segments against the rule table. Ties resolve to
// the first matching rule; no match falls into LayerUnknown.
func IdentifyLayers(g *Graph, rules []LayerRule) map[string]Layer {
	if len(rules) == 0 {
		rules = DefaultLayerRules
	}

	layers := make(map[string]Layer, len(g.Nodes))
	for id := range g.Nodes {
		layers[id] = classify(id, rules)
	}
	return layers
}

func classify(moduleID string, rules []LayerRule) Layer {
	segments := strings.Split(strings.ToLower(moduleID), ".")
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			for _, seg := range segments {
				if seg == kw {
					return rule.Layer
				}
			}
		}
	}
	return LayerUnknown
}
