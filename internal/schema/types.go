// Package schema hosts the domain-specific extractors layered on top of the
// structural records: a database-entity view consumed by the
// entity-relationship generator and a route view consumed by the sequence
// and use-case generators.
package schema

// Entity describes a persistable record type inferred from a declared type.
type Entity struct {
	Name      string
	Source    string // relative path of the declaring file
	Columns   []Column
	Relations []Relation
}

// Column describes one entity attribute.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
}

// Relation links two entities.
type Relation struct {
	From  string
	To    string
	Label string
}

// Route describes an HTTP endpoint inferred from handler-flavored code.
type Route struct {
	Path         string
	Methods      []string
	Handler      string
	Source       string // relative path of the declaring file
	RequiresAuth bool
}
