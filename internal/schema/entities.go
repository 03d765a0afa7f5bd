package schema

import (
	"sort"
	"strings"

	"archviz/internal/analyzer"
)

// entityPathKeywords mark files likely to declare persistable types.
var entityPathKeywords = []string{"model", "models", "entity", "entities", "schema", "schemas", "dao", "orm"}

// ExtractEntities derives a database-entity view from the structural
// records: declared types in model-flavored files become entities, their
// fields become columns, and fields typed as another entity become
// relations.
func ExtractEntities(records []*analyzer.StructuralRecord) []Entity {
	var candidates []*analyzer.StructuralRecord
	for _, rec := range records {
		if rec.IsTest {
			continue
		}
		if pathHasKeyword(rec.RelPath, entityPathKeywords) {
			candidates = append(candidates, rec)
		}
	}

	// First pass: collect entity names so relations can be resolved.
	known := make(map[string]bool)
	for _, rec := range candidates {
		for _, td := range rec.Types {
			if len(td.Fields) > 0 {
				known[td.Name] = true
			}
		}
	}

	var entities []Entity
	for _, rec := range candidates {
		for _, td := range rec.Types {
			if len(td.Fields) == 0 {
				continue
			}
			e := Entity{Name: td.Name, Source: rec.RelPath}
			for _, f := range td.Fields {
				e.Columns = append(e.Columns, Column{
					Name:       f.Name,
					Type:       f.Type,
					PrimaryKey: isKeyField(f.Name),
				})
				if target := baseTypeName(f.Type); known[target] && target != td.Name {
					e.Relations = append(e.Relations, Relation{From: td.Name, To: target, Label: f.Name})
				}
			}
			entities = append(entities, e)
		}
	}

	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
	return entities
}

func pathHasKeyword(relPath string, keywords []string) bool {
	lower := strings.ToLower(relPath)
	segments := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '/' || r == '.' || r == '_' || r == '-'
	})
	for _, kw := range keywords {
		for _, seg := range segments {
			if seg == kw {
				return true
			}
		}
	}
	return false
}

func isKeyField(name string) bool {
	lower := strings.ToLower(name)
	return lower == "id" || strings.HasSuffix(lower, "_id") || strings.HasSuffix(lower, "id") && len(lower) <= 4
}

// baseTypeName strips pointers, slices, and package qualifiers from a field
// type so it can be matched against entity names.
func baseTypeName(typ string) string {
	t := strings.TrimPrefix(typ, "*")
	t = strings.TrimPrefix(t, "[]")
	t = strings.TrimPrefix(t, "*")
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		t = t[i+1:]
	}
	return t
}
