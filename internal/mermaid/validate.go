package mermaid

import (
	"fmt"
	"strings"
)

// diagramKeywords are the recognized diagram-kind declarations. A document
// whose first non-empty line does not begin with one of these fails
// validation with an error.
var diagramKeywords = []string{
	"graph",
	"flowchart",
	"classDiagram",
	"erDiagram",
	"sequenceDiagram",
	"stateDiagram-v2",
	"stateDiagram",
	"journey",
}

// ValidationResult reports structural sanity checks on diagram markup.
// Errors make the markup unusable; warnings do not.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate performs structural checks on mermaid markup: the document must
// open with a recognized diagram-kind declaration (error if not), and
// bracket, parenthesis, and brace counts must balance (warnings if not).
func Validate(markup string) ValidationResult {
	res := ValidationResult{Valid: true}

	first := firstNonEmptyLine(markup)
	if first == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "empty diagram markup")
		return res
	}

	if !hasDiagramKeyword(first) {
		res.Valid = false
		res.Errors = append(res.Errors, fmt.Sprintf("unrecognized diagram declaration %q", first))
	}

	pairs := []struct {
		open, closing rune
		name          string
	}{
		{'(', ')', "parenthesis"},
		{'[', ']', "bracket"},
		{'{', '}', "brace"},
	}
	for _, p := range pairs {
		opens := strings.Count(markup, string(p.open))
		closes := strings.Count(markup, string(p.closing))
		if opens != closes {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("unbalanced %s count: %d open, %d close", p.name, opens, closes))
		}
	}

	return res
}

func firstNonEmptyLine(markup string) string {
	for _, line := range strings.Split(markup, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func hasDiagramKeyword(line string) bool {
	for _, kw := range diagramKeywords {
		if line == kw || strings.HasPrefix(line, kw+" ") {
			return true
		}
	}
	return false
}
