package orchestrator

import (
	"os"

	"archviz/internal/filemgr"
	"archviz/internal/mermaid"
)

// validateDocument reads a generated document, extracts its mermaid block,
// and returns the combined validation messages. Errors are prefixed so
// callers can tell them apart from warnings.
func validateDocument(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res := mermaid.Validate(filemgr.ExtractMarkup(string(data)))

	msgs := make([]string, 0, len(res.Errors)+len(res.Warnings))
	for _, e := range res.Errors {
		msgs = append(msgs, "error: "+e)
	}
	for _, w := range res.Warnings {
		msgs = append(msgs, "warning: "+w)
	}
	return msgs, nil
}
