package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"archviz/internal/diagram"
	"archviz/internal/filemgr"
	"archviz/internal/mermaid"
	"archviz/internal/orchestrator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check generated diagram documents for structural problems",
	Long:  `Validates the mermaid markup in generated documents: the diagram declaration must be recognized and brackets must balance. With no arguments, every enabled diagram in the output directory is checked.`,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return validateOutputDir()
	}
	return validateFiles(args)
}

// validateOutputDir checks every enabled diagram document under the
// configured output directory.
func validateOutputDir() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	problems, err := orchestrator.New(logger, cfg, Version).Validate()
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Println("All diagram documents valid.")
		return nil
	}

	types := make([]diagram.Type, 0, len(problems))
	for t := range problems {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	failed := 0
	for _, t := range types {
		hasError := false
		for _, msg := range problems[t] {
			fmt.Fprintf(os.Stderr, "%s: %s\n", t, msg)
			if strings.HasPrefix(msg, "error:") {
				hasError = true
			}
		}
		if hasError {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d diagram(s) failed validation", failed)
	}
	return nil
}

// validateFiles checks explicitly named documents or bare markup files.
func validateFiles(paths []string) error {
	failed := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}

		res := mermaid.Validate(filemgr.ExtractMarkup(string(data)))
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "%s: warning: %s\n", path, w)
		}
		if !res.Valid {
			for _, e := range res.Errors {
				fmt.Fprintf(os.Stderr, "%s: error: %s\n", path, e)
			}
			failed++
			continue
		}
		if verbose {
			fmt.Printf("%s: ok\n", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed validation", failed, len(paths))
	}
	fmt.Printf("All %d document(s) valid.\n", len(paths))
	return nil
}
