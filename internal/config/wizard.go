package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// projectTypePatterns maps marker files to a human-readable project type
// and a recommended root package prefix strategy.
var projectTypePatterns = map[string]string{
	"go.mod":           "Go",
	"pyproject.toml":   "Python",
	"requirements.txt": "Python",
	"setup.py":         "Python",
}

// detectProjectType checks the current directory for well-known project
// markers.
func detectProjectType() string {
	for marker, name := range projectTypePatterns {
		matches, _ := filepath.Glob(marker)
		if len(matches) > 0 {
			return name
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and saves the result
// to .archviz.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to archviz! Let's configure your project.")
	fmt.Println()

	if projType := detectProjectType(); projType != "" {
		fmt.Printf("Detected project type: %s\n\n", projType)
	}

	cfg := DefaultConfig()

	sourcePrompt := promptui.Prompt{
		Label:   "Source directory to analyze",
		Default: cfg.SourceDir,
	}
	source, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source selection: %w", err)
	}
	cfg.SourceDir = source

	outputPrompt := promptui.Prompt{
		Label:   "Output directory for diagrams",
		Default: cfg.OutputDir,
	}
	output, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output selection: %w", err)
	}
	cfg.OutputDir = output

	rootPrompt := promptui.Prompt{
		Label:   "Root package prefix to strip from module names (optional)",
		Default: "",
	}
	rootPkg, err := rootPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("root package selection: %w", err)
	}
	cfg.RootPackage = strings.TrimSpace(rootPkg)

	typesPrompt := promptui.Select{
		Label: "Diagram types to generate",
		Items: []string{"all", "structure only (architecture, class, component, package)", "behavior only (sequence, state, usecase, activity)"},
	}
	idx, _, err := typesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("types selection: %w", err)
	}
	switch idx {
	case 1:
		cfg.Types = []string{"architecture", "class", "component", "package"}
	case 2:
		cfg.Types = []string{"sequence", "state", "usecase", "activity"}
	}

	backupPrompt := promptui.Select{
		Label: "Create backups before overwriting diagrams",
		Items: []string{"yes", "no"},
	}
	bIdx, _, err := backupPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backup selection: %w", err)
	}
	cfg.Backup = bIdx == 0

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(".archviz.yml"); err != nil {
		return nil, err
	}
	fmt.Println("\nConfiguration saved to .archviz.yml")
	return cfg, nil
}
