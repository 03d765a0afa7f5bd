package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"archviz/internal/orchestrator"
	"archviz/internal/progress"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Analyze the source tree and generate all enabled diagrams",
	Long:  `Scans the configured source directory, builds the dependency graph, and writes every enabled diagram type to the output directory.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("source", "", "source directory to analyze (overrides config)")
	generateCmd.Flags().String("output", "", "output directory for diagrams (overrides config)")
	generateCmd.Flags().Int("concurrency", 0, "max parallel file parses (overrides config)")
	generateCmd.Flags().Duration("timeout", 0, "abort generation after this duration")
	generateCmd.Flags().StringSlice("types", nil, "diagram types to generate (overrides config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if source, _ := cmd.Flags().GetString("source"); source != "" {
		cfg.SourceDir = source
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.OutputDir = output
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency > 0 {
		cfg.MaxConcurrency = concurrency
	}
	if types, _ := cmd.Flags().GetStringSlice("types"); len(types) > 0 {
		cfg.Types = types
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	orch := orchestrator.New(logger, cfg, Version)
	orch.SetReporter(progress.NewReporter())

	result, err := orch.GenerateAll(ctx)
	if err != nil {
		return err
	}

	printRunErrors(result.Errors)
	printRunWarnings(result.Warnings)

	fmt.Printf("Generated %d of %d diagrams in %s\n",
		len(result.Produced), len(result.Enabled), time.Since(start).Round(time.Millisecond))
	for _, path := range result.Produced {
		fmt.Printf("  %s\n", path)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d diagram(s) failed", len(result.Errors))
	}
	return nil
}
