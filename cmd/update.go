package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"archviz/internal/orchestrator"
	"archviz/internal/progress"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Regenerate only the diagrams affected by file changes",
	Long:  `Compares the source tree against the last run's snapshot and regenerates only the diagram types the changed files affect. Large change sets fall back to a full regeneration.`,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().Bool("force", false, "skip change detection and regenerate everything")
	updateCmd.Flags().Duration("since", 0, "treat files modified within this window as changed")
	updateCmd.Flags().Duration("timeout", 0, "abort generation after this duration")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
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

	force, _ := cmd.Flags().GetBool("force")

	var result *orchestrator.RunResult
	switch since, _ := cmd.Flags().GetDuration("since"); {
	case force:
		result, err = orch.GenerateAll(ctx)
	case since > 0:
		result, err = orch.UpdateChangedSince(ctx, time.Now().Add(-since))
	default:
		result, err = orch.UpdateChanged(ctx)
	}
	if err != nil {
		return err
	}

	printRunErrors(result.Errors)
	printRunWarnings(result.Warnings)

	if len(result.Enabled) == 0 {
		fmt.Println("Diagrams are up to date.")
		return nil
	}

	fmt.Printf("Updated %d of %d diagrams in %s\n",
		len(result.Produced), len(result.Enabled), time.Since(start).Round(time.Millisecond))
	for _, path := range result.Produced {
		fmt.Printf("  %s\n", path)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d diagram(s) failed", len(result.Errors))
	}
	return nil
}
