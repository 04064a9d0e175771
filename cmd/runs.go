package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitykit/unity-guid-rewriter/internal/db"
	"github.com/unitykit/unity-guid-rewriter/internal/registry"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded pipeline runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipeline runs",
	Long:  "List pipeline runs, newest first. Example:\n  unity-guid-rewriter runs list --status failed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		status, _ := cmd.Flags().GetString("status")
		filter, _ := cmd.Flags().GetString("filter")

		r := registry.NewRepository(dbConn)
		runs, err := r.ListRuns(status)
		if err != nil {
			return err
		}
		runs = registry.FilterRuns(runs, filter)

		for _, run := range runs {
			fmt.Printf("- %s  %-8s %-24s %s\n", run.ID, run.Trigger, run.Ref, run.Status)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run's steps and artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		r := registry.NewRepository(dbConn)
		run, err := r.GetRunByID(args[0])
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run not found: %s", args[0])
		}

		fmt.Printf("run %s (%s, %s)\n", run.ID, run.Trigger, run.Ref)
		fmt.Printf("status: %s\n", run.Status)
		if run.Error.Valid {
			fmt.Printf("error: %s\n", run.Error.String)
		}
		for _, s := range run.Steps {
			line := fmt.Sprintf("  %d. %-16s %s", s.Position, s.Name, s.Status)
			if s.Detail.Valid && s.Detail.String != "" {
				line += " (" + s.Detail.String + ")"
			}
			fmt.Println(line)
		}

		arts, err := r.ArtifactsForRun(run.ID)
		if err != nil {
			return err
		}
		for _, a := range arts {
			fmt.Printf("artifact %s sha256=%s (%d bytes)\n", a.Name, a.SHA256, a.SizeBytes)
		}
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "Filter by run status")
	runsListCmd.Flags().String("filter", "", "Fuzzy-filter by id, pipeline, ref, or status")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
