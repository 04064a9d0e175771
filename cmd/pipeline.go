package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unitykit/unity-guid-rewriter/internal/artifact"
	"github.com/unitykit/unity-guid-rewriter/internal/config"
	"github.com/unitykit/unity-guid-rewriter/internal/db"
	"github.com/unitykit/unity-guid-rewriter/internal/executor"
	"github.com/unitykit/unity-guid-rewriter/internal/pipeline"
	"github.com/unitykit/unity-guid-rewriter/internal/registry"
	"github.com/unitykit/unity-guid-rewriter/internal/release"
	"github.com/unitykit/unity-guid-rewriter/internal/signing"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the build-and-release pipeline",
}

var pipelineRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline for a pushed reference",
	Long: "Execute the full step sequence (checkout, toolchain setup, build,\n" +
		"artifact upload) for --ref, publishing a release only when the ref is\n" +
		"a refs/tags/ reference.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ref, _ := cmd.Flags().GetString("ref")
		cfgPath, _ := cmd.Flags().GetString("config")
		dry, _ := cmd.Flags().GetBool("dry-run")
		verbose, _ := cmd.Flags().GetBool("verbose")

		spec, err := loadPipelineSpec(cfgPath)
		if err != nil {
			return err
		}
		ev := pipeline.Event{Trigger: registry.TriggerPush, Ref: ref}

		if dry {
			eng := &pipeline.Engine{Spec: spec}
			for _, s := range eng.Plan(ev) {
				fmt.Printf("-> %s\n", s)
			}
			return nil
		}

		eng, dbConn, err := newEngine(spec, verbose)
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		return reportRun(eng.Run(context.Background(), ev))
	},
}

var pipelineDispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run the pipeline via manual dispatch",
	Long:  "Execute the same step sequence as a push, with the ref taken from the source's HEAD.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		spec, err := loadPipelineSpec(cfgPath)
		if err != nil {
			return err
		}
		eng, dbConn, err := newEngine(spec, verbose)
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		ctx := context.Background()
		ref := pipeline.ResolveHeadRef(ctx, eng.Runner, spec.Source)
		return reportRun(eng.Run(ctx, pipeline.Event{Trigger: registry.TriggerDispatch, Ref: ref}))
	},
}

// loadPipelineSpec reads the pipeline file, defaulting to .pipeline.yaml in
// the working directory.
func loadPipelineSpec(path string) (pipeline.Spec, error) {
	if path == "" {
		path = pipeline.DefaultConfigName
	}
	return pipeline.LoadSpec(path)
}

// newEngine wires a pipeline engine over the data directory.
func newEngine(spec pipeline.Spec, verbose bool) (*pipeline.Engine, *sql.DB, error) {
	dbConn, err := db.InitDB()
	if err != nil {
		return nil, nil, err
	}

	artifactsDir, err := config.ArtifactsDir()
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, err
	}
	releasesDir, err := config.ReleasesDir()
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, err
	}
	workspacesDir, err := config.WorkspacesDir()
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, err
	}

	pub := &release.Publisher{Root: releasesDir}
	if spec.Release.SigningKey != "" {
		signer, err := signing.LoadSigner(spec.Release.SigningKey)
		if err != nil {
			_ = dbConn.Close()
			return nil, nil, err
		}
		pub.Signer = signer
	}

	eng := &pipeline.Engine{
		Spec:       spec,
		Repo:       registry.NewRepository(dbConn),
		Runner:     executor.New(false, verbose),
		Artifacts:  artifact.NewStore(artifactsDir),
		Publisher:  pub,
		Workspaces: workspacesDir,
		Out:        os.Stdout,
	}
	return eng, dbConn, nil
}

// reportRun prints the run outcome and propagates the step error, if any.
func reportRun(res *pipeline.Result, err error) error {
	if res != nil {
		fmt.Printf("run %s: %s\n", res.RunID, res.State)
		if res.Artifact.Name != "" {
			fmt.Printf("artifact %s sha256=%s (%d bytes)\n", res.Artifact.Name, res.Artifact.SHA256, res.Artifact.SizeBytes)
		}
		if res.ReleaseTag != "" {
			fmt.Printf("published release %s\n", res.ReleaseTag)
		}
	}
	return err
}

func init() {
	pipelineRunCmd.Flags().String("ref", "", "Triggering reference (e.g. refs/heads/main, refs/tags/v1.0.0)")
	pipelineRunCmd.Flags().String("config", "", "Pipeline file (default .pipeline.yaml)")
	pipelineRunCmd.Flags().Bool("dry-run", false, "Print the step plan without executing")
	pipelineRunCmd.Flags().Bool("verbose", false, "Verbose output")
	_ = pipelineRunCmd.MarkFlagRequired("ref")

	pipelineDispatchCmd.Flags().String("config", "", "Pipeline file (default .pipeline.yaml)")
	pipelineDispatchCmd.Flags().Bool("verbose", false, "Verbose output")

	pipelineCmd.AddCommand(pipelineRunCmd)
	pipelineCmd.AddCommand(pipelineDispatchCmd)
	rootCmd.AddCommand(pipelineCmd)
}
