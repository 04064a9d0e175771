package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unitykit/unity-guid-rewriter/internal/rewriter"
	"github.com/unitykit/unity-guid-rewriter/internal/utils"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [scan-dir]",
	Short: "Regenerate asset GUIDs across the working directory",
	Long: "Scan for .meta files (in scan-dir, or the working directory when omitted),\n" +
		"mint a fresh GUID for each, and rewrite every occurrence in the working\n" +
		"directory's files. Dry-run unless --force is given.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		ignore, _ := cmd.Flags().GetString("ignore")
		yes, _ := cmd.Flags().GetBool("yes")

		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		scanDir := wd
		if len(args) == 1 {
			scanDir = args[0]
		}

		if force && !yes {
			if !utils.Confirm("Rewrite GUIDs in place? This cannot be undone") {
				fmt.Println("aborted")
				return nil
			}
		}

		mapping, err := rewriter.Run(rewriter.Options{
			ScanDir: scanDir,
			WorkDir: wd,
			Ignore:  ignore,
			Force:   force,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%d guid(s) mapped\n", len(mapping))
		return nil
	},
}

func init() {
	rewriteCmd.Flags().BoolP("force", "f", false, "Apply changes (default is a dry run)")
	rewriteCmd.Flags().StringP("ignore", "i", rewriter.DefaultIgnore, "Comma-separated file extensions to skip")
	rewriteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(rewriteCmd)
}
