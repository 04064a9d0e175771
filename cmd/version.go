package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitykit/unity-guid-rewriter/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("unity-guid-rewriter %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
