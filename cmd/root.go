package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "unity-guid-rewriter",
	Short: "unity-guid-rewriter regenerates Unity asset GUIDs",
	Long:  "unity-guid-rewriter rewrites the GUIDs of a Unity project's assets and carries the build-and-release pipeline that ships the tool itself",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("unity-guid-rewriter: run 'unity-guid-rewriter --help' to see available commands")
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
