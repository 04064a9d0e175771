package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitykit/unity-guid-rewriter/internal/db"
	"github.com/unitykit/unity-guid-rewriter/internal/registry"
	"github.com/unitykit/unity-guid-rewriter/internal/release"
	"github.com/unitykit/unity-guid-rewriter/internal/signing"
)

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "Inspect published releases",
}

var releasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published releases",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		rels, err := registry.NewRepository(dbConn).ListReleases()
		if err != nil {
			return err
		}
		for _, rel := range rels {
			fmt.Printf("- %s  (run %s)\n", rel.Tag, rel.RunID)
		}
		return nil
	},
}

var releasesShowCmd = &cobra.Command{
	Use:   "show <tag>",
	Short: "Show a release's bundle and checksums",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rel, err := lookupRelease(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("release %s (run %s)\n", rel.Tag, rel.RunID)
		fmt.Printf("path: %s\n", rel.Path)
		manifest, err := release.Manifest(rel.Path)
		if err != nil {
			return err
		}
		fmt.Print(string(manifest))
		return nil
	},
}

var releasesVerifyCmd = &cobra.Command{
	Use:   "verify <tag>",
	Short: "Verify a release's checksums and signature",
	Long: "Recompute the bundle's sha256 digests against SHA256SUMS. With --key,\n" +
		"also verify the manifest's detached OpenPGP signature.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyPath, _ := cmd.Flags().GetString("key")

		rel, err := lookupRelease(args[0])
		if err != nil {
			return err
		}
		if err := release.VerifySums(rel.Path); err != nil {
			return err
		}
		fmt.Println("checksums OK")

		if keyPath == "" {
			return nil
		}
		sig, err := release.Signature(rel.Path)
		if err != nil {
			return err
		}
		if sig == "" {
			return fmt.Errorf("release %s is not signed", rel.Tag)
		}
		v, err := signing.LoadVerifier(keyPath)
		if err != nil {
			return err
		}
		manifest, err := release.Manifest(rel.Path)
		if err != nil {
			return err
		}
		if err := v.Verify(manifest, sig); err != nil {
			return err
		}
		fmt.Println("signature OK")
		return nil
	},
}

func lookupRelease(tag string) (*registry.Release, error) {
	dbConn, err := db.InitDB()
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbConn.Close() }()

	rel, err := registry.NewRepository(dbConn).GetReleaseByTag(tag)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, fmt.Errorf("release not found: %s", tag)
	}
	return rel, nil
}

func init() {
	releasesVerifyCmd.Flags().String("key", "", "Armored public key to verify the manifest signature")
	releasesCmd.AddCommand(releasesListCmd)
	releasesCmd.AddCommand(releasesShowCmd)
	releasesCmd.AddCommand(releasesVerifyCmd)
	rootCmd.AddCommand(releasesCmd)
}
