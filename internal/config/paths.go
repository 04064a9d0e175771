package config

import (
	"os"
	"path/filepath"
)

// EnvHome overrides the data directory when set. Useful for tests and for
// runners that keep pipeline state on a dedicated volume.
const EnvHome = "UNITY_GUID_REWRITER_HOME"

// DataDir returns the directory used to store pipeline state: the run
// database, the artifact store, and published releases.
func DataDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Use a dot-directory in the user's home on all platforms
	return filepath.Join(home, ".unity-guid-rewriter"), nil
}

// DBPath returns the full path to the SQLite database file.
func DBPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "pipeline.db"), nil
}

// ArtifactsDir returns the root of the artifact store. Artifacts are
// namespaced per run underneath it.
func ArtifactsDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "artifacts"), nil
}

// ReleasesDir returns the root directory of published releases.
func ReleasesDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "releases"), nil
}

// WorkspacesDir returns the root directory for per-run source checkouts.
func WorkspacesDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "workspaces"), nil
}
