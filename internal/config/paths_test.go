package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDataDirEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvHome, tmp)

	d, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir(): %v", err)
	}
	if d != tmp {
		t.Fatalf("expected %q, got %q", tmp, d)
	}
}

func TestDataDirDefault(t *testing.T) {
	t.Setenv(EnvHome, "")
	d, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir(): %v", err)
	}
	if !strings.HasSuffix(d, ".unity-guid-rewriter") {
		t.Fatalf("expected dot-directory suffix, got %q", d)
	}
}

func TestDerivedPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvHome, tmp)

	dbp, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}
	if dbp != filepath.Join(tmp, "pipeline.db") {
		t.Fatalf("unexpected db path: %q", dbp)
	}
	for name, f := range map[string]func() (string, error){
		"artifacts":  ArtifactsDir,
		"releases":   ReleasesDir,
		"workspaces": WorkspacesDir,
	} {
		p, err := f()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p != filepath.Join(tmp, name) {
			t.Fatalf("%s: unexpected path %q", name, p)
		}
	}
}
