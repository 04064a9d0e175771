package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testGUID = "0123456789abcdef0123456789abcdef"

// chdir switches to dir for the duration of the test, restoring the
// previous working directory on cleanup (t.Chdir requires Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

func writeUnityProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Assets/Cube.prefab.meta": "fileFormatVersion: 2\nguid: " + testGUID + "\n",
		"Assets/Main.unity":       "prefab: {guid: " + testGUID + "}\n",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func TestRewriteDryRunByDefault(t *testing.T) {
	dir := writeUnityProject(t)
	chdir(t, dir)

	out, _, err := runCommand(t, "rewrite")
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !strings.Contains(out, "1 guid(s) mapped") {
		t.Fatalf("expected mapping summary, got: %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Assets/Main.unity"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), testGUID) {
		t.Fatalf("dry run must not modify files")
	}
}

func TestRewriteForce(t *testing.T) {
	dir := writeUnityProject(t)
	chdir(t, dir)

	if _, _, err := runCommand(t, "rewrite", "--force", "--yes"); err != nil {
		t.Fatalf("rewrite --force: %v", err)
	}

	for _, name := range []string{"Assets/Cube.prefab.meta", "Assets/Main.unity"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if strings.Contains(string(data), testGUID) {
			t.Fatalf("%s still contains the old guid", name)
		}
	}
}
