package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

const fullSpec = `
name: unity-guid-rewriter
source: https://example.com/unity-guid-rewriter.git
artifact:
  name: unity-guid-rewriter
toolchain:
  command: go
  version: "go1.25"
build:
  command: go build -trimpath -o bin/unity-guid-rewriter.exe .
  output: bin/unity-guid-rewriter.exe
release:
  license: LICENSE
`

func TestParseSpec(t *testing.T) {
	s, err := ParseSpec([]byte(fullSpec))
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if s.Name != "unity-guid-rewriter" {
		t.Fatalf("unexpected name: %q", s.Name)
	}
	if s.Artifact.Name != "unity-guid-rewriter" {
		t.Fatalf("unexpected artifact name: %q", s.Artifact.Name)
	}
	if s.Toolchain.Check != "go version" {
		t.Fatalf("expected default toolchain check, got %q", s.Toolchain.Check)
	}
	if s.Build.Output != "bin/unity-guid-rewriter.exe" {
		t.Fatalf("unexpected build output: %q", s.Build.Output)
	}
}

func TestParseSpecDefaults(t *testing.T) {
	s, err := ParseSpec([]byte(`
name: tool
source: .
build:
  command: make release
  output: out/tool
`))
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if s.Artifact.Name != "tool" {
		t.Fatalf("artifact name should default to pipeline name, got %q", s.Artifact.Name)
	}
	if s.Toolchain.Command != "go" || s.Toolchain.Check != "go version" {
		t.Fatalf("unexpected toolchain defaults: %+v", s.Toolchain)
	}
	if s.Release.License != "LICENSE" {
		t.Fatalf("license should default to LICENSE, got %q", s.Release.License)
	}
}

func TestParseSpecRequiredFields(t *testing.T) {
	bad := []string{
		``,
		`source: .`,
		"name: x\nsource: .",
		"name: x\nsource: .\nbuild:\n  command: make",
	}
	for _, in := range bad {
		if _, err := ParseSpec([]byte(in)); err == nil {
			t.Fatalf("expected validation error for %q", in)
		}
	}
}

func TestParseSpecRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseSpec([]byte("name: [unclosed")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigName)
	if err := os.WriteFile(path, []byte(fullSpec), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	s, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if s.Name != "unity-guid-rewriter" {
		t.Fatalf("unexpected name: %q", s.Name)
	}
	if _, err := LoadSpec(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
