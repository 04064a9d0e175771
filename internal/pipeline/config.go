package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the pipeline file looked up when --config is not given.
const DefaultConfigName = ".pipeline.yaml"

// Spec is the validated pipeline definition.
type Spec struct {
	Name      string
	Source    string
	Artifact  ArtifactSpec
	Toolchain ToolchainSpec
	Build     BuildSpec
	Release   ReleaseSpec
}

// ArtifactSpec names the build artifact. The logical name is fixed per
// pipeline and stable across runs.
type ArtifactSpec struct {
	Name string
}

// ToolchainSpec describes the compiler toolchain required by the build step.
type ToolchainSpec struct {
	Command string // compiler executable, resolved from PATH
	Check   string // version-reporting command, default "<command> version"
	Version string // required substring of the check output, optional
}

// BuildSpec is the release-mode compilation step.
type BuildSpec struct {
	Command string // build command, run in the workspace
	Output  string // conventional release output path, relative to the workspace
}

// ReleaseSpec configures the conditional publish step.
type ReleaseSpec struct {
	License    string // license file path relative to the repository root
	SigningKey string // optional armored private key used to sign SHA256SUMS
}

// yamlSpec represents the raw YAML structure.
type yamlSpec struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Artifact struct {
		Name string `yaml:"name"`
	} `yaml:"artifact"`
	Toolchain struct {
		Command string `yaml:"command"`
		Check   string `yaml:"check"`
		Version string `yaml:"version"`
	} `yaml:"toolchain"`
	Build struct {
		Command string `yaml:"command"`
		Output  string `yaml:"output"`
	} `yaml:"build"`
	Release struct {
		License    string `yaml:"license"`
		SigningKey string `yaml:"signing_key"`
	} `yaml:"release"`
}

// LoadSpec reads and validates a pipeline file.
func LoadSpec(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read pipeline file: %w", err)
	}
	return ParseSpec(data)
}

// ParseSpec parses raw YAML into a validated Spec with defaults applied.
func ParseSpec(data []byte) (Spec, error) {
	var raw yamlSpec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Spec{}, fmt.Errorf("parse pipeline file: %w", err)
	}

	s := Spec{
		Name:   strings.TrimSpace(raw.Name),
		Source: strings.TrimSpace(raw.Source),
		Artifact: ArtifactSpec{
			Name: strings.TrimSpace(raw.Artifact.Name),
		},
		Toolchain: ToolchainSpec{
			Command: strings.TrimSpace(raw.Toolchain.Command),
			Check:   strings.TrimSpace(raw.Toolchain.Check),
			Version: strings.TrimSpace(raw.Toolchain.Version),
		},
		Build: BuildSpec{
			Command: strings.TrimSpace(raw.Build.Command),
			Output:  strings.TrimSpace(raw.Build.Output),
		},
		Release: ReleaseSpec{
			License:    strings.TrimSpace(raw.Release.License),
			SigningKey: strings.TrimSpace(raw.Release.SigningKey),
		},
	}

	if s.Name == "" {
		return Spec{}, fmt.Errorf("pipeline file: name is required")
	}
	if s.Source == "" {
		return Spec{}, fmt.Errorf("pipeline file: source is required")
	}
	if s.Build.Command == "" {
		return Spec{}, fmt.Errorf("pipeline file: build.command is required")
	}
	if s.Build.Output == "" {
		return Spec{}, fmt.Errorf("pipeline file: build.output is required")
	}

	if s.Artifact.Name == "" {
		s.Artifact.Name = s.Name
	}
	if s.Toolchain.Command == "" {
		s.Toolchain.Command = "go"
	}
	if s.Toolchain.Check == "" {
		s.Toolchain.Check = s.Toolchain.Command + " version"
	}
	if s.Release.License == "" {
		s.Release.License = "LICENSE"
	}
	return s, nil
}
