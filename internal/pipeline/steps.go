package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/unitykit/unity-guid-rewriter/internal/refutil"
	"github.com/unitykit/unity-guid-rewriter/internal/security"
)

// checkout retrieves the source at the triggering ref into the run workspace.
// Plain local directories are copied as-is (there is no history to resolve
// the ref against); local git repos and remote URLs are cloned and the ref
// checked out detached.
func (e *Engine) checkout(ctx context.Context, run *runContext) error {
	src := e.Spec.Source
	if info, err := os.Stat(src); err == nil && info.IsDir() && !isGitRepo(src) {
		return copyTree(src, run.workspace)
	}

	clone := shellquote.Join("git", "clone", "--quiet", src, run.workspace)
	if err := e.Runner.Execute(ctx, clone, "", nil, io.Discard, io.Discard); err != nil {
		return fmt.Errorf("clone %s: %w", src, err)
	}
	if short := refutil.ShortName(run.ref); short != "" {
		co := shellquote.Join("git", "checkout", "--quiet", "--detach", short)
		if err := e.Runner.Execute(ctx, co, run.workspace, nil, io.Discard, io.Discard); err != nil {
			return fmt.Errorf("checkout %s: %w", short, err)
		}
	}
	return nil
}

// toolchainSetup verifies the configured compiler is installed and, when a
// version constraint is set, that the reported version matches it.
func (e *Engine) toolchainSetup(ctx context.Context, run *runContext) error {
	var out bytes.Buffer
	if err := e.Runner.Execute(ctx, e.Spec.Toolchain.Check, "", nil, &out, &out); err != nil {
		return fmt.Errorf("toolchain %s not available: %w", e.Spec.Toolchain.Command, err)
	}
	if v := e.Spec.Toolchain.Version; v != "" && !strings.Contains(out.String(), v) {
		return fmt.Errorf("toolchain version mismatch: want %q in %q", v, strings.TrimSpace(out.String()))
	}
	return nil
}

// build runs the release-mode compilation in the workspace and checks that
// the configured output exists afterwards.
func (e *Engine) build(ctx context.Context, run *runContext) error {
	if err := security.CheckAllowed(e.Spec.Build.Command); err != nil {
		return fmt.Errorf("refusing to run build command: %w", err)
	}
	var errb bytes.Buffer
	if err := e.Runner.Execute(ctx, e.Spec.Build.Command, run.workspace, nil, io.Discard, &errb); err != nil {
		if msg := strings.TrimSpace(errb.String()); msg != "" {
			return fmt.Errorf("%w\n%s", err, msg)
		}
		return err
	}
	outPath := filepath.Join(run.workspace, e.Spec.Build.Output)
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("build output missing at %s: %w", e.Spec.Build.Output, err)
	}
	return nil
}

// artifactUpload stores the built executable under the fixed logical name,
// namespaced by run ID, and records it.
func (e *Engine) artifactUpload(ctx context.Context, run *runContext) error {
	outPath := filepath.Join(run.workspace, e.Spec.Build.Output)
	stored, err := e.Artifacts.Put(run.id, e.Spec.Artifact.Name, outPath)
	if err != nil {
		return err
	}
	if _, err := e.Repo.AddArtifact(run.id, stored.Name, stored.Path, stored.SHA256, stored.SizeBytes); err != nil {
		return err
	}
	run.stored = stored
	return nil
}

// releasePublish bundles the stored executable and the license file under
// the tag name and records the release. Returns the published tag.
func (e *Engine) releasePublish(ctx context.Context, run *runContext) (string, error) {
	tag := refutil.TagName(run.ref)
	if err := refutil.ValidTagName(tag); err != nil {
		return "", err
	}
	licensePath := filepath.Join(run.workspace, e.Spec.Release.License)
	if _, err := os.Stat(licensePath); err != nil {
		return "", fmt.Errorf("license file missing at %s: %w", e.Spec.Release.License, err)
	}
	rel, err := e.Publisher.Publish(tag, run.stored.Path, licensePath)
	if err != nil {
		return "", err
	}
	if err := e.Repo.UpsertRelease(tag, run.id, rel.Dir); err != nil {
		return "", err
	}
	return tag, nil
}

func isGitRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// copyTree copies a source directory into dst, skipping .git metadata.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" && rel != "." {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dst, rel), data, info.Mode().Perm())
	})
}
