// Package release publishes versioned binary bundles.
//
// A release is a persistent directory keyed by tag name containing exactly
// the compiled executable and the license file, plus a SHA256SUMS manifest
// (and its detached signature when a signing key is configured).
package release

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unitykit/unity-guid-rewriter/internal/artifact"
	"github.com/unitykit/unity-guid-rewriter/internal/signing"
)

// ManifestName is the checksum manifest written into every release.
const ManifestName = "SHA256SUMS"

// SignatureName is the armored detached signature over the manifest.
const SignatureName = "SHA256SUMS.asc"

// Release describes a published bundle on disk.
type Release struct {
	Tag   string
	Dir   string
	Files []string // bundled file names, sorted; excludes manifest and signature
}

// Publisher writes release bundles under a root directory.
type Publisher struct {
	Root   string
	Signer *signing.Signer // optional
}

// Publish creates (or replaces) the release for tag, bundling the executable
// and the license file. Re-publishing an existing tag removes the previous
// files first so the bundle always reflects the latest run.
func (p *Publisher) Publish(tag, exePath, licensePath string) (Release, error) {
	if strings.TrimSpace(tag) == "" {
		return Release{}, fmt.Errorf("publish: tag cannot be empty")
	}
	dir := filepath.Join(p.Root, tag)
	// The bundle must be an immediate child of the release root; a tag
	// carrying separators or dot segments would resolve elsewhere.
	if filepath.Dir(dir) != filepath.Clean(p.Root) {
		return Release{}, fmt.Errorf("publish: tag %q resolves outside the release root", tag)
	}
	if err := os.RemoveAll(dir); err != nil {
		return Release{}, fmt.Errorf("clear previous release: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Release{}, fmt.Errorf("create release dir: %w", err)
	}

	files := []string{}
	for _, src := range []string{exePath, licensePath} {
		name := filepath.Base(src)
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			return Release{}, fmt.Errorf("bundle %s: %w", name, err)
		}
		files = append(files, name)
	}
	sort.Strings(files)

	manifest, err := buildManifest(dir, files)
	if err != nil {
		return Release{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), manifest, 0o644); err != nil {
		return Release{}, fmt.Errorf("write manifest: %w", err)
	}

	if p.Signer != nil {
		sig, err := p.Signer.Sign(manifest)
		if err != nil {
			return Release{}, fmt.Errorf("sign manifest: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, SignatureName), []byte(sig), 0o644); err != nil {
			return Release{}, fmt.Errorf("write signature: %w", err)
		}
	}

	return Release{Tag: tag, Dir: dir, Files: files}, nil
}

// buildManifest produces sha256sum-compatible lines for the bundled files.
func buildManifest(dir string, files []string) ([]byte, error) {
	var b strings.Builder
	for _, name := range files {
		sum, err := artifact.DigestFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("digest %s: %w", name, err)
		}
		fmt.Fprintf(&b, "%s  %s\n", sum, name)
	}
	return []byte(b.String()), nil
}

// VerifySums recomputes the digests of the bundled files in dir and compares
// them against the SHA256SUMS manifest.
func VerifySums(dir string) error {
	manifest, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(string(manifest)), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "  ", 2)
		if len(parts) != 2 {
			return fmt.Errorf("malformed manifest line: %q", line)
		}
		want, name := parts[0], parts[1]
		got, err := artifact.DigestFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("digest %s: %w", name, err)
		}
		if got != want {
			return fmt.Errorf("checksum mismatch for %s", name)
		}
	}
	return nil
}

// Manifest reads the raw SHA256SUMS content of a published release.
func Manifest(dir string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, ManifestName))
}

// Signature reads the armored manifest signature, or "" when unsigned.
func Signature(dir string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, SignatureName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
