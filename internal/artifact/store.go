// Package artifact implements the run-scoped build artifact store.
//
// Artifacts are kept under <root>/<run-id>/<logical-name>. The logical name
// is fixed per pipeline and stable across runs; the run ID namespace keeps
// concurrent runs from touching each other's outputs.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Stored describes an uploaded artifact.
type Stored struct {
	Name      string
	Path      string
	SHA256    string
	SizeBytes int64
}

// Store is a file-backed artifact store rooted at a single directory.
type Store struct {
	root string
}

// NewStore returns a Store rooted at root. The directory is created lazily
// on first Put.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Put copies the file at srcPath into the store under runID/name, computing
// its sha256 digest along the way.
func (s *Store) Put(runID, name, srcPath string) (Stored, error) {
	if runID == "" || name == "" {
		return Stored{}, fmt.Errorf("artifact store: run id and name are required")
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return Stored{}, fmt.Errorf("open artifact source: %w", err)
	}
	defer func() { _ = src.Close() }()

	dir := filepath.Join(s.root, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stored{}, fmt.Errorf("create artifact dir: %w", err)
	}
	dstPath := filepath.Join(dir, name)
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return Stored{}, fmt.Errorf("create artifact: %w", err)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(dst, h), src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Stored{}, fmt.Errorf("store artifact: %w", err)
	}

	return Stored{
		Name:      name,
		Path:      dstPath,
		SHA256:    hex.EncodeToString(h.Sum(nil)),
		SizeBytes: n,
	}, nil
}

// Path returns the location an artifact would occupy in the store.
func (s *Store) Path(runID, name string) string {
	return filepath.Join(s.root, runID, name)
}

// List returns the artifact names stored for runID, sorted.
func (s *Store) List(runID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// DigestFile returns the hex sha256 of the file at path.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
