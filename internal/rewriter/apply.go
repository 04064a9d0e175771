package rewriter

import (
	"bytes"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultIgnore is the default comma-separated list of skipped extensions.
const DefaultIgnore = "png,git,fbx,exe"

// ParseIgnoreList turns a comma-separated extension list into dotted
// suffixes ("png, git" → [".png", ".git"]).
func ParseIgnoreList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, "."+p)
	}
	return out
}

// Apply walks dir and rewrites every occurrence of every mapped guid in
// files whose names do not end with an ignored suffix. When force is false
// nothing is written; occurrences are only counted and logged. Per-file
// read/write problems are logged and skipped.
func Apply(dir string, ignore []string, mapping Mapping, force bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		for _, ext := range ignore {
			if strings.HasSuffix(d.Name(), ext) {
				return nil
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("reading %s: %v", path, err)
			return nil
		}
		if !utf8.Valid(data) {
			// Binary file that slipped past the ignore list; leave it alone.
			return nil
		}

		changed := false
		for _, pair := range mapping {
			n := rewriteOccurrences(data, pair, force)
			if n == 0 {
				continue
			}
			log.Printf("will rewrite %d instances of %s -> %s in %s", n, pair.Old, pair.New, path)
			if force {
				changed = true
			}
		}

		if changed {
			info, err := d.Info()
			if err != nil {
				log.Printf("stat %s: %v", path, err)
				return nil
			}
			if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
				log.Printf("writing %s: %v", path, err)
			}
		}
		return nil
	})
}

// rewriteOccurrences counts occurrences of pair.Old in data and, when force
// is set, splices pair.New over each one. Old and new guids have equal
// length, so the rewrite is done in place.
func rewriteOccurrences(data []byte, pair Pair, force bool) int {
	count := 0
	for i := 0; ; {
		j := bytes.Index(data[i:], []byte(pair.Old))
		if j < 0 {
			break
		}
		at := i + j
		count++
		if force {
			copy(data[at:at+GUIDLen], pair.New)
		}
		i = at + GUIDLen
	}
	return count
}
