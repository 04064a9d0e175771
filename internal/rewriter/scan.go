package rewriter

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Pair maps an old guid to its freshly minted replacement, both in simple
// form so occurrences can be spliced in place.
type Pair struct {
	Old string
	New string
}

// Mapping is the full old→new guid table built from one scan pass.
type Mapping []Pair

// BuildMapping walks dir for .meta files and mints a new v4 guid for each
// valid one. Malformed or unreadable .meta files are logged and skipped;
// only walk errors are fatal.
func BuildMapping(dir string) (Mapping, error) {
	var mapping Mapping
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".meta") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("reading %s: %v", path, err)
			return nil
		}
		old, err := ParseMetaGUID(data)
		if err != nil {
			log.Printf("%s: %v", path, err)
			return nil
		}
		fresh := uuid.New()
		log.Printf("will map %s -> %s", old, fresh)
		mapping = append(mapping, Pair{Old: Simple(old), New: Simple(fresh)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}
