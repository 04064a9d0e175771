// Package rewriter regenerates Unity asset GUIDs across a project tree.
//
// Unity stores a guid per asset in its .meta sidecar file and references
// assets by that guid everywhere else. Rewriting means minting a fresh guid
// for every .meta file found, then splicing the new 32-character simple form
// over every occurrence of the old one in the project's text files.
package rewriter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// GUIDLen is the length of a Unity guid in its simple (undashed) hex form.
const GUIDLen = 32

type metaDoc struct {
	GUID string `yaml:"guid"`
}

// ParseMetaGUID extracts the guid from .meta file contents. The file must be
// a single YAML document with a top-level mapping carrying a string guid.
func ParseMetaGUID(data []byte) (uuid.UUID, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc metaDoc
	if err := dec.Decode(&doc); err != nil {
		return uuid.UUID{}, fmt.Errorf("parsing .meta: %w", err)
	}
	// Unity writes exactly one document per .meta file.
	var extra interface{}
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return uuid.UUID{}, fmt.Errorf("unexpected extra document in .meta")
	}
	if strings.TrimSpace(doc.GUID) == "" {
		return uuid.UUID{}, fmt.Errorf("expecting guid field with string value in .meta")
	}
	id, err := uuid.Parse(doc.GUID)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("parsing guid %q in .meta: %w", doc.GUID, err)
	}
	return id, nil
}

// Simple renders id in Unity's undashed lower-hex form.
func Simple(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
