package rewriter

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseMetaGUID(t *testing.T) {
	data := []byte(`fileFormatVersion: 2
guid: 0123456789abcdef0123456789abcdef
folderAsset: yes
`)
	id, err := ParseMetaGUID(data)
	if err != nil {
		t.Fatalf("ParseMetaGUID: %v", err)
	}
	if Simple(id) != "0123456789abcdef0123456789abcdef" {
		t.Fatalf("unexpected guid: %s", Simple(id))
	}
}

func TestParseMetaGUIDErrors(t *testing.T) {
	cases := map[string]string{
		"missing guid":   "fileFormatVersion: 2\n",
		"non-uuid guid":  "guid: not-a-guid\n",
		"non-string":     "guid: [a, b]\n",
		"malformed yaml": "guid: [unclosed\n",
		"two documents":  "guid: 0123456789abcdef0123456789abcdef\n---\nguid: 0123456789abcdef0123456789abcdef\n",
	}
	for name, in := range cases {
		if _, err := ParseMetaGUID([]byte(in)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSimple(t *testing.T) {
	id := uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef")
	if got := Simple(id); got != "0123456789abcdef0123456789abcdef" {
		t.Fatalf("Simple: got %q", got)
	}
	if len(Simple(uuid.New())) != GUIDLen {
		t.Fatalf("simple form must be %d chars", GUIDLen)
	}
}
