// Package refutil classifies and validates git reference names.
package refutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TagPrefix is the full-ref prefix that gates release publishing.
const TagPrefix = "refs/tags/"

// HeadPrefix is the full-ref prefix of branch references.
const HeadPrefix = "refs/heads/"

// IsTag reports whether ref names a version tag.
func IsTag(ref string) bool {
	return strings.HasPrefix(ref, TagPrefix) && len(ref) > len(TagPrefix)
}

// TagName returns the short tag name (e.g., "v1.2.3" for "refs/tags/v1.2.3").
// Returns empty string when ref is not a tag reference.
func TagName(ref string) string {
	if !IsTag(ref) {
		return ""
	}
	return ref[len(TagPrefix):]
}

// ShortName strips a known ref prefix, returning the branch or tag name.
// Unprefixed refs are returned as-is.
func ShortName(ref string) string {
	switch {
	case strings.HasPrefix(ref, TagPrefix):
		return ref[len(TagPrefix):]
	case strings.HasPrefix(ref, HeadPrefix):
		return ref[len(HeadPrefix):]
	default:
		return ref
	}
}

// ValidTagName checks whether name is usable as a single path component.
// Tag names become release directory names, so separators and dot segments
// would let a tag address locations outside the releases root.
func ValidTagName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid tag: name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid tag: %q contains a path separator", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid tag: %q is a relative path segment", name)
	}
	return nil
}

// ValidateRef checks whether the provided ref is acceptable as a trigger
// reference. It trims and checks for empty refs, non-UTF8 bytes, embedded
// whitespace, and control characters.
func ValidateRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("invalid ref: ref cannot be empty")
	}
	if !utf8.ValidString(ref) {
		return fmt.Errorf("invalid ref: contains invalid encoding")
	}
	for _, r := range ref {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid ref: contains control character U+%04X (%q)", r, r)
		}
		if unicode.IsSpace(r) {
			return fmt.Errorf("invalid ref: contains whitespace")
		}
	}
	return nil
}
