// Package validate provides input validation for the document store and
// knowledge graph layers.
//
// Design Philosophy: validation happens at the boundary where untrusted or
// caller-supplied values enter the system (document titles, types, tags,
// metadata, entity and relation names) so that every downstream component
// (frontmatter rendering, the document index, the graph store) can assume
// its inputs are already well-formed. Each function returns a descriptive
// error wrapping one of the sentinels in errors.go.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// DocumentType is one of the closed set of classification tags a document
// may carry (spec.md §3).
type DocumentType string

const (
	TypeManuscript    DocumentType = "manuscript"
	TypeDocumentation DocumentType = "documentation"
	TypeDataset       DocumentType = "dataset"
	TypeWebpage       DocumentType = "webpage"
	TypeGeneric       DocumentType = "generic"
)

var validTypes = map[DocumentType]bool{
	TypeManuscript:    true,
	TypeDocumentation: true,
	TypeDataset:       true,
	TypeWebpage:       true,
	TypeGeneric:       true,
}

// idPattern matches the id grammar from spec.md §3: doc_<unix_seconds>_<8-hex>.
var idPattern = regexp.MustCompile(`^doc_\d+_[0-9a-f]{8}$`)

// DocumentID validates a document identifier against the fixed grammar.
func DocumentID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q does not match doc_<unix>_<8hex>", ErrInvalidID, id)
	}
	return nil
}

// Type validates a document's classification tag against the closed set.
func Type(t DocumentType) error {
	if !validTypes[t] {
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	return nil
}

// Title validates a document title.
//
// Validation rules:
//   - Empty titles rejected (frontmatter requires a non-empty single line)
//   - Null bytes rejected
//   - Newlines rejected (frontmatter title must fit on a single line)
func Title(title string) error {
	if title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidTitle)
	}
	if strings.ContainsAny(title, "\x00\n\r") {
		return fmt.Errorf("%w: title must be a single line with no null bytes", ErrInvalidTitle)
	}
	return nil
}

// Tag validates a single free-form tag string.
//
// Tags are rendered as a comma-separated list in frontmatter (spec.md §6),
// so commas and newlines would corrupt the grammar on round-trip and are
// rejected outright rather than silently escaped.
func Tag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty tag", ErrInvalidTag)
	}
	if strings.ContainsAny(tag, "\x00\n\r,") {
		return fmt.Errorf("%w: tag must not contain commas, newlines or null bytes", ErrInvalidTag)
	}
	if tag != strings.TrimSpace(tag) {
		return fmt.Errorf("%w: tag must not have leading/trailing spaces", ErrInvalidTag)
	}
	return nil
}

// Tags validates a slice of tags, returning the first error encountered.
func Tags(tags []string) error {
	for _, t := range tags {
		if err := Tag(t); err != nil {
			return err
		}
	}
	return nil
}

// Metadata validates that a metadata map holds only primitive values
// (string, bool, and numeric types), per spec.md §3's "primitive-valued
// metadata" requirement. Frontmatter has no way to express nested
// structures, so anything else is rejected before it reaches the renderer.
func Metadata(meta map[string]any) error {
	for k, v := range meta {
		if k == "" {
			return fmt.Errorf("%w: empty metadata key", ErrInvalidMetadata)
		}
		if strings.ContainsAny(k, "\x00\n\r:") {
			return fmt.Errorf("%w: key %q contains reserved characters", ErrInvalidMetadata, k)
		}
		switch v.(type) {
		case string, bool, int, int32, int64, float32, float64:
			// primitive, OK
		default:
			return fmt.Errorf("%w: key %q has non-primitive value %T", ErrInvalidMetadata, k, v)
		}
	}
	return nil
}

// EntityName validates a graph entity name.
//
// Names are used as the unique key for entities (spec.md §3) and are
// embedded directly in JSONL log records and synthesised names like
// "tag:<tag>" and "source:<url>" — empty names or names containing
// newlines would break both uniqueness and the log grammar.
func EntityName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty entity name", ErrInvalidEntity)
	}
	if strings.ContainsAny(name, "\x00\n\r") {
		return fmt.Errorf("%w: entity name contains control characters", ErrInvalidEntity)
	}
	return nil
}

// RelationType validates the type label on a graph relation edge.
func RelationType(t string) error {
	if t == "" {
		return fmt.Errorf("%w: empty relation type", ErrInvalidRelation)
	}
	if strings.ContainsAny(t, "\x00\n\r") {
		return fmt.Errorf("%w: relation type contains control characters", ErrInvalidRelation)
	}
	return nil
}

// SanitiseURL implements the source-URL sanitisation rule from spec.md §4.6:
// replace "://" with "_" and "/" with "_", used to build the synthetic
// "source:<sanitised-url>" entity name.
func SanitiseURL(url string) string {
	s := strings.ReplaceAll(url, "://", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
