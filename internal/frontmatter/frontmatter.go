// Package frontmatter renders and parses the YAML-style frontmatter block
// that precedes every document body on disk: a "---"-delimited header with
// a fixed field order, followed by a blank line and the body.
//
// Rendering always emits fields in the canonical order (title, created_at,
// updated_at, id, document_type, tags, source_url, then metadata keys
// sorted for determinism) so the on-disk representation is reproducible.
// Parsing is permissive: unknown keys become metadata, and field order in
// the source is not significant.
package frontmatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// reserved are frontmatter keys with dedicated Document fields; any other
// key encountered while parsing is folded into Metadata.
var reserved = map[string]bool{
	"title": true, "created_at": true, "updated_at": true, "id": true,
	"document_type": true, "tags": true, "source_url": true,
}

// Document is the parsed or to-be-rendered frontmatter plus body.
type Document struct {
	Title        string
	CreatedAt    int64
	UpdatedAt    int64
	ID           string
	DocumentType string
	Tags         []string
	SourceURL    string
	Metadata     map[string]any
	Body         string
}

// Render produces the on-disk file content: frontmatter block, blank line,
// body.
func Render(d Document) (string, error) {
	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')

	writeField(&b, "title", d.Title)
	writeField(&b, "created_at", d.CreatedAt)
	writeField(&b, "updated_at", d.UpdatedAt)
	writeField(&b, "id", d.ID)
	writeField(&b, "document_type", d.DocumentType)

	if len(d.Tags) > 0 {
		writeField(&b, "tags", strings.Join(d.Tags, ", "))
	}
	if d.SourceURL != "" {
		writeField(&b, "source_url", d.SourceURL)
	}

	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeField(&b, k, d.Metadata[k])
	}

	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.WriteByte('\n')
	b.WriteString(d.Body)
	return b.String(), nil
}

func writeField(b *strings.Builder, key string, value any) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(scalar(value))
	b.WriteByte('\n')
}

// scalar renders a single YAML scalar value, quoting only when necessary.
func scalar(value any) string {
	switch v := value.(type) {
	case string:
		out, err := yaml.Marshal(v)
		if err != nil {
			return strconv.Quote(v)
		}
		return strings.TrimRight(string(out), "\n")
	default:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return strings.TrimRight(string(out), "\n")
	}
}

// Parse splits file content into a Document. Unknown frontmatter keys are
// treated as metadata; the body may be multi-line and contain blank lines.
func Parse(content string) (Document, error) {
	if !strings.HasPrefix(content, delimiter) {
		return Document{}, fmt.Errorf("frontmatter: missing opening %q delimiter", delimiter)
	}

	rest := content[len(delimiter):]
	rest = strings.TrimPrefix(rest, "\n")

	closeIdx := strings.Index(rest, "\n"+delimiter)
	if closeIdx == -1 {
		return Document{}, fmt.Errorf("frontmatter: missing closing %q delimiter", delimiter)
	}

	fmYAML := rest[:closeIdx]
	after := rest[closeIdx+len("\n"+delimiter):]
	// after begins with the newline terminating the closing delimiter
	// line, followed by the blank-line separator Render always emits
	// before the body — strip both, not just one.
	body := strings.TrimPrefix(after, "\n")
	body = strings.TrimPrefix(body, "\n")

	raw := make(map[string]any)
	if strings.TrimSpace(fmYAML) != "" {
		if err := yaml.Unmarshal([]byte(fmYAML), &raw); err != nil {
			return Document{}, fmt.Errorf("frontmatter: parse yaml: %w", err)
		}
	}

	d := Document{Body: body, Metadata: make(map[string]any)}
	for k, v := range raw {
		switch k {
		case "title":
			d.Title = fmt.Sprintf("%v", v)
		case "id":
			d.ID = fmt.Sprintf("%v", v)
		case "document_type":
			d.DocumentType = fmt.Sprintf("%v", v)
		case "source_url":
			d.SourceURL = fmt.Sprintf("%v", v)
		case "created_at":
			d.CreatedAt = toInt64(v)
		case "updated_at":
			d.UpdatedAt = toInt64(v)
		case "tags":
			d.Tags = splitTags(fmt.Sprintf("%v", v))
		default:
			d.Metadata[k] = v
		}
	}
	return d, nil
}

func splitTags(csv string) []string {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}
