package frontmatter

import (
	"strings"
	"testing"
)

func TestRenderParseRoundTrip(t *testing.T) {
	d := Document{
		Title:        "Example Document",
		CreatedAt:    1700000000,
		UpdatedAt:    1700000100,
		ID:           "doc_1700000000_abcdef12",
		DocumentType: "generic",
		Tags:         []string{"alpha", "beta"},
		SourceURL:    "https://example.com/page",
		Metadata:     map[string]any{"author": "jane", "priority": 2},
		Body:         "This is the body.\n\nWith multiple paragraphs.\n",
	}

	rendered, err := Render(d)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	parsed, err := Parse(rendered)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if parsed.Title != d.Title {
		t.Errorf("Title = %q, want %q", parsed.Title, d.Title)
	}
	if parsed.ID != d.ID {
		t.Errorf("ID = %q, want %q", parsed.ID, d.ID)
	}
	if parsed.DocumentType != d.DocumentType {
		t.Errorf("DocumentType = %q, want %q", parsed.DocumentType, d.DocumentType)
	}
	if parsed.CreatedAt != d.CreatedAt || parsed.UpdatedAt != d.UpdatedAt {
		t.Errorf("timestamps = (%d, %d), want (%d, %d)", parsed.CreatedAt, parsed.UpdatedAt, d.CreatedAt, d.UpdatedAt)
	}
	if strings.Join(parsed.Tags, ",") != strings.Join(d.Tags, ",") {
		t.Errorf("Tags = %v, want %v", parsed.Tags, d.Tags)
	}
	if parsed.SourceURL != d.SourceURL {
		t.Errorf("SourceURL = %q, want %q", parsed.SourceURL, d.SourceURL)
	}
	if parsed.Metadata["author"] != "jane" {
		t.Errorf("Metadata[author] = %v, want jane", parsed.Metadata["author"])
	}
	if parsed.Body != d.Body {
		t.Errorf("Body = %q, want %q", parsed.Body, d.Body)
	}
}

func TestRenderFieldOrder(t *testing.T) {
	d := Document{
		Title:        "T",
		CreatedAt:    1,
		UpdatedAt:    2,
		ID:           "doc_1_aaaaaaaa",
		DocumentType: "generic",
		Tags:         []string{"x"},
		SourceURL:    "https://example.com",
		Metadata:     map[string]any{"zeta": 1, "alpha": 2},
		Body:         "body",
	}
	out, err := Render(d)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	order := []string{"title:", "created_at:", "updated_at:", "id:", "document_type:", "tags:", "source_url:", "alpha:", "zeta:"}
	lastIdx := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		if idx == -1 {
			t.Fatalf("expected field %q in output:\n%s", key, out)
		}
		if idx < lastIdx {
			t.Fatalf("field %q out of order in output:\n%s", key, out)
		}
		lastIdx = idx
	}
}

func TestParseUnknownKeysBecomeMetadata(t *testing.T) {
	content := "---\n" +
		"title: Doc\n" +
		"created_at: 1\n" +
		"updated_at: 2\n" +
		"id: doc_1_aaaaaaaa\n" +
		"document_type: generic\n" +
		"custom_field: hello\n" +
		"---\n" +
		"\n" +
		"body text\n"

	d, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Metadata["custom_field"] != "hello" {
		t.Errorf("expected custom_field to be captured as metadata, got %v", d.Metadata)
	}
}

func TestParseMultilineBody(t *testing.T) {
	content := "---\n" +
		"title: Doc\n" +
		"created_at: 1\n" +
		"updated_at: 2\n" +
		"id: doc_1_aaaaaaaa\n" +
		"document_type: generic\n" +
		"---\n" +
		"\n" +
		"line one\n\nline two\n\nline three\n"

	d, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Body != "line one\n\nline two\n\nline three\n" {
		t.Errorf("Body not preserved exactly, got %q", d.Body)
	}
}

func TestParseMissingDelimiter(t *testing.T) {
	if _, err := Parse("no frontmatter here"); err == nil {
		t.Fatal("expected error for missing frontmatter delimiter")
	}
}
