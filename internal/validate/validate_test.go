package validate

import "testing"

func TestDocumentID(t *testing.T) {
	cases := map[string]bool{
		"doc_1700000000_deadbeef": true,
		"doc_1_00000000":          true,
		"doc_abc_deadbeef":        false,
		"doc_1700000000_xyz":      false,
		"":                        false,
	}
	for id, want := range cases {
		err := DocumentID(id)
		if (err == nil) != want {
			t.Errorf("DocumentID(%q) = %v, want ok=%v", id, err, want)
		}
	}
}

func TestType(t *testing.T) {
	if err := Type(TypeGeneric); err != nil {
		t.Fatalf("generic should be valid: %v", err)
	}
	if err := Type(DocumentType("bogus")); err == nil {
		t.Fatal("bogus type should be rejected")
	}
}

func TestTitle(t *testing.T) {
	if err := Title(""); err == nil {
		t.Fatal("empty title should be rejected")
	}
	if err := Title("line1\nline2"); err == nil {
		t.Fatal("multi-line title should be rejected")
	}
	if err := Title("Hello"); err != nil {
		t.Fatalf("valid title rejected: %v", err)
	}
}

func TestTag(t *testing.T) {
	if err := Tag(""); err == nil {
		t.Fatal("empty tag should be rejected")
	}
	if err := Tag("a,b"); err == nil {
		t.Fatal("tag with comma should be rejected")
	}
	if err := Tag(" padded "); err == nil {
		t.Fatal("tag with leading/trailing space should be rejected")
	}
	if err := Tag("t1"); err != nil {
		t.Fatalf("valid tag rejected: %v", err)
	}
}

func TestMetadata(t *testing.T) {
	if err := Metadata(map[string]any{"k": "v", "n": 3, "b": true}); err != nil {
		t.Fatalf("primitive metadata rejected: %v", err)
	}
	if err := Metadata(map[string]any{"bad": []string{"nested"}}); err == nil {
		t.Fatal("non-primitive metadata should be rejected")
	}
}

func TestSanitiseURL(t *testing.T) {
	got := SanitiseURL("https://example.com/a/b")
	want := "https_example.com_a_b"
	if got != want {
		t.Fatalf("SanitiseURL() = %q, want %q", got, want)
	}
}
