package versioning

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenInitialisesRepository(t *testing.T) {
	dir := t.TempDir()
	s := New()
	ctx := context.Background()

	if err := s.Open(ctx, dir); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		t.Fatalf("expected .git directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitignore")); err != nil {
		t.Fatalf("expected seeded .gitignore: %v", err)
	}

	entries, err := s.Log(ctx, dir, 0, "")
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one initial commit, got %d", len(entries))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := New()
	ctx := context.Background()
	if err := s.Open(ctx, dir); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := s.Open(ctx, dir); err != nil {
		t.Fatalf("second Open: %v", err)
	}
	entries, err := s.Log(ctx, dir, 0, "")
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Open should not add commits on repeat calls, got %d entries", len(entries))
	}
}

func TestStageCommitAndShow(t *testing.T) {
	dir := t.TempDir()
	s := New()
	ctx := context.Background()
	if err := s.Open(ctx, dir); err != nil {
		t.Fatalf("Open: %v", err)
	}

	file := "generic/doc_1_aaaaaaaa.md"
	if err := os.MkdirAll(filepath.Join(dir, "generic"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := s.Stage(ctx, dir, []string{file}); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	rev, err := s.Commit(ctx, dir, "Created document: Hello", nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if rev == "" {
		t.Fatal("expected non-empty revision id")
	}

	content, err := s.Show(ctx, dir, file, rev)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if content != "hello" {
		t.Fatalf("Show content = %q, want hello", content)
	}
}

func TestCommitNothingStaged(t *testing.T) {
	dir := t.TempDir()
	s := New()
	ctx := context.Background()
	if err := s.Open(ctx, dir); err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, err := s.Commit(ctx, dir, "empty", nil)
	if !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("Commit() error = %v, want ErrNothingStaged", err)
	}
}

func TestBatchCommitPartialFailureKeepsEarlierCommits(t *testing.T) {
	dir := t.TempDir()
	s := New()
	ctx := context.Background()
	if err := s.Open(ctx, dir); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	groups := [][]string{
		{"a.md"},
		{"does-not-exist.md"},
	}
	ids, err := s.BatchCommit(ctx, dir, groups, "Batch %d")
	if err == nil {
		t.Fatal("expected error from batch commit with a missing file")
	}
	if len(ids) != 1 {
		t.Fatalf("expected the first group's commit to remain durable, got %d ids", len(ids))
	}
}

func TestLogScopedToFile(t *testing.T) {
	dir := t.TempDir()
	s := New()
	ctx := context.Background()
	if err := s.Open(ctx, dir); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Stage(ctx, dir, []string{"a.md"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Commit(ctx, dir, "add a", nil); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Log(ctx, dir, 0, "a.md")
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one revision touching a.md, got %d", len(entries))
	}
}

func TestStatusNotARepository(t *testing.T) {
	dir := t.TempDir()
	s := New()
	_, err := s.Status(context.Background(), dir)
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("Status() error = %v, want ErrNotRepository", err)
	}
}
