package docroot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitAndOpen(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Open(dir); err != nil {
		t.Fatalf("Open should succeed after Init: %v", err)
	}
	for _, d := range []string{IndexDir, VectorsDir} {
		if _, err := os.Stat(filepath.Join(dir, d)); err != nil {
			t.Fatalf("expected %s to exist: %v", d, err)
		}
	}
}

func TestOpenUninitialised(t *testing.T) {
	dir := t.TempDir()
	if err := Open(dir); err != ErrNotInitialised {
		t.Fatalf("Open() = %v, want ErrNotInitialised", err)
	}
}

func TestInitDoesNotOverwriteReadme(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	custom := []byte("custom content")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), custom, 0644); err != nil {
		t.Fatal(err)
	}
	if err := Init(dir); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(custom) {
		t.Fatal("Init overwrote an existing README.md")
	}
}

func TestTypeDir(t *testing.T) {
	dir := t.TempDir()
	p, err := TypeDir(dir, "generic")
	if err != nil {
		t.Fatalf("TypeDir: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected type directory to exist: %v", err)
	}
}
