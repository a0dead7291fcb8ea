package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", doc.LineCount())
	}
	if doc.Lines[1] != "two" {
		t.Errorf("Lines[1] = %q, want two", doc.Lines[1])
	}
	if doc.Size != len("one\ntwo\nthree") {
		t.Errorf("Size = %d", doc.Size)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
}

func TestLoadTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	// a trailing newline produces a final empty line
	if doc.LineCount() != 3 || doc.Lines[2] != "" {
		t.Errorf("lines = %q", doc.Lines)
	}
}
