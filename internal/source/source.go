// Package source loads files as immutable text documents with a derived
// 1-indexed line view.
package source

import (
	"fmt"
	"os"
	"strings"
)

// Document is an immutable view of one loaded source file. Line i of the
// file is Lines[i-1]; the document is created once per operation and never
// mutated.
type Document struct {
	Path  string
	Text  string
	Lines []string
	Size  int
}

// NotFoundError is returned when the requested path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// Load reads the file at path into a Document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := string(data)
	return &Document{
		Path:  path,
		Text:  text,
		Lines: strings.Split(text, "\n"),
		Size:  len(data),
	}, nil
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}
