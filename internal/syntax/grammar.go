package syntax

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Grammar holds tree-sitter configuration for a supported language. Adapters
// implement only Classify against their own tree shape; dedup, resolution,
// extraction, and signature rendering are shared.
type Grammar struct {
	Name       string
	Extensions []string
	Language   func() *sitter.Language

	// Classify walks the parsed tree once and emits raw declaration
	// records. Class-span suppression and dedup run afterwards in Analyze.
	Classify func(root *sitter.Node, src []byte) *Outline
}

// grammars maps language names to their configuration. Populated by init()
// functions in the per-language files.
var grammars = map[string]*Grammar{}

var (
	extensionMap  map[string]*Grammar
	extensionOnce sync.Once
)

func register(g *Grammar) {
	grammars[g.Name] = g
}

func byExtension(ext string) *Grammar {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]*Grammar)
		for _, g := range grammars {
			for _, e := range g.Extensions {
				extensionMap[e] = g
			}
		}
	})
	return extensionMap[ext]
}

// ForPath returns the grammar for a file path, or nil if unsupported.
func ForPath(path string) *Grammar {
	return byExtension(strings.ToLower(filepath.Ext(path)))
}

// Supported returns true if the file extension has a registered grammar.
func Supported(path string) bool {
	return ForPath(path) != nil
}

// node helpers shared by grammar adapters

func content(n *sitter.Node, src []byte) string {
	return n.Content(src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1 // 1-indexed
}

func endLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}

func col(n *sitter.Node) int {
	return int(n.StartPoint().Column)
}

// lineText returns the raw source text of a 1-indexed line.
func lineText(lines []string, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
