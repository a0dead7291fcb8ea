package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parse failure kinds. These surface unchanged in error envelopes.
const (
	KindSyntaxUnsupported = "SYNTAX_UNSUPPORTED"
	KindUnclosedConstruct = "UNCLOSED_CONSTRUCT"
	KindParseUnknown      = "PARSE_UNKNOWN"
)

// ParseError describes a classified parse failure. It is returned as data;
// a failed parse yields no structural output at all.
type ParseError struct {
	Kind    string
	Message string
	Hint    string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Analyze parses src with the grammar matching path's extension and returns
// the deduplicated outline. The grammar is returned alongside so callers can
// report the language. On failure the outline is nil — callers attach
// EmptyOutline as the degraded structure.
func Analyze(path string, src []byte) (*Outline, *Grammar, *ParseError) {
	g := ForPath(path)
	if g == nil {
		return nil, nil, &ParseError{
			Kind:    KindSyntaxUnsupported,
			Message: fmt.Sprintf("no grammar registered for %q", path),
			Hint:    "structural modes need a supported source language; use full or lines mode instead",
		}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g.Language())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, g, classifyParseText(err.Error())
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, g, classifyParseText(describeTreeError(root, src))
	}

	out := g.Classify(root, src)
	out.Functions = suppressClassMembers(out.Functions, out.Classes)
	out.Functions = Dedupe(out.Functions)
	if out.Functions == nil {
		out.Functions = []Function{}
	}
	if out.Classes == nil {
		out.Classes = []Class{}
	}
	if out.Imports == nil {
		out.Imports = []Import{}
	}
	if out.Exports == nil {
		out.Exports = []Export{}
	}
	return out, g, nil
}

// describeTreeError builds an error message from the first ERROR or MISSING
// node in the tree. tree-sitter recovers silently instead of returning Go
// errors, so the message is synthesized here and then classified by text.
func describeTreeError(root *sitter.Node, src []byte) string {
	bad := firstErrorNode(root)
	if bad == nil {
		return "parse failed"
	}
	if bad.IsMissing() {
		return fmt.Sprintf("unterminated construct: missing %q at line %d", bad.Type(), line(bad))
	}
	token := strings.TrimSpace(content(bad, src))
	if i := strings.IndexByte(token, '\n'); i >= 0 {
		token = token[:i]
	}
	if len(token) > 40 {
		token = token[:40]
	}
	if token == "" || int(bad.EndByte()) >= len(src) {
		return fmt.Sprintf("unexpected eof at line %d", line(bad))
	}
	return fmt.Sprintf("unexpected token %q at line %d", token, line(bad))
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstErrorNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	return n
}

// classifyParseText maps parse error text onto the failure taxonomy.
func classifyParseText(msg string) *ParseError {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unexpected token"):
		return &ParseError{
			Kind:    KindSyntaxUnsupported,
			Message: msg,
			Hint:    "the file uses syntax this grammar does not understand; fall back to full mode",
		}
	case strings.Contains(lower, "eof"), strings.Contains(lower, "unterminated"):
		return &ParseError{
			Kind:    KindUnclosedConstruct,
			Message: msg,
			Hint:    "the file appears to have an unclosed bracket, string, or block",
		}
	default:
		return &ParseError{
			Kind:    KindParseUnknown,
			Message: msg,
			Hint:    "structural parsing failed; fall back to full mode",
		}
	}
}
