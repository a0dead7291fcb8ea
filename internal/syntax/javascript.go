package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func init() {
	register(&Grammar{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Language:   javascript.GetLanguage,
		Classify:   classifyJS,
	})
	// The TypeScript grammar is a superset of the JavaScript one for every
	// node kind the walker visits, so both share the same classifier.
	register(&Grammar{
		Name:       "typescript",
		Extensions: []string{".ts", ".tsx"},
		Language:   typescript.GetLanguage,
		Classify:   classifyJS,
	})
}

type jsWalker struct {
	src   []byte
	lines []string
	out   *Outline
}

func classifyJS(root *sitter.Node, src []byte) *Outline {
	w := &jsWalker{
		src:   src,
		lines: strings.Split(string(src), "\n"),
		out:   &Outline{},
	}
	w.walk(root)
	return w.out
}

func (w *jsWalker) walk(n *sitter.Node) {
	switch n.Type() {
	case "import_statement":
		w.addImport(n)
		return

	case "export_statement":
		w.addExport(n)
		// fall through to recursion: exported declarations also surface
		// as functions/classes in the outline

	case "function_declaration", "generator_function_declaration":
		w.addFunctionDecl(n)

	case "class_declaration":
		w.addClass(n)

	case "lexical_declaration", "variable_declaration":
		w.addVariableDecl(n)

	case "expression_statement":
		w.addAssignmentExport(n)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i))
	}
}

// addFunctionDecl records a `function name(...)` style declaration.
func (w *jsWalker) addFunctionDecl(n *sitter.Node) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	async := hasChildToken(n, "async")
	params := jsParams(n.ChildByFieldName("parameters"))
	w.out.Functions = append(w.out.Functions, Function{
		Name:      content(name, w.src),
		StartLine: line(n),
		EndLine:   endLine(n),
		StartCol:  col(n),
		Async:     async,
		Subtype:   SubtypeDeclared,
		Signature: renderSignature(content(name, w.src), w.paramNames(params), async, false),
		Doc:       w.docComment(n),
	})
}

// addVariableDecl records `name = <arrow-or-function-expression>` bindings as
// variable-bound functions and `require("literal")` declarators as imports.
func (w *jsWalker) addVariableDecl(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		d := n.Child(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		value := d.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Type() {
		case "arrow_function", "function_expression", "function":
			w.addBoundFunction(n, d, value)
		case "call_expression":
			if src, ok := requireSource(value, w.src); ok {
				w.addRequire(d, src)
			}
		case "member_expression":
			// const f = require('./utils').helper
			obj := value.ChildByFieldName("object")
			if obj != nil && obj.Type() == "call_expression" {
				if src, ok := requireSource(obj, w.src); ok {
					w.addRequire(d, src)
				}
			}
		}
	}
}

func (w *jsWalker) addBoundFunction(decl, declarator, value *sitter.Node) {
	nameNode := declarator.ChildByFieldName("name")
	if nameNode == nil || nameNode.Type() != "identifier" {
		return
	}
	name := content(nameNode, w.src)
	async := hasChildToken(value, "async")

	var params []*sitter.Node
	if p := value.ChildByFieldName("parameters"); p != nil {
		params = jsParams(p)
	} else if p := value.ChildByFieldName("parameter"); p != nil {
		// single-identifier arrow parameter without parens
		params = []*sitter.Node{p}
	}

	w.out.Functions = append(w.out.Functions, Function{
		Name:      name,
		StartLine: line(decl),
		EndLine:   endLine(decl),
		StartCol:  col(decl),
		Async:     async,
		Subtype:   SubtypeVariable,
		Signature: renderSignature(name, w.paramNames(params), async, false),
		Doc:       w.docComment(decl),
	})
}

func (w *jsWalker) addClass(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := content(nameNode, w.src)
	cls := Class{
		Name:      name,
		StartLine: line(n),
		EndLine:   endLine(n),
		StartCol:  col(n),
		Doc:       w.docComment(n),
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if h := n.Child(i); h.Type() == "class_heritage" {
			cls.Superclass = heritageName(h, w.src)
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			member := body.Child(i)
			switch member.Type() {
			case "method_definition":
				cls.Methods = append(cls.Methods, w.method(member, name))
			case "field_definition":
				// fields with function-like initializers count as methods
				if m, ok := w.fieldMethod(member, name); ok {
					cls.Methods = append(cls.Methods, m)
				}
			}
		}
	}
	if cls.Methods == nil {
		cls.Methods = []Method{}
	}
	w.out.Classes = append(w.out.Classes, cls)
}

func (w *jsWalker) method(n *sitter.Node, className string) Method {
	name := ""
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = content(nn, w.src)
	}
	async := hasChildToken(n, "async")
	static := hasChildToken(n, "static")
	params := jsParams(n.ChildByFieldName("parameters"))
	return Method{
		Name:      name,
		StartLine: line(n),
		EndLine:   endLine(n),
		Async:     async,
		Static:    static,
		Signature: renderSignature(name, w.paramNames(params), async, static),
		Class:     className,
	}
}

func (w *jsWalker) fieldMethod(n *sitter.Node, className string) (Method, bool) {
	value := n.ChildByFieldName("value")
	if value == nil {
		return Method{}, false
	}
	switch value.Type() {
	case "arrow_function", "function_expression", "function":
	default:
		return Method{}, false
	}
	name := ""
	if p := n.ChildByFieldName("property"); p != nil {
		name = content(p, w.src)
	}
	if name == "" {
		return Method{}, false
	}
	async := hasChildToken(value, "async")
	static := hasChildToken(n, "static")
	var params []*sitter.Node
	if p := value.ChildByFieldName("parameters"); p != nil {
		params = jsParams(p)
	} else if p := value.ChildByFieldName("parameter"); p != nil {
		params = []*sitter.Node{p}
	}
	return Method{
		Name:      name,
		StartLine: line(n),
		EndLine:   endLine(n),
		Async:     async,
		Static:    static,
		Signature: renderSignature(name, w.paramNames(params), async, static),
		Class:     className,
	}, true
}

// addImport records an ES module import with its bound names in declaration
// order: default import, namespace alias, then named specifiers.
func (w *jsWalker) addImport(n *sitter.Node) {
	imp := Import{
		Line: line(n),
		Text: strings.TrimSpace(lineText(w.lines, line(n))),
	}
	if s := n.ChildByFieldName("source"); s != nil {
		imp.Source = stringLiteral(s, w.src)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		clause := n.Child(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.ChildCount()); j++ {
			c := clause.Child(j)
			switch c.Type() {
			case "identifier": // default import
				imp.Names = append(imp.Names, content(c, w.src))
			case "namespace_import": // import * as ns
				for k := 0; k < int(c.ChildCount()); k++ {
					if id := c.Child(k); id.Type() == "identifier" {
						imp.Names = append(imp.Names, content(id, w.src))
					}
				}
			case "named_imports":
				for k := 0; k < int(c.ChildCount()); k++ {
					if spec := c.Child(k); spec.Type() == "import_specifier" {
						imp.Names = append(imp.Names, specifierName(spec, w.src))
					}
				}
			}
		}
	}
	if imp.Names == nil {
		imp.Names = []string{}
	}
	w.out.Imports = append(w.out.Imports, imp)
}

// addRequire records a legacy require("literal") call bound by a declarator.
func (w *jsWalker) addRequire(declarator *sitter.Node, source string) {
	imp := Import{
		Source: source,
		Line:   line(declarator),
		Text:   strings.TrimSpace(lineText(w.lines, line(declarator))),
	}
	name := declarator.ChildByFieldName("name")
	switch {
	case name == nil:
		imp.Names = []string{"unknown"}
	case name.Type() == "identifier":
		imp.Names = []string{content(name, w.src)}
	case name.Type() == "object_pattern":
		imp.Names = patternNames(name, w.src)
	default:
		imp.Names = []string{"unknown"}
	}
	if len(imp.Names) == 0 {
		imp.Names = []string{"unknown"}
	}
	w.out.Imports = append(w.out.Imports, imp)
}

func (w *jsWalker) addExport(n *sitter.Node) {
	text := strings.TrimSpace(lineText(w.lines, line(n)))
	isDefault := hasChildToken(n, "default")
	kind := ExportNamed
	if isDefault {
		kind = ExportDefault
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "function_declaration", "generator_function_declaration", "class_declaration":
			name := ""
			if nn := c.ChildByFieldName("name"); nn != nil {
				name = content(nn, w.src)
			}
			w.out.Exports = append(w.out.Exports, Export{Kind: kind, Name: name, Line: line(n), Text: text})
			return

		case "lexical_declaration", "variable_declaration":
			// one export per bound name
			for j := 0; j < int(c.ChildCount()); j++ {
				d := c.Child(j)
				if d.Type() != "variable_declarator" {
					continue
				}
				if nn := d.ChildByFieldName("name"); nn != nil {
					for _, name := range bindingNames(nn, w.src) {
						w.out.Exports = append(w.out.Exports, Export{Kind: kind, Name: name, Line: line(n), Text: text})
					}
				}
			}
			return

		case "export_clause":
			for j := 0; j < int(c.ChildCount()); j++ {
				if spec := c.Child(j); spec.Type() == "export_specifier" {
					w.out.Exports = append(w.out.Exports, Export{Kind: ExportNamed, Name: specifierName(spec, w.src), Line: line(n), Text: text})
				}
			}
			return

		case "identifier":
			if isDefault {
				w.out.Exports = append(w.out.Exports, Export{Kind: ExportDefault, Name: content(c, w.src), Line: line(n), Text: text})
				return
			}

		case "arrow_function", "function_expression", "function", "object", "call_expression", "new_expression":
			if isDefault {
				// anonymous default export: no name
				w.out.Exports = append(w.out.Exports, Export{Kind: ExportDefault, Line: line(n), Text: text})
				return
			}
		}
	}
}

// addAssignmentExport handles the legacy module.exports / exports.x forms.
func (w *jsWalker) addAssignmentExport(n *sitter.Node) {
	if n.ChildCount() == 0 {
		return
	}
	assign := n.Child(0)
	if assign.Type() != "assignment_expression" {
		return
	}
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "member_expression" {
		return
	}
	text := strings.TrimSpace(lineText(w.lines, line(n)))
	target := content(left, w.src)

	switch {
	case target == "module.exports":
		w.addModuleExports(right, line(n), text)
	case strings.HasPrefix(target, "module.exports."), strings.HasPrefix(target, "exports."):
		name := target[strings.LastIndexByte(target, '.')+1:]
		w.out.Exports = append(w.out.Exports, Export{Kind: ExportNamed, Name: name, Line: line(n), Text: text})
	}
}

func (w *jsWalker) addModuleExports(right *sitter.Node, ln int, text string) {
	switch right.Type() {
	case "object":
		// one named export per property key
		for i := 0; i < int(right.ChildCount()); i++ {
			c := right.Child(i)
			switch c.Type() {
			case "pair":
				if key := c.ChildByFieldName("key"); key != nil {
					w.out.Exports = append(w.out.Exports, Export{Kind: ExportNamed, Name: unquote(content(key, w.src)), Line: line(c), Text: text})
				}
			case "shorthand_property_identifier":
				w.out.Exports = append(w.out.Exports, Export{Kind: ExportNamed, Name: content(c, w.src), Line: line(c), Text: text})
			case "method_definition":
				if nn := c.ChildByFieldName("name"); nn != nil {
					w.out.Exports = append(w.out.Exports, Export{Kind: ExportNamed, Name: content(nn, w.src), Line: line(c), Text: text})
				}
			}
		}
	case "function_expression", "function", "arrow_function", "class", "class_declaration":
		name := ""
		if nn := right.ChildByFieldName("name"); nn != nil {
			name = content(nn, w.src)
		}
		w.out.Exports = append(w.out.Exports, Export{Kind: ExportDefault, Name: name, Line: ln, Text: text})
	case "identifier":
		w.out.Exports = append(w.out.Exports, Export{Kind: ExportDefault, Name: content(right, w.src), Line: ln, Text: text})
	default:
		w.out.Exports = append(w.out.Exports, Export{Kind: ExportDefault, Line: ln, Text: text})
	}
}

// docComment returns the leading /** doc comment for a declaration, if the
// comment ends on the line directly above it. Export-wrapped declarations
// look above the export statement instead.
func (w *jsWalker) docComment(n *sitter.Node) string {
	target := n
	if p := n.Parent(); p != nil && p.Type() == "export_statement" {
		target = p
	}
	prev := target.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := content(prev, w.src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	if line(target)-endLine(prev) > 1 {
		return ""
	}
	return text
}

// paramNames renders parameter nodes as display names; anything that is not a
// simple identifier becomes a placeholder (rest parameters keep their name).
func (w *jsWalker) paramNames(params []*sitter.Node) []string {
	var names []string
	for _, p := range params {
		switch p.Type() {
		case "identifier", "required_parameter", "optional_parameter":
			names = append(names, firstIdentifier(p, w.src))
		case "rest_pattern":
			if id := firstIdentifier(p, w.src); id != paramPlaceholder {
				names = append(names, "..."+id)
			} else {
				names = append(names, paramPlaceholder)
			}
		default:
			names = append(names, paramPlaceholder)
		}
	}
	return names
}

// helpers

func jsParams(formal *sitter.Node) []*sitter.Node {
	if formal == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(formal.NamedChildCount()); i++ {
		c := formal.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func firstIdentifier(n *sitter.Node, src []byte) string {
	if n.Type() == "identifier" {
		return content(n, src)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "identifier" {
			return content(c, src)
		}
	}
	return paramPlaceholder
}

// hasChildToken reports whether n has a direct child token of the given type,
// e.g. "async" or "static" modifiers.
func hasChildToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == token {
			return true
		}
	}
	return false
}

// stringLiteral returns the contents of a string node without quotes.
func stringLiteral(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "string_fragment" {
			return content(c, src)
		}
	}
	return unquote(content(n, src))
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '\'', '"', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}

// requireSource matches a call to the fixed identifier `require` with a
// single string-literal argument and returns that literal.
func requireSource(call *sitter.Node, src []byte) (string, bool) {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || content(fn, src) != "require" {
		return "", false
	}
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() != 1 {
		return "", false
	}
	arg := args.NamedChild(0)
	if arg.Type() != "string" {
		return "", false
	}
	return stringLiteral(arg, src), true
}

// specifierName returns the local name of an import/export specifier,
// preferring the alias when one is present.
func specifierName(spec *sitter.Node, src []byte) string {
	if alias := spec.ChildByFieldName("alias"); alias != nil {
		return content(alias, src)
	}
	if name := spec.ChildByFieldName("name"); name != nil {
		return content(name, src)
	}
	return content(spec, src)
}

// patternNames collects bound names from an object or array pattern.
func patternNames(pattern *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(pattern.ChildCount()); i++ {
		c := pattern.Child(i)
		switch c.Type() {
		case "shorthand_property_identifier_pattern", "identifier":
			names = append(names, content(c, src))
		case "pair_pattern":
			if v := c.ChildByFieldName("value"); v != nil && v.Type() == "identifier" {
				names = append(names, content(v, src))
			}
		case "rest_pattern":
			names = append(names, firstIdentifier(c, src))
		}
	}
	return names
}

// bindingNames expands a declarator name node into the names it binds: a
// single identifier, or every name in a destructuring pattern.
func bindingNames(n *sitter.Node, src []byte) []string {
	if n.Type() == "identifier" {
		return []string{content(n, src)}
	}
	return patternNames(n, src)
}

func heritageName(h *sitter.Node, src []byte) string {
	for i := 0; i < int(h.ChildCount()); i++ {
		c := h.Child(i)
		switch c.Type() {
		case "identifier", "member_expression":
			return content(c, src)
		}
	}
	return ""
}
