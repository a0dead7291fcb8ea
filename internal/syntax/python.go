package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	register(&Grammar{
		Name:       "python",
		Extensions: []string{".py", ".pyi"},
		Language:   python.GetLanguage,
		Classify:   classifyPython,
	})
}

type pyWalker struct {
	src   []byte
	lines []string
	out   *Outline
}

func classifyPython(root *sitter.Node, src []byte) *Outline {
	w := &pyWalker{
		src:   src,
		lines: strings.Split(string(src), "\n"),
		out:   &Outline{},
	}
	w.walk(root)
	return w.out
}

func (w *pyWalker) walk(n *sitter.Node) {
	switch n.Type() {
	case "import_statement", "import_from_statement":
		w.addImport(n)
		return

	case "function_definition":
		w.addFunction(n, nil)

	case "decorated_definition":
		if def := n.ChildByFieldName("definition"); def != nil {
			switch def.Type() {
			case "function_definition":
				w.addFunction(def, n)
			case "class_definition":
				w.addClass(def)
			}
			// recurse into the definition body only; the wrapper is done
			for i := 0; i < int(def.ChildCount()); i++ {
				w.walk(def.Child(i))
			}
			return
		}

	case "class_definition":
		w.addClass(n)

	case "expression_statement":
		w.addAssignment(n)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i))
	}
}

func (w *pyWalker) addFunction(n, decorated *sitter.Node) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	start := n
	if decorated != nil {
		start = decorated
	}
	async := hasChildToken(n, "async")
	params := w.paramNames(n.ChildByFieldName("parameters"))
	w.out.Functions = append(w.out.Functions, Function{
		Name:      content(name, w.src),
		StartLine: line(start),
		EndLine:   endLine(n),
		StartCol:  col(start),
		Async:     async,
		Subtype:   SubtypeDeclared,
		Signature: renderSignature(content(name, w.src), params, async, false),
		Doc:       docstring(n, w.src),
	})
}

func (w *pyWalker) addClass(n *sitter.Node) {
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
		Doc:       docstring(n, w.src),
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil && supers.NamedChildCount() > 0 {
		cls.Superclass = content(supers.NamedChild(0), w.src)
	}

	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			member := body.Child(i)
			switch member.Type() {
			case "function_definition":
				cls.Methods = append(cls.Methods, w.pyMethod(member, nil, name))
			case "decorated_definition":
				if def := member.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
					cls.Methods = append(cls.Methods, w.pyMethod(def, member, name))
				}
			}
		}
	}
	if cls.Methods == nil {
		cls.Methods = []Method{}
	}
	w.out.Classes = append(w.out.Classes, cls)
}

func (w *pyWalker) pyMethod(n, decorated *sitter.Node, className string) Method {
	name := ""
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = content(nn, w.src)
	}
	start := n
	static := false
	if decorated != nil {
		start = decorated
		for i := 0; i < int(decorated.ChildCount()); i++ {
			if d := decorated.Child(i); d.Type() == "decorator" && strings.Contains(content(d, w.src), "staticmethod") {
				static = true
			}
		}
	}
	async := hasChildToken(n, "async")
	params := w.paramNames(n.ChildByFieldName("parameters"))
	return Method{
		Name:      name,
		StartLine: line(start),
		EndLine:   endLine(n),
		Async:     async,
		Static:    static,
		Signature: renderSignature(name, params, async, static),
		Class:     className,
	}
}

func (w *pyWalker) addImport(n *sitter.Node) {
	imp := Import{
		Line: line(n),
		Text: strings.TrimSpace(lineText(w.lines, line(n))),
	}
	switch n.Type() {
	case "import_statement":
		// import a.b, c as d — the first module is the source, every
		// bound name lands in Names
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "dotted_name":
				if imp.Source == "" {
					imp.Source = content(c, w.src)
				}
				imp.Names = append(imp.Names, content(c, w.src))
			case "aliased_import":
				if nn := c.ChildByFieldName("name"); nn != nil && imp.Source == "" {
					imp.Source = content(nn, w.src)
				}
				if alias := c.ChildByFieldName("alias"); alias != nil {
					imp.Names = append(imp.Names, content(alias, w.src))
				}
			}
		}
	case "import_from_statement":
		if mod := n.ChildByFieldName("module_name"); mod != nil {
			imp.Source = content(mod, w.src)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if mod := n.ChildByFieldName("module_name"); mod != nil && c.Equal(mod) {
				continue
			}
			switch c.Type() {
			case "dotted_name", "identifier":
				imp.Names = append(imp.Names, content(c, w.src))
			case "aliased_import":
				if alias := c.ChildByFieldName("alias"); alias != nil {
					imp.Names = append(imp.Names, content(alias, w.src))
				}
			case "wildcard_import":
				imp.Names = append(imp.Names, "*")
			}
		}
	}
	if imp.Names == nil {
		imp.Names = []string{}
	}
	w.out.Imports = append(w.out.Imports, imp)
}

// addAssignment records lambda bindings as variable-bound functions and
// __all__ assignments as the module's named exports.
func (w *pyWalker) addAssignment(n *sitter.Node) {
	if n.ChildCount() == 0 {
		return
	}
	assign := n.Child(0)
	if assign.Type() != "assignment" {
		return
	}
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "identifier" {
		return
	}
	name := content(left, w.src)
	text := strings.TrimSpace(lineText(w.lines, line(n)))

	switch {
	case right.Type() == "lambda":
		params := w.paramNames(right.ChildByFieldName("parameters"))
		w.out.Functions = append(w.out.Functions, Function{
			Name:      name,
			StartLine: line(n),
			EndLine:   endLine(n),
			StartCol:  col(n),
			Subtype:   SubtypeVariable,
			Signature: renderSignature(name, params, false, false),
		})

	case name == "__all__" && right.Type() == "list":
		for i := 0; i < int(right.NamedChildCount()); i++ {
			c := right.NamedChild(i)
			if c.Type() != "string" {
				continue
			}
			w.out.Exports = append(w.out.Exports, Export{
				Kind: ExportNamed,
				Name: pyStringContent(c, w.src),
				Line: line(n),
				Text: text,
			})
		}
	}
}

func (w *pyWalker) paramNames(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			names = append(names, content(p, w.src))
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			names = append(names, firstIdentifier(p, w.src))
		case "list_splat_pattern":
			names = append(names, "*"+firstIdentifier(p, w.src))
		case "dictionary_splat_pattern":
			names = append(names, "**"+firstIdentifier(p, w.src))
		default:
			names = append(names, paramPlaceholder)
		}
	}
	return names
}

// docstring returns the first string expression of a definition body.
func docstring(def *sitter.Node, src []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	s := first.NamedChild(0)
	if s.Type() != "string" {
		return ""
	}
	return pyStringContent(s, src)
}

// pyStringContent strips quote tokens from a python string node.
func pyStringContent(s *sitter.Node, src []byte) string {
	for i := 0; i < int(s.NamedChildCount()); i++ {
		if c := s.NamedChild(i); c.Type() == "string_content" {
			return content(c, src)
		}
	}
	text := content(s, src)
	text = strings.Trim(text, "\"'")
	return strings.TrimSpace(text)
}
