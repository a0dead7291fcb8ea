// Package syntax provides tree-sitter based structural analysis of source
// files: outline classification, target resolution, and exact range
// extraction. Grammar adapters implement Classify; everything downstream
// (dedup, resolution, extraction, signatures) is grammar-agnostic.
package syntax

// FuncSubtype distinguishes how a function entered scope.
type FuncSubtype string

const (
	// SubtypeDeclared is a `function name(...)` style declaration.
	SubtypeDeclared FuncSubtype = "declared"
	// SubtypeVariable is a binding of the form `name = <function-like>`.
	SubtypeVariable FuncSubtype = "variable"
)

// Function is a top-level function record.
type Function struct {
	Name      string      `json:"name"`
	StartLine int         `json:"start_line"`
	EndLine   int         `json:"end_line"`
	StartCol  int         `json:"start_col"`
	Async     bool        `json:"async,omitempty"`
	Subtype   FuncSubtype `json:"subtype"`
	Signature string      `json:"signature"`
	Doc       string      `json:"doc,omitempty"`
}

// Method is a function-like member of a class. Class is a back-reference to
// the owning class by name; the Class record owns the Method.
type Method struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Async     bool   `json:"async,omitempty"`
	Static    bool   `json:"static,omitempty"`
	Signature string `json:"signature"`
	Class     string `json:"class"`
}

// Class is a class declaration with its ordered member list.
type Class struct {
	Name       string   `json:"name"`
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
	StartCol   int      `json:"start_col"`
	Superclass string   `json:"superclass,omitempty"`
	Methods    []Method `json:"methods"`
	Doc        string   `json:"doc,omitempty"`
}

// Import is one import statement, regardless of declaration style (ES module
// import or legacy require call). Names preserves declaration order.
type Import struct {
	Source string   `json:"source"`
	Names  []string `json:"names"`
	Line   int      `json:"line"`
	Text   string   `json:"text"`
}

// ExportKind tags an export as named or default.
type ExportKind string

const (
	ExportNamed   ExportKind = "named"
	ExportDefault ExportKind = "default"
)

// Export is one exported binding. Default exports of anonymous expressions
// have an empty Name.
type Export struct {
	Kind ExportKind `json:"kind"`
	Name string     `json:"name,omitempty"`
	Line int        `json:"line"`
	Text string     `json:"text"`
}

// Outline is the classified summary of one source file.
type Outline struct {
	Functions []Function `json:"functions"`
	Classes   []Class    `json:"classes"`
	Imports   []Import   `json:"imports"`
	Exports   []Export   `json:"exports"`
}

// EmptyOutline returns an outline with empty (non-nil) lists, used as the
// degraded structure attached to parse failures.
func EmptyOutline() *Outline {
	return &Outline{
		Functions: []Function{},
		Classes:   []Class{},
		Imports:   []Import{},
		Exports:   []Export{},
	}
}

// MethodCount returns the total number of methods across all classes.
func (o *Outline) MethodCount() int {
	n := 0
	for _, c := range o.Classes {
		n += len(c.Methods)
	}
	return n
}

// span is a class line range used by the two-phase suppression filter.
type span struct {
	start, end int
}

// suppressClassMembers drops function candidates whose start line falls inside
// a class span. Phase 1 collects spans, phase 2 filters — no traversal state
// is shared with the classifier walk.
func suppressClassMembers(funcs []Function, classes []Class) []Function {
	if len(classes) == 0 {
		return funcs
	}
	spans := make([]span, len(classes))
	for i, c := range classes {
		spans[i] = span{c.StartLine, c.EndLine}
	}
	out := funcs[:0:0]
	for _, f := range funcs {
		inside := false
		for _, s := range spans {
			if f.StartLine >= s.start && f.StartLine <= s.end {
				inside = true
				break
			}
		}
		if !inside {
			out = append(out, f)
		}
	}
	return out
}
