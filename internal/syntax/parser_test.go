package syntax

import "testing"

func TestAnalyzeUnsupportedExtension(t *testing.T) {
	out, g, perr := Analyze("notes.txt", []byte("plain text"))
	if perr == nil {
		t.Fatal("expected a parse error for unsupported extension")
	}
	if perr.Kind != KindSyntaxUnsupported {
		t.Errorf("kind = %s, want %s", perr.Kind, KindSyntaxUnsupported)
	}
	if perr.Hint == "" {
		t.Error("hint must not be empty")
	}
	if out != nil || g != nil {
		t.Errorf("out=%v g=%v, want nil on failure", out, g)
	}
}

func TestAnalyzeBrokenSourceFails(t *testing.T) {
	// a failed parse yields a classified error, never a silently empty outline
	cases := []struct {
		name string
		path string
		src  string
	}{
		{"unclosed brace", "broken.js", "function foo() {\n"},
		{"unclosed string", "broken2.js", "const s = 'never ends\n"},
		{"stray tokens", "broken.py", "def f(:\n    pass\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, _, perr := Analyze(c.path, []byte(c.src))
			if perr == nil {
				t.Fatalf("expected a parse error, got outline %+v", out)
			}
			switch perr.Kind {
			case KindSyntaxUnsupported, KindUnclosedConstruct, KindParseUnknown:
			default:
				t.Errorf("kind = %q, outside the failure taxonomy", perr.Kind)
			}
			if perr.Message == "" || perr.Hint == "" {
				t.Errorf("message/hint empty: %+v", perr)
			}
			if out != nil {
				t.Errorf("outline must be nil on parse failure, got %+v", out)
			}
		})
	}
}

func TestClassifyParseText(t *testing.T) {
	cases := []struct {
		msg  string
		kind string
	}{
		{`unexpected token "%" at line 3`, KindSyntaxUnsupported},
		{"unexpected eof at line 12", KindUnclosedConstruct},
		{`unterminated construct: missing "}" at line 4`, KindUnclosedConstruct},
		{"parse failed", KindParseUnknown},
		{"", KindParseUnknown},
	}
	for _, c := range cases {
		if got := classifyParseText(c.msg); got.Kind != c.kind {
			t.Errorf("classifyParseText(%q).Kind = %s, want %s", c.msg, got.Kind, c.kind)
		}
	}
}

func TestForPathExtensions(t *testing.T) {
	cases := map[string]string{
		"a.js":  "javascript",
		"a.JSX": "javascript",
		"a.mjs": "javascript",
		"a.cjs": "javascript",
		"a.ts":  "typescript",
		"a.tsx": "typescript",
		"a.py":  "python",
		"a.pyi": "python",
	}
	for path, want := range cases {
		g := ForPath(path)
		if g == nil || g.Name != want {
			t.Errorf("ForPath(%q) = %v, want %s", path, g, want)
		}
	}
	if ForPath("a.rb") != nil {
		t.Error("unexpected grammar for .rb")
	}
	if Supported("a.go") {
		t.Error("Supported(.go) = true, want false")
	}
}

func TestAnalyzeNormalizesNilSlices(t *testing.T) {
	out, _, perr := Analyze("empty.py", []byte("x = 1\n"))
	if perr != nil {
		t.Fatalf("Analyze failed: %v", perr)
	}
	if out.Functions == nil || out.Classes == nil || out.Imports == nil || out.Exports == nil {
		t.Errorf("nil slices survived normalization: %+v", out)
	}
}
