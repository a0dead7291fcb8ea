package syntax

import (
	"fmt"
	"strings"
)

// Target is one resolved declaration with its exact code slice and
// independently clamped context slices.
type Target struct {
	Kind      string `json:"kind"` // "function", "method", "class"
	Name      string `json:"name"`
	Class     string `json:"class,omitempty"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Code      string `json:"code"`
	Before    string `json:"context_before,omitempty"`
	After     string `json:"context_after,omitempty"`
}

// Resolution is the outcome of a qualifier lookup: either a single target,
// or the full import/export list for the "imports"/"exports" qualifiers.
type Resolution struct {
	Target  *Target  `json:"target,omitempty"`
	Imports []Import `json:"imports,omitempty"`
	Exports []Export `json:"exports,omitempty"`
}

// NotFoundError reports a qualifier that matched nothing, with a hint
// tailored to the qualifier form.
type NotFoundError struct {
	Qualifier string
	Hint      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("target %q not found", e.Qualifier)
}

// Resolve looks up a qualifier against a classified outline and extracts the
// matched declaration's line range with contextLines of surrounding context.
//
// Qualifier forms: "class:Name", "class:Name.member", "method:member",
// "function:name", "imports", "exports", plus the bare forms "name"
// (function search) and "Class.member". Resolution is first-match in
// traversal order; when several classes define the same member name the
// first one encountered wins silently.
func Resolve(out *Outline, lines []string, qualifier string, contextLines int) (*Resolution, error) {
	q := strings.TrimSpace(qualifier)

	switch strings.ToLower(q) {
	case "imports":
		return &Resolution{Imports: out.Imports}, nil
	case "exports":
		return &Resolution{Exports: out.Exports}, nil
	}

	prefix, rest, hasPrefix := strings.Cut(q, ":")
	if !hasPrefix {
		// bare "Class.member" or bare function name
		if owner, member, dotted := strings.Cut(q, "."); dotted {
			return resolveClassMember(out, lines, q, owner, member, contextLines)
		}
		return resolveFunction(out, lines, q, q, contextLines)
	}

	switch prefix {
	case "class":
		if owner, member, dotted := strings.Cut(rest, "."); dotted {
			return resolveClassMember(out, lines, q, owner, member, contextLines)
		}
		return resolveClass(out, lines, q, rest, contextLines)
	case "method":
		return resolveMethod(out, lines, q, rest, contextLines)
	case "function":
		return resolveFunction(out, lines, q, rest, contextLines)
	default:
		return nil, &NotFoundError{
			Qualifier: q,
			Hint:      `unknown qualifier prefix; use "class:Name", "class:Name.member", "method:name", "function:name", "imports", or "exports"`,
		}
	}
}

func resolveClass(out *Outline, lines []string, q, name string, contextLines int) (*Resolution, error) {
	for _, c := range out.Classes {
		if c.Name == name {
			return targetResolution("class", c.Name, "", c.StartLine, c.EndLine, lines, contextLines), nil
		}
	}
	return nil, &NotFoundError{
		Qualifier: q,
		Hint:      fmt.Sprintf("no class named %q in this file; run outline mode to list the classes it contains", name),
	}
}

func resolveClassMember(out *Outline, lines []string, q, owner, member string, contextLines int) (*Resolution, error) {
	var cls *Class
	for i := range out.Classes {
		if out.Classes[i].Name == owner {
			cls = &out.Classes[i]
			break
		}
	}
	if cls == nil {
		return nil, &NotFoundError{
			Qualifier: q,
			Hint:      fmt.Sprintf("no class named %q in this file; run outline mode to list the classes it contains", owner),
		}
	}
	for _, m := range cls.Methods {
		if m.Name == member {
			return targetResolution("method", m.Name, cls.Name, m.StartLine, m.EndLine, lines, contextLines), nil
		}
	}
	return nil, &NotFoundError{
		Qualifier: q,
		Hint:      fmt.Sprintf("class %q exists but has no member %q; its methods are: %s", owner, member, methodNames(cls)),
	}
}

func resolveMethod(out *Outline, lines []string, q, name string, contextLines int) (*Resolution, error) {
	for _, c := range out.Classes {
		for _, m := range c.Methods {
			if m.Name == name {
				return targetResolution("method", m.Name, c.Name, m.StartLine, m.EndLine, lines, contextLines), nil
			}
		}
	}
	return nil, &NotFoundError{
		Qualifier: q,
		Hint:      fmt.Sprintf("no method named %q in any class; try function:%s, or run outline mode to see what this file declares", name, name),
	}
}

// resolveFunction searches top-level functions first, then falls back to
// class methods in any class — function: is a superset query of method:.
func resolveFunction(out *Outline, lines []string, q, name string, contextLines int) (*Resolution, error) {
	for _, f := range out.Functions {
		if f.Name == name {
			return targetResolution("function", f.Name, "", f.StartLine, f.EndLine, lines, contextLines), nil
		}
	}
	for _, c := range out.Classes {
		for _, m := range c.Methods {
			if m.Name == name {
				return targetResolution("method", m.Name, c.Name, m.StartLine, m.EndLine, lines, contextLines), nil
			}
		}
	}
	return nil, &NotFoundError{
		Qualifier: q,
		Hint:      fmt.Sprintf("no function or method named %q; try class:Owner.%s if you know the owning class, or run outline mode", name, name),
	}
}

func targetResolution(kind, name, class string, start, end int, lines []string, contextLines int) *Resolution {
	code, before, after := Window(lines, start, end, contextLines)
	return &Resolution{Target: &Target{
		Kind:      kind,
		Name:      name,
		Class:     class,
		StartLine: start,
		EndLine:   end,
		Code:      code,
		Before:    before,
		After:     after,
	}}
}

func methodNames(c *Class) string {
	if len(c.Methods) == 0 {
		return "(none)"
	}
	names := make([]string, len(c.Methods))
	for i, m := range c.Methods {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}
