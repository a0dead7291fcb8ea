package syntax

import (
	"fmt"
	"strings"
)

// Format renders a compact human-readable outline, one declaration per line.
// Used by the CLI; the structured result is what tools return.
//
// Example output:
//
//	# app.js
//	imports (1):
//	  1: import {y} from 'z'
//	functions (1):
//	  3-5: foo(a, b) [declared]
//	classes (1):
//	  7-12: class C extends Base
//	    8-9: handle(req)
func Format(path string, o *Outline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", path)

	if len(o.Imports) > 0 {
		fmt.Fprintf(&b, "imports (%d):\n", len(o.Imports))
		for _, imp := range o.Imports {
			fmt.Fprintf(&b, "  %d: %s\n", imp.Line, imp.Text)
		}
	}
	if len(o.Functions) > 0 {
		fmt.Fprintf(&b, "functions (%d):\n", len(o.Functions))
		for _, f := range o.Functions {
			fmt.Fprintf(&b, "  %d-%d: %s [%s]\n", f.StartLine, f.EndLine, f.Signature, f.Subtype)
		}
	}
	if len(o.Classes) > 0 {
		fmt.Fprintf(&b, "classes (%d):\n", len(o.Classes))
		for _, c := range o.Classes {
			fmt.Fprintf(&b, "  %d-%d: class %s", c.StartLine, c.EndLine, c.Name)
			if c.Superclass != "" {
				fmt.Fprintf(&b, " extends %s", c.Superclass)
			}
			b.WriteByte('\n')
			for _, m := range c.Methods {
				fmt.Fprintf(&b, "    %d-%d: %s\n", m.StartLine, m.EndLine, m.Signature)
			}
		}
	}
	if len(o.Exports) > 0 {
		fmt.Fprintf(&b, "exports (%d):\n", len(o.Exports))
		for _, e := range o.Exports {
			name := e.Name
			if name == "" {
				name = "(anonymous)"
			}
			fmt.Fprintf(&b, "  %d: %s %s\n", e.Line, e.Kind, name)
		}
	}
	return b.String()
}
