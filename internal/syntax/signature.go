package syntax

import "strings"

// paramPlaceholder stands in for parameters that are not simple bindings
// (destructured, defaulted). Rest parameters keep their "...name" form.
const paramPlaceholder = "…"

// renderSignature builds the one-line display signature for a function or
// method: modifiers, then name, then the parameter name list.
// e.g. "async handle(id, payload)" or "static validate(email)".
func renderSignature(name string, params []string, async, static bool) string {
	var b strings.Builder
	if static {
		b.WriteString("static ")
	}
	if async {
		b.WriteString("async ")
	}
	b.WriteString(name)
	b.WriteByte('(')
	b.WriteString(strings.Join(params, ", "))
	b.WriteByte(')')
	return b.String()
}
