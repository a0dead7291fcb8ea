// Package linetag provides line-numbered rendering for file content.
//
// Each line is prefixed with its 1-indexed number so a caller can quote an
// exact location back into a lines or target request without counting.
package linetag

import (
	"fmt"
	"strings"
)

// TaggedLine represents a line with its number.
type TaggedLine struct {
	Num     int    // 1-indexed line number
	Content string // raw line content
}

// Tag formats a tagged line as "num|content".
func (t TaggedLine) Tag() string {
	return fmt.Sprintf("%d|%s", t.Num, t.Content)
}

// TagLines takes file content and returns tagged lines.
// If startLine > 0, numbering begins at startLine (1-indexed).
func TagLines(content string, startLine int) []TaggedLine {
	if startLine <= 0 {
		startLine = 1
	}

	lines := strings.Split(content, "\n")
	tagged := make([]TaggedLine, len(lines))
	for i, line := range lines {
		tagged[i] = TaggedLine{
			Num:     startLine + i,
			Content: line,
		}
	}
	return tagged
}

// FormatTagged formats tagged lines into the string returned to the caller.
func FormatTagged(tagged []TaggedLine) string {
	var b strings.Builder
	for i, t := range tagged {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Tag())
	}
	return b.String()
}

// Render is the common tag-then-format path.
func Render(content string, startLine int) string {
	return FormatTagged(TagLines(content, startLine))
}
