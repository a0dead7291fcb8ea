package syntax

import "strings"

// Clamp widens the 1-indexed inclusive range [start, end] by contextLines on
// each side, clamped to [1, total]. It never produces out-of-bounds indices
// however large contextLines is.
func Clamp(start, end, contextLines, total int) (int, int) {
	cs := start - contextLines
	if cs < 1 {
		cs = 1
	}
	ce := end + contextLines
	if ce > total {
		ce = total
	}
	return cs, ce
}

// Slice joins the 1-indexed inclusive line range [start, end]. Callers are
// expected to pass clamped bounds; out-of-range input is clamped again rather
// than panicking.
func Slice(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// Window extracts the code slice for [start, end] plus separate before/after
// context slices, each independently clamped to file boundaries.
func Window(lines []string, start, end, contextLines int) (code, before, after string) {
	total := len(lines)
	cs, ce := Clamp(start, end, contextLines, total)
	code = Slice(lines, start, end)
	if cs < start {
		before = Slice(lines, cs, start-1)
	}
	if ce > end {
		after = Slice(lines, end+1, ce)
	}
	return code, before, after
}
