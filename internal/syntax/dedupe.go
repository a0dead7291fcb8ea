package syntax

// dedupeLineTolerance is how far apart two detections of the same name may
// start and still be considered one entity. Overlapping grammar productions
// can report the same function a line or two apart.
const dedupeLineTolerance = 2

// Dedupe collapses near-duplicate function records: equal names whose start
// lines differ by at most dedupeLineTolerance are the same entity. A declared
// record wins over a variable-bound one; otherwise the first seen wins.
// Idempotent: deduping an already-deduplicated list is a no-op.
func Dedupe(funcs []Function) []Function {
	if len(funcs) < 2 {
		return funcs
	}
	out := make([]Function, 0, len(funcs))
	for _, f := range funcs {
		idx := -1
		for i, kept := range out {
			if kept.Name == f.Name && absDiff(kept.StartLine, f.StartLine) <= dedupeLineTolerance {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, f)
			continue
		}
		if out[idx].Subtype == SubtypeVariable && f.Subtype == SubtypeDeclared {
			out[idx] = f
		}
	}
	return out
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
