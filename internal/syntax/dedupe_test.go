package syntax

import (
	"reflect"
	"testing"
)

func TestDedupeCollapsesNearDuplicates(t *testing.T) {
	funcs := []Function{
		{Name: "f", StartLine: 10, Subtype: SubtypeVariable},
		{Name: "f", StartLine: 11, Subtype: SubtypeDeclared},
		{Name: "g", StartLine: 20, Subtype: SubtypeDeclared},
	}
	got := Dedupe(funcs)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	// declared beats variable, but position of the first sighting is kept
	if got[0].Name != "f" || got[0].Subtype != SubtypeDeclared || got[0].StartLine != 11 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Name != "g" {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestDedupeFirstSeenWinsOnEqualSubtype(t *testing.T) {
	funcs := []Function{
		{Name: "f", StartLine: 5, Subtype: SubtypeDeclared, Signature: "f(a)"},
		{Name: "f", StartLine: 6, Subtype: SubtypeDeclared, Signature: "f(b)"},
	}
	got := Dedupe(funcs)
	if len(got) != 1 || got[0].Signature != "f(a)" {
		t.Fatalf("got %+v, want first sighting kept", got)
	}
}

func TestDedupeRespectsLineTolerance(t *testing.T) {
	funcs := []Function{
		{Name: "f", StartLine: 10, Subtype: SubtypeDeclared},
		{Name: "f", StartLine: 13, Subtype: SubtypeDeclared}, // 3 apart: distinct
	}
	got := Dedupe(funcs)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (outside tolerance)", len(got))
	}
}

func TestDedupeDistinctNamesUntouched(t *testing.T) {
	funcs := []Function{
		{Name: "a", StartLine: 1, Subtype: SubtypeDeclared},
		{Name: "b", StartLine: 1, Subtype: SubtypeVariable},
	}
	got := Dedupe(funcs)
	if !reflect.DeepEqual(got, funcs) {
		t.Fatalf("got %+v, want input unchanged", got)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	funcs := []Function{
		{Name: "f", StartLine: 10, Subtype: SubtypeVariable},
		{Name: "f", StartLine: 12, Subtype: SubtypeDeclared},
		{Name: "g", StartLine: 30, Subtype: SubtypeVariable},
		{Name: "g", StartLine: 90, Subtype: SubtypeVariable},
	}
	once := Dedupe(funcs)
	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent:\nonce  = %+v\ntwice = %+v", once, twice)
	}
}

func TestSuppressClassMembers(t *testing.T) {
	funcs := []Function{
		{Name: "top", StartLine: 1},
		{Name: "inside", StartLine: 12},
		{Name: "after", StartLine: 40},
	}
	classes := []Class{{Name: "C", StartLine: 10, EndLine: 20}}
	got := suppressClassMembers(funcs, classes)
	if len(got) != 2 || got[0].Name != "top" || got[1].Name != "after" {
		t.Fatalf("got %+v, want inside suppressed", got)
	}

	// boundary lines are inside the span
	edge := suppressClassMembers([]Function{{Name: "e", StartLine: 10}, {Name: "f", StartLine: 20}}, classes)
	if len(edge) != 0 {
		t.Fatalf("boundary candidates survived: %+v", edge)
	}
}
