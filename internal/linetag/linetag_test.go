package linetag

import "testing"

func TestTagLines(t *testing.T) {
	tagged := TagLines("a\nb\nc", 1)
	if len(tagged) != 3 {
		t.Fatalf("len = %d, want 3", len(tagged))
	}
	if tagged[0].Tag() != "1|a" || tagged[2].Tag() != "3|c" {
		t.Errorf("tags = %q, %q", tagged[0].Tag(), tagged[2].Tag())
	}
}

func TestTagLinesStartOffset(t *testing.T) {
	tagged := TagLines("x\ny", 41)
	if tagged[0].Num != 41 || tagged[1].Num != 42 {
		t.Errorf("nums = %d, %d", tagged[0].Num, tagged[1].Num)
	}
	// zero and negative offsets normalize to 1
	if TagLines("x", 0)[0].Num != 1 {
		t.Error("zero start not normalized")
	}
}

func TestRender(t *testing.T) {
	got := Render("first\nsecond", 10)
	want := "10|first\n11|second"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEmptyContent(t *testing.T) {
	if got := Render("", 1); got != "1|" {
		t.Errorf("got %q, want single empty line", got)
	}
}
