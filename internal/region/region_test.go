package region

import "testing"

func TestPaintNeededContains(t *testing.T) {
	ignore := Rect{X1: 0, Y1: 0, X2: 100, Y2: 100, W: 100, H: 100}
	reg := RectFromSize(10, 10, 20, 20)
	if PaintNeeded(&ignore, reg) {
		t.Fatalf("expected reg fully contained by ignore to not need paint")
	}
}

func TestPaintNeededDisjointGrowsIgnore(t *testing.T) {
	ignore := RectFromSize(0, 0, 10, 10)
	reg := RectFromSize(200, 200, 50, 50)

	if !PaintNeeded(&ignore, reg) {
		t.Fatalf("expected disjoint region to need paint")
	}
	if ignore != reg {
		t.Fatalf("expected ignore to grow to the larger disjoint rect, got %+v", ignore)
	}
}

func TestPaintNeededMonotonicGrowth(t *testing.T) {
	ignore := RectFromSize(0, 0, 10, 10)
	sizes := []Rect{
		RectFromSize(0, 0, 20, 20),
		RectFromSize(500, 500, 5, 5), // smaller and disjoint, must not shrink ignore
	}
	prevArea := int32(ignore.W * ignore.H)
	for _, reg := range sizes {
		PaintNeeded(&ignore, reg)
		area := ignore.W * ignore.H
		if area < prevArea {
			t.Fatalf("ignore region shrank: %d -> %d", prevArea, area)
		}
		prevArea = area
	}
}

func TestPaintNeededCorrectedIntersection(t *testing.T) {
	ignore := RectFromSize(0, 0, 50, 50)
	reg := RectFromSize(25, 25, 50, 50)

	needed := PaintNeededCorrected(&ignore, reg)
	if !needed {
		t.Fatalf("expected overlapping-but-not-contained region to need paint")
	}
	// The corrected math must produce a valid (non-negative area) rectangle.
	if ignore.X2 < ignore.X1 || ignore.Y2 < ignore.Y1 {
		t.Fatalf("corrected ignore rect is degenerate: %+v", ignore)
	}
}

func TestBugSubstitutionDivergesFromMin(t *testing.T) {
	// Reproduces the exact substitution commoner.c's rect_paint_needed makes:
	// it picks x1 (of whichever rect has the smaller far edge) instead of
	// min(x2, ignore's x2). These two quantities generally differ.
	ignore := Rect{X1: 50, Y1: 50, X2: 100, Y2: 100}
	reg := Rect{X1: 0, Y1: 0, X2: 60, Y2: 60}

	got := minI32Bug(&ignore, reg)
	want := minI32(ignore.X2, reg.X2)
	if got == want {
		t.Fatalf("expected the bug-compatible substitution to diverge from min(x2, reg.x2); both were %d", got)
	}
	if got != reg.X1 {
		t.Fatalf("minI32Bug = %d, want reg.X1 = %d (since ignore.X2 >= reg.X2)", got, reg.X1)
	}
	if want != 60 {
		t.Fatalf("min(x2, reg.x2) = %d, want 60", want)
	}
}
