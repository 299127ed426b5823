// Package region implements the half-open rectangle algebra used by the
// repaint driver to decide which windows still need to be drawn.
package region

// Rect is a half-open rectangle (x1, y1, x2, y2), with w and h kept as
// explicit fields rather than derived so that the occlusion math below can
// be ported line for line from the C original.
type Rect struct {
	X1, Y1, X2, Y2 int32
	W, H           int32
}

// RectFromSize returns the Rect covering (x, y) to (x+w, y+h).
func RectFromSize(x, y, w, h int32) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h, W: w, H: h}
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// contains reports whether r fully covers o.
func (r Rect) contains(o Rect) bool {
	return r.X1 <= o.X1 && r.Y1 <= o.Y1 && r.X2 >= o.X2 && r.Y2 >= o.Y2
}

// intersects reports whether r and o overlap (touching edges count as
// overlap, matching the original's inclusive comparison).
func (r Rect) intersects(o Rect) bool {
	if r.X1 > o.X2 || o.X1 > r.X2 {
		return false
	}
	if r.Y1 > o.Y2 || o.Y1 > r.Y2 {
		return false
	}
	return true
}

// PaintNeeded reports whether reg still needs to be painted given the
// accumulated ignore region, and grows *ignore monotonically as the paint
// walk proceeds top to bottom.
//
// This reproduces the shipped commoner.c rect_paint_needed bug for bug:
// the intersection's x2/y2 are computed by re-reading x1/y1 on the
// larger-rect side instead of x2/y2, so the "grow to the intersection
// rectangle" branch almost never takes effect as intended. Scenario 3/6 of
// the spec describe the shipped binary's behavior, so this is the default
// path the repaint driver uses. See PaintNeededCorrected for the fix.
func PaintNeeded(ignore *Rect, reg Rect) bool {
	if ignore.contains(reg) {
		return false
	}
	if !ignore.intersects(reg) {
		if reg.W*reg.H > ignore.W*ignore.H {
			*ignore = reg
		}
		return true
	}

	x1 := maxI32(ignore.X1, reg.X1)
	x2 := minI32Bug(ignore, reg)
	y1 := maxI32(ignore.Y1, reg.Y1)
	y2 := minI32BugY(ignore, reg)
	w := x2 - x1
	h := y2 - y1

	if reg.W*reg.H > ignore.W*ignore.H {
		*ignore = reg
	}
	if w*h > ignore.W*ignore.H {
		*ignore = Rect{X1: x1, Y1: y1, X2: x2, Y2: y2, W: w, H: h}
	}
	return true
}

// minI32Bug reproduces `(ignore_reg->x2 < reg->x2) ? ignore_reg->x1 : reg->x1`.
func minI32Bug(ignore *Rect, reg Rect) int32 {
	if ignore.X2 < reg.X2 {
		return ignore.X1
	}
	return reg.X1
}

// minI32BugY reproduces the analogous y2 bug.
func minI32BugY(ignore *Rect, reg Rect) int32 {
	if ignore.Y2 < reg.Y2 {
		return ignore.Y1
	}
	return reg.Y1
}

// PaintNeededCorrected is the arithmetically correct version of PaintNeeded:
// x2/y2 are the min of the two rectangles' far edges, as the "intersection
// rectangle" name implies. Kept alongside the bug-compatible default so
// callers (and tests) can compare the two behaviors; see DESIGN.md.
func PaintNeededCorrected(ignore *Rect, reg Rect) bool {
	if ignore.contains(reg) {
		return false
	}
	if !ignore.intersects(reg) {
		if reg.W*reg.H > ignore.W*ignore.H {
			*ignore = reg
		}
		return true
	}

	x1 := maxI32(ignore.X1, reg.X1)
	x2 := minI32(ignore.X2, reg.X2)
	y1 := maxI32(ignore.Y1, reg.Y1)
	y2 := minI32(ignore.Y2, reg.Y2)
	w := x2 - x1
	h := y2 - y1

	if reg.W*reg.H > ignore.W*ignore.H {
		*ignore = reg
	}
	if w*h > ignore.W*ignore.H {
		*ignore = Rect{X1: x1, Y1: y1, X2: x2, Y2: y2, W: w, H: h}
	}
	return true
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
