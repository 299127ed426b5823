package compositor

import (
	"github.com/dancingmirror/commoner/internal/region"
	"golang.org/x/mobile/gl"
)

// Surface is the subset of the GPU renderer the paint driver needs,
// narrowed to an interface so Driver's occlusion/ordering logic can be
// unit tested without a real GL context.
type Surface interface {
	Clear()
	DrawQuad(tex gl.Texture, x, y, w, h float64, alpha float32)
	DrawAlphaMask(tex gl.Texture, x, y, w, h float64, alpha float32)
}

// Driver owns the registry and GPU surface and runs the two-pass repaint
// sequence: do_paint's first pass (top to bottom) accumulates the opaque
// "ignore" region and decides which windows still need to be drawn; the
// second pass (bottom to top) actually issues the draw calls so each
// window composites correctly over whatever is already beneath it.
type Driver struct {
	Registry *Registry
	Surface  Surface

	// StrictOcclusion selects the arithmetically correct intersection
	// math (region.PaintNeededCorrected) instead of the shipped,
	// bug-compatible default (region.PaintNeeded).
	StrictOcclusion bool

	RootBackgroundTexture gl.Texture
	HasRootBackground     bool
	ScreenW, ScreenH       int32
}

// windowRect returns the window's bounding rectangle in the coordinate
// system the occlusion walk and draw calls both use: position plus
// border, matching win_extents.
func windowRect(w *Window) region.Rect {
	return region.RectFromSize(w.X, w.Y, w.Width+w.BorderWidth*2, w.Height+w.BorderWidth*2)
}

// paintNeeded dispatches to the bug-compatible or corrected occlusion
// math per Driver.StrictOcclusion.
func (d *Driver) paintNeeded(ignore *region.Rect, r region.Rect) bool {
	if d.StrictOcclusion {
		return region.PaintNeededCorrected(ignore, r)
	}
	return region.PaintNeeded(ignore, r)
}

// paintable is a window carried from the occlusion pass into the draw
// pass, with its bounding rectangle already computed once.
type paintable struct {
	w    *Window
	rect region.Rect
}

// planPaint runs the first pass: walk top to bottom, skip windows that
// are unmapped and already faded to zero opacity, and keep only those the
// accumulated ignore region says still need to be drawn. Returned in
// top-to-bottom encounter order; Paint reverses it for drawing.
func (d *Driver) planPaint() []paintable {
	var ignore region.Rect
	var plan []paintable

	for _, w := range d.Registry.WindowsTopToBottom() {
		if !w.Mapped && w.Fade.Opacity == 0 {
			continue
		}
		r := windowRect(w)
		// Only fully opaque, non-ARGB windows grow the ignore region; a
		// translucent window is tested against a copy of it.
		target := &ignore
		if w.Fade.Opacity != Opaque || w.Depth == 32 {
			probe := ignore
			target = &probe
		}
		if !d.paintNeeded(target, r) {
			continue
		}
		plan = append(plan, paintable{w: w, rect: r})
	}
	return plan
}

// Paint runs a full repaint: clears the surface, draws the root
// background if one is known, then draws every window that still needs
// painting (with its shadow, if any) from bottom to top.
func (d *Driver) Paint() {
	d.Surface.Clear()

	if d.HasRootBackground {
		d.Surface.DrawQuad(d.RootBackgroundTexture, 0, 0, float64(d.ScreenW), float64(d.ScreenH), 1.0)
	}

	plan := d.planPaint()
	for i := len(plan) - 1; i >= 0; i-- {
		d.paintOne(plan[i])
	}
}

func (d *Driver) paintOne(p paintable) {
	w := p.w
	alpha := opacityAlpha(w.Fade.Opacity)

	if w.ShadowWanted {
		shadowAlpha := alpha
		x := float64(w.X + w.ShadowDX)
		y := float64(w.Y + w.ShadowDY)
		d.Surface.DrawAlphaMask(w.shadowTexture, x, y, float64(w.ShadowWidth), float64(w.ShadowHeight), shadowAlpha)
	}

	if w.hasTexture {
		d.Surface.DrawQuad(w.texture, float64(p.rect.X1), float64(p.rect.Y1), float64(p.rect.W), float64(p.rect.H), alpha)
	}
}

// opacityAlpha converts the window's internal fixed-point opacity to the
// [0,1] float the shader multiplies into every fragment.
func opacityAlpha(opacity uint32) float32 {
	if opacity == Opaque {
		return 1.0
	}
	return float32(opacity) / float32(Opaque)
}
