package compositor

import "golang.org/x/mobile/gl"

// Handle identifies a Window record by X window ID plus a generation
// counter bumped on every destroy, so a damage or configure event that
// races an already-processed DestroyNotify can be detected and dropped
// with a single equality check instead of a tombstone-and-unlink pass.
type Handle struct {
	ID         uint32
	Generation uint32
}

// Window is one top-level (or override-redirect) client window tracked by
// the compositor, kept in the registry's z-ordered doubly linked list.
type Window struct {
	Handle Handle

	next, prev *Window

	X, Y, Width, Height, BorderWidth int32
	Depth                            uint8
	OverrideRedirect                 bool
	Mapped                           bool

	WindowType string // "normal", "dialog", "dock", "desktop", "menu", ...
	ClientWin  uint32 // the WM_STATE-bearing descendant found by the classifier walk
	DamageID   uint32 // the XDamage object tracking this window's contents

	Fade         FadeState
	FrameExtents [4]int32 // left, right, top, bottom; from _NET_FRAME_EXTENTS

	ShadowWanted bool
	ShadowDX     int32
	ShadowDY     int32
	ShadowWidth  int32
	ShadowHeight int32

	// texture holds the window's composited contents, read back with
	// XGetImage from the window's named pixmap; hasTexture is false while
	// the first paint is still pending.
	texture       gl.Texture
	hasTexture    bool
	shadowTexture gl.Texture

	destroyed bool
}

// Registry tracks every live window by X ID and maintains the z-order
// list (bottom to top) that the repaint driver walks, grounded on
// add_win/restack_win/find_win in the original compositor.
type Registry struct {
	byXID   map[uint32]*Window
	top     *Window // topmost window (drawn last); prev == nil
	nextGen uint32
}

// NewRegistry returns an empty window registry.
func NewRegistry() *Registry {
	return &Registry{byXID: make(map[uint32]*Window)}
}

// AddWin inserts a new Window for xid directly above belowXID, matching
// the X11 ConfigureNotify "above" sibling convention: belowXID is the
// window xid now sits on top of, and 0 (None) means xid is at the very
// bottom of the stack with nothing below it.
func (r *Registry) AddWin(xid uint32, belowXID uint32) *Window {
	if w, exists := r.byXID[xid]; exists {
		return w
	}

	r.nextGen++
	w := &Window{Handle: Handle{ID: xid, Generation: r.nextGen}}
	r.byXID[xid] = w

	below := r.byXID[belowXID]
	r.insertAboveSibling(w, below)
	return w
}

// insertAboveSibling links w into the z-order list directly above below
// (nil means w becomes the new bottom-most window, with nothing below it).
// .next always points toward the bottom of the stack; .prev toward the top.
func (r *Registry) insertAboveSibling(w, below *Window) {
	if below == nil {
		bottom := r.bottom()
		w.next = nil
		w.prev = bottom
		if bottom != nil {
			bottom.next = w
		} else {
			r.top = w
		}
		return
	}

	above := below.prev // currently directly above `below`; w takes this slot
	w.prev = above
	w.next = below
	below.prev = w
	if above != nil {
		above.next = w
	} else {
		r.top = w
	}
}

func (r *Registry) bottom() *Window {
	w := r.top
	if w == nil {
		return nil
	}
	for w.next != nil {
		w = w.next
	}
	return w
}

func (r *Registry) unlink(w *Window) {
	if w.prev != nil {
		w.prev.next = w.next
	} else {
		r.top = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	}
	w.next, w.prev = nil, nil
}

// Restack moves an existing window to directly above belowXID (0 means
// the bottom of the stack), matching restack_win's ConfigureNotify
// handling.
func (r *Registry) Restack(xid uint32, belowXID uint32) bool {
	w, ok := r.byXID[xid]
	if !ok {
		return false
	}
	r.unlink(w)
	below := r.byXID[belowXID]
	r.insertAboveSibling(w, below)
	return true
}

// MoveToTop restacks xid to the very top of the z-order, matching a
// CirculateNotify with Place == PlaceOnTop.
func (r *Registry) MoveToTop(xid uint32) bool {
	w, ok := r.byXID[xid]
	if !ok {
		return false
	}
	r.unlink(w)
	w.next = r.top
	w.prev = nil
	if r.top != nil {
		r.top.prev = w
	}
	r.top = w
	return true
}

// MoveToBottom restacks xid to the very bottom of the z-order, matching a
// CirculateNotify with Place == PlaceOnBottom.
func (r *Registry) MoveToBottom(xid uint32) bool {
	w, ok := r.byXID[xid]
	if !ok {
		return false
	}
	r.unlink(w)
	bottom := r.bottom()
	w.next = nil
	w.prev = bottom
	if bottom != nil {
		bottom.next = w
	} else {
		r.top = w
	}
	return true
}

// FindWin looks up the live window for xid.
func (r *Registry) FindWin(xid uint32) (*Window, bool) {
	w, ok := r.byXID[xid]
	return w, ok
}

// Destroy removes xid from the registry and invalidates its Handle so any
// already-queued event referencing it is recognized as stale.
func (r *Registry) Destroy(xid uint32) {
	w, ok := r.byXID[xid]
	if !ok {
		return
	}
	r.unlink(w)
	delete(r.byXID, xid)
	w.destroyed = true
}

// Valid reports whether h still refers to a live window: the generation
// recorded on the handle must match the window currently registered under
// that X ID, if any.
func (r *Registry) Valid(h Handle) bool {
	w, ok := r.byXID[h.ID]
	return ok && w.Handle.Generation == h.Generation
}

// Windows returns the registry's z-order list from bottom to top, the
// order the repaint driver's second (drawing) pass uses so each window
// composites over the ones already drawn beneath it.
func (r *Registry) Windows() []*Window {
	var out []*Window
	for w := r.bottom(); w != nil; w = w.prev {
		out = append(out, w)
	}
	return out
}

// WindowsTopToBottom returns the registry's z-order list from top to
// bottom, the order the repaint driver's first (occlusion) pass walks so
// the accumulated ignore region only ever grows from windows already
// known to be opaque above the one currently being considered.
func (r *Registry) WindowsTopToBottom() []*Window {
	var out []*Window
	for w := r.top; w != nil; w = w.next {
		out = append(out, w)
	}
	return out
}

// SetTexture records the GPU texture holding w's composited contents, as
// produced by the XGetImage readback path.
func (w *Window) SetTexture(tex gl.Texture) {
	w.texture = tex
	w.hasTexture = true
}

// ClearTexture drops w's texture reference, e.g. once its contents can no
// longer be trusted (resize, or the window unmapped and finished fading).
func (w *Window) ClearTexture() {
	w.texture = gl.Texture{}
	w.hasTexture = false
}

// HasTexture reports whether w currently has composited contents to draw.
func (w *Window) HasTexture() bool { return w.hasTexture }

// SetShadowTexture records the alpha-mask texture generated for w's drop
// shadow by the shadow map.
func (w *Window) SetShadowTexture(tex gl.Texture) {
	w.shadowTexture = tex
}
