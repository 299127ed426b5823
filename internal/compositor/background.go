package compositor

import "golang.org/x/mobile/gl"

// RootPixmap identifies the pixmap currently published on the root window
// as its background, via the _XROOTPMAP_ID/_XSETROOT_ID convention that
// desktop backgrounds (feh, nitrogen, the session's own wallpaper setter)
// use to advertise what they painted, grounded on update_root_background.
type RootPixmap uint32

// RootPixmapGeometry is the size/depth XGetGeometry reports for a root
// pixmap, kept separate from RootPixmap itself so the "is this usable"
// decision can be tested without a real X connection.
type RootPixmapGeometry struct {
	Width, Height int32
	Depth         uint8
}

// Background tracks the root window's background pixmap and the texture
// bound to it, re-deriving the texture only when the advertised pixmap ID
// actually changes.
type Background struct {
	pixmap     RootPixmap
	hasTexture bool
	texture    gl.Texture
}

// NeedsRefresh reports whether newPixmap differs from the pixmap a
// Background is currently tracking, matching update_root_background's
// short-circuit ("new_pixmap == root_bg_pixmap && root_bg_texture != 0").
func (b *Background) NeedsRefresh(newPixmap RootPixmap) bool {
	if newPixmap == b.pixmap && b.hasTexture {
		return false
	}
	return true
}

// UsableGeometry reports whether a root pixmap's reported geometry matches
// the screen exactly; update_root_background refuses to build a texture
// from a pixmap that doesn't (a background setter can publish a
// differently-sized pixmap transiently while it's still drawing).
func UsableGeometry(g RootPixmapGeometry, screenW, screenH int32) bool {
	return g.Width == screenW && g.Height == screenH
}

// Clear drops the tracked pixmap and texture, e.g. after the pixmap
// vanished (new_pixmap == None) or the previous texture was deleted ahead
// of rebuilding it.
func (b *Background) Clear() {
	b.pixmap = 0
	b.hasTexture = false
	b.texture = gl.Texture{}
}

// SetTexture records the texture built for pixmap once it has been
// uploaded to the GPU.
func (b *Background) SetTexture(pixmap RootPixmap, texture gl.Texture) {
	b.pixmap = pixmap
	b.texture = texture
	b.hasTexture = true
}

// Texture returns the currently bound background texture, if any.
func (b *Background) Texture() (gl.Texture, bool) {
	return b.texture, b.hasTexture
}

// Pixmap returns the root pixmap ID currently tracked, which may be 0
// (None) if the root window has no background pixmap published.
func (b *Background) Pixmap() RootPixmap {
	return b.pixmap
}
