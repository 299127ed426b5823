package gpu

import "golang.org/x/mobile/gl"

// PixelFormat describes how to interpret a block of raw pixel data
// returned by xproto.GetImage so it can be handed to glTexImage2D without
// a CPU-side conversion pass, mirroring commoner.c's update_root_background
// and update_texture format selection.
type PixelFormat struct {
	GLFormat gl.Enum
	Internal gl.Enum
	Alpha    bool // true if the source actually carries an alpha channel
}

// ClassifyPixelFormat picks the GL format for a pixmap of the given depth
// and bits-per-pixel, as read back over the wire in the given byte order.
// depth 24 data packed into 32 bits per pixel has no real alpha channel;
// the compositor must force it to opaque before upload (see ForceOpaque).
func ClassifyPixelFormat(depth uint8, bitsPerPixel int, lsbFirst bool) PixelFormat {
	switch bitsPerPixel {
	case 32:
		format := gl.RGBA
		if lsbFirst {
			format = bgra
		}
		// GL ES2 requires internalformat == format for TexImage2D.
		return PixelFormat{GLFormat: format, Internal: format, Alpha: depth != 24}
	case 24:
		format := gl.RGB
		if lsbFirst {
			format = bgr
		}
		return PixelFormat{GLFormat: format, Internal: format, Alpha: false}
	default:
		return PixelFormat{GLFormat: gl.RGBA, Internal: gl.RGBA, Alpha: true}
	}
}

// bgra and bgr are not part of the GL ES 2 core enum set x/mobile/gl
// exposes, but are available through the widely supported
// EXT_texture_format_BGRA8888 extension that every X11-capable desktop GL
// driver in practice provides; declared here rather than imported since
// x/mobile/gl has no binding for the extension.
const (
	bgra gl.Enum = 0x80E1
	bgr  gl.Enum = 0x80E0
)

// ForceOpaque overwrites the alpha byte of depth-24-but-32-bpp pixel data
// with 0xFF in place, since such pixmaps carry no real alpha channel and
// would otherwise composite as fully or partially transparent garbage.
func ForceOpaque(pix []byte, lsbFirst bool) {
	alphaOffset := 0
	if lsbFirst {
		alphaOffset = 3
	}
	for i := alphaOffset; i < len(pix); i += 4 {
		pix[i] = 0xFF
	}
}

// UploadRGBA creates (or respecifies) a 2D texture from raw pixel data in
// the given format, with linear filtering and edge clamping, matching the
// teacher's fixed glTexParameteri sequence for root/window textures.
func UploadRGBA(ctx gl.Context, tex gl.Texture, pf PixelFormat, width, height int, pix []byte) {
	ctx.BindTexture(gl.TEXTURE_2D, tex)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	ctx.TexImage2D(gl.TEXTURE_2D, 0, int(pf.Internal), width, height, pf.GLFormat, gl.UNSIGNED_BYTE, pix)
}

// UploadAlphaMask uploads a single-channel shadow bitmap as a texture.
// commoner.c uses desktop GL's GL_R8/GL_RED for this; x/mobile/gl only
// binds GL ES2, which has no single-channel format, so ALPHA is used
// instead and the fragment shader reads it from the alpha channel.
func UploadAlphaMask(ctx gl.Context, tex gl.Texture, width, height int, pix []byte) {
	ctx.BindTexture(gl.TEXTURE_2D, tex)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	ctx.TexImage2D(gl.TEXTURE_2D, 0, int(gl.ALPHA), width, height, gl.ALPHA, gl.UNSIGNED_BYTE, pix)
}
