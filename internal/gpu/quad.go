package gpu

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/gl"
)

// Renderer owns the GL program, persistent vertex buffer, and blend state
// used to draw every textured quad the compositor paints: windows, their
// shadows, and the desktop background.
type Renderer struct {
	ctx gl.Context

	colorProgram gl.Program
	colorPos     gl.Attrib
	colorUV      gl.Attrib
	colorTform   gl.Uniform
	colorTex     gl.Uniform
	colorAlpha   gl.Uniform

	maskProgram gl.Program
	maskPos     gl.Attrib
	maskUV      gl.Attrib
	maskTform   gl.Uniform
	maskTex     gl.Uniform
	maskAlpha   gl.Uniform

	quadVBO gl.Buffer

	ScreenW, ScreenH int
}

// quadVertices is a unit square (0,0)-(1,1) with matching UVs, shared by
// every draw call; per-quad placement happens entirely in the transform
// uniform, so the buffer never needs re-uploading.
var quadVertices = [...]float32{
	// x, y, u, v
	0, 0, 0, 0,
	1, 0, 1, 0,
	0, 1, 0, 1,
	1, 1, 1, 1,
}

// NewRenderer compiles the quad shaders and uploads the shared vertex
// buffer. The caller must have a current GL context.
func NewRenderer(ctx gl.Context, screenW, screenH int) (*Renderer, error) {
	r := &Renderer{ctx: ctx, ScreenW: screenW, ScreenH: screenH}

	prog, err := compileProgram(ctx, quadVertexSrc, quadFragmentSrc)
	if err != nil {
		return nil, err
	}
	r.colorProgram = prog
	r.colorPos = ctx.GetAttribLocation(prog, "pos")
	r.colorUV = ctx.GetAttribLocation(prog, "uv")
	r.colorTform = ctx.GetUniformLocation(prog, "transform")
	r.colorTex = ctx.GetUniformLocation(prog, "tex")
	r.colorAlpha = ctx.GetUniformLocation(prog, "alpha")

	maskProg, err := compileProgram(ctx, quadVertexSrc, alphaMaskFragmentSrc)
	if err != nil {
		ctx.DeleteProgram(prog)
		return nil, err
	}
	r.maskProgram = maskProg
	r.maskPos = ctx.GetAttribLocation(maskProg, "pos")
	r.maskUV = ctx.GetAttribLocation(maskProg, "uv")
	r.maskTform = ctx.GetUniformLocation(maskProg, "transform")
	r.maskTex = ctx.GetUniformLocation(maskProg, "tex")
	r.maskAlpha = ctx.GetUniformLocation(maskProg, "alpha")

	r.quadVBO = ctx.CreateBuffer()
	ctx.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	ctx.BufferData(gl.ARRAY_BUFFER, f32Bytes(binary.LittleEndian, quadVertices[:]...), gl.STATIC_DRAW)

	ctx.Enable(gl.BLEND)
	ctx.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	return r, nil
}

// Resize updates the screen dimensions used to build the NDC transform.
func (r *Renderer) Resize(w, h int) { r.ScreenW, r.ScreenH = w, h }

// Release frees the GL objects the renderer owns.
func (r *Renderer) Release() {
	r.ctx.DeleteProgram(r.colorProgram)
	r.ctx.DeleteProgram(r.maskProgram)
	r.ctx.DeleteBuffer(r.quadVBO)
}

// Clear clears the framebuffer to opaque black, matching the compositor's
// base layer before anything is drawn on top of it.
func (r *Renderer) Clear() {
	r.ctx.ClearColor(0, 0, 0, 1)
	r.ctx.Clear(gl.COLOR_BUFFER_BIT)
}

// screenTransform builds the 3x3 affine mapping a unit quad placed at
// (x, y, w, h) in screen pixel coordinates (origin top-left) into GL clip
// space (origin center, Y up).
func (r *Renderer) screenTransform(x, y, w, h float64) f32.Aff3 {
	sx := 2 * w / float64(r.ScreenW)
	sy := -2 * h / float64(r.ScreenH)
	tx := 2*x/float64(r.ScreenW) - 1
	ty := 1 - 2*y/float64(r.ScreenH)
	return f32.Aff3{
		float32(sx), 0, float32(tx),
		0, float32(sy), float32(ty),
	}
}

func writeAffine(ctx gl.Context, u gl.Uniform, a f32.Aff3) {
	var m [9]float32
	m[0*3+0] = a[0*3+0]
	m[0*3+1] = a[1*3+0]
	m[0*3+2] = 0
	m[1*3+0] = a[0*3+1]
	m[1*3+1] = a[1*3+1]
	m[1*3+2] = 0
	m[2*3+0] = a[0*3+2]
	m[2*3+1] = a[1*3+2]
	m[2*3+2] = 1
	ctx.UniformMatrix3fv(u, m[:])
}

// DrawQuad draws tex, an RGBA color texture, at screen position (x, y) with
// size (w, h), modulated by alpha (commoner.c's gl_draw_texture).
func (r *Renderer) DrawQuad(tex gl.Texture, x, y, w, h float64, alpha float32) {
	r.drawQuad(r.colorProgram, r.colorPos, r.colorUV, r.colorTform, r.colorTex, r.colorAlpha, tex, x, y, w, h, alpha)
}

// DrawAlphaMask draws tex, a single-channel (ALPHA) shadow texture, as an
// opaque-black/variable-alpha quad at screen position (x, y).
func (r *Renderer) DrawAlphaMask(tex gl.Texture, x, y, w, h float64, alpha float32) {
	r.drawQuad(r.maskProgram, r.maskPos, r.maskUV, r.maskTform, r.maskTex, r.maskAlpha, tex, x, y, w, h, alpha)
}

func (r *Renderer) drawQuad(program gl.Program, posAttr, uvAttr gl.Attrib, tformUniform, texUniform, alphaUniform gl.Uniform, tex gl.Texture, x, y, w, h float64, alpha float32) {
	ctx := r.ctx
	ctx.UseProgram(program)

	ctx.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	ctx.EnableVertexAttribArray(posAttr)
	ctx.VertexAttribPointer(posAttr, 2, gl.FLOAT, false, 16, 0)
	ctx.EnableVertexAttribArray(uvAttr)
	ctx.VertexAttribPointer(uvAttr, 2, gl.FLOAT, false, 16, 8)

	writeAffine(ctx, tformUniform, r.screenTransform(x, y, w, h))

	ctx.ActiveTexture(gl.TEXTURE0)
	ctx.BindTexture(gl.TEXTURE_2D, tex)
	ctx.Uniform1i(texUniform, 0)
	ctx.Uniform1f(alphaUniform, alpha)

	ctx.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	ctx.DisableVertexAttribArray(posAttr)
	ctx.DisableVertexAttribArray(uvAttr)
}

// f32Bytes returns the little/big-endian byte representation of values,
// matching the gldriver vertex-buffer upload convention.
func f32Bytes(byteOrder binary.ByteOrder, values ...float32) []byte {
	le := byteOrder == binary.LittleEndian
	b := make([]byte, 4*len(values))
	for i, v := range values {
		u := math.Float32bits(v)
		if le {
			b[4*i+0] = byte(u >> 0)
			b[4*i+1] = byte(u >> 8)
			b[4*i+2] = byte(u >> 16)
			b[4*i+3] = byte(u >> 24)
		} else {
			b[4*i+0] = byte(u >> 24)
			b[4*i+1] = byte(u >> 16)
			b[4*i+2] = byte(u >> 8)
			b[4*i+3] = byte(u >> 0)
		}
	}
	return b
}
