// Package gpu wraps the GL ES context the repaint driver draws through:
// shader compile/link, a single textured-quad draw call reused for every
// window, root background, and shadow, and the pixel-format bookkeeping
// needed to get X11 pixmap contents into a GL texture.
package gpu

import (
	"fmt"

	"golang.org/x/mobile/gl"
)

const quadVertexSrc = `#version 100
attribute vec2 pos;
attribute vec2 uv;
varying vec2 vUV;
uniform mat3 transform;
void main() {
	vec3 p = transform * vec3(pos, 1.0);
	gl_Position = vec4(p.xy, 0.0, 1.0);
	vUV = uv;
}
`

const quadFragmentSrc = `#version 100
precision mediump float;
varying vec2 vUV;
uniform sampler2D tex;
uniform float alpha;
void main() {
	vec4 c = texture2D(tex, vUV);
	gl_FragColor = c * alpha;
}
`

const alphaMaskFragmentSrc = `#version 100
precision mediump float;
varying vec2 vUV;
uniform sampler2D tex;
uniform float alpha;
void main() {
	float a = texture2D(tex, vUV).a;
	gl_FragColor = vec4(0.0, 0.0, 0.0, a * alpha);
}
`

// compileProgram links vSrc and fSrc into a usable program, matching the
// gldriver compile/link/delete-on-failure sequence.
func compileProgram(ctx gl.Context, vSrc, fSrc string) (gl.Program, error) {
	program := ctx.CreateProgram()
	if program.Value == 0 {
		return gl.Program{}, fmt.Errorf("gpu: no programs available")
	}

	vertexShader, err := loadShader(ctx, gl.VERTEX_SHADER, vSrc)
	if err != nil {
		return gl.Program{}, err
	}
	fragmentShader, err := loadShader(ctx, gl.FRAGMENT_SHADER, fSrc)
	if err != nil {
		ctx.DeleteShader(vertexShader)
		return gl.Program{}, err
	}

	ctx.AttachShader(program, vertexShader)
	ctx.AttachShader(program, fragmentShader)
	ctx.LinkProgram(program)

	ctx.DeleteShader(vertexShader)
	ctx.DeleteShader(fragmentShader)

	if ctx.GetProgrami(program, gl.LINK_STATUS) == 0 {
		defer ctx.DeleteProgram(program)
		return gl.Program{}, fmt.Errorf("gpu: link: %s", ctx.GetProgramInfoLog(program))
	}
	return program, nil
}

func loadShader(ctx gl.Context, shaderType gl.Enum, src string) (gl.Shader, error) {
	shader := ctx.CreateShader(shaderType)
	if shader.Value == 0 {
		return gl.Shader{}, fmt.Errorf("gpu: could not create shader (type %v)", shaderType)
	}
	ctx.ShaderSource(shader, src)
	ctx.CompileShader(shader)
	if ctx.GetShaderi(shader, gl.COMPILE_STATUS) == 0 {
		defer ctx.DeleteShader(shader)
		return gl.Shader{}, fmt.Errorf("gpu: compile: %s", ctx.GetShaderInfoLog(shader))
	}
	return shader, nil
}
