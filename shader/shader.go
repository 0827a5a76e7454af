package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const texturedVertexSourceGL = `#version 410 core
layout (location = 0) in vec2 in_position;
layout (location = 1) in vec2 in_texcoord;
out vec2 frag_uv;
uniform mat4 u_transform;
void main() {
    frag_uv = in_texcoord;
    gl_Position = u_transform * vec4(in_position, 0.0, 1.0);
}
`

const texturedFragmentSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform vec4 u_tint;
void main() { fragColor = texture(u_texture, frag_uv) * u_tint; }
`

// Magenta/black checker drawn in place of programs that failed to build.
const fallbackFragmentSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
void main() {
    vec2 cell = floor(frag_uv * 8.0);
    float k = mod(cell.x + cell.y, 2.0);
    fragColor = mix(vec4(1.0, 0.0, 1.0, 1.0), vec4(0.0, 0.0, 0.0, 1.0), k);
}
`

const blitFragmentSourceFlipGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

const meshVertexSourceGL = `#version 410 core
layout (location = 0) in vec3 in_position;
layout (location = 1) in vec3 in_normal;
layout (location = 2) in vec2 in_texcoord;
out vec2 frag_uv;
uniform mat4 u_transform;
void main() {
    frag_uv = in_texcoord;
    gl_Position = u_transform * vec4(in_position, 1.0);
}
`

const linesVertexSourceGL = `#version 410 core
layout (location = 0) in vec3 in_position;
layout (location = 1) in vec3 in_color;
out vec3 frag_color;
uniform mat4 u_proj_matrix;
uniform mat4 u_view_matrix;
void main() {
    gl_Position = u_proj_matrix * u_view_matrix * vec4(in_position, 1.0);
    frag_color = in_color;
}
`

const linesFragmentSourceGL = `#version 410 core
in vec3 frag_color;
out vec4 fragColor;
void main() { fragColor = vec4(frag_color, 1.0); }
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const texturedVertexSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_position;
layout (location = 1) in vec2 in_texcoord;
out vec2 frag_uv;
uniform mat4 u_transform;
void main() {
    frag_uv = in_texcoord;
    gl_Position = u_transform * vec4(in_position, 0.0, 1.0);
}
`

const texturedFragmentSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform vec4 u_tint;
void main() { fragColor = texture(u_texture, frag_uv) * u_tint; }
`

const fallbackFragmentSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
void main() {
    vec2 cell = floor(frag_uv * 8.0);
    float k = mod(cell.x + cell.y, 2.0);
    fragColor = mix(vec4(1.0, 0.0, 1.0, 1.0), vec4(0.0, 0.0, 0.0, 1.0), k);
}
`

const blitFragmentSourceFlipGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitFragmentSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

const meshVertexSourceGLES = `#version 300 es
layout (location = 0) in vec3 in_position;
layout (location = 1) in vec3 in_normal;
layout (location = 2) in vec2 in_texcoord;
out vec2 frag_uv;
uniform mat4 u_transform;
void main() {
    frag_uv = in_texcoord;
    gl_Position = u_transform * vec4(in_position, 1.0);
}
`

const linesVertexSourceGLES = `#version 300 es
layout (location = 0) in vec3 in_position;
layout (location = 1) in vec3 in_color;
out vec3 frag_color;
uniform mat4 u_proj_matrix;
uniform mat4 u_view_matrix;
void main() {
    gl_Position = u_proj_matrix * u_view_matrix * vec4(in_position, 1.0);
    frag_color = in_color;
}
`

const linesFragmentSourceGLES = `#version 300 es
precision mediump float;
in vec3 frag_color;
out vec4 fragColor;
void main() { fragColor = vec4(frag_color, 1.0); }
`

// ────────────────────────────────── Public API ─────────────────────────────────

// TexturedVertexSource expects a vec2 position at slot 0 and a vec2
// texcoord at slot 1, transformed by u_transform.
func TexturedVertexSource(isGLES bool) string {
	if isGLES {
		return texturedVertexSourceGLES
	}
	return texturedVertexSourceGL
}

// TexturedFragmentSource samples u_texture and multiplies by u_tint.
func TexturedFragmentSource(isGLES bool) string {
	if isGLES {
		return texturedFragmentSourceGLES
	}
	return texturedFragmentSourceGL
}

func FallbackFragmentSource(isGLES bool) string {
	if isGLES {
		return fallbackFragmentSourceGLES
	}
	return fallbackFragmentSourceGL
}

// BlitFragmentSource samples u_texture, flipped vertically when flip is set.
func BlitFragmentSource(flip, isGLES bool) string {
	switch {
	case flip && isGLES:
		return blitFragmentSourceFlipGLES
	case flip:
		return blitFragmentSourceFlipGL
	case isGLES:
		return blitFragmentSourceGLES
	default:
		return blitFragmentSourceGL
	}
}

// MeshVertexSource is TexturedVertexSource for vec3 positions, with a vec3
// normal at slot 1 and the texcoord at slot 2.
func MeshVertexSource(isGLES bool) string {
	if isGLES {
		return meshVertexSourceGLES
	}
	return meshVertexSourceGL
}

// LinesVertexSource takes a vec3 position and a vec3 color, transformed by
// u_proj_matrix * u_view_matrix.
func LinesVertexSource(isGLES bool) string {
	if isGLES {
		return linesVertexSourceGLES
	}
	return linesVertexSourceGL
}

func LinesFragmentSource(isGLES bool) string {
	if isGLES {
		return linesFragmentSourceGLES
	}
	return linesFragmentSourceGL
}
