// Package glscene generates the GPU rendering path of the molecule renderer:
// GLSL shader source implementing the same distance field, raymarch loop and
// shading as package render, and the aligned buffer layout that stages scene
// shapes to the GPU. Keeping both backends generated from the same constants
// guarantees identical visual output.
package glscene

import (
	"io"
	"strconv"

	"github.com/molray/molray"
)

// Uniform and buffer names expected by the generated shaders.
const (
	UniformResolution = "uResolution"
	UniformCamPos     = "uCamPos"
	UniformCamRight   = "uCamRight"
	UniformCamUp      = "uCamUp"
	UniformCamForward = "uCamForward"
	UniformShapeCount = "uShapeCount"
	// ShapeBufferBinding is the SSBO binding point of the packed shape buffer.
	ShapeBufferBinding = 0
)

const versionStr = "#version 430\n"

// AppendVertexShader appends the fullscreen-quad vertex stage to dst.
// The quad's clip-space positions double as the texture coordinate handed to
// the fragment stage.
func AppendVertexShader(dst []byte) []byte {
	dst = append(dst, versionStr...)
	dst = append(dst, `in vec2 aPos;
out vec2 vTexCoord;

void main() {
	vTexCoord = aPos * 0.5 + 0.5;
	gl_Position = vec4(aPos, 0.0, 1.0);
}
`...)
	return dst
}

// AppendFragmentShader appends the raymarching fragment stage to dst. Every
// invocation generates its pixel's ray from the camera uniforms, sphere
// traces the shape buffer and shades the result, mirroring the CPU pipeline
// constant for constant.
func AppendFragmentShader(dst []byte) []byte {
	dst = append(dst, versionStr...)
	dst = append(dst, fragDecls...)
	dst = appendConstFloat(dst, "HIT_EPS", molray.HitEpsilon)
	dst = appendConstFloat(dst, "NORMAL_STEP", molray.NormalStep)
	dst = appendConstFloat(dst, "MISS_DIST", molray.MissDistance)
	dst = appendConstInt(dst, "MAX_STEPS", molray.MaxSteps)
	dst = append(dst, fragBody...)
	return dst
}

// WriteVertexShader writes the fullscreen-quad vertex stage to w.
func WriteVertexShader(w io.Writer) (int, error) {
	return w.Write(AppendVertexShader(nil))
}

// WriteFragmentShader writes the raymarching fragment stage to w.
func WriteFragmentShader(w io.Writer) (int, error) {
	return w.Write(AppendFragmentShader(nil))
}

func appendConstFloat(dst []byte, name string, v float32) []byte {
	dst = append(dst, "const float "...)
	dst = append(dst, name...)
	dst = append(dst, " = "...)
	dst = strconv.AppendFloat(dst, float64(v), 'g', -1, 32)
	dst = append(dst, ";\n"...)
	return dst
}

func appendConstInt(dst []byte, name string, v int) []byte {
	dst = append(dst, "const int "...)
	dst = append(dst, name...)
	dst = append(dst, " = "...)
	dst = strconv.AppendInt(dst, int64(v), 10)
	dst = append(dst, ";\n"...)
	return dst
}

const fragDecls = `in vec2 vTexCoord;
out vec4 fragColor;

uniform vec2 uResolution;
uniform vec3 uCamPos;
uniform vec3 uCamRight;
uniform vec3 uCamUp;
uniform vec3 uCamForward;
uniform int uShapeCount;

struct Shape {
	vec4 start;
	vec4 end;
	vec4 color;
	uint kind;
	float radius;
	vec2 pad0;
};

layout(std430, binding = 0) readonly buffer ShapeBuffer {
	Shape shapes[];
};

`

const fragBody = `
const vec3 LIGHT_POS = vec3(10.0, 10.0, 10.0);
const float AMBIENT = 0.3;
const float SPECULAR = 0.15;
const float SHININESS = 64.0;

float sphereDistance(vec3 p, vec3 center, float r) {
	return length(p - center) - r;
}

float cylinderDistance(vec3 p, vec3 a, vec3 b, float r) {
	vec3 ba = b - a;
	vec3 pa = p - a;
	float baba = dot(ba, ba);
	float paba = dot(pa, ba);
	float x = length(pa * baba - ba * paba) - r * baba;
	float y = abs(paba - baba * 0.5) - baba * 0.5;
	float x2 = x * x;
	float y2 = y * y * baba;
	float d = (max(x, y) < 0.0) ? -min(x2, y2)
	                            : ((x > 0.0 ? x2 : 0.0) + (y > 0.0 ? y2 : 0.0));
	return sign(d) * sqrt(abs(d)) / baba;
}

float sceneDistance(vec3 p, out int idx) {
	float dist = MISS_DIST;
	idx = 0;
	for (int i = 0; i < uShapeCount; i++) {
		Shape s = shapes[i];
		float d = (s.kind == 0u)
			? sphereDistance(p, s.start.xyz, s.radius)
			: cylinderDistance(p, s.start.xyz, s.end.xyz, s.radius);
		if (d < dist) { // strict less-than: the first shape wins exact ties.
			dist = d;
			idx = i;
		}
	}
	return dist;
}

float sceneDistanceOnly(vec3 p) {
	int idx;
	return sceneDistance(p, idx);
}

vec3 sceneNormal(vec3 p) {
	float h = NORMAL_STEP;
	vec3 n = vec3(
		sceneDistanceOnly(p + vec3(h, 0.0, 0.0)) - sceneDistanceOnly(p - vec3(h, 0.0, 0.0)),
		sceneDistanceOnly(p + vec3(0.0, h, 0.0)) - sceneDistanceOnly(p - vec3(0.0, h, 0.0)),
		sceneDistanceOnly(p + vec3(0.0, 0.0, h)) - sceneDistanceOnly(p - vec3(0.0, 0.0, h)));
	if (length(n) == 0.0) {
		return vec3(0.0, 0.0, 1.0);
	}
	return normalize(n);
}

void main() {
	vec2 px = vTexCoord * uResolution;
	vec2 o = (px - 0.5 * uResolution) / uResolution.y;
	vec3 dir = normalize(o.x * uCamRight + o.y * uCamUp - uCamForward);

	vec3 pos = uCamPos;
	int hit = -1;
	for (int i = 0; i < MAX_STEPS; i++) {
		int idx;
		float d = sceneDistance(pos, idx);
		if (d < HIT_EPS) {
			hit = idx;
			break;
		}
		pos += d * dir;
	}
	if (hit < 0) {
		fragColor = vec4(0.0, 0.0, 0.0, 1.0);
		return;
	}
	vec3 base = shapes[hit].color.xyz;
	vec3 n = sceneNormal(pos);
	vec3 l = normalize(LIGHT_POS - pos);
	vec3 v = normalize(uCamPos - pos);
	vec3 halfway = normalize(l + v);
	float diffuse = max(dot(n, l), 0.0);
	float specular = SPECULAR * pow(max(dot(n, halfway), 0.0), SHININESS);
	vec3 col = (AMBIENT + diffuse) * base + vec3(specular);
	fragColor = vec4(clamp(col, 0.0, 1.0), 1.0);
}
`
