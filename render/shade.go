package render

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// A single fixed white point light. One static light is an intentional
// simplification of the renderer, not a placeholder.
var lightPosition = ms3.Vec{X: 10, Y: 10, Z: 10}

const (
	ambientStrength  = 0.3
	specularStrength = 0.15
	shininess        = 64
)

// Background is the opaque color written for rays that miss every shape.
var Background = color.RGBA{A: 255}

// Shade computes the Blinn-Phong color of a trace given the hit shape's base
// color and the camera position: 0.3 ambient, full diffuse, 0.15 specular
// with exponent 64 against the fixed white light. Misses shade to
// [Background].
func Shade(tr Trace, base ms3.Vec, camPos ms3.Vec) color.RGBA {
	if tr.State != StateHit {
		return Background
	}
	l := ms3.Unit(ms3.Sub(lightPosition, tr.Position))
	v := ms3.Unit(ms3.Sub(camPos, tr.Position))
	half := ms3.Unit(ms3.Add(l, v))
	diffuse := math32.Max(ms3.Dot(tr.Normal, l), 0)
	specular := specularStrength * math32.Pow(math32.Max(ms3.Dot(tr.Normal, half), 0), shininess)
	out := ms3.AddScalar(specular, ms3.Scale(ambientStrength+diffuse, base))
	return rgba8(out)
}

func rgba8(c ms3.Vec) color.RGBA {
	return color.RGBA{
		R: channel8(c.X),
		G: channel8(c.Y),
		B: channel8(c.Z),
		A: 255,
	}
}

func channel8(v float32) uint8 {
	return uint8(clampf(v, 0, 1)*255 + 0.5)
}
