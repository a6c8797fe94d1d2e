// Package render implements the CPU pixel pipeline of the molecule renderer:
// per-pixel ray generation, sphere-traced raymarching over a scene distance
// field, finite-difference normal estimation and Blinn-Phong shading. The
// same constants and formulas are emitted for the GPU path by package
// glscene so both backends produce identical images.
package render

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// worldUp is the fixed up reference used to orthonormalize camera bases.
var worldUp = ms3.Vec{Y: 1}

// Camera is a world-space pinhole camera: a position and an orthonormal
// basis. Forward is the third basis column in the OpenGL convention, pointing
// from the scene toward the camera; the camera looks along -Forward.
type Camera struct {
	Position ms3.Vec
	Right    ms3.Vec
	Up       ms3.Vec
	Forward  ms3.Vec
}

// LookAt returns a camera at eye looking toward target with the world y axis
// as the up reference.
func LookAt(eye, target ms3.Vec) Camera {
	front := ms3.Unit(ms3.Sub(target, eye))
	right := ms3.Cross(front, worldUp)
	if ms3.Norm(right) < 1e-6 {
		// Looking straight up or down.
		right = ms3.Vec{X: 1}
	}
	right = ms3.Unit(right)
	return Camera{
		Position: eye,
		Right:    right,
		Up:       ms3.Cross(right, front),
		Forward:  ms3.Scale(-1, front),
	}
}

// Orbit returns a camera on a sphere of radius dist around center, at the
// given yaw and pitch angles in radians, looking at center.
func Orbit(center ms3.Vec, yaw, pitch, dist float32) Camera {
	dir := ms3.Vec{
		X: math32.Cos(pitch) * math32.Sin(yaw),
		Y: math32.Sin(pitch),
		Z: math32.Cos(pitch) * math32.Cos(yaw),
	}
	return LookAt(ms3.Sub(center, ms3.Scale(dist, dir)), center)
}

// Ray maps a viewport coordinate to a normalized world-space ray direction
// from the camera position. The offset is centered and divided by the
// vertical resolution so the vertical field of view is fixed and the
// horizontal one follows the aspect ratio; the local direction has a fixed
// forward component of -1 (unit focal length).
func (c Camera) Ray(px, py, width, height float32) ms3.Vec {
	x := (px - 0.5*width) / height
	y := (py - 0.5*height) / height
	d := ms3.Add(ms3.Scale(x, c.Right), ms3.Scale(y, c.Up))
	return ms3.Unit(ms3.Sub(d, c.Forward))
}

// Action is a camera translation input.
type Action uint8

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionForward
	ActionBackward
	numActions
)

// Controller integrates user input into a fly camera: held translation
// actions, mouse-drag rotation with clamped pitch, and scroll dolly. Call
// [Controller.Update] once per frame with the frame delta time, then
// [Controller.Camera] for the frame's camera. Controller is not safe for
// concurrent use; input callbacks and the frame loop are expected to run on
// the same thread.
type Controller struct {
	// Speed is the translation speed in world units per second.
	Speed float32
	// Sensitivity scales mouse rotation in degrees per pixel per second.
	Sensitivity float32

	position   ms3.Vec
	yaw        float32 // degrees
	pitch      float32 // degrees
	front      ms3.Vec
	actions    [numActions]bool
	mouseDown  bool
	firstMouse bool
	prevMouse  ms2.Vec
	mouseDelta ms2.Vec
}

// NewController returns a controller with the default starting pose: at
// (0,0,3) looking down -z.
func NewController() *Controller {
	c := &Controller{
		Speed:       2.5,
		Sensitivity: 2.5,
		position:    ms3.Vec{Z: 3},
		yaw:         -90,
		firstMouse:  true,
	}
	c.updateFront()
	return c
}

// SetPose places the camera at position with the given yaw and pitch angles
// in degrees. Pitch is clamped away from the poles.
func (c *Controller) SetPose(position ms3.Vec, yaw, pitch float32) {
	c.position = position
	c.yaw = yaw
	c.pitch = clampf(pitch, -89.9, 89.9)
	c.updateFront()
}

// Camera returns the current camera state.
func (c *Controller) Camera() Camera {
	return LookAt(c.position, ms3.Add(c.position, c.front))
}

// SetAction marks a translation action as held or released.
func (c *Controller) SetAction(a Action, pressed bool) {
	if a < numActions {
		c.actions[a] = pressed
	}
}

// SetMousePressed starts or stops mouse-drag rotation.
func (c *Controller) SetMousePressed(pressed bool) {
	c.mouseDown = pressed
	if pressed {
		c.firstMouse = true
	}
}

// MouseMoved accumulates a cursor position sample in pixels.
func (c *Controller) MouseMoved(x, y float32) {
	if c.firstMouse {
		c.prevMouse = ms2.Vec{X: x, Y: y}
		c.firstMouse = false
	}
	// Screen y grows downward; positive delta pitches up.
	delta := ms2.Vec{X: x - c.prevMouse.X, Y: c.prevMouse.Y - y}
	c.mouseDelta = ms2.Add(c.mouseDelta, ms2.Scale(c.Sensitivity, delta))
	c.prevMouse = ms2.Vec{X: x, Y: y}
}

// Dolly moves the camera along its view direction, scroll-wheel style.
func (c *Controller) Dolly(amount float32) {
	c.position = ms3.Add(c.position, ms3.Scale(amount, c.front))
}

// Update advances the camera by dt seconds of held input.
func (c *Controller) Update(dt float32) {
	right := ms3.Unit(ms3.Cross(c.front, worldUp))
	step := c.Speed * dt
	for a := Action(0); a < numActions; a++ {
		if !c.actions[a] {
			continue
		}
		switch a {
		case ActionUp:
			c.position = ms3.Add(c.position, ms3.Scale(step, worldUp))
		case ActionDown:
			c.position = ms3.Sub(c.position, ms3.Scale(step, worldUp))
		case ActionLeft:
			c.position = ms3.Sub(c.position, ms3.Scale(step, right))
		case ActionRight:
			c.position = ms3.Add(c.position, ms3.Scale(step, right))
		case ActionForward:
			c.position = ms3.Add(c.position, ms3.Scale(step, c.front))
		case ActionBackward:
			c.position = ms3.Sub(c.position, ms3.Scale(step, c.front))
		}
	}
	if c.mouseDown {
		c.yaw += c.mouseDelta.X * dt
		c.pitch = clampf(c.pitch+c.mouseDelta.Y*dt, -89.9, 89.9)
		c.updateFront()
	}
	c.mouseDelta = ms2.Vec{}
}

func (c *Controller) updateFront() {
	yaw := c.yaw * math32.Pi / 180
	pitch := c.pitch * math32.Pi / 180
	c.front = ms3.Unit(ms3.Vec{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	})
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	} else if v > hi {
		return hi
	}
	return v
}
