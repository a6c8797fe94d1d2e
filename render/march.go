package render

import (
	"github.com/molray/molray"
	"github.com/soypat/geometry/ms3"
)

// RayState is the state of a marched ray. Rays begin Advancing and always
// terminate as Hit or Miss.
type RayState uint8

const (
	StateAdvancing RayState = iota
	StateHit
	StateMiss
)

func (s RayState) String() string {
	switch s {
	case StateAdvancing:
		return "advancing"
	case StateHit:
		return "hit"
	case StateMiss:
		return "miss"
	}
	return "unknown"
}

// Trace is the terminal record of a marched ray. Position is the surface
// point for a hit, or wherever the ray stopped for a miss. Shape and Normal
// are only meaningful for hits. Steps counts scene distance evaluations made
// by the march loop, normal estimation excluded.
type Trace struct {
	State    RayState
	Position ms3.Vec
	Shape    int
	Normal   ms3.Vec
	Steps    int
}

// MarchRay sphere-traces a ray from origin along unit direction dir through
// the scene's distance field. Each step advances by the reported nearest
// distance, which cannot overshoot past a surface since the field is a true
// lower bound. The ray terminates as a hit when the field drops below
// [molray.HitEpsilon], or as a miss after [molray.MaxSteps] evaluations.
// There is no travel-distance cap: a grazing ray is bounded by the step
// budget alone. Marching is deterministic, identical scene and ray always
// produce the same trace.
func MarchRay(sc *molray.Scene, origin, dir ms3.Vec) Trace {
	pos := origin
	for step := 0; step < molray.MaxSteps; step++ {
		idx, dist := sc.Nearest(pos)
		if dist < molray.HitEpsilon {
			return Trace{
				State:    StateHit,
				Position: pos,
				Shape:    idx,
				Normal:   Normal(sc, pos),
				Steps:    step + 1,
			}
		}
		pos = ms3.Add(pos, ms3.Scale(dist, dir))
	}
	return Trace{State: StateMiss, Position: pos, Steps: molray.MaxSteps}
}

// Normal estimates the outward unit surface normal at p by central finite
// differences of the scene distance field along each axis, six evaluations
// in total. A degenerate field whose samples cancel exactly yields a fixed
// +z normal rather than a zero vector of undefined direction.
func Normal(sc *molray.Scene, p ms3.Vec) ms3.Vec {
	const h = molray.NormalStep
	n := ms3.Vec{
		X: sc.Distance(ms3.Add(p, ms3.Vec{X: h})) - sc.Distance(ms3.Sub(p, ms3.Vec{X: h})),
		Y: sc.Distance(ms3.Add(p, ms3.Vec{Y: h})) - sc.Distance(ms3.Sub(p, ms3.Vec{Y: h})),
		Z: sc.Distance(ms3.Add(p, ms3.Vec{Z: h})) - sc.Distance(ms3.Sub(p, ms3.Vec{Z: h})),
	}
	if ms3.Norm(n) < 6e-7 {
		return ms3.Vec{Z: 1}
	}
	return ms3.Unit(n)
}
