// Package molray holds the scene model of the molecule renderer: analytic
// sphere and capped-cylinder primitives representing atoms and bonds, and the
// signed distance evaluation over them that every rendering backend shares.
package molray

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const (
	// HitEpsilon is the distance below which a marched ray is considered to
	// have reached a surface.
	HitEpsilon = 1e-3
	// NormalStep is the finite-difference offset used to estimate surface
	// normals from the distance field.
	NormalStep = 1e-3
	// MaxSteps bounds the number of march iterations for a single ray. A ray
	// that has not reached a surface after MaxSteps terminates as a miss.
	MaxSteps = 64
	// MissDistance is the distance reported by queries against an empty
	// scene. No finite shape can be nearer.
	MissDistance = 1e20
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization.
	epstol = 6e-7
)

// Kind discriminates shape primitives. The numeric values are part of the GPU
// buffer layout, see glscene.
type Kind uint32

const (
	KindSphere Kind = iota
	KindCylinder
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindCylinder:
		return "cylinder"
	}
	return "unknown"
}

// Shape is a single renderable primitive. Spheres use Start as the center and
// ignore End. Cylinders are capped, spanning Start to End. Shapes stored in a
// [Scene] have been validated by [Builder]: Radius is positive, all
// coordinates are finite and cylinder endpoints are distinct.
type Shape struct {
	// Start is the sphere center or the first cylinder endpoint.
	Start ms3.Vec
	// End is the second cylinder endpoint. Unused for spheres.
	End ms3.Vec
	// Color is the shape's base RGB color with components in [0,1].
	Color ms3.Vec
	// Radius of the sphere or of the cylinder shaft.
	Radius float32
	Kind   Kind
}

// Scene is an ordered collection of shapes, immutable once built. Shape order
// is observable: distance queries resolve exact ties in favor of the earliest
// shape. A Scene may be read concurrently from any number of goroutines.
type Scene struct {
	shapes []Shape
	bb     ms3.Box
}

// Len returns the number of shapes in the scene.
func (s *Scene) Len() int { return len(s.shapes) }

// At returns the shape at index i.
func (s *Scene) At(i int) Shape { return s.shapes[i] }

// Shapes returns the scene's shapes in order. The returned slice is shared;
// callers must not modify it while the scene is being rendered.
func (s *Scene) Shapes() []Shape { return s.shapes }

// Bounds returns the axis aligned bounding box containing all shapes.
// The zero box is returned for an empty scene.
func (s *Scene) Bounds() ms3.Box { return s.bb }

// Builder validates and accumulates shapes into a [Scene]. By default
// malformed shapes panic at the call site. Setting NoShapePanic accumulates
// the errors instead, for retrieval with [Builder.Err] or [Builder.Scene],
// and drops the offending shape. This keeps degenerate geometry out of the
// distance field instead of producing undefined renders.
//
// The zero value is ready for use.
type Builder struct {
	// NoShapePanic converts shape validation panics into accumulated errors.
	NoShapePanic bool
	shapes       []Shape
	accumErrs    []error
}

// Err returns errors accumulated during shape construction, joined.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if !bld.NoShapePanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// AddSphere appends a sphere of radius r centered at center.
func (bld *Builder) AddSphere(center ms3.Vec, r float32, color ms3.Vec) {
	if r <= 0 {
		bld.shapeErrorf("zero or negative sphere radius")
		return
	} else if !finite(center) || !finitef(r) {
		bld.shapeErrorf("non-finite sphere parameter")
		return
	}
	bld.shapes = append(bld.shapes, Shape{
		Kind:   KindSphere,
		Start:  center,
		Radius: r,
		Color:  color,
	})
}

// AddCylinder appends a capped cylinder of radius r spanning start to end.
func (bld *Builder) AddCylinder(start, end ms3.Vec, r float32, color ms3.Vec) {
	if r <= 0 {
		bld.shapeErrorf("zero or negative cylinder radius")
		return
	} else if !finite(start) || !finite(end) || !finitef(r) {
		bld.shapeErrorf("non-finite cylinder parameter")
		return
	} else if ms3.Norm(ms3.Sub(end, start)) < epstol {
		bld.shapeErrorf("degenerate cylinder with coincident endpoints")
		return
	}
	bld.shapes = append(bld.shapes, Shape{
		Kind:   KindCylinder,
		Start:  start,
		End:    end,
		Radius: r,
		Color:  color,
	})
}

// Scene returns the built scene along with any accumulated shape errors.
// The builder retains no reference to the returned scene and may be reused.
func (bld *Builder) Scene() (*Scene, error) {
	sc := &Scene{shapes: bld.shapes}
	for i := range sc.shapes {
		sb := sc.shapes[i].bounds()
		if i == 0 {
			sc.bb = sb
		} else {
			sc.bb.Min = ms3.MinElem(sc.bb.Min, sb.Min)
			sc.bb.Max = ms3.MaxElem(sc.bb.Max, sb.Max)
		}
	}
	bld.shapes = nil
	return sc, bld.Err()
}

func (s *Shape) bounds() ms3.Box {
	r := ms3.Vec{X: s.Radius, Y: s.Radius, Z: s.Radius}
	switch s.Kind {
	case KindCylinder:
		return ms3.Box{
			Min: ms3.Sub(ms3.MinElem(s.Start, s.End), r),
			Max: ms3.Add(ms3.MaxElem(s.Start, s.End), r),
		}
	default:
		return ms3.Box{
			Min: ms3.Sub(s.Start, r),
			Max: ms3.Add(s.Start, r),
		}
	}
}

func finite(v ms3.Vec) bool {
	return finitef(v.X) && finitef(v.Y) && finitef(v.Z)
}

func finitef(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}
