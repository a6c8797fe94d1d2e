package molray

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and distance buffer length mismatch")
)

// Nearest returns the index of the shape whose boundary is closest to p and
// the signed distance to it. Negative distance means p is inside the shape.
// Exact ties resolve to the lowest index: comparisons use strict less-than so
// the first shape in scene order wins. An empty scene reports index 0 and
// [MissDistance].
//
// Nearest scans every shape on each call. This O(n) full scan, performed once
// per march step plus six times per hit for normal estimation, dominates
// render cost for large molecules.
func (s *Scene) Nearest(p ms3.Vec) (idx int, dist float32) {
	dist = MissDistance
	for i := range s.shapes {
		d := s.shapes[i].distance(p)
		if d < dist {
			dist = d
			idx = i
		}
	}
	return idx, dist
}

// Distance returns the signed distance from p to the nearest shape boundary.
func (s *Scene) Distance(p ms3.Vec) float32 {
	_, dist := s.Nearest(p)
	return dist
}

// Evaluate evaluates the scene's signed distance field over pos positions,
// storing results in dist. pos and dist must be of same length. It never
// fails for well-formed buffers; the signature matches the vectorized SDF
// convention so scenes compose with batch evaluation tooling.
func (s *Scene) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	for i, p := range pos {
		_, dist[i] = s.Nearest(p)
	}
	return nil
}

func (s *Shape) distance(p ms3.Vec) float32 {
	switch s.Kind {
	case KindCylinder:
		return cylinderDistance(p, s.Start, s.End, s.Radius)
	default:
		return ms3.Norm(ms3.Sub(p, s.Start)) - s.Radius
	}
}

// cylinderDistance is the exact signed distance to a capped cylinder of
// radius r spanning a to b. The point is projected onto the axis and a radial
// shaft term is combined with the end-cap plane term: outside the cylinder
// the positive excesses add in quadrature, inside the larger (least
// negative) of the two wins.
func cylinderDistance(p, a, b ms3.Vec, r float32) float32 {
	ba := ms3.Sub(b, a)
	pa := ms3.Sub(p, a)
	baba := ms3.Dot(ba, ba)
	paba := ms3.Dot(pa, ba)
	x := ms3.Norm(ms3.Sub(ms3.Scale(baba, pa), ms3.Scale(paba, ba))) - r*baba
	y := math32.Abs(paba-baba*0.5) - baba*0.5
	x2 := x * x
	y2 := y * y * baba
	var d float32
	if math32.Max(x, y) < 0 {
		d = -math32.Min(x2, y2)
	} else {
		if x > 0 {
			d += x2
		}
		if y > 0 {
			d += y2
		}
	}
	return signf(d) * math32.Sqrt(math32.Abs(d)) / baba
}

func signf(a float32) float32 {
	if a == 0 {
		return 0
	}
	return math32.Copysign(1, a)
}
