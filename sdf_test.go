package molray_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/molray/molray"
	"github.com/soypat/geometry/ms3"
)

func TestSphereDistance(t *testing.T) {
	const tol = 1e-5
	var bld molray.Builder
	bld.AddSphere(ms3.Vec{X: 1, Y: 2, Z: 3}, 2, ms3.Vec{X: 1})
	sc, err := bld.Scene()
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		p    ms3.Vec
		want float32
	}{
		{p: ms3.Vec{X: 1, Y: 2, Z: 3}, want: -2},    // center
		{p: ms3.Vec{X: 4, Y: 2, Z: 3}, want: 1},     // outside along x
		{p: ms3.Vec{X: 1, Y: 2, Z: 5}, want: 0},     // on boundary
		{p: ms3.Vec{X: 1, Y: 3, Z: 3}, want: -1},    // inside
		{p: ms3.Vec{X: 1, Y: 2, Z: -7}, want: 8},    // far along -z
	} {
		idx, got := sc.Nearest(tc.p)
		if idx != 0 {
			t.Errorf("point %v: index %d, want 0", tc.p, idx)
		}
		if math32.Abs(got-tc.want) > tol {
			t.Errorf("point %v: distance %g, want %g", tc.p, got, tc.want)
		}
	}
}

func TestCylinderDistance(t *testing.T) {
	const tol = 1e-5
	var bld molray.Builder
	// Axis along z from -1 to 1, radius 0.5.
	bld.AddCylinder(ms3.Vec{Z: -1}, ms3.Vec{Z: 1}, 0.5, ms3.Vec{X: 1})
	sc, err := bld.Scene()
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name string
		p    ms3.Vec
		want float32
	}{
		{name: "beyond bottom cap on axis", p: ms3.Vec{Z: -5}, want: 4},
		{name: "beyond top cap on axis", p: ms3.Vec{Z: 3}, want: 2},
		{name: "outside lateral surface", p: ms3.Vec{X: 2}, want: 1.5},
		{name: "inside center", p: ms3.Vec{}, want: -0.5},
		{name: "on lateral boundary", p: ms3.Vec{X: 0.5}, want: 0},
		{name: "on cap boundary", p: ms3.Vec{Z: 1}, want: 0},
		{name: "outside both radial and axial", p: ms3.Vec{X: 3.5, Z: 5}, want: 5}, // 3-4-5 corner distance
	} {
		got := sc.Distance(tc.p)
		if math32.Abs(got-tc.want) > tol {
			t.Errorf("%s: point %v distance %g, want %g", tc.name, tc.p, got, tc.want)
		}
	}
}

// Coincident shapes must always resolve to the earliest index, across
// repeated queries: downstream shading picks the shape color by this index.
func TestNearestTieBreak(t *testing.T) {
	var bld molray.Builder
	center := ms3.Vec{X: 1, Y: -2, Z: 0.5}
	bld.AddSphere(center, 1, ms3.Vec{X: 1})          // red
	bld.AddSphere(center, 1, ms3.Vec{Z: 1})          // blue, geometrically identical
	sc, err := bld.Scene()
	if err != nil {
		t.Fatal(err)
	}
	queries := []ms3.Vec{
		{},
		center,
		{X: 5, Y: 5, Z: 5},
		{X: 1, Y: -2, Z: 1.5}, // on the shared boundary
		{X: -3, Y: 0.25, Z: 8},
	}
	for _, p := range queries {
		for rep := 0; rep < 3; rep++ {
			idx, _ := sc.Nearest(p)
			if idx != 0 {
				t.Errorf("query %v repetition %d: index %d, want first shape (0)", p, rep, idx)
			}
		}
	}
}

func TestEmptySceneSentinel(t *testing.T) {
	var bld molray.Builder
	sc, err := bld.Scene()
	if err != nil {
		t.Fatal(err)
	}
	idx, dist := sc.Nearest(ms3.Vec{X: 1e6, Y: -1e6})
	if idx != 0 {
		t.Errorf("index %d, want 0", idx)
	}
	if dist != molray.MissDistance {
		t.Errorf("distance %g, want sentinel %g", dist, float32(molray.MissDistance))
	}
}

func TestEvaluateMatchesNearest(t *testing.T) {
	sc := testScene(t)
	pos := []ms3.Vec{
		{},
		{X: 1, Y: 1, Z: 1},
		{X: -2, Y: 0.5, Z: 3},
		{X: 0.1, Y: -0.1, Z: 0},
	}
	dist := make([]float32, len(pos))
	if err := sc.Evaluate(pos, dist, nil); err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		_, want := sc.Nearest(p)
		if dist[i] != want {
			t.Errorf("position %v: batch %g, scalar %g", p, dist[i], want)
		}
	}
	// Idempotence: an unmodified scene yields identical results.
	again := make([]float32, len(pos))
	if err := sc.Evaluate(pos, again, nil); err != nil {
		t.Fatal(err)
	}
	for i := range dist {
		if dist[i] != again[i] {
			t.Errorf("position %v: re-evaluation %g != %g", pos[i], again[i], dist[i])
		}
	}
}

func TestEvaluateBufferErrors(t *testing.T) {
	sc := testScene(t)
	if err := sc.Evaluate(make([]ms3.Vec, 3), make([]float32, 2), nil); err == nil {
		t.Error("expected error on mismatched buffer lengths")
	}
	if err := sc.Evaluate(nil, nil, nil); err == nil {
		t.Error("expected error on empty buffers")
	}
}

func testScene(t *testing.T) *molray.Scene {
	t.Helper()
	var bld molray.Builder
	bld.AddSphere(ms3.Vec{}, 1, ms3.Vec{X: 1})
	bld.AddCylinder(ms3.Vec{X: -1, Y: 2}, ms3.Vec{X: 1, Y: 2}, 0.25, ms3.Vec{Y: 1})
	sc, err := bld.Scene()
	if err != nil {
		t.Fatal(err)
	}
	return sc
}
