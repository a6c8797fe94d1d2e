package molray_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/molray/molray"
	"github.com/soypat/geometry/ms3"
)

func TestBuilderAccumulatesShapeErrors(t *testing.T) {
	bld := molray.Builder{NoShapePanic: true}
	nan := math32.NaN()
	bld.AddSphere(ms3.Vec{}, 0, ms3.Vec{})                          // bad radius
	bld.AddSphere(ms3.Vec{X: nan}, 1, ms3.Vec{})                    // non-finite center
	bld.AddCylinder(ms3.Vec{X: 1}, ms3.Vec{X: 1}, 0.5, ms3.Vec{})   // coincident endpoints
	bld.AddCylinder(ms3.Vec{}, ms3.Vec{X: 1}, -1, ms3.Vec{})        // bad radius
	bld.AddSphere(ms3.Vec{X: 2}, 1, ms3.Vec{X: 1})                  // valid
	sc, err := bld.Scene()
	if err == nil {
		t.Fatal("expected accumulated shape errors")
	}
	if sc.Len() != 1 {
		t.Errorf("scene has %d shapes, want 1 (invalid shapes dropped)", sc.Len())
	}
	if sc.At(0).Kind != molray.KindSphere || sc.At(0).Start.X != 2 {
		t.Errorf("surviving shape %+v is not the valid sphere", sc.At(0))
	}
}

func TestBuilderPanicsByDefault(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on degenerate shape")
		}
	}()
	var bld molray.Builder
	bld.AddCylinder(ms3.Vec{Y: 3}, ms3.Vec{Y: 3}, 0.5, ms3.Vec{})
}

func TestSceneBounds(t *testing.T) {
	const tol = 1e-6
	var bld molray.Builder
	bld.AddSphere(ms3.Vec{}, 1, ms3.Vec{})
	bld.AddCylinder(ms3.Vec{X: 2}, ms3.Vec{X: 5, Y: 1}, 0.5, ms3.Vec{})
	sc, err := bld.Scene()
	if err != nil {
		t.Fatal(err)
	}
	bb := sc.Bounds()
	wantMin := ms3.Vec{X: -1, Y: -1, Z: -1}
	wantMax := ms3.Vec{X: 5.5, Y: 1.5, Z: 1}
	if ms3.Norm(ms3.Sub(bb.Min, wantMin)) > tol || ms3.Norm(ms3.Sub(bb.Max, wantMax)) > tol {
		t.Errorf("bounds %+v, want min %v max %v", bb, wantMin, wantMax)
	}
}

func TestKindString(t *testing.T) {
	if molray.KindSphere.String() != "sphere" || molray.KindCylinder.String() != "cylinder" {
		t.Error("unexpected kind names")
	}
	if molray.Kind(99).String() != "unknown" {
		t.Error("unexpected name for invalid kind")
	}
}
