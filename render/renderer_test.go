package render

import (
	"bytes"
	"image"
	"image/gif"
	"testing"

	"github.com/molray/molray"
	"github.com/soypat/geometry/ms3"
)

func TestRenderEmptySceneIsBackground(t *testing.T) {
	sc := buildScene(t, func(bld *molray.Builder) {})
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	var rnd Renderer
	if err := rnd.Render(sc, LookAt(ms3.Vec{Z: 5}, ms3.Vec{}), img); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			if c := img.RGBAAt(x, y); c != Background {
				t.Fatalf("pixel (%d,%d) = %v, want background %v", x, y, c, Background)
			}
		}
	}
}

func TestRenderSphereFrame(t *testing.T) {
	sc := buildScene(t, func(bld *molray.Builder) {
		bld.AddSphere(ms3.Vec{}, 1, ms3.Vec{X: 1}) // red
	})
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var rnd Renderer
	if err := rnd.Render(sc, LookAt(ms3.Vec{Z: 4}, ms3.Vec{}), img); err != nil {
		t.Fatal(err)
	}
	center := img.RGBAAt(16, 16)
	if center == Background {
		t.Error("center pixel is background, sphere not rendered")
	}
	if center.R == 0 || center.R <= center.B {
		t.Errorf("center pixel %v does not show the red base color", center)
	}
	if corner := img.RGBAAt(0, 0); corner != Background {
		t.Errorf("corner pixel %v, want background", corner)
	}
	if center.A != 255 {
		t.Error("output not opaque")
	}
}

// Identical scene and camera must produce identical frames regardless of
// worker scheduling.
func TestRenderDeterminism(t *testing.T) {
	sc := buildScene(t, func(bld *molray.Builder) {
		bld.AddSphere(ms3.Vec{X: -0.5}, 0.8, ms3.Vec{X: 1})
		bld.AddCylinder(ms3.Vec{X: -0.5}, ms3.Vec{X: 1.5, Y: 0.5}, 0.2, ms3.Vec{Y: 1})
	})
	cam := LookAt(ms3.Vec{Z: 5}, ms3.Vec{})
	a := image.NewRGBA(image.Rect(0, 0, 24, 24))
	b := image.NewRGBA(image.Rect(0, 0, 24, 24))
	one := Renderer{Workers: 1}
	many := Renderer{Workers: 8}
	if err := one.Render(sc, cam, a); err != nil {
		t.Fatal(err)
	}
	if err := many.Render(sc, cam, b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("frames differ between 1-worker and 8-worker renders")
	}
}

func TestRenderSupersample(t *testing.T) {
	sc := buildScene(t, func(bld *molray.Builder) {
		bld.AddSphere(ms3.Vec{}, 1, ms3.Vec{X: 1})
	})
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	rnd := Renderer{Supersample: 2}
	if err := rnd.Render(sc, LookAt(ms3.Vec{Z: 4}, ms3.Vec{}), img); err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 20 {
		t.Error("supersampling changed output dimensions")
	}
	if img.RGBAAt(10, 10) == Background {
		t.Error("center pixel is background, sphere not rendered")
	}
}

func TestRenderArgumentErrors(t *testing.T) {
	sc := buildScene(t, func(bld *molray.Builder) {})
	var rnd Renderer
	if err := rnd.Render(nil, Camera{}, image.NewRGBA(image.Rect(0, 0, 4, 4))); err == nil {
		t.Error("expected error for nil scene")
	}
	if err := rnd.Render(sc, Camera{}, nil); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestRenderTurntableGIF(t *testing.T) {
	sc := buildScene(t, func(bld *molray.Builder) {
		bld.AddSphere(ms3.Vec{}, 1, ms3.Vec{X: 0.8, Y: 0.2})
	})
	var buf bytes.Buffer
	cfg := TurntableConfig{Width: 12, Height: 10, Frames: 3}
	if err := RenderTurntableGIF(&buf, sc, cfg); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("decoded %d frames, want 3", len(anim.Image))
	}
	if anim.LoopCount != 0 {
		t.Errorf("loop count %d, want endless loop", anim.LoopCount)
	}
}

func TestAnnotateBasicFont(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 30))
	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)
	if err := Annotate(img, "H2O", nil); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(before, img.Pix) {
		t.Error("annotation drew nothing")
	}
	if err := Annotate(img, "", nil); err != nil {
		t.Errorf("empty label: %v", err)
	}
}
