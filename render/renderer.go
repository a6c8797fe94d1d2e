package render

import (
	"errors"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/molray/molray"
	"golang.org/x/image/draw"
)

// Renderer renders frames of a scene on the CPU. The per-pixel pipeline is a
// pure function of (pixel, camera, resolution, scene) with no shared mutable
// state, so rows are sharded across a worker pool; pixel ordering is
// irrelevant to the result. The scene must not be mutated while a frame is
// in flight.
//
// The zero value renders with one worker per CPU and no supersampling.
type Renderer struct {
	// Workers is the number of rendering goroutines. Zero or negative
	// selects [runtime.NumCPU].
	Workers int
	// Supersample renders at an integer multiple of the target resolution
	// and downsamples with Catmull-Rom. Values below 2 disable it.
	Supersample int
}

// Render renders one frame of the scene into img with the given camera.
// Every pixel reaches a terminal hit or miss state before Render returns;
// a frame is never partially committed.
func (r *Renderer) Render(sc *molray.Scene, cam Camera, img *image.RGBA) error {
	if sc == nil {
		return errors.New("nil scene")
	} else if img == nil || img.Bounds().Empty() {
		return errors.New("nil or empty target image")
	}
	if r.Supersample > 1 {
		b := img.Bounds()
		big := image.NewRGBA(image.Rect(0, 0, b.Dx()*r.Supersample, b.Dy()*r.Supersample))
		r.renderInto(sc, cam, big)
		draw.CatmullRom.Scale(img, b, big, big.Bounds(), draw.Src, nil)
		return nil
	}
	r.renderInto(sc, cam, img)
	return nil
}

func (r *Renderer) renderInto(sc *molray.Scene, cam Camera, img *image.RGBA) {
	b := img.Bounds()
	width := float32(b.Dx())
	height := float32(b.Dy())
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				y := int(next.Add(1)) - 1
				if y >= b.Dy() {
					return
				}
				renderRow(sc, cam, img, b, y, width, height)
			}
		}()
	}
	wg.Wait()
}

func renderRow(sc *molray.Scene, cam Camera, img *image.RGBA, b image.Rectangle, y int, width, height float32) {
	// Image rows grow downward while the viewport's y axis points up.
	py := height - (float32(y) + 0.5)
	for x := 0; x < b.Dx(); x++ {
		px := float32(x) + 0.5
		dir := cam.Ray(px, py, width, height)
		tr := MarchRay(sc, cam.Position, dir)
		c := Background
		if tr.State == StateHit {
			c = Shade(tr, sc.At(tr.Shape).Color, cam.Position)
		}
		img.SetRGBA(b.Min.X+x, b.Min.Y+y, c)
	}
}
