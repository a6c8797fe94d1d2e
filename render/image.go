package render

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"github.com/chewxy/math32"
	"github.com/molray/molray"
)

// WritePNG encodes img to w as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// TurntableConfig configures [RenderTurntableGIF].
type TurntableConfig struct {
	Width  int
	Height int
	// Frames is the number of frames in one full revolution. Defaults to 36.
	Frames int
	// DelayCS is the per-frame delay in hundredths of a second. Defaults to 5.
	DelayCS int
	// Pitch is the fixed camera elevation in radians.
	Pitch float32
	// Distance from the scene center. Zero or negative derives it from the
	// scene bounds so the whole molecule stays in frame.
	Distance float32
	// Supersample is forwarded to the frame renderer.
	Supersample int
}

// RenderTurntableGIF renders the scene from a camera orbiting its bounding
// box center and writes the frames as a looping GIF animation.
func RenderTurntableGIF(w io.Writer, sc *molray.Scene, cfg TurntableConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("non-positive turntable frame dimensions")
	}
	if cfg.Frames <= 0 {
		cfg.Frames = 36
	}
	if cfg.DelayCS <= 0 {
		cfg.DelayCS = 5
	}
	bb := sc.Bounds()
	center := bb.Center()
	dist := cfg.Distance
	if dist <= 0 {
		dist = 1.5 * bb.Diagonal()
		if dist <= 0 {
			dist = 3
		}
	}
	rnd := Renderer{Supersample: cfg.Supersample}
	frame := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < cfg.Frames; i++ {
		yaw := 2 * math32.Pi * float32(i) / float32(cfg.Frames)
		cam := Orbit(center, yaw, cfg.Pitch, dist)
		if err := rnd.Render(sc, cam, frame); err != nil {
			return err
		}
		pal := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, cfg.DelayCS)
	}
	return gif.EncodeAll(w, &anim)
}
