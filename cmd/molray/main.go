// Command molray renders small molecules from V2000 molfiles with a raymarched
// ball-and-stick representation. It writes still PNG renders, turntable GIF
// animations, or opens an interactive viewer window.
//
//	molray -mol caffeine.mol -o caffeine.png
//	molray -mol caffeine.mol -o caffeine.gif -frames 60
//	molray -mol caffeine.mol
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chewxy/math32"

	"github.com/molray/molray"
	"github.com/molray/molray/chem"
	"github.com/molray/molray/render"
	"github.com/molray/molray/viewer"
)

var (
	flagMol         = flag.String("mol", "", "path to a V2000 molfile describing the compound (required)")
	flagElements    = flag.String("elements", "", "path to a JSON element table; empty uses the builtin CPK table")
	flagOutput      = flag.String("o", "", "output path, .png for a still or .gif for a turntable; empty opens the interactive viewer")
	flagWidth       = flag.Int("width", 800, "image or window width in pixels")
	flagHeight      = flag.Int("height", 600, "image or window height in pixels")
	flagSupersample = flag.Int("ss", 2, "supersampling factor for CPU rendering")
	flagFrames      = flag.Int("frames", 36, "frame count of one turntable revolution")
	flagPitch       = flag.Float64("pitch", 15, "camera elevation for still and turntable renders, in degrees")
	flagYaw         = flag.Float64("yaw", 30, "camera azimuth for still renders, in degrees")
	flagFont        = flag.String("font", "", "TrueType font file for the name label; empty uses the builtin face")
	flagNoLabel     = flag.Bool("nolabel", false, "omit the compound name label from still renders")
	flagCPU         = flag.Bool("cpu", false, "raymarch on the CPU in the interactive viewer instead of the GPU")
)

func main() {
	flag.Parse()
	if *flagMol == "" {
		flag.Usage()
		os.Exit(2)
	}
	// GLFW requires the main OS thread.
	if *flagOutput == "" {
		runtime.LockOSThread()
	}
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	compound, err := loadCompound(*flagMol)
	if err != nil {
		return err
	}
	elems, err := loadElements(*flagElements)
	if err != nil {
		return err
	}
	sc, err := chem.BuildScene(compound, elems)
	if err != nil {
		return fmt.Errorf("build scene for %q: %w", *flagMol, err)
	}
	log.Printf("%s: %d atoms, %d bonds, %d shapes", compound.Name(), len(compound.Atoms), len(compound.Bonds), sc.Len())

	switch ext := strings.ToLower(filepath.Ext(*flagOutput)); {
	case *flagOutput == "":
		return viewer.Run(sc, viewer.Config{
			Width:       *flagWidth,
			Height:      *flagHeight,
			Title:       "molray - " + compound.Name(),
			UseCPU:      *flagCPU,
			Supersample: *flagSupersample,
		})
	case ext == ".gif":
		return writeTurntable(sc)
	case ext == ".png":
		return writeStill(sc, compound.Name())
	default:
		return fmt.Errorf("output %q: unsupported extension, want .png or .gif", *flagOutput)
	}
}

func loadCompound(path string) (*chem.Compound, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	compound, err := chem.ParseCompound(fp)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return compound, nil
}

func loadElements(path string) (map[string]chem.ElementInfo, error) {
	if path == "" {
		return nil, nil // BuildScene falls back to the builtin table.
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	elems, err := chem.LoadElements(fp)
	if err != nil {
		return nil, fmt.Errorf("parse element table %q: %w", path, err)
	}
	return elems, nil
}

func writeStill(sc *molray.Scene, name string) error {
	bb := sc.Bounds()
	dist := 1.5 * bb.Diagonal()
	if dist <= 0 {
		dist = 3
	}
	cam := render.Orbit(bb.Center(), degrees(*flagYaw), degrees(*flagPitch), dist)
	img := image.NewRGBA(image.Rect(0, 0, *flagWidth, *flagHeight))
	rnd := render.Renderer{Supersample: *flagSupersample}
	if err := rnd.Render(sc, cam, img); err != nil {
		return err
	}
	if !*flagNoLabel {
		var ttf []byte
		if *flagFont != "" {
			var err error
			ttf, err = os.ReadFile(*flagFont)
			if err != nil {
				return err
			}
		}
		if err := render.Annotate(img, name, ttf); err != nil {
			return fmt.Errorf("draw label: %w", err)
		}
	}
	fp, err := os.Create(*flagOutput)
	if err != nil {
		return err
	}
	defer fp.Close()
	return render.WritePNG(fp, img)
}

func writeTurntable(sc *molray.Scene) error {
	fp, err := os.Create(*flagOutput)
	if err != nil {
		return err
	}
	defer fp.Close()
	return render.RenderTurntableGIF(fp, sc, render.TurntableConfig{
		Width:       *flagWidth,
		Height:      *flagHeight,
		Frames:      *flagFrames,
		Pitch:       degrees(*flagPitch),
		Supersample: *flagSupersample,
	})
}

func degrees(deg float64) float32 {
	return float32(deg) * math32.Pi / 180
}
