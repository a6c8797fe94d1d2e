// Package viewer opens an interactive window on a molecule scene. The scene
// is raymarched either on the GPU, by the fragment shader generated in
// package glscene, or on the CPU by package render with frames blitted to a
// fullscreen texture. Both paths execute the same distance field, march loop
// and shading, so switching backends does not change the image.
package viewer

import "context"

// Config configures [Run].
type Config struct {
	// Width and Height are the window dimensions in pixels.
	Width  int
	Height int
	// Title is the window title. Empty selects a default.
	Title string
	// UseCPU renders frames with the CPU pipeline instead of the generated
	// fragment shader.
	UseCPU bool
	// Supersample is forwarded to the CPU renderer. Ignored on the GPU path,
	// which renders at native resolution.
	Supersample int
	// Context optionally terminates the window loop when done.
	Context context.Context
}

func (cfg *Config) defaults() {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Title == "" {
		cfg.Title = "molray"
	}
}
