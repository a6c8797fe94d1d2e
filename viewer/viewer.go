//go:build !tinygo && cgo

package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"

	"github.com/molray/molray"
	"github.com/molray/molray/glscene"
	"github.com/molray/molray/render"
)

// Run opens an interactive window on the scene and blocks until the window
// closes, the Escape key is pressed or cfg.Context is done.
//
// Controls: hold the left mouse button and drag to look around, W/A/S/D to
// move, Space and LeftShift to move up and down, scroll to dolly along the
// view direction.
func Run(sc *molray.Scene, cfg Config) error {
	if sc == nil {
		return errors.New("viewer: nil scene")
	}
	cfg.defaults()
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer term()

	ctl := render.NewController()
	dollyStep := placeCamera(ctl, sc)
	bindInput(window, ctl, dollyStep)

	if cfg.UseCPU {
		return loopCPU(window, sc, ctl, cfg)
	}
	return loopGPU(window, sc, ctl, cfg.Context)
}

// placeCamera backs the camera away from the scene along +z until the whole
// bounding box fits in view and returns a scroll step sized to the scene.
func placeCamera(ctl *render.Controller, sc *molray.Scene) (dollyStep float32) {
	bb := sc.Bounds()
	dist := 1.5 * bb.Diagonal()
	if dist < 3 {
		dist = 3
	}
	eye := ms3.Add(bb.Center(), ms3.Vec{Z: dist})
	ctl.SetPose(eye, -90, 0)
	return dist * 0.1
}

func bindInput(window *glfw.Window, ctl *render.Controller, dollyStep float32) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		var act render.Action
		switch key {
		case glfw.KeyW:
			act = render.ActionForward
		case glfw.KeyS:
			act = render.ActionBackward
		case glfw.KeyA:
			act = render.ActionLeft
		case glfw.KeyD:
			act = render.ActionRight
		case glfw.KeySpace:
			act = render.ActionUp
		case glfw.KeyLeftShift:
			act = render.ActionDown
		default:
			return
		}
		switch action {
		case glfw.Press:
			ctl.SetAction(act, true)
		case glfw.Release:
			ctl.SetAction(act, false)
		}
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		if action == glfw.Press {
			ctl.SetMousePressed(true)
			window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else if action == glfw.Release {
			ctl.SetMousePressed(false)
			window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		ctl.MouseMoved(float32(xpos), float32(ypos))
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		ctl.Dolly(float32(yoff) * dollyStep)
	})
}

type sceneUniforms struct {
	resolution int32
	camPos     int32
	camRight   int32
	camUp      int32
	camForward int32
	shapeCount int32
}

// loopGPU raymarches the scene in the generated fragment shader. The packed
// shape buffer is uploaded once; only the camera uniforms change per frame.
func loopGPU(window *glfw.Window, sc *molray.Scene, ctl *render.Controller, ctx context.Context) error {
	frag := glscene.AppendFragmentShader(nil)
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   string(append(glscene.AppendVertexShader(nil), 0)),
		Fragment: string(append(frag, 0)),
	})
	if err != nil {
		return fmt.Errorf("%s\n\n%w", frag, err)
	}
	prog.Bind()
	vao, err := makeQuad(prog)
	if err != nil {
		return err
	}
	var u sceneUniforms
	for _, loc := range []struct {
		name string
		dst  *int32
	}{
		{glscene.UniformResolution, &u.resolution},
		{glscene.UniformCamPos, &u.camPos},
		{glscene.UniformCamRight, &u.camRight},
		{glscene.UniformCamUp, &u.camUp},
		{glscene.UniformCamForward, &u.camForward},
		{glscene.UniformShapeCount, &u.shapeCount},
	} {
		*loc.dst, err = prog.UniformLocation(loc.name + "\x00")
		if err != nil {
			return err
		}
	}

	buf := glscene.PackScene(sc)
	var ssbo uint32
	gl.GenBuffers(1, &ssbo)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	if len(buf) > 0 {
		gl.BufferData(gl.SHADER_STORAGE_BUFFER, len(buf), gl.Ptr(buf), gl.STATIC_DRAW)
	}
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, glscene.ShapeBufferBinding, ssbo)
	gl.Uniform1i(u.shapeCount, int32(sc.Len()))

	previous := glfw.GetTime()
	for !window.ShouldClose() {
		if err := ctxDone(ctx); err != nil {
			return err
		}
		now := glfw.GetTime()
		dt := float32(now - previous)
		previous = now
		ctl.Update(dt)
		cam := ctl.Camera()

		width, height := window.GetSize()
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		prog.Bind()
		gl.Uniform2f(u.resolution, float32(width), float32(height))
		uniformVec(u.camPos, cam.Position)
		uniformVec(u.camRight, cam.Right)
		uniformVec(u.camUp, cam.Up)
		uniformVec(u.camForward, cam.Forward)
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)

		window.SwapBuffers()
		time.Sleep(time.Second / 60)
		glfw.PollEvents()
	}
	return nil
}

// loopCPU renders frames with [render.Renderer] and blits them to the window
// through a fullscreen texture.
func loopCPU(window *glfw.Window, sc *molray.Scene, ctl *render.Controller, cfg Config) error {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   string(append(glscene.AppendVertexShader(nil), 0)),
		Fragment: blitFragment,
	})
	if err != nil {
		return err
	}
	prog.Bind()
	vao, err := makeQuad(prog)
	if err != nil {
		return err
	}
	frameUniform, err := prog.UniformLocation("uFrame\x00")
	if err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(cfg.Width), int32(cfg.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.Uniform1i(frameUniform, 0)

	renderer := render.Renderer{Supersample: cfg.Supersample}
	previous := glfw.GetTime()
	for !window.ShouldClose() {
		if err := ctxDone(cfg.Context); err != nil {
			return err
		}
		now := glfw.GetTime()
		dt := float32(now - previous)
		previous = now
		ctl.Update(dt)
		if err := renderer.Render(sc, ctl.Camera(), img); err != nil {
			return err
		}
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(cfg.Width), int32(cfg.Height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

		gl.Clear(gl.COLOR_BUFFER_BIT)
		prog.Bind()
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)

		window.SwapBuffers()
		time.Sleep(time.Second / 60)
		glfw.PollEvents()
	}
	return nil
}

// blitFragment samples the CPU frame texture. The v coordinate is flipped
// since image rows grow downward while texture rows grow upward.
const blitFragment = `#version 430
in vec2 vTexCoord;
out vec4 fragColor;
uniform sampler2D uFrame;
void main() {
	fragColor = texture(uFrame, vec2(vTexCoord.x, 1.0 - vTexCoord.y));
}
` + "\x00"

// makeQuad uploads a screen-covering triangle pair and wires its positions to
// the program's aPos attribute.
func makeQuad(prog glgl.Program) (vao uint32, err error) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	vertices := []float32{
		-1.0, -1.0,
		1.0, -1.0,
		-1.0, 1.0,
		-1.0, 1.0,
		1.0, -1.0,
		1.0, 1.0,
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return vao, err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))
	return vao, nil
}

func uniformVec(loc int32, v ms3.Vec) {
	gl.Uniform3f(loc, v.X, v.Y, v.Z)
}

func ctxDone(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("create GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
