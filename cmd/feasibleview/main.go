// Command feasibleview runs a Generator to completion and opens an
// SDL2 window that blits the finished Design into a streaming texture,
// staying open for inspection (with an F12 screenshot hook) until the
// user closes it - a single-view trim of a multi-window engine's own
// window/renderer/texture setup.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/flga/feasible/internal/brush"
	"github.com/flga/feasible/internal/design"
	"github.com/flga/feasible/internal/generator"
	"github.com/flga/feasible/internal/latentio"
	"github.com/flga/feasible/internal/viz"
)

func init() {
	runtime.LockOSThread()
}

type statusColors map[design.Status][4]byte

func defaultColors() statusColors {
	return statusColors{
		design.Unassigned:      {40, 40, 40, 255},
		design.Painted:         {220, 220, 220, 255},
		design.PixelImpossible: {120, 30, 30, 255},
		design.PixelExisting:   {230, 230, 230, 255},
		design.PixelPossible:   {60, 60, 60, 255},
		design.PixelRequired:   {230, 180, 40, 255},
		design.TouchRequired:   {230, 120, 40, 255},
		design.TouchInvalid:    {140, 30, 140, 255},
		design.TouchExisting:   {40, 160, 230, 255},
		design.TouchValid:      {40, 160, 60, 255},
		design.TouchFree:       {160, 220, 120, 255},
		design.TouchResolving:  {230, 60, 60, 255},
	}
}

func render(tex *sdl.Texture, d *design.Design, colors statusColors) error {
	view := d.Snapshot()
	pixels, _, err := tex.Lock(nil)
	if err != nil {
		return fmt.Errorf("feasibleview: lock texture: %s", err)
	}
	defer tex.Unlock()

	for idx, status := range view.Pixel {
		c := colors[status]
		o := idx * 4
		pixels[o+0] = c[0]
		pixels[o+1] = c[1]
		pixels[o+2] = c[2]
		pixels[o+3] = c[3]
	}
	return nil
}

func run(latentPath string, brushWidth, notch, zoom int) error {
	latentT, _, shape, err := latentio.LoadFile(latentPath)
	if err != nil {
		return err
	}
	b := brush.NotchedSquare(brushWidth, notch)

	gen, err := generator.New(shape, b, latentT)
	if err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("feasibleview: unable to init sdl: %s", err)
	}
	defer sdl.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer(
		int32(shape.Cols*zoom), int32(shape.Rows*zoom), sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("feasibleview: unable to create window: %s", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()
	window.SetTitle("feasibleview")

	tex, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(shape.Cols), int32(shape.Rows))
	if err != nil {
		return fmt.Errorf("feasibleview: unable to create texture: %s", err)
	}
	defer tex.Destroy()

	colors := defaultColors()
	d := gen.Design()

	// Generator.Run drains both queues in one call - there is no
	// single-step entry point to animate placement by placement - so
	// the window's job is to render the finished design and stay open
	// for inspection (F12 screenshots) until the user closes it.
	if _, _, err := gen.Run(); err != nil {
		return err
	}

	frame := 0
	quit := false
	for !quit {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				quit = true
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_F12 {
					if err := saveScreenshot(d, frame); err != nil {
						fmt.Fprintln(os.Stderr, "feasibleview:", err)
					}
					frame++
				}
			}
		}

		if err := render(tex, d, colors); err != nil {
			return err
		}
		renderer.Clear()
		renderer.Copy(tex, nil, nil)
		renderer.Present()
		sdl.Delay(16)
	}

	return nil
}

func saveScreenshot(d *design.Design, frame int) error {
	path := fmt.Sprintf("feasibleview_%04d.tga", frame)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return viz.SaveTGA(f, d)
}

func main() {
	latentPath := flag.String("latent", "", "path to the latent_t_<seed>_<M>x<N>.bin field (required)")
	brushWidth := flag.Int("brush-width", 5, "width of the default notched-square brush")
	notch := flag.Int("notch", 1, "corner notch size for the default brush")
	zoom := flag.Int("zoom", 8, "pixels per grid cell")
	flag.Parse()

	if *latentPath == "" {
		fmt.Fprintln(os.Stderr, "feasibleview: -latent is required")
		os.Exit(2)
	}

	if err := run(*latentPath, *brushWidth, *notch, *zoom); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
