// Command umbra-view opens the demo scene in an interactive window rendered on the GPU.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine"
	"github.com/Carmen-Shannon/umbra/engine/camera"
	"github.com/Carmen-Shannon/umbra/engine/config"
	"github.com/Carmen-Shannon/umbra/engine/renderer"
	"github.com/Carmen-Shannon/umbra/engine/scene"
	"github.com/Carmen-Shannon/umbra/engine/window"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "umbra-view:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	logger := cfg.Logger("umbra-view")

	opts, err := rendererOptions(cfg, logger)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Title),
		window.WithSize(cfg.Width, cfg.Height),
		window.WithResizable(!cfg.Window.FixedSize),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, opts...)
	if err != nil {
		return err
	}
	defer r.Release()

	cam := scene.NewDemoCamera(win.Width(), win.Height())
	sc, err := scene.NewDemoScene(cam, scene.WithLogger(logger))
	if err != nil {
		return err
	}

	eng := engine.NewEngine(
		engine.WithLogger(logger),
		engine.WithProfiling(cfg.Debug),
		engine.WithWindow(win),
		engine.WithScene(sc),
		engine.WithRenderer(r),
	)
	ed := newEditor(win, sc, camera.NewCameraController(cam), r, logger)
	ed.bind()
	eng.SetTickCallback(ed.tick)

	logger.Infof("left click: select or spawn, right drag: look, WASD/Space/Ctrl: fly, Shift: boost, M: shading mode, B: shadow bias, Del: delete selection")
	eng.Run()
	return nil
}

// rendererOptions translates the settings into GPU renderer options.
func rendererOptions(cfg config.Config, logger common.Logger) ([]renderer.RendererBuilderOption, error) {
	mode, err := cfg.ShadingMode()
	if err != nil {
		return nil, err
	}
	bias, err := cfg.BiasMode()
	if err != nil {
		return nil, err
	}
	present, err := renderer.ParsePresentMode(cfg.Window.PresentMode)
	if err != nil {
		return nil, err
	}
	return []renderer.RendererBuilderOption{
		renderer.WithLogger(logger),
		renderer.WithPresentMode(present),
		renderer.WithMode(mode),
		renderer.WithBiasMode(bias),
		renderer.WithShadowResolution(cfg.Shadow.Resolution),
		renderer.WithShadowExtent(cfg.Shadow.HalfExtent, cfg.Shadow.Near, cfg.Shadow.Far),
	}, nil
}
