// Command umbra-snapshot renders the demo scene with the software renderer and writes the
// result as a PNG. It needs no GPU or display, which makes it the reference for checking
// the GPU viewer's output.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/Carmen-Shannon/umbra/engine/config"
	"github.com/Carmen-Shannon/umbra/engine/deferred"
	"github.com/Carmen-Shannon/umbra/engine/scene"
	"golang.org/x/image/draw"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	out := flag.String("out", "umbra.png", "output PNG path")
	scale := flag.Int("scale", 1, "integer upscale factor applied to the rendered image")
	mode := flag.String("mode", "", "override the shading mode (deferred or forward)")
	flag.Parse()

	if err := run(*configPath, *out, *scale, *mode); err != nil {
		fmt.Fprintln(os.Stderr, "umbra-snapshot:", err)
		os.Exit(1)
	}
}

func run(configPath, out string, scale int, mode string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if mode != "" {
		cfg.Shading = mode
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if scale < 1 {
		return fmt.Errorf("scale %d must be at least 1", scale)
	}
	logger := cfg.Logger("umbra-snapshot")

	sc, err := scene.NewDemoScene(scene.NewDemoCamera(cfg.Width, cfg.Height), scene.WithLogger(logger))
	if err != nil {
		return err
	}
	f, err := sc.Frame(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	opts, err := cfg.RendererOptions(logger)
	if err != nil {
		return err
	}
	r := deferred.NewRenderer(opts...)
	defer r.Close()

	res, err := r.Render(f)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	logger.Infof("rendered %dx%d %s frame: %d deferred, %d forward, %d shadow casters in %s",
		res.Width(), res.Height(), r.Mode(), res.Stats.Deferred, res.Stats.Forward, res.Stats.ShadowCasters, res.Stats.Duration)

	var img image.Image = res.Image()
	if scale > 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, res.Width()*scale, res.Height()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}
	return writePNG(out, img)
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
