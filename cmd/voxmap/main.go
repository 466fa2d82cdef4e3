package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/xlab/closer"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"voxsim/internal/config"
	"voxsim/internal/game"
	"voxsim/internal/world"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	seed       = flag.Int64("seed", 0, "world seed (overrides the config when non-zero)")
	radius     = flag.Int("radius", 4, "chunks around the origin to render")
	scale      = flag.Int("scale", 4, "pixels per block")
	out        = flag.String("out", "map.bmp", "output BMP file")
)

// palette colours the top block of each column. Unknown ids are drawn grey.
var palette = map[string]color.RGBA{
	"grass":    {R: 95, G: 159, B: 53, A: 255},
	"dirt":     {R: 134, G: 96, B: 67, A: 255},
	"stone":    {R: 125, G: 125, B: 125, A: 255},
	"coal_ore": {R: 45, G: 45, B: 45, A: 255},
	"iron_ore": {R: 216, G: 175, B: 147, A: 255},
}

func main() {
	flag.Parse()
	log := logrus.StandardLogger()
	closer.Bind(func() { log.Info("voxmap done") })

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			closer.Fatalln(err)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.DrawDistance = *radius
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		closer.Fatalln(err)
	}

	w, err := game.NewWorld(cfg, log, nil)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(w.Close)
	w.Generate()

	img := render(w, cfg.DrawDistance)
	if *scale > 1 {
		b := img.Bounds()
		big := image.NewRGBA(image.Rect(0, 0, b.Dx()**scale, b.Dy()**scale))
		draw.NearestNeighbor.Scale(big, big.Bounds(), img, b, draw.Src, nil)
		img = big
	}

	if err := write(*out, img); err != nil {
		closer.Fatalln(err)
	}
	log.WithFields(logrus.Fields{"file": *out, "seed": cfg.Seed, "chunks": len(w.Chunks())}).Info("map written")
	closer.Close()
}

// render draws one pixel per column, shaded by surface height.
func render(w *world.World, radius int) *image.RGBA {
	width := w.Size().Width
	height := w.Size().Height
	side := (2*radius + 1) * width
	origin := -radius * width

	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for pz := range side {
		for px := range side {
			x, z := origin+px, origin+pz
			y, ok := w.SurfaceHeight(x, z)
			if !ok {
				continue
			}
			id, _ := w.Block(x, y, z)
			img.SetRGBA(px, pz, shade(colorOf(w, id), y, height))
		}
	}
	return img
}

func colorOf(w *world.World, id world.BlockID) color.RGBA {
	if t, ok := w.Registry().Get(id); ok {
		if c, ok := palette[t.Name]; ok {
			return c
		}
	}
	return color.RGBA{R: 160, G: 160, B: 160, A: 255}
}

// shade darkens low columns and brightens high ones.
func shade(c color.RGBA, y, height int) color.RGBA {
	f := 0.6 + 0.6*float64(y)/float64(max(height-1, 1))
	scaleC := func(v uint8) uint8 { return uint8(min(float64(v)*f, 255)) }
	return color.RGBA{R: scaleC(c.R), G: scaleC(c.G), B: scaleC(c.B), A: 255}
}

func write(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("voxmap: create %s: %w", path, err)
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("voxmap: encode: %w", err)
	}
	return f.Close()
}
