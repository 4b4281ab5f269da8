package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

type config struct {
	width, height int
	tps           int

	pointCharge bool
	grid        bool
	coords      bool
	heatmap     bool
}

func (c config) validate() error {
	var errs []error
	if c.width < minWidth || c.height < minHeight {
		errs = append(errs, fmt.Errorf("window %dx%d is smaller than %dx%d", c.width, c.height, minWidth, minHeight))
	}
	if c.tps <= 0 {
		errs = append(errs, fmt.Errorf("invalid tps: %d", c.tps))
	}
	return errors.Join(errs...)
}

func main() {
	var cfg config
	flag.IntVar(&cfg.width, "width", 1000, "Window width.")
	flag.IntVar(&cfg.height, "height", 1000, "Window height.")
	flag.IntVar(&cfg.tps, "tps", 30, "Updates per second.")
	flag.BoolVar(&cfg.pointCharge, "point", false, "Start with point charges instead of line charges.")
	flag.BoolVar(&cfg.grid, "grid", false, "Snap charges to a grid.")
	flag.BoolVar(&cfg.coords, "coords", false, "Show coordinates on hover.")
	flag.BoolVar(&cfg.heatmap, "heatmap", false, "Shade the background by field strength.")
	flag.Parse()

	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}
	log.Printf("electric-field: %dx%d, point charges=%v, grid=%v", cfg.width, cfg.height, cfg.pointCharge, cfg.grid)

	ebiten.SetWindowSize(cfg.width, cfg.height)
	ebiten.SetWindowTitle("Electrostatic Fields")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.tps)

	if err := ebiten.RunGame(NewGame(cfg)); err != nil {
		log.Fatal(err)
	}
}
