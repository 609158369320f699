package cmd

import (
	"image"
	"image/png"
	"os"

	"github.com/fralonra/Shape-Z-sub000/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var errMissingConfig = errors.New("missing scene config argument")

// Load the scene config passed as the first argument and apply render flag
// overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if ctx.NArg() != 1 {
		return nil, errMissingConfig
	}

	cfg, err := config.Load(ctx.Args().First())
	if err != nil {
		return nil, err
	}

	r := &cfg.Render
	if ctx.IsSet("width") {
		r.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		r.Height = ctx.Int("height")
	}
	if ctx.IsSet("iterations") {
		r.Iterations = ctx.Int("iterations")
	}
	if ctx.IsSet("bounces") {
		r.Bounces = ctx.Int("bounces")
	}
	if ctx.IsSet("workers") {
		r.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		r.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("no-quantize") {
		quantize := !ctx.Bool("no-quantize")
		r.Quantize = &quantize
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %q", path)
	}
	defer f.Close()

	if err = png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "could not encode png file %q", path)
	}
	return nil
}
