package cmd

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/fralonra/Shape-Z-sub000/config"
	"github.com/fralonra/Shape-Z-sub000/renderer"
	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/tracer/integrator"
	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Render a material thumbnail on the preview sphere.
func RenderPreview(ctx *cli.Context) error {
	setupLogging(ctx)

	index := ctx.Int("material")
	if index < 1 || index >= scene.PaletteSize-1 {
		return errors.Errorf("material index %d outside [1, %d]", index, scene.PaletteSize-2)
	}

	palette := scene.DefaultPalette()
	background := types.XYZ(0.05, 0.05, 0.08)
	if ctx.NArg() == 1 {
		cfg, err := config.Load(ctx.Args().First())
		if err != nil {
			return err
		}
		sc, err := cfg.Build()
		if err != nil {
			return err
		}
		palette, background = sc.Palette, sc.Background
	}

	size := uint32(ctx.Int("size"))
	samples := uint32(ctx.Int("samples"))
	if size == 0 || samples == 0 {
		return errors.New("size and samples must be positive")
	}

	m := palette.Get(uint8(index))
	ps := integrator.NewPreviewSphere(m, background)
	accum := renderer.NewAccumulator(size, size)

	start := time.Now()
	renderPreviewRows(ps, accum, samples, ctx.Int64("seed"))
	logger.Infof("rendered %dx%d preview of material %d in %s", size, size, index, time.Since(start))

	imgFile := ctx.String("out")
	if err := writePNG(imgFile, accum.Image()); err != nil {
		return err
	}
	logger.Noticef("wrote preview to %s", imgFile)
	return nil
}

// Trace the preview with one goroutine per cpu; each goroutine owns a private
// generator and an interleaved set of rows.
func renderPreviewRows(ps *integrator.PreviewSphere, accum *renderer.Accumulator, samples uint32, seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	frameW, frameH := accum.Width(), accum.Height()
	resolution := types.XY(float32(frameW), float32(frameH))
	workers := runtime.NumCPU()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(w)))
			for y := uint32(w); y < frameH; y += uint32(workers) {
				for x := uint32(0); x < frameW; x++ {
					uv := types.XY(float32(x)/resolution[0], float32(y)/resolution[1])
					for iter := uint32(0); iter < samples; iter++ {
						accum.Accumulate(x, y, ps.Render(uv, resolution, rng), iter)
					}
				}
			}
		}(w)
	}
	wg.Wait()
}
