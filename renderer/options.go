package renderer

import "github.com/fralonra/Shape-Z-sub000/tracer/integrator"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of progressive passes rendered by Render.
	Iterations uint32

	// Number of surface interactions per path.
	NumBounces uint32

	// Snap samples to the nearest palette color.
	Quantize bool

	// Number of cpu tracers; 0 selects one per cpu.
	Workers int

	// Seed for the per block random seeds; 0 seeds from the clock.
	Seed int64
}

func (opts Options) integratorSettings() integrator.Settings {
	settings := integrator.DefaultSettings()
	if opts.NumBounces > 0 {
		settings.Bounces = int(opts.NumBounces)
	}
	settings.Quantize = opts.Quantize
	return settings
}
