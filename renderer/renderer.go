package renderer

import (
	"context"
	"image"
)

type Renderer interface {
	// Render a single progressive pass over the whole frame.
	RenderFrame() error

	// Render passes until the accumulation buffer holds the requested
	// number of iterations. A zero count renders Options.Iterations passes.
	// ctx is checked between passes; a pass in flight always completes.
	Render(ctx context.Context, iterations uint32) error

	// Get the tone mapped contents of the accumulation buffer.
	Frame() *image.RGBA

	// Get the number of passes accumulated since the last scene change.
	Iteration() uint32

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
