package tracer

import (
	"time"

	"github.com/fralonra/Shape-Z-sub000/types"
)

type UpdateType uint8

const (
	// Replace the scene pointer used for tracing.
	UpdateScene UpdateType = iota
	// Replace the integrator settings.
	UpdateSettings
)

// A unit of work that is processed by a tracer: a contiguous band of
// scanlines of a single progressive iteration.
type BlockRequest struct {
	// Frame dimensions.
	FrameW uint32
	FrameH uint32

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// Zero based progressive iteration; used for the accumulation weight.
	Iteration uint32

	// A random seed value for the tracer's random number generator.
	Seed int64

	// Destination for the traced samples.
	Sink SampleSink

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// SampleSink receives traced samples. Tracers working on disjoint rows write
// to it concurrently.
type SampleSink interface {
	Accumulate(x, y uint32, sample types.Vec4, iteration uint32)
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block.
	RenderTime time.Duration

	// The time spent applying pending updates before rendering.
	UpdateTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the computation speed estimate relative to a single cpu worker.
	Speed() uint32

	// Initialize tracer for the given frame dimensions.
	Init(frameW, frameH uint32) error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Append a change to the tracer's update buffer. Changes are applied
	// before the next block is rendered.
	Update(UpdateType, interface{})

	// Retrieve last frame statistics.
	Stats() *Stats
}
