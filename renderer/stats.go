package renderer

import "time"

// TracerStat describes the rows one tracer rendered during the last pass.
type TracerStat struct {
	Id string

	// First row and height of the assigned block; FramePercent is the share
	// of the frame the block covers.
	BlockY       uint32
	BlockH       uint32
	FramePercent float32

	RenderTime time.Duration
}

// Rows traced per second, or 0 for an idle tracer.
func (s TracerStat) RowsPerSecond() float64 {
	if s.BlockH == 0 || s.RenderTime <= 0 {
		return 0
	}
	return float64(s.BlockH) / s.RenderTime.Seconds()
}

// FrameStats summarizes the last accumulation pass.
type FrameStats struct {
	Tracers []TracerStat

	// Wall time of the pass and the iteration it produced.
	RenderTime time.Duration
	Iteration  uint32

	// Camera samples traced during the pass (one per pixel).
	Samples uint64
}

func (s FrameStats) SamplesPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.Samples) / s.RenderTime.Seconds()
}
