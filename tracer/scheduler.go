package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// Split frameH rows proportionally to the given weights. Every tracer gets at
// least one row unless there are more tracers than rows. Leftover rows go to
// the first tracer.
func distribute(weights []float64, frameH uint32, out []uint32) []uint32 {
	var total float64
	for _, w := range weights {
		total += w
	}
	minRows := 1.0
	if int(frameH) < len(weights) {
		minRows = 0
	}

	var scheduledRows uint32
	for idx, w := range weights {
		rows := minRows
		if total > 0 {
			rows = math.Max(minRows, math.Floor(w*float64(frameH)/total))
		}
		out[idx] = uint32(rows)
		scheduledRows += out[idx]
	}

	// Trim over-assignment caused by the one row minimum from the
	// largest blocks.
	for scheduledRows > frameH {
		largest := 0
		for idx := range out {
			if out[idx] > out[largest] {
				largest = idx
			}
		}
		if out[largest] <= 1 {
			break
		}
		out[largest]--
		scheduledRows--
	}

	if scheduledRows < frameH {
		out[0] += frameH - scheduledRows
	}
	return out
}

// The naive scheduler splits the frame based on each tracer's speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance
func NaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

func (naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.Speed())
	}
	return distribute(weights, frameH, make([]uint32, len(tracers)))
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	weights := make([]float64, len(tracers))

	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
		for idx, tr := range tracers {
			weights[idx] = float64(tr.Speed())
		}
		return distribute(weights, frameH, sch.blockAssignment)
	}

	// Use last frame statistics
	for idx, tr := range tracers {
		stats := tr.Stats()
		if stats.RenderTime <= 0 || stats.BlockH == 0 {
			weights[idx] = float64(tr.Speed())
			continue
		}
		weights[idx] = float64(stats.BlockH) / float64(stats.RenderTime)
	}
	return distribute(weights, frameH, sch.blockAssignment)
}
