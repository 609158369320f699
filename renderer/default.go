package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/fralonra/Shape-Z-sub000/log"
	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/tracer"
	"github.com/fralonra/Shape-Z-sub000/tracer/cpu"
)

var logger = log.New("renderer")

// The default renderer splits every pass into scanline blocks, fans them out
// to the attached tracers and waits for all of them to complete. Accumulated
// samples are discarded whenever the scene revision changes.
type defaultRenderer struct {
	sync.Mutex

	scene     *scene.Scene
	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler
	options   Options

	accum            *Accumulator
	blockAssignments []uint32
	iteration        uint32
	revision         uint64
	rng              *rand.Rand

	stats FrameStats
}

// Create a new renderer using the specified block scheduler and tracers.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (Renderer, error) {
	if sc == nil || sc.Grid == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := &defaultRenderer{
		scene:     sc,
		scheduler: scheduler,
		options:   opts,
		accum:     NewAccumulator(opts.FrameW, opts.FrameH),
		rng:       rand.New(rand.NewSource(seed)),
		revision:  sc.Revision(),
	}

	settings := opts.integratorSettings()
	for _, tr := range tracers {
		if err := tr.Init(opts.FrameW, opts.FrameH); err != nil {
			logger.Warningf("skipping tracer %s due to init error: %v", tr.Id(), err)
			continue
		}
		tr.Update(tracer.UpdateScene, sc)
		tr.Update(tracer.UpdateSettings, settings)
		r.tracers = append(r.tracers, tr)
	}
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	logger.Infof("attached %d tracers for a %dx%d frame", len(r.tracers), opts.FrameW, opts.FrameH)
	return r, nil
}

// Create a renderer backed by opts.Workers cpu tracers and a scheduler that
// adapts block sizes to observed tracer performance.
func NewCPU(sc *scene.Scene, opts Options) (Renderer, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	tracers := make([]tracer.Tracer, workers)
	for i := range tracers {
		tracers[i] = cpu.NewTracer(fmt.Sprintf("cpu-%d", i))
	}
	return NewDefault(sc, tracer.PerfectScheduler(), tracers, opts)
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()

	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

func (r *defaultRenderer) RenderFrame() error {
	r.Lock()
	defer r.Unlock()

	var err error
	r.scene.View(func(sc *scene.Scene) {
		err = r.renderFrame()
	})
	return err
}

func (r *defaultRenderer) Render(ctx context.Context, iterations uint32) error {
	if iterations == 0 {
		iterations = r.options.Iterations
	}
	for r.Iteration() < iterations || r.dirty() {
		select {
		case <-ctx.Done():
			return ErrInterrupted
		default:
		}
		if err := r.RenderFrame(); err != nil {
			return err
		}
	}
	return nil
}

func (r *defaultRenderer) dirty() bool {
	r.Lock()
	defer r.Unlock()
	return r.scene.Revision() != r.revision
}

// Render a pass. This method is meant to be called while holding r.Lock()
// and the scene read lock.
func (r *defaultRenderer) renderFrame() error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	// Any edit since the last pass invalidates the accumulated samples.
	if rev := r.scene.Revision(); rev != r.revision {
		logger.Debugf("scene revision changed (%d -> %d); resetting accumulation", r.revision, rev)
		r.revision = rev
		r.iteration = 0
	}

	start := time.Now()
	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			FrameW:    r.options.FrameW,
			FrameH:    r.options.FrameH,
			BlockY:    blockY,
			BlockH:    blockH,
			Iteration: r.iteration,
			Seed:      r.rng.Int63(),
			Sink:      r.accum,
			DoneChan:  doneChan,
			ErrChan:   errChan,
		})
		blockY += blockH
		pending++
	}

	var firstErr error
	for ; pending > 0; pending-- {
		select {
		case <-doneChan:
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return firstErr
	}

	r.iteration++
	r.updateStats(time.Since(start))
	return nil
}

func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
		Iteration:  r.iteration,
		Samples:    uint64(r.options.FrameW) * uint64(r.options.FrameH),
	}

	var blockY uint32
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		stat := TracerStat{
			Id:           tr.Id(),
			BlockY:       blockY,
			BlockH:       blockH,
			FramePercent: 100 * float32(blockH) / float32(r.options.FrameH),
		}
		if blockH > 0 {
			stat.RenderTime = tr.Stats().RenderTime
		}
		r.stats.Tracers[idx] = stat
		blockY += blockH
	}
}

func (r *defaultRenderer) Frame() *image.RGBA {
	r.Lock()
	defer r.Unlock()
	return r.accum.Image()
}

func (r *defaultRenderer) Iteration() uint32 {
	r.Lock()
	defer r.Unlock()
	return r.iteration
}

func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()
	return r.stats
}
