package cpu

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/fralonra/Shape-Z-sub000/log"
	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/tracer"
	"github.com/fralonra/Shape-Z-sub000/tracer/integrator"
	"github.com/fralonra/Shape-Z-sub000/types"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	// Relative speed estimate.
	speed uint32

	// Worker private state.
	rng       *rand.Rand
	sceneData *scene.Scene
	settings  integrator.Settings

	frameW, frameH uint32
}

// Create a new cpu tracer. Each tracer renders its blocks on a dedicated
// goroutine.
func NewTracer(id string) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		updateBuffer: make(map[tracer.UpdateType]interface{}),
		stats:        &tracer.Stats{},
		speed:        1,
		settings:     integrator.DefaultSettings(),
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return tr.speed
}

// Initialize tracer and start its worker.
func (tr *cpuTracer) Init(frameW, frameH uint32) error {
	tr.Lock()
	defer tr.Unlock()

	tr.frameW, tr.frameH = frameW, frameH
	if tr.closeChan == nil {
		tr.startWorker()
	}
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
		tr.wg.Wait()
	}
	tr.sceneData = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	tr.Lock()
	running := tr.closeChan != nil
	tr.Unlock()

	if !running {
		blockReq.ErrChan <- ErrNotInitialized
		return
	}

	select {
	case tr.blockReqChan <- blockReq:
	default:
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrBusy
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()
	tr.updateBuffer[updateType] = data
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	tr.Lock()
	defer tr.Unlock()

	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case tracer.UpdateScene:
			sc, ok := data.(*scene.Scene)
			if !ok || sc == nil {
				return ErrNoSceneData
			}
			tr.sceneData = sc
		case tracer.UpdateSettings:
			settings, ok := data.(integrator.Settings)
			if !ok {
				return fmt.Errorf("cpu tracer: unexpected settings payload %T", data)
			}
			tr.settings = settings
		default:
			return fmt.Errorf("cpu tracer: unsupported update type %d", updateType)
		}
	}

	tr.updateBuffer = make(map[tracer.UpdateType]interface{})
	return nil
}

func (tr *cpuTracer) hasPendingUpdates() bool {
	tr.Lock()
	defer tr.Unlock()
	return len(tr.updateBuffer) != 0
}

// Spawn a go-routine to process block render requests. This method is meant
// to be called while holding tr.Lock()
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})
	tr.blockReqChan = make(chan tracer.BlockRequest, 1)
	tr.rng = rand.New(rand.NewSource(time.Now().UnixNano()))

	readyChan := make(chan struct{})
	closeChan := tr.closeChan
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				// Apply any pending changes
				if tr.hasPendingUpdates() {
					startTime = time.Now()
					err = tr.commitUpdates()
					if err != nil {
						blockReq.ErrChan <- err
						continue
					}
					tr.stats.UpdateTime = time.Since(startTime)
				}

				// Render block and reply with our completion status
				startTime = time.Now()
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.logger.Debugf("rendered rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.stats.RenderTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block. The caller guarantees the scene is not mutated while the
// block is being traced.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	sc := tr.sceneData
	if sc == nil || sc.Grid == nil || sc.Camera == nil {
		return ErrNoSceneData
	}
	if blockReq.Sink == nil {
		return ErrNoSink
	}

	frameW, frameH := blockReq.FrameW, blockReq.FrameH
	if frameW == 0 || frameH == 0 {
		frameW, frameH = tr.frameW, tr.frameH
	}

	tr.rng.Seed(blockReq.Seed)
	pt := integrator.NewPathTracer(tr.settings, sc.Light, sc.Background)
	resolution := types.XY(float32(frameW), float32(frameH))

	endY := blockReq.BlockY + blockReq.BlockH
	if endY > frameH {
		endY = frameH
	}
	for y := blockReq.BlockY; y < endY; y++ {
		for x := uint32(0); x < frameW; x++ {
			uv := types.XY(float32(x)/resolution[0], float32(y)/resolution[1])
			sample := pt.Render(uv, resolution, sc.Grid, sc.Palette, sc.Camera, tr.rng)
			blockReq.Sink.Accumulate(x, y, sample, blockReq.Iteration)
		}
	}
	return nil
}
