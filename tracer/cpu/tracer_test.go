package cpu

import (
	"testing"
	"time"

	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/tracer"
	"github.com/fralonra/Shape-Z-sub000/tracer/integrator"
	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/fralonra/Shape-Z-sub000/voxel"
)

type countingSink struct {
	frameW  uint32
	hits    []int
	samples []types.Vec4
}

func newCountingSink(frameW, frameH uint32) *countingSink {
	return &countingSink{
		frameW:  frameW,
		hits:    make([]int, frameW*frameH),
		samples: make([]types.Vec4, frameW*frameH),
	}
}

func (s *countingSink) Accumulate(x, y uint32, sample types.Vec4, _ uint32) {
	s.hits[y*s.frameW+x]++
	s.samples[y*s.frameW+x] = sample
}

func testScene() *scene.Scene {
	grid := voxel.NewGrid(types.IXYZ(2, 2, 2), 4)
	grid.PreviewFill(types.NewAABB(types.XYZ(-0.5, -0.5, -0.5), types.XYZ(0.5, 0.5, 0.5)), 20)
	grid.CommitPreview()
	return scene.NewScene(grid, nil, scene.NewOrbitCamera(types.Vec3{}, 4, 0.4, 0.3, 45))
}

func createTestTracer(t *testing.T, id string, frameW, frameH uint32) tracer.Tracer {
	tr := NewTracer(id)
	if err := tr.Init(frameW, frameH); err != nil {
		t.Fatal(err)
	}
	return tr
}

func waitBlock(t *testing.T, doneChan <-chan uint32, errChan <-chan error) uint32 {
	select {
	case rows := <-doneChan:
		return rows
	case err := <-errChan:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for block")
	}
	return 0
}

func TestTracerBlockWorker(t *testing.T) {
	const frameW, frameH = 16, 12
	sc := testScene()
	sink := newCountingSink(frameW, frameH)

	tracers := []tracer.Tracer{
		createTestTracer(t, "0", frameW, frameH),
		createTestTracer(t, "1", frameW, frameH),
	}
	defer func() {
		for _, tr := range tracers {
			tr.Close()
		}
	}()

	doneChan := make(chan uint32, len(tracers))
	errChan := make(chan error, len(tracers))
	blockAssignment := tracer.NaiveScheduler().Schedule(tracers, frameH)

	var blockY uint32
	for idx, tr := range tracers {
		tr.Update(tracer.UpdateScene, sc)
		tr.Enqueue(tracer.BlockRequest{
			FrameW:   frameW,
			FrameH:   frameH,
			BlockY:   blockY,
			BlockH:   blockAssignment[idx],
			Seed:     int64(idx + 1),
			Sink:     sink,
			DoneChan: doneChan,
			ErrChan:  errChan,
		})
		blockY += blockAssignment[idx]
	}

	var rows uint32
	for range tracers {
		rows += waitBlock(t, doneChan, errChan)
	}
	if rows != frameH {
		t.Fatalf("expected %d rendered rows; got %d", frameH, rows)
	}

	for index, count := range sink.hits {
		if count != 1 {
			t.Fatalf("expected pixel %d to be written once; got %d", index, count)
		}
	}

	for idx, tr := range tracers {
		if stats := tr.Stats(); stats.BlockH != blockAssignment[idx] || stats.RenderTime <= 0 {
			t.Fatalf("[tracer %d] expected stats for %d rows; got %+v", idx, blockAssignment[idx], stats)
		}
	}
}

func TestTracerSeedIsDeterministic(t *testing.T) {
	const frameW, frameH = 8, 8
	sc := testScene()
	tr := createTestTracer(t, "det", frameW, frameH)
	defer tr.Close()
	tr.Update(tracer.UpdateScene, sc)
	tr.Update(tracer.UpdateSettings, integrator.Settings{Bounces: 2})

	render := func() *countingSink {
		sink := newCountingSink(frameW, frameH)
		doneChan := make(chan uint32, 1)
		errChan := make(chan error, 1)
		tr.Enqueue(tracer.BlockRequest{
			FrameW: frameW, FrameH: frameH, BlockH: frameH,
			Seed: 42, Sink: sink, DoneChan: doneChan, ErrChan: errChan,
		})
		waitBlock(t, doneChan, errChan)
		return sink
	}

	a, b := render(), render()
	for index := range a.samples {
		if a.samples[index] != b.samples[index] {
			t.Fatalf("expected pixel %d to match across runs; got %v and %v", index, a.samples[index], b.samples[index])
		}
	}
}

func TestTracerErrors(t *testing.T) {
	errChan := make(chan error, 1)
	doneChan := make(chan uint32, 1)

	tr := NewTracer("uninit")
	tr.Enqueue(tracer.BlockRequest{DoneChan: doneChan, ErrChan: errChan})
	if err := <-errChan; err != ErrNotInitialized {
		t.Fatalf("expected error %v; got %v", ErrNotInitialized, err)
	}

	tr = createTestTracer(t, "noscene", 4, 4)
	defer tr.Close()
	tr.Enqueue(tracer.BlockRequest{BlockH: 4, Sink: newCountingSink(4, 4), DoneChan: doneChan, ErrChan: errChan})
	select {
	case err := <-errChan:
		if err != ErrNoSceneData {
			t.Fatalf("expected error %v; got %v", ErrNoSceneData, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}

	tr.Update(tracer.UpdateScene, testScene())
	tr.Enqueue(tracer.BlockRequest{BlockH: 4, DoneChan: doneChan, ErrChan: errChan})
	select {
	case err := <-errChan:
		if err != ErrNoSink {
			t.Fatalf("expected error %v; got %v", ErrNoSink, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}
