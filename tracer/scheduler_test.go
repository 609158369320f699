package tracer

import (
	"testing"
	"time"
)

func makeMockTracers(speeds ...uint32) []Tracer {
	tracers := make([]Tracer, len(speeds))
	for idx, speed := range speeds {
		tracers[idx] = makeMockTracer("cpu", speed)
	}
	return tracers
}

func assertRows(t *testing.T, index int, got, exp []uint32, frameH uint32) {
	if len(got) != len(exp) {
		t.Fatalf("[spec %d] expected %d block assignments; got %d", index, len(exp), len(got))
	}
	var total uint32
	for idx := range exp {
		if got[idx] != exp[idx] {
			t.Fatalf("[spec %d] expected rows %v; got %v", index, exp, got)
		}
		total += got[idx]
	}
	if total != frameH {
		t.Fatalf("[spec %d] expected assigned rows to add up to %d; got %d", index, frameH, total)
	}
}

func TestNaiveScheduler(t *testing.T) {
	type spec struct {
		speeds  []uint32
		frameH  uint32
		expRows []uint32
	}
	specs := []spec{
		spec{[]uint32{1, 2}, 10, []uint32{4, 6}},
		spec{[]uint32{2, 1}, 10, []uint32{7, 3}},
		// A slow tracer still gets one row.
		spec{[]uint32{1, 1000}, 10, []uint32{1, 9}},
		spec{[]uint32{1, 1, 1, 1}, 480, []uint32{120, 120, 120, 120}},
		spec{[]uint32{3, 7, 1, 1}, 101, []uint32{27, 58, 8, 8}},
		// More workers than rows leaves the extra workers idle.
		spec{[]uint32{1, 1, 1}, 2, []uint32{2, 0, 0}},
		spec{[]uint32{0, 0}, 9, []uint32{8, 1}},
		spec{[]uint32{5}, 1, []uint32{1}},
	}

	for index, s := range specs {
		rows := NaiveScheduler().Schedule(makeMockTracers(s.speeds...), s.frameH)
		assertRows(t, index, rows, s.expRows, s.frameH)
	}
}

func TestPerfectScheduler(t *testing.T) {
	type spec struct {
		// Render times reported for the previous pass.
		renderTimes []time.Duration
		expRows     []uint32
	}
	specs := []spec{
		// The first pass only knows the speeds.
		spec{nil, []uint32{4, 4, 4}},
		spec{[]time.Duration{1, 2, 4}, []uint32{8, 3, 1}},
		// Balanced timings for the new split keep it even.
		spec{[]time.Duration{8, 3, 1}, []uint32{4, 4, 4}},
		// A tracer without timings falls back to its speed.
		spec{[]time.Duration{0, 1, 1}, []uint32{2, 5, 5}},
	}

	const frameH = 12
	tracers := makeMockTracers(1, 1, 1)
	sch := PerfectScheduler()
	for index, s := range specs {
		for idx, rt := range s.renderTimes {
			tracers[idx].Stats().RenderTime = rt
		}

		rows := sch.Schedule(tracers, frameH)
		assertRows(t, index, rows, s.expRows, frameH)

		for idx, tr := range tracers {
			tr.Stats().BlockH = rows[idx]
		}
	}

	// Changing the pool size restarts from the speed estimates.
	rows := sch.Schedule(makeMockTracers(1, 1), frameH)
	assertRows(t, len(specs), rows, []uint32{6, 6}, frameH)
}

type mockTracer struct {
	id    string
	speed uint32
	stats *Stats
}

func makeMockTracer(id string, speed uint32) *mockTracer {
	return &mockTracer{
		id:    id,
		speed: speed,
		stats: &Stats{},
	}
}

func (mt *mockTracer) Id() string {
	return mt.id
}

func (mt *mockTracer) Speed() uint32 {
	return mt.speed
}

func (mt *mockTracer) Init(_, _ uint32) error {
	return nil
}

func (mt *mockTracer) Close() {
}

func (mt *mockTracer) Enqueue(_ BlockRequest) {
}

func (mt *mockTracer) Update(_ UpdateType, _ interface{}) {
}

func (mt *mockTracer) Stats() *Stats {
	return mt.stats
}
