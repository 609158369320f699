package scene

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/fralonra/Shape-Z-sub000/voxel"
)

var (
	ErrNoGrid   = errors.New("scene: no voxel grid defined")
	ErrNoCamera = errors.New("scene: no camera defined")
)

// Scene bundles the editable voxel grid with everything required to render
// it. Edits take the write lock; render passes hold the read lock for the
// duration of a pass so they never observe a half applied change.
type Scene struct {
	mu sync.RWMutex

	Grid       *voxel.Grid
	Palette    *Palette
	Camera     Camera
	Light      Light
	Background types.Vec3

	// Bumped on every change that invalidates accumulated samples.
	revision uint64
}

func NewScene(grid *voxel.Grid, palette *Palette, camera Camera) *Scene {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Scene{
		Grid:       grid,
		Palette:    palette,
		Camera:     camera,
		Light:      DefaultLight(),
		Background: types.XYZ(0.05, 0.05, 0.08),
	}
}

// Validate that the scene can be rendered.
func (s *Scene) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Grid == nil {
		return ErrNoGrid
	}
	if s.Camera == nil {
		return ErrNoCamera
	}
	return nil
}

// Revision returns a counter that changes whenever the rendered image would.
func (s *Scene) Revision() uint64 {
	return atomic.LoadUint64(&s.revision)
}

// Invalidate bumps the revision without modifying the scene.
func (s *Scene) Invalidate() {
	atomic.AddUint64(&s.revision, 1)
}

// View runs fn with the read lock held.
func (s *Scene) View(fn func(s *Scene)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s)
}

// Edit runs fn with the write lock held. When fn reports a change the
// revision is bumped before the lock is released.
func (s *Scene) Edit(fn func(s *Scene) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := fn(s)
	if changed {
		s.Invalidate()
	}
	return changed
}

// UpdateCamera runs fn against the camera under the write lock.
func (s *Scene) UpdateCamera(fn func(c Camera)) {
	s.Edit(func(s *Scene) bool {
		if s.Camera == nil {
			return false
		}
		fn(s.Camera)
		return true
	})
}

func (s *Scene) PreviewAdd(p types.Vec3, m voxel.MaterialID) bool {
	return s.Edit(func(s *Scene) bool { return s.Grid.PreviewAdd(p, m) })
}

func (s *Scene) PreviewRemove(p types.Vec3) bool {
	return s.Edit(func(s *Scene) bool { return s.Grid.PreviewRemove(p) })
}

func (s *Scene) PreviewFill(box types.AABB, m voxel.MaterialID) int {
	var n int
	s.Edit(func(s *Scene) bool {
		n = s.Grid.PreviewFill(box, m)
		return n > 0
	})
	return n
}

func (s *Scene) ClearPreview() {
	s.Edit(func(s *Scene) bool {
		had := s.Grid.HasPreview()
		s.Grid.ClearPreview()
		return had
	})
}

func (s *Scene) CommitPreview() bool {
	return s.Edit(func(s *Scene) bool { return s.Grid.CommitPreview() })
}

func (s *Scene) Undo() bool {
	return s.Edit(func(s *Scene) bool { return s.Grid.Undo() })
}

func (s *Scene) Redo() bool {
	return s.Edit(func(s *Scene) bool { return s.Grid.Redo() })
}

// SetWorld writes a voxel directly, bypassing the preview and history.
func (s *Scene) SetWorld(p types.Vec3, m voxel.MaterialID, density int) (voxel.MaterialID, bool) {
	var (
		prev voxel.MaterialID
		had  bool
	)
	s.Edit(func(s *Scene) bool {
		prev, had = s.Grid.SetWorld(p, m, density)
		return true
	})
	return prev, had
}

func (s *Scene) SetLight(l Light) {
	s.Edit(func(s *Scene) bool {
		s.Light = l
		return true
	})
}

// Pick casts the camera ray through the normalized screen coordinate uv and
// returns the first hit.
func (s *Scene) Pick(uv, screenSize types.Vec2) voxel.HitRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Grid == nil || s.Camera == nil {
		return voxel.HitRecord{}
	}
	return s.Grid.DDA(s.Camera.CreateRay(uv, screenSize, types.Vec2{}))
}
