package scene

import (
	"sync"
	"testing"

	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/fralonra/Shape-Z-sub000/voxel"
)

func testScene() *Scene {
	grid := voxel.NewGrid(types.IXYZ(4, 4, 4), 8)
	cam := NewPinholeCamera(types.XYZ(0, 0, 10), types.Vec3{}, 45)
	return NewScene(grid, nil, cam)
}

func TestSceneValidate(t *testing.T) {
	s := &Scene{}
	if err := s.Validate(); err != ErrNoGrid {
		t.Fatalf("expected error %v; got %v", ErrNoGrid, err)
	}
	s.Grid = voxel.NewGrid(types.IXYZ(1, 1, 1), 4)
	if err := s.Validate(); err != ErrNoCamera {
		t.Fatalf("expected error %v; got %v", ErrNoCamera, err)
	}
	if err := testScene().Validate(); err != nil {
		t.Fatalf("expected no error; got %v", err)
	}
}

func TestSceneRevisionTracksChanges(t *testing.T) {
	s := testScene()
	rev := s.Revision()

	if !s.PreviewAdd(types.XYZ(0.1, 0.1, 0.1), 5) {
		t.Fatal("expected preview add to succeed")
	}
	if s.Revision() == rev {
		t.Fatal("expected preview add to bump the revision")
	}

	rev = s.Revision()
	if s.PreviewAdd(types.XYZ(100, 0, 0), 5) {
		t.Fatal("expected out of bounds preview add to fail")
	}
	if s.Revision() != rev {
		t.Fatal("expected rejected edit to keep the revision")
	}

	s.CommitPreview()
	rev = s.Revision()
	s.UpdateCamera(func(c Camera) { c.Zoom(1) })
	if s.Revision() == rev {
		t.Fatal("expected camera update to bump the revision")
	}

	rev = s.Revision()
	if !s.Undo() || s.Revision() == rev {
		t.Fatal("expected undo to succeed and bump the revision")
	}
	rev = s.Revision()
	if s.Undo() || s.Revision() != rev {
		t.Fatal("expected undo on empty history to be a no-op")
	}
}

func TestScenePick(t *testing.T) {
	s := testScene()
	for _, p := range []types.Vec3{{0.05, 0.05, 0.01}, {-0.05, 0.05, 0.01}, {0.05, -0.05, 0.01}, {-0.05, -0.05, 0.01}} {
		s.SetWorld(p, 7, 0)
	}

	hit := s.Pick(types.XY(0.5, 0.5), types.XY(101, 101))
	if hit.Kind != voxel.VoxelHit {
		t.Fatalf("expected a voxel hit; got kind %d", hit.Kind)
	}
	if hit.Material != 7 {
		t.Fatalf("expected material 7; got %d", hit.Material)
	}
	if hit.Face != voxel.FacePosZ {
		t.Fatalf("expected the +Z face; got %s", hit.Face)
	}
}

func TestSceneConcurrentEditAndView(t *testing.T) {
	s := testScene()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			x := float32(i%16)/8 - 1
			s.PreviewAdd(types.XYZ(x, 0.1, 0.1), voxel.MaterialID(1+i%10))
			if i%10 == 0 {
				s.CommitPreview()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.View(func(s *Scene) {
				s.Grid.DDA(s.Camera.CreateRay(types.XY(0.5, 0.5), types.XY(8, 8), types.Vec2{}))
			})
		}
	}()
	wg.Wait()
}
