package integrator

import (
	"math/rand"
	"testing"

	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/fralonra/Shape-Z-sub000/voxel"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func fillBox(grid *voxel.Grid, min, max types.Vec3, m voxel.MaterialID) {
	grid.PreviewFill(types.NewAABB(min, max), m)
	grid.CommitPreview()
}

func testCamera() scene.Camera {
	return scene.NewPinholeCamera(types.XYZ(0, 0, 5), types.Vec3{}, 30)
}

func TestRenderMissReturnsBackground(t *testing.T) {
	grid := voxel.NewGrid(types.IXYZ(2, 2, 2), 8)
	bg := types.XYZ(0.2, 0.3, 0.4)
	pt := NewPathTracer(DefaultSettings(), scene.DefaultLight(), bg)
	rng := rand.New(rand.NewSource(1))

	for _, uv := range []types.Vec2{{0, 0}, {0.5, 0.5}, {0.9, 0.1}} {
		got := pt.Render(uv, types.XY(64, 64), grid, scene.DefaultPalette(), testCamera(), rng)
		if got != bg.Vec4(1) {
			t.Fatalf("[uv %v] expected background %v; got %v", uv, bg.Vec4(1), got)
		}
	}
}

func TestRenderEmissiveSurface(t *testing.T) {
	grid := voxel.NewGrid(types.IXYZ(2, 2, 2), 4)
	fillBox(grid, types.XYZ(-1, -1, -1), types.XYZ(1, 1, 0), 10)

	palette := scene.DefaultPalette()
	lamp := scene.NewMaterial(colorful.Color{R: 1, G: 1, B: 1})
	lamp.Emission = 5
	palette.Set(10, lamp)

	settings := Settings{Bounces: 2}
	pt := NewPathTracer(settings, scene.DefaultLight(), types.Vec3{})
	rng := rand.New(rand.NewSource(7))

	got := pt.Render(types.XY(0.5, 0.5), types.XY(64, 64), grid, palette, testCamera(), rng)
	for c := 0; c < 3; c++ {
		if got[c] < 5-1e-4 {
			t.Fatalf("expected at least the emitted radiance; got %v", got)
		}
	}
	if got[3] != 1 {
		t.Fatalf("expected alpha 1; got %f", got[3])
	}

	pt.Quantize = true
	got = pt.Render(types.XY(0.5, 0.5), types.XY(64, 64), grid, palette, testCamera(), rng)
	if got.Vec3().Sub(types.Splat3(1)).Len() > 1e-5 {
		t.Fatalf("expected overexposed sample to quantize to white; got %v", got)
	}
}

func TestRenderQuantizedOutputIsPaletteColor(t *testing.T) {
	grid := voxel.NewGrid(types.IXYZ(2, 2, 2), 4)
	fillBox(grid, types.XYZ(-1, -1, -1), types.XYZ(1, 1, 0), 40)

	palette := scene.DefaultPalette()
	pt := NewPathTracer(DefaultSettings(), scene.DefaultLight(), types.XYZ(0.1, 0.1, 0.1))
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 32; i++ {
		got := pt.Render(types.XY(0.5, 0.5), types.XY(64, 64), grid, palette, testCamera(), rng).Vec3()

		found := false
		for index := 1; index < scene.PaletteSize-1; index++ {
			if palette.Get(uint8(index)).LinearColor().Sub(got).Len() < 1e-5 {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("[sample %d] expected quantized color %v to match a palette entry", i, got)
		}
	}
}

func TestDirectLightShadow(t *testing.T) {
	grid := voxel.NewGrid(types.IXYZ(4, 4, 4), 4)
	light := scene.Light{Position: types.XYZ(0, 3, 0), Radius: 0.1, Color: types.XYZ(1, 1, 1), Intensity: 10}
	pt := NewPathTracer(DefaultSettings(), light, types.Vec3{})
	rng := rand.New(rand.NewSource(5))

	origin := types.XYZ(0, -1.5, 0)
	n := types.XYZ(0, 1, 0)
	lambert := func(l types.Vec3) types.Vec3 { return types.Splat3(n.Dot(l)) }

	if lit := pt.directLight(origin, n, grid, rng, lambert); lit.MaxComponent() <= 0 {
		t.Fatalf("expected unoccluded point to be lit; got %v", lit)
	}

	fillBox(grid, types.XYZ(-0.5, 0, -0.5), types.XYZ(0.5, 0.5, 0.5), 3)
	for i := 0; i < 16; i++ {
		if lit := pt.directLight(origin, n, grid, rng, lambert); lit != (types.Vec3{}) {
			t.Fatalf("expected occluded point to receive no light; got %v", lit)
		}
	}

	// Facing away from the light.
	if lit := pt.directLight(origin, n.Neg(), voxel.NewGrid(types.IXYZ(4, 4, 4), 4), rng, lambert); lit != (types.Vec3{}) {
		t.Fatalf("expected back facing point to receive no light; got %v", lit)
	}
}

func TestTransmitPassesThroughVoxel(t *testing.T) {
	grid := voxel.NewGrid(types.IXYZ(2, 2, 2), 4)
	grid.SetWorld(types.XYZ(0.1, 0.1, 0.1), 20, 0)

	m := scene.NewMaterial(colorful.Color{R: 1, G: 1, B: 1})
	m.IOR = 1
	m.Transmission = 1

	ray := types.NewRay(types.XYZ(0.125, 0.125, 3), types.XYZ(0, 0, -1))
	hit := grid.DDA(ray)
	if hit.Kind != voxel.VoxelHit {
		t.Fatalf("expected voxel hit; got kind %d", hit.Kind)
	}

	// With matched indices the Schlick reflectance is zero.
	origin, dir := transmit(ray, hit, grid, &m, rand.New(rand.NewSource(1)))
	if dir.Sub(ray.Dir).Len() > 1e-5 {
		t.Fatalf("expected direction %v; got %v", ray.Dir, dir)
	}
	if origin[2] > 0 {
		t.Fatalf("expected ray to continue from the far side of the voxel; got %v", origin)
	}
	if next := grid.DDA(types.NewRay(origin, dir)); next.Kind == voxel.VoxelHit {
		t.Fatalf("expected transmitted ray to leave the voxel behind; got hit at %v", next.Point)
	}
}

func TestPreviewSphere(t *testing.T) {
	m := scene.NewMaterial(colorful.Color{R: 0.8, G: 0.2, B: 0.2})
	bg := types.XYZ(0.05, 0.05, 0.05)
	ps := NewPreviewSphere(&m, bg)
	rng := rand.New(rand.NewSource(9))

	if got := ps.Render(types.XY(0, 0), types.XY(64, 64), rng); got != bg.Vec4(1) {
		t.Fatalf("expected corner pixel to show the background; got %v", got)
	}

	var sum types.Vec3
	for i := 0; i < 64; i++ {
		sum = sum.Add(ps.Render(types.XY(0.5, 0.5), types.XY(64, 64), rng).Vec3())
	}
	if sum[0] <= sum[1] {
		t.Fatalf("expected a red tinted sphere; got %v", sum)
	}
}
