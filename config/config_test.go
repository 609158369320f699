package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/pkg/errors"
)

const sampleConfig = `
grid:
  bounds: [2, 2, 2]
  density: 4
palette:
  - index: 10
    name: lamp
    color: "#ffcc00"
    emission: 3
  - index: 11
    color: "#3366ff"
    roughness: 0.1
    metallic: 1
voxels:
  - min: [-1, -1, -1]
    max: [1, -0.5, 1]
    material: 11
  - min: [0, 0, 0]
    max: [0.5, 0.5, 0.5]
    material: 10
    density: 8
camera:
  type: pinhole
  origin: [0, 1, 6]
  center: [0, 0, 0]
  fov: 50
light:
  position: [3, 5, 3]
  radius: 0.5
  intensity: 20
background: [0.1, 0.2, 0.3]
render:
  width: 64
  height: 48
  quantize: false
`

func TestParseAndBuild(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Render.Iterations != 16 || cfg.Render.Bounces != 2 {
		t.Fatalf("expected render defaults; got %+v", cfg.Render)
	}
	opts := cfg.Options()
	if opts.FrameW != 64 || opts.FrameH != 48 || opts.Quantize {
		t.Fatalf("expected 64x48 unquantized options; got %+v", opts)
	}

	sc, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}

	// 8x2x8 floor voxels plus a 4x4x4 block at density 8.
	if exp := 128 + 64; sc.Grid.VoxelCount() != exp {
		t.Fatalf("expected %d voxels; got %d", exp, sc.Grid.VoxelCount())
	}
	if sc.Grid.UndoDepth() != 2 {
		t.Fatalf("expected one undo entry per box; got %d", sc.Grid.UndoDepth())
	}
	if ch := sc.Grid.Chunk(types.IXYZ(1, 1, 1)); ch == nil || ch.Density() != 8 {
		t.Fatal("expected block chunk to use density 8")
	}
	if m, _ := sc.Grid.GetWorld(types.XYZ(0.1, 0.1, 0.1)); m != 10 {
		t.Fatalf("expected material 10 at the block; got %d", m)
	}

	if lamp := sc.Palette.Get(10); lamp.Name != "lamp" || lamp.Emission != 3 {
		t.Fatalf("expected lamp palette entry; got %+v", lamp)
	}
	if _, ok := sc.Camera.(*scene.PinholeCamera); !ok {
		t.Fatalf("expected a pinhole camera; got %T", sc.Camera)
	}
	if sc.Light.Color != types.XYZ(1, 1, 1) || sc.Light.Intensity != 20 {
		t.Fatalf("expected white light defaults; got %+v", sc.Light)
	}
	if sc.Background != types.XYZ(0.1, 0.2, 0.3) {
		t.Fatalf("expected background override; got %v", sc.Background)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatal(err)
	}
	sc, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Grid.Bounds() != types.IXYZ(4, 4, 4) || sc.Grid.Density() != 8 {
		t.Fatalf("expected default 4x4x4 grid at density 8; got %v at %d", sc.Grid.Bounds(), sc.Grid.Density())
	}
	if _, ok := sc.Camera.(*scene.OrbitCamera); !ok {
		t.Fatalf("expected an orbit camera; got %T", sc.Camera)
	}
	if !cfg.Options().Quantize {
		t.Fatal("expected quantization to default to on")
	}
}

func TestValidate(t *testing.T) {
	type spec struct {
		yaml   string
		expErr error
	}
	specs := []spec{
		spec{"grid: {bounds: [0, 1, 1]}", ErrInvalidGrid},
		spec{"grid: {density: -2}", ErrInvalidGrid},
		spec{"palette: [{index: 0, color: '#ffffff'}]", ErrInvalidPalette},
		spec{"palette: [{index: 255, color: '#ffffff'}]", ErrInvalidPalette},
		spec{"palette: [{index: 3, color: 'red'}]", ErrInvalidPalette},
		spec{"palette: [{index: 3, color: '#ffffff', transmission: 1}]", ErrInvalidPalette},
		spec{"voxels: [{min: [0, 0, 0], max: [0, 1, 1], material: 2}]", ErrInvalidVoxels},
		spec{"voxels: [{min: [0, 0, 0], max: [1, 1, 1], material: 0}]", ErrInvalidVoxels},
		spec{"camera: {type: fisheye}", ErrInvalidCamera},
		spec{"camera: {fov: 200}", ErrInvalidCamera},
		spec{"camera: {type: pinhole, origin: [1, 1, 1], center: [1, 1, 1]}", ErrInvalidCamera},
		spec{"camera: {type: isometric, pitch: 90}", ErrInvalidCamera},
		spec{"camera: {type: isometric, pitch: -120}", ErrInvalidCamera},
		spec{"light: {radius: 0}", ErrInvalidLight},
		spec{"render: {width: -5}", ErrInvalidRender},
	}

	for index, s := range specs {
		_, err := Parse([]byte(s.yaml))
		if errors.Cause(err) != s.expErr {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestLoad(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.Density != 4 {
		t.Fatalf("expected density 4; got %d", cfg.Grid.Density)
	}

	if err := os.WriteFile(path, []byte("grid: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err = Load(path); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}

func TestBuildIsometricCamera(t *testing.T) {
	cfg, err := Parse([]byte("camera: {type: isometric, scale: 2}"))
	if err != nil {
		t.Fatal(err)
	}
	sc, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	cam, ok := sc.Camera.(*scene.IsometricCamera)
	if !ok {
		t.Fatalf("expected an isometric camera; got %T", sc.Camera)
	}
	if cam.Scale != 2 {
		t.Fatalf("expected scale 2; got %f", cam.Scale)
	}
}

func TestPaletteZeroValuesSurviveBuild(t *testing.T) {
	type spec struct {
		yaml           string
		expRoughness   float32
		expReflectance float32
	}
	specs := []spec{
		spec{`palette: [{index: 3, color: "#ff0000", reflectance: 0, roughness: 0}]`, 0, 0},
		spec{`palette: [{index: 3, color: "#ff0000", reflectance: 1, roughness: 0.2}]`, 0.2, 1},
		spec{`palette: [{index: 3, color: "#ff0000"}]`, 0.5, 0.5},
	}

	for index, s := range specs {
		cfg, err := Parse([]byte(s.yaml))
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		sc, err := cfg.Build()
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		m := sc.Palette.Get(3)
		if m.Roughness != s.expRoughness {
			t.Fatalf("[spec %d] expected roughness %f; got %f", index, s.expRoughness, m.Roughness)
		}
		if m.Reflectance != s.expReflectance {
			t.Fatalf("[spec %d] expected reflectance %f; got %f", index, s.expReflectance, m.Reflectance)
		}
	}
}

func TestIsometricAngles(t *testing.T) {
	type spec struct {
		yaml                string
		expYaw, expPitchDeg float32
	}
	specs := []spec{
		spec{"camera: {type: isometric, yaw: 0, pitch: 0}", 0, 0},
		spec{"camera: {type: isometric, yaw: 30}", 30, 35.264},
		spec{"camera: {type: isometric}", 45, 35.264},
	}

	for index, s := range specs {
		cfg, err := Parse([]byte(s.yaml))
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		sc, err := cfg.Build()
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}
		cam := sc.Camera.(*scene.IsometricCamera)
		if math32.Abs(cam.Yaw-mgl32.DegToRad(s.expYaw)) > 1e-5 || math32.Abs(cam.Pitch-mgl32.DegToRad(s.expPitchDeg)) > 1e-5 {
			t.Fatalf("[spec %d] expected yaw %f pitch %f; got %f %f", index, s.expYaw, s.expPitchDeg, cam.Yaw, cam.Pitch)
		}
	}
}
