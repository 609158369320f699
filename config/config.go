package config

import (
	"os"
	"strings"

	"github.com/fralonra/Shape-Z-sub000/log"
	"github.com/fralonra/Shape-Z-sub000/renderer"
	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/fralonra/Shape-Z-sub000/voxel"
	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidGrid    = errors.New("config: invalid grid definition")
	ErrInvalidPalette = errors.New("config: invalid palette entry")
	ErrInvalidVoxels  = errors.New("config: invalid voxel box")
	ErrInvalidCamera  = errors.New("config: invalid camera definition")
	ErrInvalidLight   = errors.New("config: invalid light definition")
	ErrInvalidRender  = errors.New("config: invalid render settings")
)

var logger = log.New("config")

const (
	CameraOrbit     = "orbit"
	CameraIsometric = "isometric"
	CameraPinhole   = "pinhole"
)

type Vec3 [3]float32

func (v Vec3) vec() types.Vec3 {
	return types.Vec3(v)
}

type Grid struct {
	Bounds  [3]int `yaml:"bounds"`
	Density int    `yaml:"density"`
}

type PaletteEntry struct {
	Index        int     `yaml:"index"`
	Name         string  `yaml:"name"`
	Color        string  `yaml:"color"`
	Metallic     float32 `yaml:"metallic"`
	Emission     float32 `yaml:"emission"`
	IOR          float32 `yaml:"ior"`
	Transmission float32 `yaml:"transmission"`
	ClearCoat    float32 `yaml:"clearcoat"`

	// Unset values keep the material defaults; an explicit 0 is honoured.
	Roughness   *float32 `yaml:"roughness"`
	Reflectance *float32 `yaml:"reflectance"`
}

// VoxelBox fills every voxel whose center lies in [Min, Max) with Material.
type VoxelBox struct {
	Min      Vec3 `yaml:"min"`
	Max      Vec3 `yaml:"max"`
	Material int  `yaml:"material"`

	// Density for chunks created by this box; 0 uses the grid density.
	Density int `yaml:"density"`
}

// Angles are in degrees.
type Camera struct {
	Type      string   `yaml:"type"`
	Center    Vec3     `yaml:"center"`
	Origin    Vec3     `yaml:"origin"`
	Distance  float32  `yaml:"distance"`
	Azimuth   float32  `yaml:"azimuth"`
	Elevation float32  `yaml:"elevation"`
	Yaw       *float32 `yaml:"yaw"`
	Pitch     *float32 `yaml:"pitch"`
	Scale     float32  `yaml:"scale"`
	FOV       float32  `yaml:"fov"`
}

type Light struct {
	Position  Vec3    `yaml:"position"`
	Radius    float32 `yaml:"radius"`
	Color     Vec3    `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
}

type Render struct {
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Iterations int   `yaml:"iterations"`
	Bounces    int   `yaml:"bounces"`
	Workers    int   `yaml:"workers"`
	Quantize   *bool `yaml:"quantize"`
	Seed       int64 `yaml:"seed"`
}

// Config describes a voxel scene and how to render it.
type Config struct {
	Grid       Grid           `yaml:"grid"`
	Palette    []PaletteEntry `yaml:"palette"`
	Voxels     []VoxelBox     `yaml:"voxels"`
	Camera     Camera         `yaml:"camera"`
	Light      *Light         `yaml:"light"`
	Background *Vec3          `yaml:"background"`
	Render     Render         `yaml:"render"`
}

// Load and validate a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: could not read %q", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %q", path)
	}
	return cfg, nil
}

// Parse and validate YAML config data.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "config: malformed yaml")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Grid.Density == 0 {
		cfg.Grid.Density = 8
	}
	if cfg.Grid.Bounds == [3]int{} {
		cfg.Grid.Bounds = [3]int{4, 4, 4}
	}

	cam := &cfg.Camera
	if cam.Type == "" {
		cam.Type = CameraOrbit
	}
	cam.Type = strings.ToLower(cam.Type)
	if cam.FOV == 0 {
		cam.FOV = 45
	}
	if cam.Distance == 0 {
		cam.Distance = 8
	}
	if cam.Scale == 0 {
		cam.Scale = 3
	}
	if cam.Yaw == nil {
		yaw := float32(45)
		cam.Yaw = &yaw
	}
	if cam.Pitch == nil {
		pitch := float32(35.264)
		cam.Pitch = &pitch
	}
	if cam.Origin == (Vec3{}) {
		cam.Origin = Vec3{0, 0, 8}
	}

	r := &cfg.Render
	if r.Width == 0 {
		r.Width = 320
	}
	if r.Height == 0 {
		r.Height = 240
	}
	if r.Iterations == 0 {
		r.Iterations = 16
	}
	if r.Bounces == 0 {
		r.Bounces = 2
	}
	if r.Quantize == nil {
		quantize := true
		r.Quantize = &quantize
	}
}

// Validate the config values.
func (cfg *Config) Validate() error {
	for axis, b := range cfg.Grid.Bounds {
		if b <= 0 {
			return errors.Wrapf(ErrInvalidGrid, "bounds[%d] = %d", axis, b)
		}
	}
	if cfg.Grid.Density <= 0 {
		return errors.Wrapf(ErrInvalidGrid, "density = %d", cfg.Grid.Density)
	}

	for i, entry := range cfg.Palette {
		if entry.Index <= int(voxel.Empty) || entry.Index >= int(voxel.Clear) {
			return errors.Wrapf(ErrInvalidPalette, "entry %d: index %d outside [1, 254]", i, entry.Index)
		}
		if _, err := colorful.Hex(entry.Color); err != nil {
			return errors.Wrapf(ErrInvalidPalette, "entry %d: color %q", i, entry.Color)
		}
		if entry.Transmission > 0 && entry.IOR <= 0 {
			return errors.Wrapf(ErrInvalidPalette, "entry %d: transmission requires a positive ior", i)
		}
	}

	for i, box := range cfg.Voxels {
		if box.Material <= int(voxel.Empty) || box.Material >= int(voxel.Clear) {
			return errors.Wrapf(ErrInvalidVoxels, "box %d: material %d outside [1, 254]", i, box.Material)
		}
		if box.Density < 0 {
			return errors.Wrapf(ErrInvalidVoxels, "box %d: density %d", i, box.Density)
		}
		for axis := 0; axis < 3; axis++ {
			if box.Max[axis] <= box.Min[axis] {
				return errors.Wrapf(ErrInvalidVoxels, "box %d: empty extent on axis %d", i, axis)
			}
		}
	}

	switch cfg.Camera.Type {
	case CameraOrbit, CameraIsometric, CameraPinhole:
	default:
		return errors.Wrapf(ErrInvalidCamera, "unknown type %q", cfg.Camera.Type)
	}
	if cfg.Camera.FOV <= 0 || cfg.Camera.FOV >= 180 {
		return errors.Wrapf(ErrInvalidCamera, "fov %f", cfg.Camera.FOV)
	}
	if p := cfg.Camera.Pitch; cfg.Camera.Type == CameraIsometric && p != nil && (*p <= -90 || *p >= 90) {
		return errors.Wrapf(ErrInvalidCamera, "isometric pitch %f outside (-90, 90)", *p)
	}
	if cfg.Camera.Type == CameraPinhole && cfg.Camera.Origin == cfg.Camera.Center {
		return errors.Wrap(ErrInvalidCamera, "pinhole origin equals center")
	}

	if l := cfg.Light; l != nil && (l.Radius <= 0 || l.Intensity < 0) {
		return errors.Wrapf(ErrInvalidLight, "radius %f intensity %f", l.Radius, l.Intensity)
	}

	r := cfg.Render
	if r.Width <= 0 || r.Height <= 0 {
		return errors.Wrapf(ErrInvalidRender, "frame %dx%d", r.Width, r.Height)
	}
	if r.Iterations < 0 || r.Bounces < 0 || r.Workers < 0 {
		return errors.Wrapf(ErrInvalidRender, "iterations %d bounces %d workers %d", r.Iterations, r.Bounces, r.Workers)
	}
	return nil
}

func (cfg *Config) palette() (*scene.Palette, error) {
	p := scene.DefaultPalette()
	for _, entry := range cfg.Palette {
		c, err := colorful.Hex(entry.Color)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPalette, "color %q", entry.Color)
		}
		m := scene.NewMaterial(c)
		m.Name = entry.Name
		if entry.Roughness != nil {
			m.Roughness = *entry.Roughness
		}
		if entry.Reflectance != nil {
			m.Reflectance = *entry.Reflectance
		}
		m.Metallic = entry.Metallic
		m.Emission = entry.Emission
		m.IOR = entry.IOR
		m.Transmission = entry.Transmission
		m.ClearCoat = entry.ClearCoat
		p.Set(uint8(entry.Index), m)
	}
	return p, nil
}

func (cfg *Config) camera() scene.Camera {
	c := cfg.Camera
	switch c.Type {
	case CameraIsometric:
		cam := scene.NewIsometricCamera(c.Center.vec(), c.Scale)
		if c.Yaw != nil && c.Pitch != nil {
			cam.SetAngles(mgl32.DegToRad(*c.Yaw), mgl32.DegToRad(*c.Pitch))
		}
		return cam
	case CameraPinhole:
		return scene.NewPinholeCamera(c.Origin.vec(), c.Center.vec(), c.FOV)
	}
	return scene.NewOrbitCamera(c.Center.vec(), c.Distance, mgl32.DegToRad(c.Azimuth), mgl32.DegToRad(c.Elevation), c.FOV)
}

// Build the scene described by the config. Every voxel box is staged as a
// preview and committed, producing one undo entry per box.
func (cfg *Config) Build() (*scene.Scene, error) {
	palette, err := cfg.palette()
	if err != nil {
		return nil, err
	}

	grid := voxel.NewGrid(types.IXYZ(cfg.Grid.Bounds[0], cfg.Grid.Bounds[1], cfg.Grid.Bounds[2]), cfg.Grid.Density)
	sc := scene.NewScene(grid, palette, cfg.camera())
	if cfg.Light != nil {
		sc.Light = scene.Light{
			Position:  cfg.Light.Position.vec(),
			Radius:    cfg.Light.Radius,
			Color:     cfg.Light.Color.vec(),
			Intensity: cfg.Light.Intensity,
		}
		if sc.Light.Color == (types.Vec3{}) {
			sc.Light.Color = types.XYZ(1, 1, 1)
		}
	}
	if cfg.Background != nil {
		sc.Background = cfg.Background.vec()
	}

	for _, box := range cfg.Voxels {
		if n := fillBox(grid, box); n == 0 {
			logger.Warningf("voxel box %v-%v does not cover any voxel inside the grid", box.Min, box.Max)
		}
	}
	return sc, nil
}

func fillBox(grid *voxel.Grid, box VoxelBox) int {
	aabb := types.NewAABB(box.Min.vec(), box.Max.vec())
	n := grid.PreviewFillDensity(aabb, voxel.MaterialID(box.Material), box.Density)
	grid.CommitPreview()
	return n
}

// Get the renderer options described by the render section.
func (cfg *Config) Options() renderer.Options {
	r := cfg.Render
	return renderer.Options{
		FrameW:     uint32(r.Width),
		FrameH:     uint32(r.Height),
		Iterations: uint32(r.Iterations),
		NumBounces: uint32(r.Bounces),
		Quantize:   r.Quantize != nil && *r.Quantize,
		Workers:    r.Workers,
		Seed:       r.Seed,
	}
}
