package scene

import (
	"github.com/fralonra/Shape-Z-sub000/types"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of addressable materials.
const PaletteSize = 256

// Material describes the surface response of a voxel.
type Material struct {
	Name string

	// Base color in sRGB space.
	Color colorful.Color

	Roughness float32
	Metallic  float32

	// Probability of taking the glossy lobe instead of the diffuse one.
	Reflectance float32

	// Emission strength; the emitted radiance is Emission * base color.
	Emission float32

	// Index of refraction; 0 means the material is opaque.
	IOR float32

	// Probability of refracting through the surface (requires IOR).
	Transmission float32

	// Clear coat layer weight and roughness.
	ClearCoat          float32
	ClearCoatRoughness float32
}

// Create a rough dielectric material with the given sRGB color.
func NewMaterial(c colorful.Color) Material {
	return Material{
		Color:       c,
		Roughness:   0.5,
		Reflectance: 0.5,
	}
}

// Get the base color in linear space.
func (m *Material) LinearColor() types.Vec3 {
	r, g, b := m.Color.Clamped().LinearRgb()
	return types.XYZ(float32(r), float32(g), float32(b))
}

// Get the emitted radiance.
func (m *Material) Radiance() types.Vec3 {
	if m.Emission <= 0 {
		return types.Vec3{}
	}
	return m.LinearColor().Mul(m.Emission)
}

// Check whether the material refracts light.
func (m *Material) Transmissive() bool {
	return m.Transmission > 0 && m.IOR > 0
}
