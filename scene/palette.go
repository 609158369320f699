package scene

import (
	"math"

	"github.com/fralonra/Shape-Z-sub000/types"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette is the fixed table of materials addressed by voxel ids.
type Palette struct {
	entries [PaletteSize]Material
}

// Create a palette with a gray ramp followed by a hue/value sweep.
func DefaultPalette() *Palette {
	p := &Palette{}
	p.entries[0] = Material{Name: "empty", Color: colorful.Color{}}

	const grays = 16
	for i := 0; i < grays; i++ {
		v := float64(i) / float64(grays-1)
		p.entries[1+i] = NewMaterial(colorful.Color{R: v, G: v, B: v})
	}

	idx := 1 + grays
	values := []float64{1.0, 0.8, 0.6, 0.4}
	saturations := []float64{0.9, 0.5}
	const hues = 29
	for _, v := range values {
		for _, s := range saturations {
			for h := 0; h < hues && idx < PaletteSize-1; h++ {
				p.entries[idx] = NewMaterial(colorful.Hsv(float64(h)*360/hues, s, v))
				idx++
			}
		}
	}
	for ; idx < PaletteSize; idx++ {
		p.entries[idx] = NewMaterial(colorful.Color{R: 1, G: 1, B: 1})
	}
	return p
}

// Get the material at index.
func (p *Palette) Get(index uint8) *Material {
	return &p.entries[index]
}

// Replace the material at index.
func (p *Palette) Set(index uint8, m Material) {
	p.entries[index] = m
}

// Find the palette entry closest to a linear color, comparing in sRGB. The
// reserved empty (0) and clear (255) slots are never returned.
func (p *Palette) Nearest(linear types.Vec3) (uint8, *Material) {
	target := colorful.LinearRgb(
		float64(types.Clamp(linear[0], 0, 1)),
		float64(types.Clamp(linear[1], 0, 1)),
		float64(types.Clamp(linear[2], 0, 1)),
	)

	best := uint8(1)
	bestDist := math.MaxFloat64
	for i := 1; i < PaletteSize-1; i++ {
		d := target.DistanceRgb(p.entries[i].Color)
		if d < bestDist {
			bestDist = d
			best = uint8(i)
		}
	}
	return best, &p.entries[best]
}
