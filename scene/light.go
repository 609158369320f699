package scene

import "github.com/fralonra/Shape-Z-sub000/types"

// Light is a disc shaped area light that always faces the shaded point.
type Light struct {
	Position  types.Vec3
	Radius    float32
	Color     types.Vec3
	Intensity float32
}

func DefaultLight() Light {
	return Light{
		Position:  types.XYZ(4, 8, 6),
		Radius:    1.5,
		Color:     types.XYZ(1, 1, 1),
		Intensity: 40,
	}
}

// Get the emitted radiance.
func (l Light) Radiance() types.Vec3 {
	return l.Color.Mul(l.Intensity)
}
