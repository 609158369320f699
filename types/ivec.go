package types

import (
	"fmt"

	"github.com/chewxy/math32"
)

// IVec3 is an integer 3-tuple used for chunk and voxel coordinates.
type IVec3 [3]int

// Define an integer 3 component vector.
func IXYZ(x, y, z int) IVec3 {
	return IVec3{x, y, z}
}

// Floor each component of v into an IVec3.
func FloorVec3(v Vec3) IVec3 {
	return IVec3{int(math32.Floor(v[0])), int(math32.Floor(v[1])), int(math32.Floor(v[2]))}
}

// Add a vector.
func (v IVec3) Add(v2 IVec3) IVec3 {
	return IVec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v IVec3) Sub(v2 IVec3) IVec3 {
	return IVec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Convert to a float vector.
func (v IVec3) Vec3() Vec3 {
	return Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Check whether every component lies in [0, limit).
func (v IVec3) InRange(limit IVec3) bool {
	return v[0] >= 0 && v[1] >= 0 && v[2] >= 0 &&
		v[0] < limit[0] && v[1] < limit[1] && v[2] < limit[2]
}

func (v IVec3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v[0], v[1], v[2])
}
