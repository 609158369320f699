package types

import "github.com/chewxy/math32"

// Direction components smaller than this are treated as parallel to the
// corresponding axis when computing reciprocals.
const DirEpsilon float32 = 1e-7

type Ray struct {
	Origin Vec3
	Dir    Vec3

	// Clamped reciprocal direction and per-axis step signs (+1/-1).
	InvDir Vec3
	Sign   IVec3
}

// Create a ray; dir is normalized and traversal helpers are cached.
func NewRay(origin, dir Vec3) Ray {
	r := Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
	}
	for axis := 0; axis < 3; axis++ {
		d := r.Dir[axis]
		sign := 1
		if d < 0 {
			sign = -1
		}
		r.Sign[axis] = sign
		r.InvDir[axis] = float32(sign) / math32.Max(math32.Abs(d), DirEpsilon)
	}
	return r
}

// Get the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
