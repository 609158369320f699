package types

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Create a box from two corners in any order.
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: MinVec3(a, b), Max: MaxVec3(a, b)}
}

// Get box center.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get box extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Check whether p lies inside the box (max faces excluded).
func (b AABB) Contains(p Vec3) bool {
	return p[0] >= b.Min[0] && p[1] >= b.Min[1] && p[2] >= b.Min[2] &&
		p[0] < b.Max[0] && p[1] < b.Max[1] && p[2] < b.Max[2]
}

// Intersect runs the slab test against the ray and returns the entry and
// exit distances. tNear may be negative when the origin is inside the box.
func (b AABB) Intersect(r Ray) (tNear, tFar float32, ok bool) {
	tNear = -maxRayDistance
	tFar = maxRayDistance
	for axis := 0; axis < 3; axis++ {
		t1 := (b.Min[axis] - r.Origin[axis]) * r.InvDir[axis]
		t2 := (b.Max[axis] - r.Origin[axis]) * r.InvDir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
	}

	if tFar < 0 || tNear > tFar {
		return 0, 0, false
	}
	return tNear, tFar, true
}

const maxRayDistance float32 = 3.4e38
