package voxel

import (
	"github.com/chewxy/math32"
	"github.com/fralonra/Shape-Z-sub000/types"
)

// MaxTraversalDistance bounds the distance walked by DDA so that rays
// starting far outside the grid always terminate.
const MaxTraversalDistance float32 = 1000

type HitKind uint8

const (
	Miss HitKind = iota
	// The ray crossed the grid box without touching a voxel.
	BoundsHit
	VoxelHit
)

// Face identifies a side of an axis-aligned cube.
type Face uint8

const (
	FaceNone Face = iota
	FaceNegX
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ
)

// Get the outward normal of the face.
func (f Face) Normal() types.Vec3 {
	switch f {
	case FaceNegX:
		return types.Vec3{-1, 0, 0}
	case FacePosX:
		return types.Vec3{1, 0, 0}
	case FaceNegY:
		return types.Vec3{0, -1, 0}
	case FacePosY:
		return types.Vec3{0, 1, 0}
	case FaceNegZ:
		return types.Vec3{0, 0, -1}
	case FacePosZ:
		return types.Vec3{0, 0, 1}
	}
	return types.Vec3{}
}

func (f Face) String() string {
	switch f {
	case FaceNegX:
		return "-X"
	case FacePosX:
		return "+X"
	case FaceNegY:
		return "-Y"
	case FacePosY:
		return "+Y"
	case FaceNegZ:
		return "-Z"
	case FacePosZ:
		return "+Z"
	}
	return "none"
}

// Pick the face of a cube centered at center that p lies on, using the axis
// with the largest offset.
func faceFromOffset(p, center types.Vec3) Face {
	off := p.Sub(center)
	abs := off.Abs()
	axis := 0
	if abs[1] > abs[axis] {
		axis = 1
	}
	if abs[2] > abs[axis] {
		axis = 2
	}
	face := Face(1 + 2*axis)
	if off[axis] > 0 {
		face++
	}
	return face
}

// HitRecord describes the outcome of a grid traversal.
type HitRecord struct {
	Kind     HitKind
	Material MaterialID

	Point    types.Vec3
	Normal   types.Vec3
	Face     Face
	Distance float32

	// Voxel location; valid for VoxelHit.
	Chunk   types.IVec3
	Local   types.IVec3
	Density int
}

// Get the key of the voxel that was hit.
func (h HitRecord) Key() VoxelKey {
	return VoxelKey{Chunk: h.Chunk, Local: h.Local, Density: h.Density}
}

// DDA traces r through the grid, honoring staged preview edits.
func (g *Grid) DDA(r types.Ray) HitRecord {
	return g.DDAWithin(r, MaxTraversalDistance)
}

// DDAWithin traces r through the grid up to maxDist. Traversal first steps
// through the one unit chunk lattice and, for every occupied chunk, steps
// through that chunk's voxels at its own density.
func (g *Grid) DDAWithin(r types.Ray, maxDist float32) HitRecord {
	box := g.Box()
	tNear, tFar, ok := box.Intersect(r)
	if !ok {
		return HitRecord{Kind: Miss}
	}
	tEnter := math32.Max(tNear, 0)
	tExit := math32.Min(tFar, maxDist)
	if tEnter > tExit {
		return HitRecord{Kind: Miss}
	}

	half := g.halfExtent()
	origin := r.Origin.Add(half)
	chunk := types.FloorVec3(origin.Add(r.Dir.Mul(tEnter)))
	for axis := 0; axis < 3; axis++ {
		if chunk[axis] < 0 {
			chunk[axis] = 0
		} else if chunk[axis] >= g.bounds[axis] {
			chunk[axis] = g.bounds[axis] - 1
		}
	}

	var tMax, tDelta types.Vec3
	for axis := 0; axis < 3; axis++ {
		next := chunk[axis]
		if r.Sign[axis] > 0 {
			next++
		}
		tMax[axis] = (float32(next) - origin[axis]) * r.InvDir[axis]
		tDelta[axis] = math32.Abs(r.InvDir[axis])
	}

	tCur := tEnter
	enterAxis := -1
	if tNear >= 0 {
		enterAxis = slabAxis(box, r)
	}
	maxSteps := g.bounds[0] + g.bounds[1] + g.bounds[2] + 3
	for step := 0; step < maxSteps; step++ {
		axis := minAxis(tMax)
		tNext := math32.Min(tMax[axis], tExit)

		if g.chunks[chunk] != nil || g.overlay.hasAdds(chunk) {
			if hit := g.traceChunk(r, origin, chunk, tCur, tNext, enterAxis); hit.Kind == VoxelHit {
				return hit
			}
		}
		if tMax[axis] >= tExit {
			break
		}

		chunk[axis] += r.Sign[axis]
		if chunk[axis] < 0 || chunk[axis] >= g.bounds[axis] {
			break
		}
		tCur = tMax[axis]
		tMax[axis] += tDelta[axis]
		enterAxis = axis
	}

	point := r.At(tEnter)
	face := FaceNone
	if tNear >= 0 {
		face = boxEntryFace(box, point)
	}
	return HitRecord{
		Kind:     BoundsHit,
		Point:    point,
		Normal:   face.Normal(),
		Face:     face,
		Distance: tEnter,
	}
}

// Step through the voxels of a single chunk between t0 and t1. enterAxis is
// the axis crossed to reach the first voxel or -1 when the ray starts inside.
func (g *Grid) traceChunk(r types.Ray, origin types.Vec3, chunk types.IVec3, t0, t1 float32, enterAxis int) HitRecord {
	density := g.chunkDensity(chunk)
	half := g.halfExtent()
	chunkMin := chunk.Vec3().Sub(half)
	chunkBox := types.AABB{Min: chunkMin, Max: chunkMin.Add(types.Splat3(1))}

	cNear, cFar, ok := chunkBox.Intersect(r)
	if !ok {
		return HitRecord{Kind: Miss}
	}
	t := math32.Max(cNear, t0)
	tEnd := math32.Min(cFar, t1)
	if t > tEnd {
		return HitRecord{Kind: Miss}
	}

	d := float32(density)
	vs := 1 / d
	entry := origin.Add(r.Dir.Mul(t)).Sub(chunk.Vec3())
	local := localIndex(entry, density)

	var tMax, tDelta types.Vec3
	for axis := 0; axis < 3; axis++ {
		next := local[axis]
		if r.Sign[axis] > 0 {
			next++
		}
		boundary := float32(chunk[axis]) + float32(next)*vs
		tMax[axis] = (boundary - origin[axis]) * r.InvDir[axis]
		tDelta[axis] = vs * math32.Abs(r.InvDir[axis])
	}

	limit := types.IVec3{density, density, density}
	maxSteps := 3*density + 3
	for step := 0; step < maxSteps; step++ {
		key := VoxelKey{Chunk: chunk, Local: local, Density: density}
		if m, present := g.Get(key); present {
			point := r.At(t)
			face := faceFromAxis(enterAxis, r)
			if face == FaceNone {
				face = faceFromOffset(point, g.ToWorld(key))
			}
			return HitRecord{
				Kind:     VoxelHit,
				Material: m,
				Point:    point,
				Normal:   face.Normal(),
				Face:     face,
				Distance: t,
				Chunk:    chunk,
				Local:    local,
				Density:  density,
			}
		}

		axis := minAxis(tMax)
		if tMax[axis] > tEnd {
			break
		}
		t = tMax[axis]
		local[axis] += r.Sign[axis]
		if !local.InRange(limit) {
			break
		}
		tMax[axis] += tDelta[axis]
		enterAxis = axis
	}
	return HitRecord{Kind: Miss}
}

// Get the face crossed when stepping along axis, which faces against the ray.
func faceFromAxis(axis int, r types.Ray) Face {
	if axis < 0 {
		return FaceNone
	}
	if r.Sign[axis] > 0 {
		return Face(1 + 2*axis)
	}
	return Face(2 + 2*axis)
}

// Find the axis whose slab the ray enters last, which is the axis of the
// entry face.
func slabAxis(box types.AABB, r types.Ray) int {
	axis := 0
	best := float32(-math32.MaxFloat32)
	for i := 0; i < 3; i++ {
		lo := (box.Min[i] - r.Origin[i]) * r.InvDir[i]
		hi := (box.Max[i] - r.Origin[i]) * r.InvDir[i]
		if t := math32.Min(lo, hi); t > best {
			best = t
			axis = i
		}
	}
	return axis
}

func minAxis(v types.Vec3) int {
	axis := 0
	if v[1] < v[axis] {
		axis = 1
	}
	if v[2] < v[axis] {
		axis = 2
	}
	return axis
}

// Pick the face of box closest to p, relative to the box half size.
func boxEntryFace(box types.AABB, p types.Vec3) Face {
	size := box.Size()
	off := p.Sub(box.Center())
	var scaled types.Vec3
	for axis := 0; axis < 3; axis++ {
		scaled[axis] = off[axis] / math32.Max(size[axis], 1e-6)
	}
	return faceFromOffset(scaled, types.Vec3{})
}
