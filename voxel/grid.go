package voxel

import (
	"github.com/chewxy/math32"
	"github.com/fralonra/Shape-Z-sub000/types"
)

// VoxelKey addresses a single voxel: the chunk it lives in, its local index
// and the resolution the local index was computed at.
type VoxelKey struct {
	Chunk   types.IVec3
	Local   types.IVec3
	Density int
}

// Grid is a sparse set of chunks centered at the world origin. Each chunk
// covers one world unit; chunks are created on first write and dropped
// once they become empty.
//
// Grid performs no locking; callers sharing a grid between an editor and a
// renderer must synchronize access (see scene.Scene).
type Grid struct {
	bounds  types.IVec3
	density int

	chunks  map[types.IVec3]*Chunk
	overlay *Overlay

	undoStack []Diff
	redoStack []Diff
}

// Create a grid with the given extent in chunks and default chunk density.
func NewGrid(bounds types.IVec3, density int) *Grid {
	for axis := range bounds {
		if bounds[axis] < 1 {
			bounds[axis] = 1
		}
	}
	if density < 1 {
		density = 1
	}
	return &Grid{
		bounds:  bounds,
		density: density,
		chunks:  make(map[types.IVec3]*Chunk),
		overlay: newOverlay(),
	}
}

// Get the grid extent in world units (one chunk per unit).
func (g *Grid) Bounds() types.IVec3 {
	return g.bounds
}

// Get the default density used for new chunks.
func (g *Grid) Density() int {
	return g.density
}

// Get the world space bounding box of the grid.
func (g *Grid) Box() types.AABB {
	half := g.halfExtent()
	return types.AABB{Min: half.Neg(), Max: half}
}

func (g *Grid) halfExtent() types.Vec3 {
	return g.bounds.Vec3().Mul(0.5)
}

// Locate maps a world point to its chunk coordinate and the fractional
// offset inside that chunk, in [0,1) per axis.
func (g *Grid) Locate(p types.Vec3) (types.IVec3, types.Vec3) {
	shifted := p.Add(g.halfExtent())
	chunk := types.FloorVec3(shifted)
	return chunk, shifted.Sub(chunk.Vec3())
}

// Get the chunk at coordinate c or nil.
func (g *Grid) Chunk(c types.IVec3) *Chunk {
	return g.chunks[c]
}

// Get the number of allocated chunks.
func (g *Grid) ChunkCount() int {
	return len(g.chunks)
}

// Get the number of committed voxels.
func (g *Grid) VoxelCount() int {
	total := 0
	for _, ch := range g.chunks {
		total += ch.Count()
	}
	return total
}

// Invoke fn for every allocated chunk until it returns false.
func (g *Grid) Chunks(fn func(c types.IVec3, ch *Chunk) bool) {
	for c, ch := range g.chunks {
		if !fn(c, ch) {
			return
		}
	}
}

// Get the density voxels of chunk c are addressed at. Chunks that only exist
// in the preview use the density they were staged with.
func (g *Grid) chunkDensity(c types.IVec3) int {
	return g.chunkDensityOr(c, g.density)
}

func (g *Grid) chunkDensityOr(c types.IVec3, fallback int) int {
	if ch := g.chunks[c]; ch != nil {
		return ch.density
	}
	if d, ok := g.overlay.chunkDensity[c]; ok {
		return d
	}
	if fallback < 1 {
		return g.density
	}
	return fallback
}

func localIndex(frac types.Vec3, density int) types.IVec3 {
	return clampLocal(types.FloorVec3(frac.Mul(float32(density))), density)
}

func clampLocal(local types.IVec3, density int) types.IVec3 {
	for axis := range local {
		if local[axis] < 0 {
			local[axis] = 0
		} else if local[axis] >= density {
			local[axis] = density - 1
		}
	}
	return local
}

// Key resolves the voxel containing world point p. It returns false if p
// lies outside the grid bounds.
func (g *Grid) Key(p types.Vec3) (VoxelKey, bool) {
	chunk, frac := g.Locate(p)
	if !chunk.InRange(g.bounds) {
		return VoxelKey{}, false
	}
	density := g.chunkDensity(chunk)
	return VoxelKey{Chunk: chunk, Local: localIndex(frac, density), Density: density}, true
}

// ToWorld returns the world space center of the voxel addressed by key.
func (g *Grid) ToWorld(key VoxelKey) types.Vec3 {
	vs := 1 / float32(key.Density)
	center := key.Local.Vec3().Add(types.Splat3(0.5)).Mul(vs)
	return key.Chunk.Vec3().Add(center).Sub(g.halfExtent())
}

// Translate the local index of key into the resolution used by an existing
// chunk when the two differ.
func remapLocal(key VoxelKey, density int) types.IVec3 {
	if key.Density == density || key.Density < 1 {
		return key.Local
	}
	scale := float32(density) / float32(key.Density)
	return clampLocal(types.FloorVec3(key.Local.Vec3().Add(types.Splat3(0.5)).Mul(scale)), density)
}

func (g *Grid) committed(key VoxelKey) (MaterialID, bool) {
	ch := g.chunks[key.Chunk]
	if ch == nil {
		return Empty, false
	}
	return ch.Get(remapLocal(key, ch.density))
}

// Get the committed or previewed material of the voxel at key.
func (g *Grid) Get(key VoxelKey) (MaterialID, bool) {
	if m, state := g.overlay.lookup(key); state != overlayUntouched {
		return m, state == overlayAdded
	}
	return g.committed(key)
}

// Write m into committed storage and return the previous value. Missing
// chunks are created with key.Density; chunks left empty are removed.
func (g *Grid) set(key VoxelKey, m MaterialID) (MaterialID, bool) {
	if !key.Chunk.InRange(g.bounds) {
		return Empty, false
	}
	ch := g.chunks[key.Chunk]
	if ch == nil {
		if !m.Present() {
			return Empty, false
		}
		density := key.Density
		if density < 1 {
			density = g.density
		}
		ch = NewChunk(density)
		g.chunks[key.Chunk] = ch
	}

	prev, ok := ch.Set(remapLocal(key, ch.density), m)
	if ch.IsEmpty() {
		delete(g.chunks, key.Chunk)
	}
	return prev, ok
}

// GetWorld resolves the material at world point p, checking staged preview
// edits before committed storage. Points outside the grid are empty.
func (g *Grid) GetWorld(p types.Vec3) (MaterialID, bool) {
	key, ok := g.Key(p)
	if !ok {
		return Empty, false
	}
	return g.Get(key)
}

// SetWorld writes m at world point p bypassing the preview overlay and the
// undo history. A missing chunk is created with density, or the grid
// default when density is 0. It returns the previous material.
func (g *Grid) SetWorld(p types.Vec3, m MaterialID, density int) (MaterialID, bool) {
	chunk, frac := g.Locate(p)
	if !chunk.InRange(g.bounds) {
		return Empty, false
	}
	if density < 1 {
		density = g.density
	}
	if ch := g.chunks[chunk]; ch != nil {
		density = ch.density
	}
	key := VoxelKey{Chunk: chunk, Local: localIndex(frac, density), Density: density}
	return g.set(key, m)
}

// Iterate the keys of all voxels whose centers lie inside box. Each chunk is
// visited at its own density; chunks that do not exist use fallback.
func (g *Grid) keysInBox(box types.AABB, fallback int, fn func(key VoxelKey)) {
	half := g.halfExtent()
	lo := types.FloorVec3(box.Min.Add(half))
	hi := types.FloorVec3(box.Max.Add(half))
	for axis := 0; axis < 3; axis++ {
		if lo[axis] < 0 {
			lo[axis] = 0
		}
		if hi[axis] >= g.bounds[axis] {
			hi[axis] = g.bounds[axis] - 1
		}
	}

	for cz := lo[2]; cz <= hi[2]; cz++ {
		for cy := lo[1]; cy <= hi[1]; cy++ {
			for cx := lo[0]; cx <= hi[0]; cx++ {
				chunk := types.IVec3{cx, cy, cz}
				density := g.chunkDensityOr(chunk, fallback)
				origin := chunk.Vec3().Sub(half)

				var first, last types.IVec3
				for axis := 0; axis < 3; axis++ {
					first[axis] = int(math32.Ceil((box.Min[axis]-origin[axis])*float32(density) - 0.5))
					last[axis] = int(math32.Ceil((box.Max[axis]-origin[axis])*float32(density)-0.5)) - 1
					if first[axis] < 0 {
						first[axis] = 0
					}
					if last[axis] >= density {
						last[axis] = density - 1
					}
				}

				for z := first[2]; z <= last[2]; z++ {
					for y := first[1]; y <= last[1]; y++ {
						for x := first[0]; x <= last[0]; x++ {
							fn(VoxelKey{Chunk: chunk, Local: types.IVec3{x, y, z}, Density: density})
						}
					}
				}
			}
		}
	}
}
