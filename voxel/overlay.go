package voxel

import "github.com/fralonra/Shape-Z-sub000/types"

type overlayState uint8

const (
	overlayUntouched overlayState = iota
	overlayAdded
	overlayRemoved
)

// Overlay holds staged edits that are layered above committed storage. A
// key is either added or removed, never both.
type Overlay struct {
	added   map[VoxelKey]MaterialID
	removed map[VoxelKey]struct{}

	// Number of staged additions per chunk; lets traversal enter chunks
	// that only exist in the preview.
	chunkAdds map[types.IVec3]int

	// Density of the first staged addition per chunk. Used for chunks that
	// do not exist in committed storage yet.
	chunkDensity map[types.IVec3]int
}

func newOverlay() *Overlay {
	return &Overlay{
		added:        make(map[VoxelKey]MaterialID),
		removed:      make(map[VoxelKey]struct{}),
		chunkAdds:    make(map[types.IVec3]int),
		chunkDensity: make(map[types.IVec3]int),
	}
}

// Get the number of staged edits.
func (o *Overlay) Len() int {
	return len(o.added) + len(o.removed)
}

// Get the number of staged additions and removals.
func (o *Overlay) Counts() (added, removed int) {
	return len(o.added), len(o.removed)
}

func (o *Overlay) lookup(key VoxelKey) (MaterialID, overlayState) {
	if m, ok := o.added[key]; ok {
		return m, overlayAdded
	}
	if _, ok := o.removed[key]; ok {
		return Empty, overlayRemoved
	}
	return Empty, overlayUntouched
}

func (o *Overlay) add(key VoxelKey, m MaterialID) {
	delete(o.removed, key)
	if _, exists := o.added[key]; !exists {
		if o.chunkAdds[key.Chunk]++; o.chunkAdds[key.Chunk] == 1 {
			o.chunkDensity[key.Chunk] = key.Density
		}
	}
	o.added[key] = m
}

func (o *Overlay) unstage(key VoxelKey) {
	if _, exists := o.added[key]; !exists {
		return
	}
	delete(o.added, key)
	if o.chunkAdds[key.Chunk]--; o.chunkAdds[key.Chunk] <= 0 {
		delete(o.chunkAdds, key.Chunk)
		delete(o.chunkDensity, key.Chunk)
	}
}

func (o *Overlay) remove(key VoxelKey) {
	o.unstage(key)
	o.removed[key] = struct{}{}
}

func (o *Overlay) hasAdds(chunk types.IVec3) bool {
	return o.chunkAdds[chunk] > 0
}

func (o *Overlay) clear() {
	if o.Len() == 0 {
		return
	}
	o.added = make(map[VoxelKey]MaterialID)
	o.removed = make(map[VoxelKey]struct{})
	o.chunkAdds = make(map[types.IVec3]int)
	o.chunkDensity = make(map[types.IVec3]int)
}

// Get the active preview overlay.
func (g *Grid) Overlay() *Overlay {
	return g.overlay
}

// Check whether there are staged edits.
func (g *Grid) HasPreview() bool {
	return g.overlay.Len() != 0
}

func (g *Grid) previewAddKey(key VoxelKey, m MaterialID) {
	if !m.Present() {
		g.previewRemoveKey(key)
		return
	}
	g.overlay.add(key, m)
}

func (g *Grid) previewRemoveKey(key VoxelKey) {
	_, committed := g.committed(key)
	if committed {
		g.overlay.remove(key)
		return
	}
	// Nothing to remove underneath; dropping a staged addition is enough.
	g.overlay.unstage(key)
}

// PreviewAdd stages m at world point p. Passing Empty or Clear stages a
// removal. It returns false if p lies outside the grid.
func (g *Grid) PreviewAdd(p types.Vec3, m MaterialID) bool {
	key, ok := g.Key(p)
	if !ok {
		return false
	}
	g.previewAddKey(key, m)
	return true
}

// PreviewRemove stages the removal of the voxel at p. It is a no-op if the
// voxel is currently empty.
func (g *Grid) PreviewRemove(p types.Vec3) bool {
	key, ok := g.Key(p)
	if !ok {
		return false
	}
	if _, present := g.Get(key); !present {
		return false
	}
	g.previewRemoveKey(key)
	return true
}

// PreviewFill stages m for every voxel whose center lies in box and returns
// the number of voxels touched.
func (g *Grid) PreviewFill(box types.AABB, m MaterialID) int {
	return g.PreviewFillDensity(box, m, 0)
}

// PreviewFillDensity behaves like PreviewFill but stages voxels of chunks
// that do not exist yet at the given density. Existing chunks keep their
// own density; 0 selects the grid default.
func (g *Grid) PreviewFillDensity(box types.AABB, m MaterialID, density int) int {
	touched := 0
	g.keysInBox(box, density, func(key VoxelKey) {
		if m.Present() {
			g.previewAddKey(key, m)
			touched++
			return
		}
		if _, present := g.Get(key); present {
			g.previewRemoveKey(key)
			touched++
		}
	})
	return touched
}

// ClearPreview discards all staged edits.
func (g *Grid) ClearPreview() {
	g.overlay.clear()
}
