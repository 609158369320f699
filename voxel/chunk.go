package voxel

import "github.com/fralonra/Shape-Z-sub000/types"

// MaterialID is an 8-bit palette index stored per voxel.
type MaterialID uint8

const (
	// Empty marks the absence of a voxel.
	Empty MaterialID = 0

	// Clear can be passed to Set to remove a voxel.
	Clear MaterialID = 255
)

// Check whether id refers to a stored material rather than absence.
func (id MaterialID) Present() bool {
	return id != Empty && id != Clear
}

// Chunk is a 1x1x1 world unit block of voxels with its own resolution.
type Chunk struct {
	density int
	cells   []MaterialID
	count   int
}

// Create an empty chunk with density voxels per axis.
func NewChunk(density int) *Chunk {
	if density < 1 {
		density = 1
	}
	return &Chunk{
		density: density,
		cells:   make([]MaterialID, density*density*density),
	}
}

// Get the number of voxels per axis.
func (c *Chunk) Density() int {
	return c.density
}

// Get the number of populated voxels.
func (c *Chunk) Count() int {
	return c.count
}

// Check whether the chunk holds no voxels.
func (c *Chunk) IsEmpty() bool {
	return c.count == 0
}

func (c *Chunk) index(local types.IVec3) (int, bool) {
	d := c.density
	if !local.InRange(types.IVec3{d, d, d}) {
		return 0, false
	}
	return (local[2]*d+local[1])*d + local[0], true
}

// Get the material at local. The bool result is false if the cell is empty
// or outside the chunk.
func (c *Chunk) Get(local types.IVec3) (MaterialID, bool) {
	idx, ok := c.index(local)
	if !ok {
		return Empty, false
	}
	m := c.cells[idx]
	return m, m != Empty
}

// Set the material at local and return the previous value. Setting Empty or
// Clear removes the voxel. Coordinates outside the chunk are ignored.
func (c *Chunk) Set(local types.IVec3, m MaterialID) (MaterialID, bool) {
	idx, ok := c.index(local)
	if !ok {
		return Empty, false
	}
	if m == Clear {
		m = Empty
	}

	prev := c.cells[idx]
	switch {
	case prev == Empty && m != Empty:
		c.count++
	case prev != Empty && m == Empty:
		c.count--
	}
	c.cells[idx] = m
	return prev, prev != Empty
}

// Invoke fn for every populated voxel until it returns false.
func (c *Chunk) ForEach(fn func(local types.IVec3, m MaterialID) bool) {
	if c.count == 0 {
		return
	}
	d := c.density
	for idx, m := range c.cells {
		if m == Empty {
			continue
		}
		local := types.IVec3{idx % d, (idx / d) % d, idx / (d * d)}
		if !fn(local, m) {
			return
		}
	}
}
