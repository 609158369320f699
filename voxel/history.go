package voxel

// Change records the material of one voxel before and after a commit.
// Empty stands for absence.
type Change struct {
	Prev MaterialID
	New  MaterialID
}

// Diff is the reversible set of changes applied by a single commit.
type Diff map[VoxelKey]Change

func (g *Grid) apply(d Diff, forward bool) {
	for key, ch := range d {
		m := ch.Prev
		if forward {
			m = ch.New
		}
		g.set(key, m)
	}
}

// CommitPreview writes all staged edits to storage as one undoable step.
// Removals are applied before additions. The redo history is discarded. It
// returns false if nothing was staged.
func (g *Grid) CommitPreview() bool {
	if g.overlay.Len() == 0 {
		return false
	}

	diff := make(Diff, g.overlay.Len())
	for key := range g.overlay.removed {
		prev, _ := g.set(key, Empty)
		diff[key] = Change{Prev: prev, New: Empty}
	}
	for key, m := range g.overlay.added {
		prev, _ := g.set(key, m)
		diff[key] = Change{Prev: prev, New: m}
	}
	g.overlay.clear()

	g.undoStack = append(g.undoStack, diff)
	g.redoStack = nil
	return true
}

// Undo reverts the most recent commit. It returns false if there is nothing
// to undo.
func (g *Grid) Undo() bool {
	n := len(g.undoStack)
	if n == 0 {
		return false
	}
	diff := g.undoStack[n-1]
	g.undoStack = g.undoStack[:n-1]
	g.apply(diff, false)
	g.redoStack = append(g.redoStack, diff)
	return true
}

// Redo re-applies the most recently undone commit. It returns false if there
// is nothing to redo.
func (g *Grid) Redo() bool {
	n := len(g.redoStack)
	if n == 0 {
		return false
	}
	diff := g.redoStack[n-1]
	g.redoStack = g.redoStack[:n-1]
	g.apply(diff, true)
	g.undoStack = append(g.undoStack, diff)
	return true
}

// Get the number of undoable commits.
func (g *Grid) UndoDepth() int {
	return len(g.undoStack)
}

// Get the number of redoable commits.
func (g *Grid) RedoDepth() int {
	return len(g.redoStack)
}
