package mutationboard

// Board is a dense 10x10 occupancy map with per-cell unlocked/occupied
// state (spec.md §4.2). Unlocked is set at construction and immutable;
// Occupied toggles as mutation footprints are claimed and released.
type Board struct {
	unlocked [BoardSize * BoardSize]bool
	occupied [BoardSize * BoardSize]bool
}

// NewBoard builds a Board whose unlocked cells are exactly those in
// unlockedCells. Cells not listed are permanently locked.
func NewBoard(unlockedCells []Cell) *Board {
	b := &Board{}
	for _, c := range unlockedCells {
		if c.InBounds() {
			b.unlocked[c.index()] = true
		}
	}
	return b
}

// Clone returns a deep copy; Board is a fixed-size value type so this is a
// plain struct copy, O(cells) as spec.md §4.2 requires.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// IsUnlocked reports whether c is part of the usable cell set.
func (b *Board) IsUnlocked(c Cell) bool {
	return c.InBounds() && b.unlocked[c.index()]
}

// IsOccupied reports whether c currently holds part of a mutation
// footprint.
func (b *Board) IsOccupied(c Cell) bool {
	return c.InBounds() && b.occupied[c.index()]
}

// IsFree reports in-bounds ∧ unlocked ∧ not occupied (spec.md §4.2).
func (b *Board) IsFree(c Cell) bool {
	return c.InBounds() && b.unlocked[c.index()] && !b.occupied[c.index()]
}

// FitsRect reports whether every cell of the w x h rectangle anchored at c
// is free.
func (b *Board) FitsRect(anchor Cell, fp Footprint) bool {
	if anchor.X < 0 || anchor.Y < 0 || anchor.X+fp.W > BoardSize || anchor.Y+fp.H > BoardSize {
		return false
	}
	for dy := 0; dy < fp.H; dy++ {
		for dx := 0; dx < fp.W; dx++ {
			if !b.IsFree(Cell{X: anchor.X + dx, Y: anchor.Y + dy}) {
				return false
			}
		}
	}
	return true
}

// OccupyRect marks every cell of the rectangle anchored at c as occupied.
// Callers must have verified FitsRect first; OccupyRect does not re-check.
func (b *Board) OccupyRect(anchor Cell, fp Footprint) {
	for dy := 0; dy < fp.H; dy++ {
		for dx := 0; dx < fp.W; dx++ {
			b.occupied[(Cell{X: anchor.X + dx, Y: anchor.Y + dy}).index()] = true
		}
	}
}

// ReleaseRect clears the occupied flag on every cell of the rectangle
// anchored at c.
func (b *Board) ReleaseRect(anchor Cell, fp Footprint) {
	for dy := 0; dy < fp.H; dy++ {
		for dx := 0; dx < fp.W; dx++ {
			b.occupied[(Cell{X: anchor.X + dx, Y: anchor.Y + dy}).index()] = false
		}
	}
}

// OccupyCell marks a single cell (a crop cell) as occupied.
func (b *Board) OccupyCell(c Cell) { b.occupied[c.index()] = true }

// ReleaseCell clears the occupied flag on a single cell.
func (b *Board) ReleaseCell(c Cell) { b.occupied[c.index()] = false }

// UnlockedCells returns every unlocked cell in row-major order.
func (b *Board) UnlockedCells() []Cell {
	var out []Cell
	for i := 0; i < BoardSize*BoardSize; i++ {
		if b.unlocked[i] {
			out = append(out, cellFromIndex(i))
		}
	}
	return out
}
