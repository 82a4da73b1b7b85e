package mutationboard

// State composes a Board, a CropMap, and a PlacementMap, plus the set of
// reserved-empty cells isolation halos have claimed (spec.md §3 "State
// invariants", §4 "State"). It is the unit the optimizer clones and
// mutates; invariant 7 means reserved-empty cells persist even after the
// isolation instance that created them is removed — a deliberate
// simplification pinned by a test, see DESIGN.md.
type State struct {
	Board      *Board
	Crops      *CropMap
	Placements *PlacementMap
	Reserved   map[Cell]bool
}

// NewState builds an empty State over the given unlocked cell set.
func NewState(unlockedCells []Cell) *State {
	return &State{
		Board:      NewBoard(unlockedCells),
		Crops:      NewCropMap(),
		Placements: NewPlacementMap(),
		Reserved:   make(map[Cell]bool),
	}
}

// Clone returns a deep, independent copy of s.
func (s *State) Clone() *State {
	reserved := make(map[Cell]bool, len(s.Reserved))
	for c := range s.Reserved {
		reserved[c] = true
	}
	return &State{
		Board:      s.Board.Clone(),
		Crops:      s.Crops.Clone(),
		Placements: s.Placements.Clone(),
		Reserved:   reserved,
	}
}

// IsReservedEmpty reports whether c is a soft isolation-halo reservation.
func (s *State) IsReservedEmpty(c Cell) bool { return s.Reserved[c] }

// PlacementCount returns the number of live placements.
func (s *State) PlacementCount() int { return s.Placements.Len() }

// Equal reports whether two states have identical placements and crops;
// reserved-empty cells are not compared — used by the round-trip law in
// spec.md §8 ("execute then remove equals the original state modulo
// reserved-empty cells").
func (s *State) Equal(other *State) bool {
	if s.Placements.Len() != other.Placements.Len() {
		return false
	}
	equalPlacement := true
	s.Placements.All(func(p *Placement) {
		op := other.Placements.Get(p.InstanceID)
		if op == nil || op.Anchor != p.Anchor || op.Footprint != p.Footprint || len(op.Crops) != len(p.Crops) {
			equalPlacement = false
		}
	})
	if !equalPlacement {
		return false
	}
	if s.Crops.Len() != other.Crops.Len() {
		return false
	}
	equalCrop := true
	s.Crops.All(func(rec *CropRecord) {
		orec := other.Crops.At(rec.Cell)
		if orec == nil || orec.Crop != rec.Crop || len(orec.Serving) != len(rec.Serving) {
			equalCrop = false
		}
	})
	return equalCrop
}
