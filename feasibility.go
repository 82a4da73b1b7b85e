package mutationboard

// FeasiblePlacement is the result of a feasible FeasibilityChecker run: how
// an anchor's adjacency ring would satisfy a mutation's requirements, and
// which ring cells remain free for new crops (spec.md §4.3).
type FeasiblePlacement struct {
	Anchor         Cell
	SatisfiedCrops map[CropName][]Cell
	SatisfiedDeps  map[MutationID][]InstanceID
	NeededCrops    map[CropName]int
	FreeCells      []Cell
}

// CheckFeasibility is a pure function: given a State, a ParsedMutation, and
// a candidate anchor, it returns either (nil, false) for infeasible or a
// FeasiblePlacement describing how the placement would be realized
// (spec.md §4.3). It never mutates state.
func CheckFeasibility(state *State, m *ParsedMutation, anchor Cell) (*FeasiblePlacement, bool) {
	if !state.Board.FitsRect(anchor, m.Footprint) {
		return nil, false
	}
	for _, c := range footprintCells(anchor, m.Footprint) {
		if state.IsReservedEmpty(c) {
			return nil, false
		}
	}

	ring := ringCells(anchor, m.Footprint)

	if m.Isolated {
		for _, c := range ring {
			if state.Crops.Has(c) {
				return nil, false
			}
		}
		return &FeasiblePlacement{
			Anchor:         anchor,
			SatisfiedCrops: map[CropName][]Cell{},
			SatisfiedDeps:  map[MutationID][]InstanceID{},
			NeededCrops:    map[CropName]int{},
		}, true
	}

	satisfiedCrops := make(map[CropName][]Cell)
	satisfiedDeps := make(map[MutationID][]InstanceID)
	seenDepInstance := make(map[InstanceID]bool)
	var freeCells []Cell

	for _, c := range ring {
		if rec := state.Crops.At(c); rec != nil {
			want, ok := m.Crops[rec.Crop]
			if ok && len(satisfiedCrops[rec.Crop]) < want {
				satisfiedCrops[rec.Crop] = append(satisfiedCrops[rec.Crop], c)
				continue
			}
		}
		if instID, ok := state.Placements.At(c); ok {
			p := state.Placements.Get(instID)
			if p != nil {
				if want, ok := m.Deps[p.MutationID]; ok && !seenDepInstance[instID] && len(satisfiedDeps[p.MutationID]) < want {
					seenDepInstance[instID] = true
					satisfiedDeps[p.MutationID] = append(satisfiedDeps[p.MutationID], instID)
					continue
				}
			}
			continue
		}
		if state.Board.IsFree(c) && !state.Crops.Has(c) && !state.IsReservedEmpty(c) {
			freeCells = append(freeCells, c)
		}
	}

	needed := make(map[CropName]int)
	totalNeeded := 0
	for crop, want := range m.Crops {
		have := len(satisfiedCrops[crop])
		if want > have {
			needed[crop] = want - have
			totalNeeded += want - have
		}
	}

	for dep, want := range m.Deps {
		if len(satisfiedDeps[dep]) < want {
			return nil, false
		}
	}

	if totalNeeded > len(freeCells) {
		return nil, false
	}

	return &FeasiblePlacement{
		Anchor:         anchor,
		SatisfiedCrops: satisfiedCrops,
		SatisfiedDeps:  satisfiedDeps,
		NeededCrops:    needed,
		FreeCells:      freeCells,
	}, true
}

// EnumerateAnchors returns every feasible anchor for m across the whole
// board, in row-major order — the traversal GreedySolver and SA's relocate
// move both consume.
func EnumerateAnchors(state *State, m *ParsedMutation) []*FeasiblePlacement {
	var out []*FeasiblePlacement
	for y := 0; y <= BoardSize-m.Footprint.H; y++ {
		for x := 0; x <= BoardSize-m.Footprint.W; x++ {
			if fp, ok := CheckFeasibility(state, m, Cell{X: x, Y: y}); ok {
				out = append(out, fp)
			}
		}
	}
	return out
}
