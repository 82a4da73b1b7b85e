package mutationboard

import "sort"

// Execute atomically realizes a FeasiblePlacement against state, occupying
// the footprint, reserving isolation halos or consuming/creating crops, and
// recording the placement under a freshly allocated instance id (spec.md
// §4.4). It pairs with Remove to preserve every State invariant.
func Execute(state *State, m *ParsedMutation, f *FeasiblePlacement) *Placement {
	id := state.Placements.NextInstanceID(m.ID)
	state.Board.OccupyRect(f.Anchor, m.Footprint)

	p := &Placement{
		InstanceID: id,
		MutationID: m.ID,
		Anchor:     f.Anchor,
		Footprint:  m.Footprint,
		Isolated:   m.Isolated,
	}

	if m.Isolated {
		for _, c := range ringCells(f.Anchor, m.Footprint) {
			if state.Board.IsUnlocked(c) {
				state.Reserved[c] = true
			}
		}
		state.Placements.Add(p)
		return p
	}

	for crop, cells := range f.SatisfiedCrops {
		for _, c := range cells {
			state.Crops.Place(c, crop, id)
			p.Crops = append(p.Crops, PlacedCrop{Cell: c, Crop: crop})
		}
	}

	freeIdx := 0
	// Deterministic consumption order: walk f.FreeCells (already in the
	// ring's fixed row-major order) and, for each crop kind still short (in
	// CropName order, since map iteration order is not reproducible across
	// runs), claim the next needed_crops[c] cells from it.
	neededCrops := make([]CropName, 0, len(f.NeededCrops))
	for crop := range f.NeededCrops {
		neededCrops = append(neededCrops, crop)
	}
	sort.Slice(neededCrops, func(i, j int) bool { return neededCrops[i] < neededCrops[j] })
	for _, crop := range neededCrops {
		need := f.NeededCrops[crop]
		claimed := 0
		for claimed < need && freeIdx < len(f.FreeCells) {
			c := f.FreeCells[freeIdx]
			freeIdx++
			state.Board.OccupyCell(c)
			state.Crops.Place(c, crop, id)
			p.Crops = append(p.Crops, PlacedCrop{Cell: c, Crop: crop})
			claimed++
		}
	}

	state.Placements.Add(p)
	return p
}

// Remove undoes a placement by instance id: releases the footprint,
// detaches this instance from every crop it served, and deletes any crop
// whose serving set collapses to empty, releasing its cell too (spec.md
// §4.4). Reserved-empty cells created by an isolated placement are never
// released — invariant 7, pinned by DESIGN.md's Open Question resolution.
func Remove(state *State, id InstanceID) *Placement {
	p := state.Placements.Remove(id)
	if p == nil {
		return nil
	}
	state.Board.ReleaseRect(p.Anchor, p.Footprint)
	for _, pc := range p.Crops {
		if deleted := state.Crops.Unserve(pc.Cell, id); deleted {
			state.Board.ReleaseCell(pc.Cell)
		}
	}
	return p
}
