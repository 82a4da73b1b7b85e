package mutationboard

// PlacementMap is a sparse map of instance id -> Placement, with a reverse
// map of cell -> instance id for O(1) "which placement owns this footprint
// cell" lookups (spec.md §4, "PlacementMap"; §9 "Indices over pointers").
type PlacementMap struct {
	byID   map[InstanceID]*Placement
	byCell map[Cell]InstanceID
	nextN  map[MutationID]int // disambiguator counter per mutation kind
}

// NewPlacementMap returns an empty PlacementMap.
func NewPlacementMap() *PlacementMap {
	return &PlacementMap{
		byID:   make(map[InstanceID]*Placement),
		byCell: make(map[Cell]InstanceID),
		nextN:  make(map[MutationID]int),
	}
}

// Clone deep-copies every placement record.
func (pm *PlacementMap) Clone() *PlacementMap {
	out := NewPlacementMap()
	for id, p := range pm.byID {
		cp := *p
		cp.Crops = append([]PlacedCrop(nil), p.Crops...)
		out.byID[id] = &cp
	}
	for cell, id := range pm.byCell {
		out.byCell[cell] = id
	}
	for mid, n := range pm.nextN {
		out.nextN[mid] = n
	}
	return out
}

// NextInstanceID allocates the next "<mutationId>_<n>" id for m, without
// registering it — the caller still must call Add once the placement is
// constructed.
func (pm *PlacementMap) NextInstanceID(m MutationID) InstanceID {
	n := pm.nextN[m]
	pm.nextN[m] = n + 1
	return newInstanceID(m, n)
}

// Add registers a new placement and back-fills the cell reverse map for
// every one of its footprint cells.
func (pm *PlacementMap) Add(p *Placement) {
	pm.byID[p.InstanceID] = p
	for _, c := range footprintCells(p.Anchor, p.Footprint) {
		pm.byCell[c] = p.InstanceID
	}
}

// Remove deletes a placement and its footprint reverse-map entries,
// returning the removed record (or nil if id was unknown).
func (pm *PlacementMap) Remove(id InstanceID) *Placement {
	p, ok := pm.byID[id]
	if !ok {
		return nil
	}
	delete(pm.byID, id)
	for _, c := range footprintCells(p.Anchor, p.Footprint) {
		if pm.byCell[c] == id {
			delete(pm.byCell, c)
		}
	}
	return p
}

// Get returns the placement for id, or nil.
func (pm *PlacementMap) Get(id InstanceID) *Placement { return pm.byID[id] }

// At returns the instance owning cell c, or "" if c is not part of any
// footprint.
func (pm *PlacementMap) At(c Cell) (InstanceID, bool) {
	id, ok := pm.byCell[c]
	return id, ok
}

// Len returns the number of live placements.
func (pm *PlacementMap) Len() int { return len(pm.byID) }

// All calls fn for every placement; iteration order is unspecified. Callers
// that need determinism should collect and sort by InstanceID.
func (pm *PlacementMap) All(fn func(*Placement)) {
	for _, p := range pm.byID {
		fn(p)
	}
}

// ByMutation returns every live placement of the given mutation kind.
func (pm *PlacementMap) ByMutation(m MutationID) []*Placement {
	var out []*Placement
	for _, p := range pm.byID {
		if p.MutationID == m {
			out = append(out, p)
		}
	}
	return out
}
