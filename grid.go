package mutationboard

import "math"

// GridCellKind tags which variant of GridCell is populated (spec.md §6's
// annotated grid: mutation_area | crop | empty_zone | null per cell).
type GridCellKind int

const (
	GridCellEmpty GridCellKind = iota
	GridCellMutationArea
	GridCellCrop
	GridCellEmptyZone
)

// MutationAreaCell marks one footprint cell of a placed mutation.
type MutationAreaCell struct {
	InstanceID InstanceID
	MutationID MutationID
	IsCenter   bool
	IsIsolated bool
}

// CropAreaCell marks a live crop cell, optionally listing every instance it
// serves when shared.
type CropAreaCell struct {
	Crop          CropName
	PrimaryServer InstanceID
	AllServers    []InstanceID
}

// EmptyZoneCell marks a reserved-empty halo cell created by an isolated
// placement's buffer, tagged with the instance that reserved it.
type EmptyZoneCell struct {
	SourceID InstanceID
}

// GridCell is one of the four tagged variants a 10x10 output grid cell can
// hold (spec.md §6).
type GridCell struct {
	Kind         GridCellKind
	MutationArea *MutationAreaCell
	Crop         *CropAreaCell
	EmptyZone    *EmptyZoneCell
}

// PlacedMutation is one external-facing placement record (spec.md §6).
type PlacedMutation struct {
	InstanceID InstanceID
	MutationID MutationID
	Anchor     Cell
	Footprint  Footprint
	Score      PlacementScoreBreakdown
}

// LayoutOutput is GridBuilder's full projection of a State: the annotated
// grid, the flat placement list, and the global fitness breakdown (spec.md
// §6).
type LayoutOutput struct {
	Grid       [BoardSize][BoardSize]GridCell
	Placements []PlacedMutation
	Fitness    FitnessBreakdown
}

// GridBuilder projects a finished State into the external output shape.
// It never mutates state.
type GridBuilder struct {
	Catalog map[MutationID]*ParsedMutation
	Scorer  *Scorer
	Fitness *FitnessCalculator
}

// NewGridBuilder returns a GridBuilder over catalog.
func NewGridBuilder(catalog map[MutationID]*ParsedMutation, scorer *Scorer, fitness *FitnessCalculator) *GridBuilder {
	return &GridBuilder{Catalog: catalog, Scorer: scorer, Fitness: fitness}
}

// Build renders state into a LayoutOutput against target (the requested
// placement count, for the fitness breakdown's placement-rate term).
func (gb *GridBuilder) Build(state *State, target int) LayoutOutput {
	var out LayoutOutput

	placements := collectPlacements(state)
	for _, p := range placements {
		center := centerCell(p.Anchor, p.Footprint)
		for _, c := range footprintCells(p.Anchor, p.Footprint) {
			out.Grid[c.Y][c.X] = GridCell{
				Kind: GridCellMutationArea,
				MutationArea: &MutationAreaCell{
					InstanceID: p.InstanceID,
					MutationID: p.MutationID,
					IsCenter:   c == center,
					IsIsolated: p.Isolated,
				},
			}
		}
		out.Placements = append(out.Placements, PlacedMutation{
			InstanceID: p.InstanceID,
			MutationID: p.MutationID,
			Anchor:     p.Anchor,
			Footprint:  p.Footprint,
			Score:      gb.scoreLive(state, p),
		})
	}

	state.Crops.All(func(rec *CropRecord) {
		var primary InstanceID
		var all []InstanceID
		for id := range rec.Serving {
			all = append(all, id)
			if primary == "" || id < primary {
				primary = id
			}
		}
		cell := &CropAreaCell{Crop: rec.Crop, PrimaryServer: primary}
		if len(all) > 1 {
			cell.AllServers = all
		}
		out.Grid[rec.Cell.Y][rec.Cell.X] = GridCell{Kind: GridCellCrop, Crop: cell}
	})

	for c := range state.Reserved {
		if out.Grid[c.Y][c.X].Kind != GridCellEmpty {
			continue
		}
		source := gb.reservationSource(state, placements, c)
		out.Grid[c.Y][c.X] = GridCell{Kind: GridCellEmptyZone, EmptyZone: &EmptyZoneCell{SourceID: source}}
	}

	out.Fitness = gb.Fitness.Evaluate(state, target)
	return out
}

// reservationSource finds which isolated placement's halo covers c, for
// empty-zone attribution. Ambiguous overlaps (two isolated placements whose
// halos cover the same cell) resolve to the lowest instance id.
func (gb *GridBuilder) reservationSource(state *State, placements []*Placement, c Cell) InstanceID {
	var source InstanceID
	for _, p := range placements {
		if !p.Isolated {
			continue
		}
		for _, rc := range ringCells(p.Anchor, p.Footprint) {
			if rc == c {
				if source == "" || p.InstanceID < source {
					source = p.InstanceID
				}
				break
			}
		}
	}
	return source
}

// scoreLive recomputes a live placement's term breakdown against the rest
// of the board (excluding itself from the centroid/self-comparison a fresh
// FeasiblePlacement would never have included).
func (gb *GridBuilder) scoreLive(state *State, p *Placement) PlacementScoreBreakdown {
	m := gb.Catalog[p.MutationID]
	if m == nil {
		return PlacementScoreBreakdown{}
	}

	var others []*Placement
	state.Placements.All(func(other *Placement) {
		if other.InstanceID != p.InstanceID {
			others = append(others, other)
		}
	})

	var b PlacementScoreBreakdown
	newCenter := centerCell(p.Anchor, p.Footprint)

	if len(others) > 0 {
		cx, cy := 0.0, 0.0
		for _, o := range others {
			c := centerCell(o.Anchor, o.Footprint)
			cx += float64(c.X)
			cy += float64(c.Y)
		}
		cx /= float64(len(others))
		cy /= float64(len(others))
		dist := math.Abs(float64(newCenter.X)-cx) + math.Abs(float64(newCenter.Y)-cy)
		b.Compactness += math.Max(0, 100-8*dist)
		for _, o := range others {
			if rectGap(p.Anchor, p.Footprint, o.Anchor, o.Footprint) <= 1 {
				b.Compactness += 30
			}
		}
	} else {
		centerDist := math.Abs(float64(newCenter.X)-4.5) + math.Abs(float64(newCenter.Y)-4.5)
		b.Compactness += math.Max(0, 50-5*centerDist)
	}

	sharedCrops := 0
	for _, pc := range p.Crops {
		if rec := state.Crops.At(pc.Cell); rec != nil && rec.Shared() {
			sharedCrops++
		}
	}
	b.Sharing += float64(sharedCrops) * 30

	if m.hasSpreadEffect() {
		for _, o := range others {
			other := gb.Catalog[o.MutationID]
			if other == nil || !other.hasOnlyPositiveEffect() {
				continue
			}
			dist := manhattan(newCenter, centerCell(o.Anchor, o.Footprint))
			if dist <= 3 {
				b.Synergy += float64(4 - dist)
			}
		}
	}

	if p.Isolated {
		xOnEdge := p.Anchor.X == 0 || p.Anchor.X+p.Footprint.W == BoardSize
		yOnEdge := p.Anchor.Y == 0 || p.Anchor.Y+p.Footprint.H == BoardSize
		corner := 0.0
		if xOnEdge {
			corner++
		}
		if yOnEdge {
			corner++
		}
		b.Corner += corner * 20
	}

	b.Tier = 3 * float64(m.Tier)
	b.Total = b.Compactness + b.Sharing + b.Synergy + b.Corner + b.Tier
	return b
}
