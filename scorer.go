package mutationboard

import (
	"math"
	"sort"
)

// Scorer computes the heuristic PlacementScorer value used during
// construction and SA neighbor ranking (spec.md §4.5). It needs a catalog
// lookup to judge spread/positive-effect synergy against already-placed
// mutations.
type Scorer struct {
	Catalog map[MutationID]*ParsedMutation
}

// NewScorer returns a Scorer backed by catalog.
func NewScorer(catalog map[MutationID]*ParsedMutation) *Scorer {
	return &Scorer{Catalog: catalog}
}

// PlacementScoreBreakdown is the itemized form of Score's terms, exposed in
// external output alongside a grid projection (spec.md §6 "ScoreBreakdown").
type PlacementScoreBreakdown struct {
	Compactness float64
	Sharing     float64
	Synergy     float64
	Corner      float64
	Tier        float64
	Total       float64
}

// Score computes the scalar heuristic for placing m via f against the
// current state, under the given strategy profile (spec.md §4.5's term
// table). profile.Randomness is not consulted here; the solver handles
// top-k randomized selection separately.
func (s *Scorer) Score(state *State, m *ParsedMutation, f *FeasiblePlacement, profile StrategyProfile) float64 {
	return s.ScoreBreakdown(state, m, f, profile).Total
}

// ScoreBreakdown computes the same value as Score, itemized by term.
func (s *Scorer) ScoreBreakdown(state *State, m *ParsedMutation, f *FeasiblePlacement, profile StrategyProfile) PlacementScoreBreakdown {
	var b PlacementScoreBreakdown
	newCenter := centerCell(f.Anchor, m.Footprint)

	existing := collectPlacements(state)
	if len(existing) > 0 {
		cx, cy := 0.0, 0.0
		for _, p := range existing {
			c := centerCell(p.Anchor, p.Footprint)
			cx += float64(c.X)
			cy += float64(c.Y)
		}
		cx /= float64(len(existing))
		cy /= float64(len(existing))
		dist := math.Abs(float64(newCenter.X)-cx) + math.Abs(float64(newCenter.Y)-cy)
		b.Compactness += math.Max(0, 100-8*dist) * profile.CompactnessWeight
		for _, p := range existing {
			if rectGap(f.Anchor, m.Footprint, p.Anchor, p.Footprint) <= 1 {
				b.Compactness += 30 * profile.CompactnessWeight
			}
		}
	} else {
		centerDist := math.Abs(float64(newCenter.X)-4.5) + math.Abs(float64(newCenter.Y)-4.5)
		b.Compactness += math.Max(0, 50-5*centerDist) * profile.CompactnessWeight
	}

	sharingHits := 0
	for _, cells := range f.SatisfiedCrops {
		sharingHits += len(cells)
	}
	b.Sharing += float64(sharingHits) * profile.SharingWeight * 30

	if m.hasSpreadEffect() {
		for _, p := range existing {
			other := s.Catalog[p.MutationID]
			if other == nil || !other.hasOnlyPositiveEffect() {
				continue
			}
			dist := manhattan(newCenter, centerCell(p.Anchor, p.Footprint))
			if dist <= 3 {
				b.Synergy += float64(4-dist) * profile.SynergyWeight * 5
			}
		}
	}

	if m.Isolated {
		xOnEdge := f.Anchor.X == 0 || f.Anchor.X+m.Footprint.W == BoardSize
		yOnEdge := f.Anchor.Y == 0 || f.Anchor.Y+m.Footprint.H == BoardSize
		corner := 0.0
		if xOnEdge {
			corner++
		}
		if yOnEdge {
			corner++
		}
		b.Corner += corner * profile.CornerWeight * 20
	}

	b.Tier = 3 * float64(m.Tier)
	b.Total = b.Compactness + b.Sharing + b.Synergy + b.Corner + b.Tier
	return b
}

// collectPlacements returns every live placement sorted by InstanceID.
// State.Placements.All walks a map, whose iteration order Go deliberately
// randomizes; any RNG-indexed pick over this slice (SimulatedAnnealing,
// ObjectiveOptimizer) must see a fixed order for a given seed to reproduce
// the same State (spec.md §5/§8).
func collectPlacements(state *State) []*Placement {
	var out []*Placement
	state.Placements.All(func(p *Placement) { out = append(out, p) })
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })
	return out
}

// rectGap returns the minimum Manhattan distance between any cell of
// rectangle A and any cell of rectangle B: 0 if they overlap, 1 if they
// share an edge.
func rectGap(anchorA Cell, fpA Footprint, anchorB Cell, fpB Footprint) int {
	dx := axisGap(anchorA.X, anchorA.X+fpA.W-1, anchorB.X, anchorB.X+fpB.W-1)
	dy := axisGap(anchorA.Y, anchorA.Y+fpA.H-1, anchorB.Y, anchorB.Y+fpB.H-1)
	return dx + dy
}

func axisGap(aMin, aMax, bMin, bMax int) int {
	if aMax < bMin {
		return bMin - aMax
	}
	if bMax < aMin {
		return aMin - bMax
	}
	return 0
}
