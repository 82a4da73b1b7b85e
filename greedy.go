package mutationboard

import "sort"

// GreedySolver expands a workload into an ordered instance list and places
// each by scoring every feasible anchor (spec.md §4.6). Instances that find
// no feasible anchor are silently skipped — InfeasibleInstance is a routine
// branch, never an error.
type GreedySolver struct {
	Catalog map[MutationID]*ParsedMutation
	Scorer  *Scorer
	Rand    *Rand
}

// NewGreedySolver returns a GreedySolver over catalog, scoring with scorer
// and drawing randomized choices from rnd.
func NewGreedySolver(catalog map[MutationID]*ParsedMutation, scorer *Scorer, rnd *Rand) *GreedySolver {
	return &GreedySolver{Catalog: catalog, Scorer: scorer, Rand: rnd}
}

type workloadInstance struct {
	mutationID MutationID
	priority   int
}

// expandWorkload flattens {mutationId: quantity} into one entry per unit,
// ordered by priority = area*100 + tier*10 + (isolated?0:1) descending:
// larger first, then higher tier, then non-isolated before isolated
// (spec.md §4.6 step 1).
func expandWorkload(catalog map[MutationID]*ParsedMutation, workload []WorkloadEntry) []workloadInstance {
	var out []workloadInstance
	for _, w := range workload {
		m := catalog[w.MutationID]
		if m == nil {
			continue
		}
		isolatedBit := 1
		if m.Isolated {
			isolatedBit = 0
		}
		priority := m.Footprint.Area()*100 + m.Tier*10 + isolatedBit
		for i := 0; i < w.Quantity; i++ {
			out = append(out, workloadInstance{mutationID: w.MutationID, priority: priority})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].priority > out[j].priority })
	return out
}

// Solve builds a State from scratch by placing every workload instance in
// priority order.
func (g *GreedySolver) Solve(unlockedCells []Cell, workload []WorkloadEntry, profile StrategyProfile) *State {
	state := NewState(unlockedCells)
	instances := expandWorkload(g.Catalog, workload)
	for _, inst := range instances {
		g.placeOne(state, inst.mutationID, profile)
	}
	return state
}

// placeOne enumerates every feasible anchor for mutationID, scores each,
// and executes the chosen one — top-scoring, or a uniformly random pick
// from the top-3 when profile.Randomness fires (spec.md §4.6 step 2).
func (g *GreedySolver) placeOne(state *State, mutationID MutationID, profile StrategyProfile) bool {
	m := g.Catalog[mutationID]
	if m == nil {
		return false
	}
	candidates := EnumerateAnchors(state, m)
	if len(candidates) == 0 {
		return false
	}
	type scored struct {
		fp    *FeasiblePlacement
		score float64
	}
	ranked := make([]scored, len(candidates))
	for i, fp := range candidates {
		ranked[i] = scored{fp, g.Scorer.Score(state, m, fp, profile)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	chosen := ranked[0].fp
	if g.Rand != nil && profile.Randomness > 0 && g.Rand.Bernoulli(profile.Randomness) {
		idx := g.Rand.PickTopK(len(ranked), 3)
		chosen = ranked[idx].fp
	}
	Execute(state, m, chosen)
	return true
}
