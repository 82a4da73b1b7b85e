package mutationboard

import (
	"fmt"
	"io"
)

// objectiveMove names one of the four moves the alternative annealing loop
// samples (spec.md §4.12).
type objectiveMove int

const (
	moveAdd objectiveMove = iota
	moveRemove
	moveMove
	moveSwap
)

// ObjectiveResult is OptimizeLayout's return value.
type ObjectiveResult struct {
	State      *State
	Score      float64
	Iterations int
}

// ObjectiveOptimizer runs the count/profit-objective move loop that is the
// spec's alternative to MultiStrategyOptimizer's build-then-refine pipeline:
// rather than constructing a state and annealing it, it anneals directly
// over ADD/REMOVE/MOVE/SWAP moves from a board holding no placements, only
// the crop field seedCropsOnly lays (spec.md §4.12).
type ObjectiveOptimizer struct {
	Catalog   map[MutationID]*ParsedMutation
	Scorer    *Scorer
	Rand      *Rand
	Weights   map[EffectTag]float64
	Objective Objective
	Profile   StrategyProfile

	Progress func(Progress)
	Abort    func() bool
	out      io.Writer
}

// NewObjectiveOptimizer returns an ObjectiveOptimizer over catalog.
func NewObjectiveOptimizer(catalog map[MutationID]*ParsedMutation, scorer *Scorer, rnd *Rand, weights map[EffectTag]float64, objective Objective) *ObjectiveOptimizer {
	profiles := DefaultStrategyProfiles()
	return &ObjectiveOptimizer{
		Catalog: catalog, Scorer: scorer, Rand: rnd, Weights: weights,
		Objective: objective, Profile: profiles[0], out: io.Discard,
	}
}

// SetLog directs bracket-tagged progress lines to w.
func (o *ObjectiveOptimizer) SetLog(w io.Writer) { o.out = w }

// OptimizeLayout runs the move loop under preset over unlockedCells,
// restricted to allowedIds, and returns the best state found. It returns
// ErrAllSpecial if filtering leaves no placeable mutation (spec.md §7).
func (o *ObjectiveOptimizer) OptimizeLayout(unlockedCells []Cell, allowedIds []MutationID, preset ObjectivePreset) (*ObjectiveResult, error) {
	filtered := o.filterAllowed(allowedIds)
	if len(filtered) == 0 {
		return &ObjectiveResult{State: NewState(unlockedCells), Iterations: 0}, ErrAllSpecial
	}

	state := NewState(unlockedCells)
	o.seedCropsOnly(state, filtered)

	best := state.Clone()
	bestScore := o.score(state)

	T := preset.StartTemp
	const floor = 1e-3
	infinite := preset.MaxIterations <= 0
	batchSize := preset.MaxIterations
	if infinite {
		batchSize = 1000
	}

	iter := 0
	cadence := maxInt(1, batchSize/50)

	fmt.Fprintf(o.out, "[objective] start T=%.2f infinite=%v\n", T, infinite)

	for {
		for b := 0; b < batchSize; b++ {
			if T < floor {
				break
			}
			iter++
			if o.Abort != nil && iter%cadence == 0 && o.Abort() {
				fmt.Fprintf(o.out, "[objective] cancelled at iter=%d\n", iter)
				return o.finish(best, bestScore, iter), nil
			}

			before := o.score(state)
			ok, undo := o.step(state, filtered)
			if ok {
				after := o.score(state)
				delta := after - before
				if !metropolisAccept(delta, T, o.Rand) {
					undo()
				} else if after > bestScore {
					bestScore = after
					best = state.Clone()
				}
			}

			if o.Progress != nil && iter%cadence == 0 {
				sc := o.score(state)
				o.Progress(Progress{Iter: iter, MaxIter: preset.MaxIterations, CurrentScore: sc, BestScore: bestScore, Temperature: T, PlacedCount: state.PlacementCount()})
			}
			T *= preset.CoolingRate
		}
		if T < floor {
			break
		}
		if !infinite {
			break
		}
		if o.Abort != nil && o.Abort() {
			break
		}
	}

	fmt.Fprintf(o.out, "[objective] done best=%.1f iters=%d\n", bestScore, iter)
	return o.finish(best, bestScore, iter), nil
}

func (o *ObjectiveOptimizer) finish(state *State, score float64, iterations int) *ObjectiveResult {
	o.validate(state)
	return &ObjectiveResult{State: state, Score: score, Iterations: iterations}
}

// score evaluates the configured Objective (spec.md §4.12): Count sums
// 1 + 0.25·tier + 0.1·area per placement; Profit sums 0.01·ΣdropAmount +
// Σ effectWeight + 10·tier per placement.
func (o *ObjectiveOptimizer) score(state *State) float64 {
	total := 0.0
	state.Placements.All(func(p *Placement) {
		m := o.Catalog[p.MutationID]
		if m == nil {
			return
		}
		if o.Objective == MaxCount {
			total += 1 + 0.25*float64(m.Tier) + 0.1*float64(m.Footprint.Area())
			return
		}
		dropTotal := 0.0
		for _, amount := range m.Drops {
			dropTotal += amount
		}
		effectTotal := 0.0
		for tag := range m.Effects {
			effectTotal += o.Weights[tag]
		}
		total += 0.01*dropTotal + effectTotal + 10*float64(m.Tier)
	})
	return total
}

// step samples one move, applies it, and returns whether it took effect.
// Infeasible attempts are rolled back internally and reported as !ok. An
// applied move (ok == true) returns an undo closure the caller must invoke
// on Metropolis rejection to restore state to exactly its pre-move shape.
func (o *ObjectiveOptimizer) step(state *State, pool []MutationID) (bool, func()) {
	placements := collectPlacements(state)

	move := o.sampleMove(len(placements))
	switch move {
	case moveAdd:
		return o.doAdd(state, pool)
	case moveRemove:
		return o.doRemove(state, placements)
	case moveMove:
		return o.doMove(state, placements)
	case moveSwap:
		return o.doSwap(state, placements)
	}
	return false, nil
}

func (o *ObjectiveOptimizer) sampleMove(placementCount int) objectiveMove {
	if placementCount == 0 {
		return moveAdd
	}
	r := o.Rand.Float64()
	switch {
	case r < 0.40:
		return moveAdd
	case r < 0.55:
		return moveRemove
	case r < 0.80:
		return moveMove
	default:
		return moveSwap
	}
}

// doAdd picks a mutation id from pool via tier-weighted roulette, then
// places it at a random feasible anchor (spec.md §4.12's tier-weighted
// sampling).
func (o *ObjectiveOptimizer) doAdd(state *State, pool []MutationID) (bool, func()) {
	id := o.pickTierWeighted(pool)
	m := o.Catalog[id]
	if m == nil {
		return false, nil
	}
	candidates := EnumerateAnchors(state, m)
	if len(candidates) == 0 {
		return false, nil
	}
	fp := candidates[o.Rand.Intn(len(candidates))]
	placed := Execute(state, m, fp)
	return true, func() { Remove(state, placed.InstanceID) }
}

// pickAnchor scores every candidate and returns the top pick; with
// probability Profile.Randomness it instead returns a uniformly random
// candidate.
func (o *ObjectiveOptimizer) pickAnchor(state *State, m *ParsedMutation, candidates []*FeasiblePlacement) *FeasiblePlacement {
	type scored struct {
		fp    *FeasiblePlacement
		score float64
	}
	ranked := make([]scored, len(candidates))
	for i, fp := range candidates {
		ranked[i] = scored{fp, o.Scorer.Score(state, m, fp, o.Profile)}
	}
	best := 0
	for i := 1; i < len(ranked); i++ {
		if ranked[i].score > ranked[best].score {
			best = i
		}
	}
	if o.Profile.Randomness > 0 && o.Rand.Bernoulli(o.Profile.Randomness) {
		return candidates[o.Rand.Intn(len(candidates))]
	}
	return ranked[best].fp
}

// pickTierWeighted runs a roulette-wheel draw over pool weighted by
// (tier+1), so higher-tier mutations are sampled more often without
// excluding tier-0 entries entirely.
func (o *ObjectiveOptimizer) pickTierWeighted(pool []MutationID) MutationID {
	total := 0.0
	weights := make([]float64, len(pool))
	for i, id := range pool {
		w := float64(o.Catalog[id].Tier + 1)
		weights[i] = w
		total += w
	}
	r := o.Rand.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return pool[i]
		}
	}
	return pool[len(pool)-1]
}

func (o *ObjectiveOptimizer) doRemove(state *State, placements []*Placement) (bool, func()) {
	if len(placements) == 0 {
		return false, nil
	}
	p := placements[o.Rand.Intn(len(placements))]
	removed := Remove(state, p.InstanceID)
	m := o.Catalog[removed.MutationID]
	anchor := removed.Anchor
	return true, func() { o.restore(state, m, anchor) }
}

func (o *ObjectiveOptimizer) doMove(state *State, placements []*Placement) (bool, func()) {
	if len(placements) == 0 {
		return false, nil
	}
	p := placements[o.Rand.Intn(len(placements))]
	m := o.Catalog[p.MutationID]
	if m == nil {
		return false, nil
	}
	originalAnchor := p.Anchor
	Remove(state, p.InstanceID)
	candidates := EnumerateAnchors(state, m)
	if len(candidates) == 0 {
		o.restore(state, m, originalAnchor)
		return false, nil
	}
	fp := o.pickAnchor(state, m, candidates)
	Execute(state, m, fp)
	return true, func() {
		Remove(state, state.mustInstanceAt(fp.Anchor))
		o.restore(state, m, originalAnchor)
	}
}

func (o *ObjectiveOptimizer) doSwap(state *State, placements []*Placement) (bool, func()) {
	if len(placements) < 2 {
		return false, nil
	}
	i := o.Rand.Intn(len(placements))
	j := o.Rand.Intn(len(placements))
	if i == j {
		return false, nil
	}
	p, q := placements[i], placements[j]
	mp, mq := o.Catalog[p.MutationID], o.Catalog[q.MutationID]
	if mp == nil || mq == nil {
		return false, nil
	}
	pAnchor, qAnchor := p.Anchor, q.Anchor
	Remove(state, p.InstanceID)
	Remove(state, q.InstanceID)

	fpP, okP := CheckFeasibility(state, mp, qAnchor)
	if !okP {
		o.restore(state, mp, pAnchor)
		o.restore(state, mq, qAnchor)
		return false, nil
	}
	Execute(state, mp, fpP)
	fpQ, okQ := CheckFeasibility(state, mq, pAnchor)
	if !okQ {
		Remove(state, state.mustInstanceAt(qAnchor))
		o.restore(state, mp, pAnchor)
		o.restore(state, mq, qAnchor)
		return false, nil
	}
	Execute(state, mq, fpQ)
	return true, func() {
		Remove(state, state.mustInstanceAt(qAnchor))
		Remove(state, state.mustInstanceAt(pAnchor))
		o.restore(state, mp, pAnchor)
		o.restore(state, mq, qAnchor)
	}
}

func (o *ObjectiveOptimizer) restore(state *State, m *ParsedMutation, anchor Cell) {
	if fp, ok := CheckFeasibility(state, m, anchor); ok {
		Execute(state, m, fp)
	}
}

// filterAllowed drops special (non-auto-placeable) mutations and, via
// repeated passes to a fixed point, any mutation whose Deps can never be
// satisfied within the surviving pool (spec.md §4.12's pool filter).
func (o *ObjectiveOptimizer) filterAllowed(allowedIds []MutationID) []MutationID {
	alive := make(map[MutationID]bool)
	for _, id := range allowedIds {
		m := o.Catalog[id]
		if m != nil && !m.Special {
			alive[id] = true
		}
	}
	for {
		changed := false
		for id := range alive {
			m := o.Catalog[id]
			for dep := range m.Deps {
				if !alive[dep] {
					delete(alive, id)
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}
	var out []MutationID
	for _, id := range allowedIds {
		if alive[id] {
			out = append(out, id)
		}
	}
	return out
}

// seedCropsOnly pre-lays a sparse crop field for the single crop kind most
// commonly required across pool, reusing BulkPlacer's placeholder-instance
// convention, so early ADD moves can land on shared crops instead of always
// paying the full crop cost (spec.md §4.12's "crop-only seed").
func (o *ObjectiveOptimizer) seedCropsOnly(state *State, pool []MutationID) {
	counts := make(map[CropName]int)
	for _, id := range pool {
		m := o.Catalog[id]
		for crop := range m.Crops {
			counts[crop]++
		}
	}
	var bestCrop CropName
	bestCount := 0
	for crop, n := range counts {
		if n > bestCount || (n == bestCount && crop < bestCrop) {
			bestCrop, bestCount = crop, n
		}
	}
	if bestCount == 0 {
		return
	}
	sites := patternCheckerboard(state.Board.UnlockedCells(), 0)
	for _, c := range sites {
		if !state.Board.IsFree(c) {
			continue
		}
		state.Board.OccupyCell(c)
		state.Crops.Place(c, bestCrop, "__seed__")
	}
}

// validate re-checks footprint occupancy and crop serving links that
// CheckFeasibility/Execute/Remove maintain and logs (without mutating) each
// drift found.
// It is a diagnostic pass, not a repair: a violation here means a bug
// upstream, and the caller still gets the state back as-is.
func (o *ObjectiveOptimizer) validate(state *State) {
	state.Placements.All(func(p *Placement) {
		for _, c := range footprintCells(p.Anchor, p.Footprint) {
			if !state.Board.IsOccupied(c) {
				fmt.Fprintf(o.out, "[objective] invariant drift: %s footprint cell %v not occupied\n", p.InstanceID, c)
			}
		}
		for _, pc := range p.Crops {
			rec := state.Crops.At(pc.Cell)
			if rec == nil || !rec.Serving[p.InstanceID] {
				fmt.Fprintf(o.out, "[objective] invariant drift: %s crop cell %v not served\n", p.InstanceID, pc.Cell)
			}
		}
	})
	state.Crops.All(func(rec *CropRecord) {
		for inst := range rec.Serving {
			if inst == "__seed__" {
				continue
			}
			if state.Placements.Get(inst) == nil {
				fmt.Fprintf(o.out, "[objective] invariant drift: crop %v served by dead instance %s\n", rec.Cell, inst)
			}
		}
	})
}
