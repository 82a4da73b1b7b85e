package mutationboard

import (
	"fmt"
	"io"
	"math"
	"sort"
)

// Progress is the snapshot handed to a host progress callback at a fixed
// cadence during a long-running optimize call (spec.md §5).
type Progress struct {
	Iter        int
	MaxIter     int
	CurrentScore float64
	BestScore    float64
	Temperature  float64
	PlacedCount  int
}

// tabuEntry bans relocating instance back onto anchor until iteration
// expires (spec.md glossary "Tabu").
type tabuEntry struct {
	instance InstanceID
	anchor   Cell
	expires  int
}

// SimulatedAnnealing performs relocate/swap neighbor search with adaptive
// cooling, a tabu list, and reheats over a constructed State (spec.md
// §4.8). It never clones the whole State per step; moves are applied via
// remove-then-re-execute so rejection is a cheap undo, per §9's design
// note.
type SimulatedAnnealing struct {
	Catalog map[MutationID]*ParsedMutation
	Scorer  *Scorer
	Fitness *FitnessCalculator
	Rand    *Rand
	Params  SAParams
	Profile StrategyProfile
	Target  int

	Progress func(Progress)
	Abort    func() bool
	MaxIter  int // sets the progress/abort cadence (every MaxIter/50 iterations, at least 1); does not cap iterations
	out      io.Writer
}

// NewSimulatedAnnealing returns an SA search over catalog with the given
// params/profile/target (see spec.md §4.8, §4.9).
func NewSimulatedAnnealing(catalog map[MutationID]*ParsedMutation, scorer *Scorer, fitness *FitnessCalculator, rnd *Rand, params SAParams, profile StrategyProfile, target int) *SimulatedAnnealing {
	return &SimulatedAnnealing{
		Catalog: catalog, Scorer: scorer, Fitness: fitness, Rand: rnd,
		Params: params, Profile: profile, Target: target, out: io.Discard,
	}
}

// SetLog directs bracket-tagged progress lines (mirroring the teacher's
// logw()-based [init]/[seed]/[done] lines) to w.
func (sa *SimulatedAnnealing) SetLog(w io.Writer) { sa.out = w }

// Run anneals state in place and returns the best state observed together
// with its fitness score (spec.md §4.8's final paragraph). The input state
// is mutated; callers that need the pre-anneal state should Clone first.
func (sa *SimulatedAnnealing) Run(state *State) (*State, float64) {
	p := sa.Params
	T := p.InitialTemp
	coolingRatio := p.BaseCoolingRatio
	idle := 0
	reheats := 0
	var tabu []tabuEntry
	iter := 0

	bestState := state.Clone()
	bestScore := sa.Fitness.Evaluate(state, sa.Target).TotalScore

	cadence := 1
	if sa.MaxIter > 0 {
		cadence = maxInt(1, sa.MaxIter/50)
	}

	fmt.Fprintf(sa.out, "[anneal] start T=%.2f floor=%.4f\n", T, p.FloorTemp)

	for T >= p.FloorTemp {
		accepted, attempted := 0, 0
		for step := 0; step < p.IterationsPerTemp; step++ {
			iter++
			if sa.Abort != nil && iter%cadence == 0 && sa.Abort() {
				fmt.Fprintf(sa.out, "[anneal] cancelled at iter=%d\n", iter)
				return bestState, bestScore
			}

			attempted++
			ok, movedInstance, movedAnchor := sa.step(state, T, &tabu, iter)
			if ok {
				accepted++
				if movedInstance != "" {
					tabu = append(tabu, tabuEntry{movedInstance, movedAnchor, iter + p.TabuCapacity})
				}
				after := sa.Fitness.Evaluate(state, sa.Target).TotalScore
				if after > bestScore {
					bestScore = after
					bestState = state.Clone()
					idle = 0
				} else {
					idle++
				}
			} else {
				idle++
			}

			if sa.Progress != nil && iter%cadence == 0 {
				sa.Progress(Progress{
					Iter: iter, MaxIter: sa.MaxIter,
					CurrentScore: sa.Fitness.Evaluate(state, sa.Target).TotalScore,
					BestScore:    bestScore, Temperature: T, PlacedCount: state.PlacementCount(),
				})
			}

			if idle >= p.ReheatIdleThresh && reheats < p.MaxReheats {
				T = p.InitialTemp * p.ReheatFactor * math.Pow(0.7, float64(reheats))
				reheats++
				tabu = nil
				idle = 0
				accepted, attempted = 0, 0
				fmt.Fprintf(sa.out, "[anneal] reheat #%d T=%.2f\n", reheats, T)
			}
			if idle >= p.ConvergenceIdle && reheats >= p.MaxReheats {
				fmt.Fprintf(sa.out, "[anneal] converged at iter=%d best=%.1f\n", iter, bestScore)
				return bestState, bestScore
			}
			tabu = pruneTabu(tabu, iter)
		}

		ratio := 0.0
		if attempted > 0 {
			ratio = float64(accepted) / float64(attempted)
		}
		switch {
		case ratio > 0.5:
			coolingRatio *= 0.98
		case ratio < 0.1 && T > 10*p.FloorTemp:
			coolingRatio *= 1.01
		default:
			coolingRatio = p.BaseCoolingRatio
		}
		if attempted > 100 {
			accepted /= 2
			attempted /= 2
		}
		T *= coolingRatio
	}

	fmt.Fprintf(sa.out, "[anneal] done best=%.1f\n", bestScore)
	return bestState, bestScore
}

func pruneTabu(tabu []tabuEntry, iter int) []tabuEntry {
	out := tabu[:0]
	for _, t := range tabu {
		if t.expires > iter {
			out = append(out, t)
		}
	}
	return out
}

func tabuBlocks(tabu []tabuEntry, instance InstanceID, anchor Cell, iter int) bool {
	for _, t := range tabu {
		if t.instance == instance && t.anchor == anchor && t.expires > iter {
			return true
		}
	}
	return false
}

// step performs one relocate or swap move, applying Metropolis acceptance.
// It returns whether a move was accepted and, for an accepted relocate,
// the moved instance/anchor for tabu recording.
func (sa *SimulatedAnnealing) step(state *State, T float64, tabu *[]tabuEntry, iter int) (bool, InstanceID, Cell) {
	placements := collectPlacements(state)
	if len(placements) == 0 {
		return false, "", Cell{}
	}

	useSwap := len(placements) >= 2 && sa.Rand.Bernoulli(sa.Params.SwapProbability)
	if useSwap {
		return sa.trySwap(state, placements, T, *tabu, iter)
	}
	return sa.tryRelocate(state, placements, T, tabu, iter)
}

func (sa *SimulatedAnnealing) tryRelocate(state *State, placements []*Placement, T float64, tabu *[]tabuEntry, iter int) (bool, InstanceID, Cell) {
	p := placements[sa.Rand.Intn(len(placements))]
	m := sa.Catalog[p.MutationID]
	if m == nil {
		return false, "", Cell{}
	}

	beforeScore := sa.Fitness.Evaluate(state, sa.Target).TotalScore
	originalAnchor := p.Anchor
	Remove(state, p.InstanceID)

	candidates := EnumerateAnchors(state, m)
	var filtered []*FeasiblePlacement
	for _, c := range candidates {
		if !tabuBlocks(*tabu, p.InstanceID, c.Anchor, iter) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		// restore at the original anchor; it was feasible before removal
		// and nothing else changed.
		if fp, ok := CheckFeasibility(state, m, originalAnchor); ok {
			Execute(state, m, fp)
		}
		return false, "", Cell{}
	}

	type scored struct {
		fp    *FeasiblePlacement
		score float64
	}
	ranked := make([]scored, len(filtered))
	for i, fp := range filtered {
		ranked[i] = scored{fp, sa.Scorer.Score(state, m, fp, sa.Profile)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	idx := sa.Rand.PickTopK(len(ranked), 5)
	chosen := ranked[idx].fp

	placed := Execute(state, m, chosen)
	afterScore := sa.Fitness.Evaluate(state, sa.Target).TotalScore
	delta := afterScore - beforeScore
	if metropolisAccept(delta, T, sa.Rand) {
		return true, placed.InstanceID, chosen.Anchor
	}

	// reject: undo and restore original anchor.
	Remove(state, placed.InstanceID)
	if fp, ok := CheckFeasibility(state, m, originalAnchor); ok {
		Execute(state, m, fp)
	}
	return false, "", Cell{}
}

func (sa *SimulatedAnnealing) trySwap(state *State, placements []*Placement, T float64, tabu []tabuEntry, iter int) (bool, InstanceID, Cell) {
	// pick two placements of identical footprint size.
	i := sa.Rand.Intn(len(placements))
	var j int
	found := false
	for attempt := 0; attempt < len(placements)*2; attempt++ {
		j = sa.Rand.Intn(len(placements))
		if j != i && placements[j].Footprint == placements[i].Footprint {
			found = true
			break
		}
	}
	if !found {
		return false, "", Cell{}
	}
	p, q := placements[i], placements[j]
	if tabuBlocks(tabu, p.InstanceID, q.Anchor, iter) || tabuBlocks(tabu, q.InstanceID, p.Anchor, iter) {
		return false, "", Cell{}
	}
	mp, mq := sa.Catalog[p.MutationID], sa.Catalog[q.MutationID]
	if mp == nil || mq == nil {
		return false, "", Cell{}
	}

	beforeScore := sa.Fitness.Evaluate(state, sa.Target).TotalScore
	pAnchor, qAnchor := p.Anchor, q.Anchor
	Remove(state, p.InstanceID)
	Remove(state, q.InstanceID)

	fpP, okP := CheckFeasibility(state, mp, qAnchor)
	var fpQ *FeasiblePlacement
	okQ := false
	if okP {
		Execute(state, mp, fpP)
		fpQ, okQ = CheckFeasibility(state, mq, pAnchor)
		if okQ {
			Execute(state, mq, fpQ)
		} else {
			Remove(state, state.mustInstanceAt(qAnchor))
		}
	}

	if !okP || !okQ {
		// rollback to originals.
		if fp, ok := CheckFeasibility(state, mp, pAnchor); ok {
			Execute(state, mp, fp)
		}
		if fp, ok := CheckFeasibility(state, mq, qAnchor); ok {
			Execute(state, mq, fp)
		}
		return false, "", Cell{}
	}

	afterScore := sa.Fitness.Evaluate(state, sa.Target).TotalScore
	delta := afterScore - beforeScore
	if metropolisAccept(delta, T, sa.Rand) {
		return true, "", Cell{}
	}

	// reject: undo the swap.
	id1, _ := state.Placements.At(qAnchor)
	id2, _ := state.Placements.At(pAnchor)
	Remove(state, id1)
	Remove(state, id2)
	if fp, ok := CheckFeasibility(state, mp, pAnchor); ok {
		Execute(state, mp, fp)
	}
	if fp, ok := CheckFeasibility(state, mq, qAnchor); ok {
		Execute(state, mq, fp)
	}
	return false, "", Cell{}
}

func metropolisAccept(delta, T float64, rnd *Rand) bool {
	if delta > 0 {
		return true
	}
	if T <= 0 {
		return false
	}
	return rnd.Bernoulli(math.Exp(delta / T))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// mustInstanceAt returns the instance id occupying cell c, or "" if none.
func (s *State) mustInstanceAt(c Cell) InstanceID {
	id, _ := s.Placements.At(c)
	return id
}
