package mutationboard

import (
	"fmt"
	"io"
	"sort"
)

// StrategyResult is one named strategy's outcome, ranked by MultiStrategyOptimizer
// and returned in full by OptimizeAll (spec.md §4.11).
type StrategyResult struct {
	Strategy string
	State    *State
	Score    float64
}

// MultiStrategyOptimizer runs GreedySolver against every configured
// StrategyProfile, a GeneticOptimizer pass, and — when the workload has a
// dominant mutation — a BulkPlacer pass, refining every candidate with
// SimulatedAnnealing and keeping the best by fitness (spec.md §4.11).
type MultiStrategyOptimizer struct {
	Catalog map[MutationID]*ParsedMutation
	Scorer  *Scorer
	Fitness *FitnessCalculator
	Rand    *Rand
	Config  Config
	out     io.Writer
}

// NewMultiStrategyOptimizer returns a MultiStrategyOptimizer over catalog
// driven by cfg.
func NewMultiStrategyOptimizer(catalog map[MutationID]*ParsedMutation, scorer *Scorer, fitness *FitnessCalculator, rnd *Rand, cfg Config) *MultiStrategyOptimizer {
	return &MultiStrategyOptimizer{Catalog: catalog, Scorer: scorer, Fitness: fitness, Rand: rnd, Config: cfg, out: io.Discard}
}

// SetLog directs bracket-tagged progress lines to w.
func (m *MultiStrategyOptimizer) SetLog(w io.Writer) { m.out = w }

// Optimize returns the single best strategy result (spec.md §4.11).
func (m *MultiStrategyOptimizer) Optimize(unlockedCells []Cell, workload []WorkloadEntry) StrategyResult {
	results := m.OptimizeAll(unlockedCells, workload)
	return results[0]
}

// OptimizeAll runs every strategy and returns all results sorted by score
// descending. Per DESIGN.md's Open Question resolution, the best candidate
// is seeded from the bulk-placer result (when one runs) before any
// profile/genetic comparison, so a dominant-mutation workload never loses
// to a worse general-purpose pass by tie-break order alone.
func (m *MultiStrategyOptimizer) OptimizeAll(unlockedCells []Cell, workload []WorkloadEntry) []StrategyResult {
	target := 0
	for _, w := range workload {
		target += w.Quantity
	}

	var results []StrategyResult

	if dominant, ok := DominantMutation(m.Catalog, workload, m.Config.BulkDominanceFraction); ok {
		quantity := 0
		var rest []WorkloadEntry
		for _, w := range workload {
			if w.MutationID == dominant {
				quantity = w.Quantity
			} else {
				rest = append(rest, w)
			}
		}
		bp := NewBulkPlacer(m.Catalog, m.Scorer)
		state, _ := bp.Place(unlockedCells, workload, dominant, quantity, rest, m.Rand, m.Config.StrategyProfiles[0])
		state, score := m.refine(state, target, m.Config.StrategyProfiles[0])
		fmt.Fprintf(m.out, "[multistrategy] bulk score=%.1f\n", score)
		results = append(results, StrategyResult{Strategy: "bulk", State: state, Score: score})
	}

	for _, profile := range m.Config.StrategyProfiles {
		solver := NewGreedySolver(m.Catalog, m.Scorer, m.Rand)
		state := solver.Solve(unlockedCells, workload, profile)
		state, score := m.refine(state, target, profile)
		fmt.Fprintf(m.out, "[multistrategy] %s score=%.1f\n", profile.Name, score)
		results = append(results, StrategyResult{Strategy: profile.Name, State: state, Score: score})
	}

	ga := NewGeneticOptimizer(m.Catalog, m.Scorer, m.Fitness, m.Rand, m.Config.GA)
	gaProfile := m.Config.StrategyProfiles[0]
	state, _ := ga.Run(unlockedCells, workload, gaProfile, target)
	state, score := m.refine(state, target, gaProfile)
	fmt.Fprintf(m.out, "[multistrategy] genetic score=%.1f\n", score)
	results = append(results, StrategyResult{Strategy: "genetic", State: state, Score: score})

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// refine hands state to SimulatedAnnealing for local improvement and
// returns the annealed state and its fitness score.
func (m *MultiStrategyOptimizer) refine(state *State, target int, profile StrategyProfile) (*State, float64) {
	sa := NewSimulatedAnnealing(m.Catalog, m.Scorer, m.Fitness, m.Rand, m.Config.SA, profile, target)
	sa.SetLog(m.out)
	sa.MaxIter = m.Config.SA.IterationsPerTemp * 50
	return sa.Run(state)
}
