package mutationboard

import (
	"fmt"
	"io"
	"os"
)

// progressWriter returns os.Stdout when the package-level Verbose flag is
// set, or io.Discard otherwise — the switch cmd/mutationboard flips on
// -verbose.
func progressWriter() io.Writer {
	if Verbose {
		return os.Stdout
	}
	return io.Discard
}

// Optimize is the primary entry point: parse a raw catalog, run
// MultiStrategyOptimizer over workload against unlockedCells, and project
// the winning state into LayoutOutput (spec.md §6).
func Optimize(rawCatalog map[MutationID]*RawMutation, workload []WorkloadEntry, unlockedCells []Cell, cfg Config) (LayoutOutput, error) {
	parser := NewParser()
	catalog, err := parser.ParseAll(rawCatalog)
	if err != nil {
		return LayoutOutput{}, err
	}
	needsGodseed := false
	available := make(map[MutationID]bool, len(workload))
	for _, w := range workload {
		if w.MutationID == GodseedID {
			needsGodseed = true
			continue
		}
		if _, ok := catalog[w.MutationID]; !ok {
			return LayoutOutput{}, fmt.Errorf("workload entry %q: %w", w.MutationID, ErrUnknownMutation)
		}
		if w.Quantity <= 0 {
			return LayoutOutput{}, fmt.Errorf("workload entry %q: %w", w.MutationID, ErrNegativeQuantity)
		}
		available[w.MutationID] = true
	}
	if needsGodseed {
		catalog[GodseedID] = GodseedConditions(catalog, available)
	}

	scorer := NewScorer(catalog)
	fitness := NewFitnessCalculator(catalog)
	rnd := NewRand(cfg.Seed)

	mso := NewMultiStrategyOptimizer(catalog, scorer, fitness, rnd, cfg)
	mso.SetLog(progressWriter())

	best := mso.Optimize(unlockedCells, workload)

	target := 0
	for _, w := range workload {
		target += w.Quantity
	}
	gb := NewGridBuilder(catalog, scorer, fitness)
	return gb.Build(best.State, target), nil
}

// OptimizeLayout runs the objective-driven alternative loop (spec.md
// §4.12): rather than building then annealing a state, it anneals directly
// over ADD/REMOVE/MOVE/SWAP moves restricted to allowedIds, under the named
// preset ("quick", "default", or "thorough") and the chosen Objective.
func OptimizeLayout(rawCatalog map[MutationID]*RawMutation, allowedIds []MutationID, unlockedCells []Cell, objective Objective, presetName string, cfg Config) (LayoutOutput, error) {
	parser := NewParser()
	catalog, err := parser.ParseAll(rawCatalog)
	if err != nil {
		return LayoutOutput{}, err
	}
	preset, ok := cfg.ObjectivePresets[presetName]
	if !ok {
		return LayoutOutput{}, fmt.Errorf("mutationboard: unknown objective preset %q", presetName)
	}

	scorer := NewScorer(catalog)
	fitness := NewFitnessCalculator(catalog)
	rnd := NewRand(cfg.Seed)

	oo := NewObjectiveOptimizer(catalog, scorer, rnd, cfg.EffectWeights, objective)
	oo.SetLog(progressWriter())

	result, err := oo.OptimizeLayout(unlockedCells, allowedIds, preset)
	if err != nil {
		return LayoutOutput{}, err
	}

	gb := NewGridBuilder(catalog, scorer, fitness)
	return gb.Build(result.State, result.State.PlacementCount()), nil
}
