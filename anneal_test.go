package mutationboard

import "testing"

func TestMetropolisAcceptAlwaysTakesImprovement(t *testing.T) {
	r := NewRand(1)
	if !metropolisAccept(5, 10, r) {
		t.Fatalf("a positive delta must always be accepted")
	}
}

func TestMetropolisAcceptRejectsAtZeroTemperature(t *testing.T) {
	r := NewRand(1)
	if metropolisAccept(-5, 0, r) {
		t.Fatalf("a worsening move at T=0 must always be rejected")
	}
}

func TestPruneTabuDropsExpired(t *testing.T) {
	tabu := []tabuEntry{
		{instance: "a_0", anchor: Cell{X: 0, Y: 0}, expires: 5},
		{instance: "b_0", anchor: Cell{X: 1, Y: 1}, expires: 15},
	}
	out := pruneTabu(tabu, 10)
	if len(out) != 1 || out[0].instance != "b_0" {
		t.Fatalf("expected only the non-expired entry to survive, got %+v", out)
	}
}

func TestTabuBlocks(t *testing.T) {
	tabu := []tabuEntry{{instance: "a_0", anchor: Cell{X: 2, Y: 2}, expires: 10}}
	if !tabuBlocks(tabu, "a_0", Cell{X: 2, Y: 2}, 5) {
		t.Fatalf("expected a live tabu entry to block")
	}
	if tabuBlocks(tabu, "a_0", Cell{X: 2, Y: 2}, 11) {
		t.Fatalf("expired tabu entry should not block")
	}
	if tabuBlocks(tabu, "b_0", Cell{X: 2, Y: 2}, 5) {
		t.Fatalf("tabu entry must not block a different instance")
	}
}

func TestSimulatedAnnealingRunNeverLosesBestState(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{
		"beehive": {ID: "beehive", Footprint: Footprint{W: 1, H: 1}, Crops: map[CropName]int{}, Deps: map[MutationID]int{}},
	}
	scorer := NewScorer(catalog)
	fitness := NewFitnessCalculator(catalog)
	state := NewState(unlockAll())
	for _, c := range []Cell{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 4, Y: 0}} {
		m := catalog["beehive"]
		if fp, ok := CheckFeasibility(state, m, c); ok {
			Execute(state, m, fp)
		}
	}
	before := fitness.Evaluate(state, 3).TotalScore

	params := DefaultSAParams()
	params.IterationsPerTemp = 5
	sa := NewSimulatedAnnealing(catalog, scorer, fitness, NewRand(7), params, DefaultStrategyProfiles()[0], 3)
	best, bestScore := sa.Run(state)
	if best == nil {
		t.Fatalf("expected a non-nil best state")
	}
	if bestScore < before {
		t.Fatalf("SA must never report a best score worse than the starting state: before=%v best=%v", before, bestScore)
	}
	if best.PlacementCount() == 0 {
		t.Fatalf("expected placements preserved through annealing")
	}
}

// TestTryRelocateRejectNeverDuplicatesPlacement guards against a prior bug
// where a rejected relocate left both the relocated copy and a freshly
// re-executed original alive, since Execute always allocates a new
// InstanceID rather than reusing the removed one.
func TestTryRelocateRejectNeverDuplicatesPlacement(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{
		"beehive": {ID: "beehive", Footprint: Footprint{W: 1, H: 1}, Crops: map[CropName]int{}, Deps: map[MutationID]int{}},
	}
	state := NewState(unlockAll())
	m := catalog["beehive"]
	lone := Cell{X: 3, Y: 3}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if (Cell{X: x, Y: y}) != lone {
				state.Board.OccupyCell(Cell{X: x, Y: y})
			}
		}
	}
	fp, ok := CheckFeasibility(state, m, lone)
	if !ok {
		t.Fatalf("setup: expected the lone free cell to be feasible")
	}
	Execute(state, m, fp)
	if state.PlacementCount() != 1 {
		t.Fatalf("setup: expected exactly one placement before relocating")
	}

	sa := NewSimulatedAnnealing(catalog, NewScorer(catalog), NewFitnessCalculator(catalog), NewRand(1), DefaultSAParams(), DefaultStrategyProfiles()[0], 1)
	// Every cell but lone is occupied, so the only feasible anchor after
	// removal is lone itself: delta is always 0, and T=0 guarantees
	// metropolisAccept rejects a non-positive delta.
	var tabu []tabuEntry
	ok, instance, anchor := sa.tryRelocate(state, collectPlacements(state), 0, &tabu, 1)
	if ok {
		t.Fatalf("expected the relocate to be rejected at T=0 with a zero delta")
	}
	if instance != "" || anchor != (Cell{}) {
		t.Fatalf("a rejected relocate must report no moved instance, got %v %v", instance, anchor)
	}
	if state.PlacementCount() != 1 {
		t.Fatalf("a rejected relocate must leave exactly one live placement, got %d", state.PlacementCount())
	}
}

// TestTryRelocateAcceptRecordsLiveInstanceID guards against tabu entries
// keyed by an already-removed InstanceID, which could never block a future
// candidate since Execute always allocates a fresh id.
func TestTryRelocateAcceptRecordsLiveInstanceID(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{
		"beehive": {ID: "beehive", Footprint: Footprint{W: 1, H: 1}, Crops: map[CropName]int{}, Deps: map[MutationID]int{}},
	}
	state := NewState(unlockAll())
	m := catalog["beehive"]
	fp, ok := CheckFeasibility(state, m, Cell{X: 0, Y: 0})
	if !ok {
		t.Fatalf("setup: expected feasible placement")
	}
	original := Execute(state, m, fp)

	sa := NewSimulatedAnnealing(catalog, NewScorer(catalog), NewFitnessCalculator(catalog), NewRand(2), DefaultSAParams(), DefaultStrategyProfiles()[0], 1)
	var tabu []tabuEntry
	accepted, instance, _ := sa.tryRelocate(state, collectPlacements(state), 1000, &tabu, 1)
	if !accepted {
		t.Fatalf("expected a permissive T=1000 move to be accepted")
	}
	if instance == original.InstanceID {
		t.Fatalf("the accepted relocate must report a fresh live instance id, not the removed original %v", original.InstanceID)
	}
	live := false
	state.Placements.All(func(p *Placement) {
		if p.InstanceID == instance {
			live = true
		}
	})
	if !live {
		t.Fatalf("tabu must be recorded against an instance id that is actually live in state, got %v", instance)
	}
}

func TestSimulatedAnnealingRunEmptyStateNoPanic(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{}
	scorer := NewScorer(catalog)
	fitness := NewFitnessCalculator(catalog)
	state := NewState(unlockAll())
	params := DefaultSAParams()
	params.IterationsPerTemp = 2
	params.InitialTemp = 1
	params.BaseCoolingRatio = 0.5
	sa := NewSimulatedAnnealing(catalog, scorer, fitness, NewRand(3), params, StrategyProfile{}, 0)
	best, _ := sa.Run(state)
	if best.PlacementCount() != 0 {
		t.Fatalf("expected no placements to appear out of thin air")
	}
}
