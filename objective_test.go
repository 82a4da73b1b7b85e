package mutationboard

import "testing"

func objectiveTestCatalog() map[MutationID]*ParsedMutation {
	return map[MutationID]*ParsedMutation{
		"beehive": {ID: "beehive", Tier: 1, Footprint: Footprint{W: 1, H: 1}, Crops: map[CropName]int{}, Deps: map[MutationID]int{}, Effects: map[EffectTag]bool{EffectHarvestBoost: true}},
		"farmer":  {ID: "farmer", Tier: 0, Footprint: Footprint{W: 1, H: 1}, Crops: map[CropName]int{"wheat": 1}, Deps: map[MutationID]int{}, Effects: map[EffectTag]bool{EffectWaterRetain: true}},
		"rare":    {ID: "rare", Tier: 0, Footprint: Footprint{W: 1, H: 1}, Special: true, Crops: map[CropName]int{}, Deps: map[MutationID]int{}},
		"needsBee": {ID: "needsBee", Tier: 0, Footprint: Footprint{W: 1, H: 1}, Crops: map[CropName]int{}, Deps: map[MutationID]int{"ghost": 1}},
	}
}

func TestObjectiveOptimizerFilterAllowedDropsSpecialAndUnsatisfiableDeps(t *testing.T) {
	catalog := objectiveTestCatalog()
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), DefaultEffectWeights(), MaxCount)
	out := o.filterAllowed([]MutationID{"beehive", "farmer", "rare", "needsBee"})
	got := map[MutationID]bool{}
	for _, id := range out {
		got[id] = true
	}
	if got["rare"] {
		t.Fatalf("special mutations must never survive filterAllowed, got %v", out)
	}
	if got["needsBee"] {
		t.Fatalf("a mutation depending on an unsatisfiable id must be dropped, got %v", out)
	}
	if !got["beehive"] || !got["farmer"] {
		t.Fatalf("expected beehive and farmer to survive, got %v", out)
	}
}

func TestObjectiveOptimizerOptimizeLayoutAllSpecial(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{
		"rare": {ID: "rare", Footprint: Footprint{W: 1, H: 1}, Special: true, Crops: map[CropName]int{}, Deps: map[MutationID]int{}},
	}
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), DefaultEffectWeights(), MaxCount)
	preset := DefaultObjectivePresets()["quick"]
	_, err := o.OptimizeLayout(unlockAll(), []MutationID{"rare"}, preset)
	if err != ErrAllSpecial {
		t.Fatalf("expected ErrAllSpecial when every allowed mutation is filtered out, got %v", err)
	}
}

func TestObjectiveOptimizerOptimizeLayoutMaxCountProducesPlacements(t *testing.T) {
	catalog := objectiveTestCatalog()
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), DefaultEffectWeights(), MaxCount)
	preset := ObjectivePreset{Name: "test", MaxIterations: 200, StartTemp: 50, CoolingRate: 0.95}
	result, err := o.OptimizeLayout(unlockAll(), []MutationID{"beehive", "farmer"}, preset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State == nil || result.State.PlacementCount() == 0 {
		t.Fatalf("expected at least one placement after the move loop, got %+v", result)
	}
	if result.Score != o.score(result.State) {
		t.Fatalf("result.Score must match a fresh evaluation of the returned state, got score=%v recomputed=%v", result.Score, o.score(result.State))
	}
	if result.Score <= float64(result.State.PlacementCount()) {
		t.Fatalf("MaxCount score must exceed raw placement count once the tier/area terms are included, got score=%v count=%d", result.Score, result.State.PlacementCount())
	}
}

func TestObjectiveOptimizerScoreMaxProfitSumsWeights(t *testing.T) {
	catalog := objectiveTestCatalog()
	weights := map[EffectTag]float64{EffectHarvestBoost: 60, EffectWaterRetain: 25}
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), weights, MaxProfit)
	state := NewState(unlockAll())
	m := catalog["beehive"]
	if fp, ok := CheckFeasibility(state, m, Cell{X: 0, Y: 0}); ok {
		Execute(state, m, fp)
	}
	got := o.score(state)
	want := 60.0 + 10*float64(m.Tier) // effectTotal + 10*tier; no drops configured
	if got != want {
		t.Fatalf("expected MaxProfit score %v for one beehive placement, got %v", want, got)
	}
}

func TestObjectiveOptimizerScoreMaxProfitIncludesDropAmount(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{
		"beehive": {ID: "beehive", Tier: 1, Footprint: Footprint{W: 1, H: 1}, Crops: map[CropName]int{}, Deps: map[MutationID]int{}, Drops: map[string]float64{"honey": 200}},
	}
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), map[EffectTag]float64{}, MaxProfit)
	state := NewState(unlockAll())
	m := catalog["beehive"]
	fp, ok := CheckFeasibility(state, m, Cell{X: 0, Y: 0})
	if !ok {
		t.Fatalf("setup: expected feasible placement")
	}
	Execute(state, m, fp)
	got := o.score(state)
	want := 0.01*200 + 10*float64(m.Tier)
	if got != want {
		t.Fatalf("expected drop amount scaled by 0.01 into the profit score, want %v got %v", want, got)
	}
}

func TestObjectiveOptimizerSampleMoveForcesAddWhenEmpty(t *testing.T) {
	catalog := objectiveTestCatalog()
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), DefaultEffectWeights(), MaxCount)
	if mv := o.sampleMove(0); mv != moveAdd {
		t.Fatalf("expected moveAdd when there are no placements, got %v", mv)
	}
}

func TestObjectiveOptimizerDoAddThenUndoRestoresState(t *testing.T) {
	catalog := objectiveTestCatalog()
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), DefaultEffectWeights(), MaxCount)
	state := NewState(unlockAll())
	before := state.PlacementCount()
	ok, undo := o.doAdd(state, []MutationID{"beehive"})
	if !ok {
		t.Fatalf("expected doAdd to succeed on an empty board")
	}
	if state.PlacementCount() != before+1 {
		t.Fatalf("expected one new placement, got count=%d", state.PlacementCount())
	}
	undo()
	if state.PlacementCount() != before {
		t.Fatalf("expected undo to restore the original placement count, got %d want %d", state.PlacementCount(), before)
	}
}

func TestObjectiveOptimizerDoRemoveThenUndoRestoresState(t *testing.T) {
	catalog := objectiveTestCatalog()
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), DefaultEffectWeights(), MaxCount)
	state := NewState(unlockAll())
	m := catalog["beehive"]
	fp, ok := CheckFeasibility(state, m, Cell{X: 3, Y: 3})
	if !ok {
		t.Fatalf("setup: expected a feasible placement")
	}
	Execute(state, m, fp)
	placements := collectPlacements(state)
	before := state.PlacementCount()
	ok, undo := o.doRemove(state, placements)
	if !ok {
		t.Fatalf("expected doRemove to succeed with a live placement present")
	}
	if state.PlacementCount() != before-1 {
		t.Fatalf("expected the placement count to drop by one")
	}
	undo()
	if state.PlacementCount() != before {
		t.Fatalf("expected undo to restore the placement at its original anchor, got %d want %d", state.PlacementCount(), before)
	}
}

func TestObjectiveOptimizerDoSwapRejectsFewerThanTwo(t *testing.T) {
	catalog := objectiveTestCatalog()
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), DefaultEffectWeights(), MaxCount)
	state := NewState(unlockAll())
	m := catalog["beehive"]
	fp, _ := CheckFeasibility(state, m, Cell{X: 0, Y: 0})
	Execute(state, m, fp)
	ok, _ := o.doSwap(state, collectPlacements(state))
	if ok {
		t.Fatalf("expected doSwap to refuse with fewer than two placements")
	}
}

func TestObjectiveOptimizerSeedCropsOnlyLaysPlaceholders(t *testing.T) {
	catalog := objectiveTestCatalog()
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(1), DefaultEffectWeights(), MaxCount)
	state := NewState(unlockAll())
	o.seedCropsOnly(state, []MutationID{"farmer"})
	seeded := 0
	state.Crops.All(func(rec *CropRecord) {
		if rec.Serving["__seed__"] {
			seeded++
		}
	})
	if seeded == 0 {
		t.Fatalf("expected seedCropsOnly to lay at least one placeholder crop cell")
	}
}

func TestObjectiveOptimizerPickTierWeightedStaysInPool(t *testing.T) {
	catalog := objectiveTestCatalog()
	o := NewObjectiveOptimizer(catalog, NewScorer(catalog), NewRand(2), DefaultEffectWeights(), MaxCount)
	pool := []MutationID{"beehive", "farmer"}
	for i := 0; i < 20; i++ {
		id := o.pickTierWeighted(pool)
		if id != "beehive" && id != "farmer" {
			t.Fatalf("pickTierWeighted returned an id outside the pool: %v", id)
		}
	}
}
