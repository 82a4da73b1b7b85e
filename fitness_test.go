package mutationboard

import "testing"

func TestFitnessEvaluatePlacementRate(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{}
	fc := NewFitnessCalculator(catalog)
	state := NewState(unlockAll())
	m := simpleMutation("beehive", 1, 1)
	fp, _ := CheckFeasibility(state, m, Cell{X: 0, Y: 0})
	Execute(state, m, fp)

	b := fc.Evaluate(state, 2)
	if b.Placed != 1 || b.Requested != 2 {
		t.Fatalf("unexpected placed/requested: %+v", b)
	}
	if b.PlacementRate != 0.5 {
		t.Fatalf("expected placement rate 0.5, got %v", b.PlacementRate)
	}
}

func TestFitnessEvaluateCropEfficiency(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{}
	fc := NewFitnessCalculator(catalog)
	state := NewState(unlockAll())
	state.Crops.Place(Cell{X: 1, Y: 1}, "wheat", "a_0")
	state.Crops.Place(Cell{X: 1, Y: 1}, "wheat", "b_0")
	state.Crops.Place(Cell{X: 9, Y: 9}, "potato", "c_0")

	b := fc.Evaluate(state, 0)
	if b.TotalCrops != 2 || b.SharedCrops != 1 {
		t.Fatalf("unexpected crop counts: %+v", b)
	}
	if b.CropEfficiency != 0.5 {
		t.Fatalf("expected crop efficiency 0.5, got %v", b.CropEfficiency)
	}
}

func TestFitnessEvaluateSynergyCountsSpreadNeighbors(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{
		"spreader": {ID: "spreader", Effects: map[EffectTag]bool{EffectSpread: true}},
		"booster":  {ID: "booster", Effects: map[EffectTag]bool{EffectHarvestBoost: true}},
	}
	fc := NewFitnessCalculator(catalog)
	state := NewState(unlockAll())
	spreader := catalog["spreader"]
	spreader.Footprint = Footprint{W: 1, H: 1}
	spreader.Crops = map[CropName]int{}
	spreader.Deps = map[MutationID]int{}
	booster := catalog["booster"]
	booster.Footprint = Footprint{W: 1, H: 1}
	booster.Crops = map[CropName]int{}
	booster.Deps = map[MutationID]int{}

	fp1, _ := CheckFeasibility(state, spreader, Cell{X: 4, Y: 4})
	Execute(state, spreader, fp1)
	fp2, _ := CheckFeasibility(state, booster, Cell{X: 5, Y: 4})
	Execute(state, booster, fp2)

	b := fc.Evaluate(state, 2)
	if b.Synergies != 1 {
		t.Fatalf("expected 1 synergy between adjacent spread+positive placements, got %d", b.Synergies)
	}
}

func TestFitnessEvaluatePenalizesShortfall(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{}
	fc := NewFitnessCalculator(catalog)
	empty := NewState(unlockAll())
	full := NewState(unlockAll())
	m := simpleMutation("beehive", 1, 1)
	fp, _ := CheckFeasibility(full, m, Cell{X: 0, Y: 0})
	Execute(full, m, fp)

	emptyScore := fc.Evaluate(empty, 1).TotalScore
	fullScore := fc.Evaluate(full, 1).TotalScore
	if fullScore <= emptyScore {
		t.Fatalf("a state satisfying the target should score higher than one that doesn't: full=%v empty=%v", fullScore, emptyScore)
	}
}
