package mutationboard

import "testing"

func TestScoreBreakdownEmptyBoardFavorsCenter(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{}
	s := NewScorer(catalog)
	state := NewState(unlockAll())
	m := simpleMutation("beehive", 1, 1)
	profile := StrategyProfile{CompactnessWeight: 1, SharingWeight: 1, SynergyWeight: 1, CornerWeight: 1}

	center, _ := CheckFeasibility(state, m, Cell{X: 4, Y: 4})
	corner, _ := CheckFeasibility(state, m, Cell{X: 0, Y: 0})

	centerScore := s.ScoreBreakdown(state, m, center, profile)
	cornerScore := s.ScoreBreakdown(state, m, corner, profile)
	if centerScore.Compactness <= cornerScore.Compactness {
		t.Fatalf("expected center anchor to score higher compactness on an empty board: center=%v corner=%v", centerScore, cornerScore)
	}
}

func TestScoreBreakdownSharingRewardsSatisfiedCrops(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{}
	s := NewScorer(catalog)
	state := NewState(unlockAll())
	state.Crops.Place(Cell{X: 4, Y: 4}, "wheat", "seed_0")
	m := simpleMutation("farmer", 1, 1)
	m.Crops["wheat"] = 1
	profile := StrategyProfile{CompactnessWeight: 1, SharingWeight: 1, SynergyWeight: 1, CornerWeight: 1}

	sharing, _ := CheckFeasibility(state, m, Cell{X: 5, Y: 5})
	noSharing, _ := CheckFeasibility(state, m, Cell{X: 0, Y: 0})

	sharingScore := s.ScoreBreakdown(state, m, sharing, profile)
	noSharingScore := s.ScoreBreakdown(state, m, noSharing, profile)
	if sharingScore.Sharing <= noSharingScore.Sharing {
		t.Fatalf("expected sharing anchor to score higher sharing term")
	}
}

func TestScoreBreakdownIsolatedCornerBonus(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{}
	s := NewScorer(catalog)
	state := NewState(unlockAll())
	m := simpleMutation("lightning", 1, 1)
	m.Isolated = true
	profile := StrategyProfile{CompactnessWeight: 1, SharingWeight: 1, SynergyWeight: 1, CornerWeight: 1}

	corner, _ := CheckFeasibility(state, m, Cell{X: 0, Y: 0})
	middle, _ := CheckFeasibility(state, m, Cell{X: 4, Y: 4})

	cornerScore := s.ScoreBreakdown(state, m, corner, profile)
	middleScore := s.ScoreBreakdown(state, m, middle, profile)
	if cornerScore.Corner <= middleScore.Corner {
		t.Fatalf("expected an edge-touching isolated anchor to earn a corner bonus")
	}
}

func TestScoreBreakdownTotalSumsTerms(t *testing.T) {
	catalog := map[MutationID]*ParsedMutation{}
	s := NewScorer(catalog)
	state := NewState(unlockAll())
	m := simpleMutation("beehive", 1, 1)
	profile := StrategyProfile{CompactnessWeight: 1, SharingWeight: 1, SynergyWeight: 1, CornerWeight: 1}
	fp, _ := CheckFeasibility(state, m, Cell{X: 4, Y: 4})
	b := s.ScoreBreakdown(state, m, fp, profile)
	sum := b.Compactness + b.Sharing + b.Synergy + b.Corner + b.Tier
	if b.Total != sum {
		t.Fatalf("Total %v does not equal sum of terms %v", b.Total, sum)
	}
	if s.Score(state, m, fp, profile) != b.Total {
		t.Fatalf("Score must delegate to ScoreBreakdown.Total")
	}
}

func TestRectGap(t *testing.T) {
	if rectGap(Cell{X: 0, Y: 0}, Footprint{W: 1, H: 1}, Cell{X: 0, Y: 0}, Footprint{W: 1, H: 1}) != 0 {
		t.Fatalf("overlapping rects should have gap 0")
	}
	if rectGap(Cell{X: 0, Y: 0}, Footprint{W: 1, H: 1}, Cell{X: 1, Y: 0}, Footprint{W: 1, H: 1}) != 1 {
		t.Fatalf("expected gap of 1 between immediately adjacent 1x1 rects at x=0 and x=1")
	}
	if rectGap(Cell{X: 0, Y: 0}, Footprint{W: 1, H: 1}, Cell{X: 2, Y: 0}, Footprint{W: 1, H: 1}) != 2 {
		t.Fatalf("expected gap of 2 between 1x1 rects at x=0 and x=2")
	}
}
