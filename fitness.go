package mutationboard

// FitnessBreakdown is the structured decomposition of a State's global
// score (spec.md §4.9, §6 "ScoreBreakdown").
type FitnessBreakdown struct {
	Placed            int
	Requested         int
	PlacementRate     float64
	TotalCrops        int
	SharedCrops       int
	CropEfficiency    float64
	CompactnessScore  float64
	Synergies         int
	TotalScore        float64
}

// FitnessCalculator computes the global objective over a whole State used
// by SA acceptance and the multi-strategy comparison (spec.md §4.9).
type FitnessCalculator struct {
	Catalog map[MutationID]*ParsedMutation

	spreadCache   map[MutationID]bool
	positiveCache map[MutationID]bool
}

// NewFitnessCalculator returns a FitnessCalculator backed by catalog.
func NewFitnessCalculator(catalog map[MutationID]*ParsedMutation) *FitnessCalculator {
	return &FitnessCalculator{
		Catalog:       catalog,
		spreadCache:   make(map[MutationID]bool),
		positiveCache: make(map[MutationID]bool),
	}
}

func (f *FitnessCalculator) spread(id MutationID) bool {
	if v, ok := f.spreadCache[id]; ok {
		return v
	}
	v := f.Catalog[id] != nil && f.Catalog[id].hasSpreadEffect()
	f.spreadCache[id] = v
	return v
}

func (f *FitnessCalculator) positive(id MutationID) bool {
	if v, ok := f.positiveCache[id]; ok {
		return v
	}
	v := f.Catalog[id] != nil && f.Catalog[id].hasOnlyPositiveEffect()
	f.positiveCache[id] = v
	return v
}

// Evaluate computes the breakdown and scalar score for state against a
// target placement count (spec.md §4.9's acceptance formula).
func (f *FitnessCalculator) Evaluate(state *State, target int) FitnessBreakdown {
	placements := collectPlacements(state)
	b := FitnessBreakdown{
		Placed:    len(placements),
		Requested: target,
		TotalCrops: state.Crops.Len(),
		SharedCrops: state.Crops.SharedCount(),
	}
	if target > 0 {
		b.PlacementRate = float64(b.Placed) / float64(target)
	}
	if b.TotalCrops > 0 {
		b.CropEfficiency = float64(b.SharedCrops) / float64(b.TotalCrops)
	}

	totalDistance := 0
	pairs := 0
	for i := 0; i < len(placements); i++ {
		ci := centerCell(placements[i].Anchor, placements[i].Footprint)
		for j := i + 1; j < len(placements); j++ {
			cj := centerCell(placements[j].Anchor, placements[j].Footprint)
			totalDistance += manhattan(ci, cj)
			pairs++
		}
	}
	avgDistance := 0.0
	if pairs > 0 {
		avgDistance = float64(totalDistance) / float64(pairs)
	}
	b.CompactnessScore = avgDistance

	synergies := 0
	for _, a := range placements {
		if !f.spread(a.MutationID) {
			continue
		}
		ca := centerCell(a.Anchor, a.Footprint)
		for _, other := range placements {
			if other.InstanceID == a.InstanceID || !f.positive(other.MutationID) {
				continue
			}
			cb := centerCell(other.Anchor, other.Footprint)
			if manhattan(ca, cb) <= 3 {
				synergies++
			}
		}
	}
	b.Synergies = synergies

	b.TotalScore = b.PlacementRate*2000 +
		max0(200-10*avgDistance) +
		30*float64(b.SharedCrops) +
		20*float64(synergies) -
		3000*float64(target-b.Placed)

	return b
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
