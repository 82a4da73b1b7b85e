package mutationboard

import "sort"

// chromosome is one candidate solution: the ordered instance sequence a
// GreedySolver would place, plus the State that ordering produced. Crossover
// and mutation operate on the order; fitness is read off the resulting
// State (spec.md §4.10).
type chromosome struct {
	order []workloadInstance
	state *State
	score float64
}

// GeneticOptimizer evolves a population of greedy placement orders — seeded
// at varying randomness levels — via tournament selection, positional
// crossover and a swap mutation, and returns its best chromosome's state;
// MultiStrategyOptimizer then refines that state with SimulatedAnnealing
// (spec.md §4.10).
type GeneticOptimizer struct {
	Catalog map[MutationID]*ParsedMutation
	Scorer  *Scorer
	Fitness *FitnessCalculator
	Rand    *Rand
	Params  GAParams
}

// NewGeneticOptimizer returns a GeneticOptimizer over catalog.
func NewGeneticOptimizer(catalog map[MutationID]*ParsedMutation, scorer *Scorer, fitness *FitnessCalculator, rnd *Rand, params GAParams) *GeneticOptimizer {
	return &GeneticOptimizer{Catalog: catalog, Scorer: scorer, Fitness: fitness, Rand: rnd, Params: params}
}

// Run evolves Params.Generations generations over unlockedCells/workload and
// returns the fittest state found, along with its fitness score.
func (g *GeneticOptimizer) Run(unlockedCells []Cell, workload []WorkloadEntry, profile StrategyProfile, target int) (*State, float64) {
	base := expandWorkload(g.Catalog, workload)
	if len(base) == 0 {
		return NewState(unlockedCells), 0
	}

	population := g.seedPopulation(unlockedCells, base, profile, target)

	for gen := 0; gen < g.Params.Generations; gen++ {
		sort.SliceStable(population, func(i, j int) bool { return population[i].score > population[j].score })

		next := make([]chromosome, 0, len(population))
		next = append(next, population[:minInt(g.Params.EliteCount, len(population))]...)

		for len(next) < len(population) {
			a := g.tournamentSelect(population)
			b := g.tournamentSelect(population)
			childOrder := a.order
			if g.Rand.Bernoulli(g.Params.CrossoverRate) {
				childOrder = g.crossover(a.order, b.order)
			}
			if g.Rand.Bernoulli(g.Params.MutationRate) {
				g.mutate(childOrder)
			}
			next = append(next, g.evaluate(unlockedCells, childOrder, profile, target))
		}
		population = next
	}

	sort.SliceStable(population, func(i, j int) bool { return population[i].score > population[j].score })
	best := population[0]
	return best.state, best.score
}

// seedPopulation builds Params.PopulationSize chromosomes, one per entry of
// Params.SeedRandomness (cycling if the population is larger), each a
// GreedySolver run at that randomness level (spec.md §4.10 step 1).
func (g *GeneticOptimizer) seedPopulation(unlockedCells []Cell, base []workloadInstance, profile StrategyProfile, target int) []chromosome {
	levels := g.Params.SeedRandomness
	if len(levels) == 0 {
		levels = []float64{0}
	}
	pop := make([]chromosome, 0, g.Params.PopulationSize)
	for i := 0; i < g.Params.PopulationSize; i++ {
		order := append([]workloadInstance(nil), base...)
		level := levels[i%len(levels)]
		if level > 0 {
			g.Rand.Shuffle(len(order), func(a, b int) {
				if g.Rand.Bernoulli(level) {
					order[a], order[b] = order[b], order[a]
				}
			})
		}
		p := profile
		p.Randomness = level
		pop = append(pop, g.evaluate(unlockedCells, order, p, target))
	}
	return pop
}

func (g *GeneticOptimizer) evaluate(unlockedCells []Cell, order []workloadInstance, profile StrategyProfile, target int) chromosome {
	state := NewState(unlockedCells)
	solver := &GreedySolver{Catalog: g.Catalog, Scorer: g.Scorer, Rand: g.Rand}
	for _, inst := range order {
		solver.placeOne(state, inst.mutationID, profile)
	}
	score := g.Fitness.Evaluate(state, target).TotalScore
	return chromosome{order: order, state: state, score: score}
}

// tournamentSelect samples Params.TournamentSize chromosomes uniformly and
// returns the fittest (spec.md §4.10 step 2).
func (g *GeneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.Rand.Intn(len(population))]
	for i := 1; i < g.Params.TournamentSize; i++ {
		c := population[g.Rand.Intn(len(population))]
		if c.score > best.score {
			best = c
		}
	}
	return best
}

// crossover builds a child order by taking a's instances up to a random cut
// point and filling the remainder with b's instances in b's order, skipping
// any instance already placed — a positional crossover that keeps every
// workload unit exactly once (spec.md §4.10 step 3).
func (g *GeneticOptimizer) crossover(a, b []workloadInstance) []workloadInstance {
	if len(a) == 0 {
		return append([]workloadInstance(nil), b...)
	}
	cut := g.Rand.Intn(len(a))
	child := make([]workloadInstance, 0, len(a))
	for i := 0; i <= cut; i++ {
		child = append(child, a[i])
	}
	remaining := make(map[MutationID]int)
	for _, inst := range a[cut+1:] {
		remaining[inst.mutationID]++
	}
	for _, inst := range b {
		if remaining[inst.mutationID] <= 0 {
			continue
		}
		remaining[inst.mutationID]--
		child = append(child, inst)
	}
	return child
}

// mutate swaps two random positions in place (spec.md §4.10 step 4).
func (g *GeneticOptimizer) mutate(order []workloadInstance) {
	if len(order) < 2 {
		return
	}
	i := g.Rand.Intn(len(order))
	j := g.Rand.Intn(len(order))
	order[i], order[j] = order[j], order[i]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
