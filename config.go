package mutationboard

// StrategyProfile is the weight tuple a PlacementScorer and GreedySolver
// consult during construction and SA neighbor ranking (spec.md §4.5,
// glossary "strategy profile").
type StrategyProfile struct {
	Name              string
	SharingWeight     float64
	CompactnessWeight float64
	SynergyWeight     float64
	CornerWeight      float64
	Randomness        float64
}

// DefaultStrategyProfiles are the five profiles MultiStrategyOptimizer runs
// (spec.md §4.11): compact-balanced, ultra-compact, compact-sharing,
// tight-cluster, exploration.
func DefaultStrategyProfiles() []StrategyProfile {
	return []StrategyProfile{
		{Name: "compact-balanced", SharingWeight: 1, CompactnessWeight: 2, SynergyWeight: 0.5, CornerWeight: 1},
		{Name: "ultra-compact", SharingWeight: 0.5, CompactnessWeight: 3, SynergyWeight: 0.5, CornerWeight: 0.5},
		{Name: "compact-sharing", SharingWeight: 1.5, CompactnessWeight: 2, SynergyWeight: 0.5, CornerWeight: 0.5},
		{Name: "tight-cluster", SharingWeight: 0.8, CompactnessWeight: 2.5, SynergyWeight: 0.5, CornerWeight: 1},
		{Name: "exploration", SharingWeight: 1, CompactnessWeight: 1.5, SynergyWeight: 0.5, CornerWeight: 1, Randomness: 0.2},
	}
}

// SAParams holds the tunable constants of SimulatedAnnealing (spec.md §4.8).
// Defaults match the spec's named values; a host may override via Config.
type SAParams struct {
	InitialTemp       float64
	FloorTemp         float64
	IterationsPerTemp int
	BaseCoolingRatio  float64
	ReheatIdleThresh  int
	ReheatFactor      float64
	MaxReheats        int
	ConvergenceIdle   int
	TabuCapacity      int
	SwapProbability   float64
}

// DefaultSAParams returns the teacher-profile defaults from spec.md §4.8.
func DefaultSAParams() SAParams {
	return SAParams{
		InitialTemp:       100,
		FloorTemp:         0.01,
		IterationsPerTemp: 30,
		BaseCoolingRatio:  0.97,
		ReheatIdleThresh:  50,
		ReheatFactor:      0.5,
		MaxReheats:        3,
		ConvergenceIdle:   100,
		TabuCapacity:      10,
		SwapProbability:   0.3,
	}
}

// GAParams holds GeneticOptimizer's tunable constants (spec.md §4.10).
type GAParams struct {
	PopulationSize int
	Generations    int
	EliteCount     int
	CrossoverRate  float64
	MutationRate   float64
	TournamentSize int
	SeedRandomness []float64
}

// DefaultGAParams returns the spec.md §4.10 defaults.
func DefaultGAParams() GAParams {
	return GAParams{
		PopulationSize: 8,
		Generations:    15,
		EliteCount:     2,
		CrossoverRate:  0.7,
		MutationRate:   0.3,
		TournamentSize: 3,
		SeedRandomness: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7},
	}
}

// Objective selects the scalar goal OptimizeLayout's annealing loop
// maximizes (spec.md §4.12).
type Objective int

const (
	MaxCount Objective = iota
	MaxProfit
)

// ObjectivePreset is one of the three run-parameter presets spec.md §4.12
// exposes for the objective-driven loop: quick, default, thorough.
type ObjectivePreset struct {
	Name          string
	MaxIterations int
	StartTemp     float64
	CoolingRate   float64
}

// DefaultObjectivePresets returns the spec.md §4.12 quick/default/thorough
// presets.
func DefaultObjectivePresets() map[string]ObjectivePreset {
	return map[string]ObjectivePreset{
		"quick":    {Name: "quick", MaxIterations: 1000, StartTemp: 50, CoolingRate: 0.99},
		"default":  {Name: "default", MaxIterations: 20000, StartTemp: 200, CoolingRate: 0.9995},
		"thorough": {Name: "thorough", MaxIterations: 50000, StartTemp: 500, CoolingRate: 0.9999},
	}
}

// DefaultEffectWeights is the closed profit-mode effect weight table from
// spec.md §4.12.
func DefaultEffectWeights() map[EffectTag]float64 {
	return map[EffectTag]float64{
		EffectImprovedHarvestBoost: 100,
		EffectHarvestBoost:         60,
		EffectImprovedWaterRetain:  40,
		EffectWaterRetain:          25,
		EffectImprovedXPBoost:      35,
		EffectXPBoost:              20,
		EffectImmunity:             80,
		EffectBonusDrops:           70,
		EffectImprovedSpread:       50,
		EffectSpread:               30,
		EffectHarvestLoss:          -40,
		EffectWaterDrain:           -30,
		EffectXPLoss:               -20,
	}
}

// Config bundles every host-overridable knob. The zero value is not
// directly usable; call DefaultConfig to get the compiled-in defaults from
// spec.md, then override individual fields. Strategy profiles, SA/GA
// parameters and presets stay compile-time constants per spec.md §9 unless
// a host explicitly supplies a Config — this mirrors the teacher's single
// package-level cfg literal in config.go, generalized into an overridable
// record.
type Config struct {
	StrategyProfiles []StrategyProfile
	SA               SAParams
	GA               GAParams
	ObjectivePresets map[string]ObjectivePreset
	EffectWeights    map[EffectTag]float64
	Seed             int64
	BulkDominanceFraction float64 // fraction of total workload quantity that triggers BulkPlacer (spec.md §4.7: 0.70)
}

// DefaultConfig returns the full compiled-in default configuration.
func DefaultConfig() Config {
	return Config{
		StrategyProfiles:      DefaultStrategyProfiles(),
		SA:                    DefaultSAParams(),
		GA:                    DefaultGAParams(),
		ObjectivePresets:      DefaultObjectivePresets(),
		EffectWeights:         DefaultEffectWeights(),
		Seed:                  1,
		BulkDominanceFraction: 0.70,
	}
}

// Verbose controls whether optimizer phases in this package log progress
// lines via a writer; callers normally prefer passing an explicit
// io.Writer to an optimizer's SetLog, but this mirrors the teacher's
// package-level Verbose flag for the CLI demo in cmd/mutationboard.
var Verbose bool
