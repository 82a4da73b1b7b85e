package mutationboard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// configOverride is the YAML-facing subset of Config a host may override
// without recompiling (spec.md §9's config note): strategy weights, SA/GA
// constants, and the RNG seed. ObjectivePresets and EffectWeights stay
// compile-time defaults unless a host builds its own Config in code.
type configOverride struct {
	Seed                  *int64             `yaml:"seed"`
	BulkDominanceFraction *float64           `yaml:"bulkDominanceFraction"`
	SA                    *saOverride        `yaml:"simulatedAnnealing"`
	GA                    *gaOverride        `yaml:"genetic"`
	StrategyProfiles      []StrategyProfile  `yaml:"strategyProfiles"`
}

type saOverride struct {
	InitialTemp       *float64 `yaml:"initialTemp"`
	FloorTemp         *float64 `yaml:"floorTemp"`
	IterationsPerTemp *int     `yaml:"iterationsPerTemp"`
	BaseCoolingRatio  *float64 `yaml:"baseCoolingRatio"`
	TabuCapacity      *int     `yaml:"tabuCapacity"`
	SwapProbability   *float64 `yaml:"swapProbability"`
}

type gaOverride struct {
	PopulationSize *int     `yaml:"populationSize"`
	Generations    *int     `yaml:"generations"`
	EliteCount     *int     `yaml:"eliteCount"`
	CrossoverRate  *float64 `yaml:"crossoverRate"`
	MutationRate   *float64 `yaml:"mutationRate"`
}

// LoadConfigYAML reads a YAML override document from path and applies it on
// top of DefaultConfig, mirroring the teacher pack's tuning.Load pattern:
// a host ships one small YAML file instead of recompiling to tune the
// optimizer's constants.
func LoadConfigYAML(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("mutationboard: read config %s: %w", path, err)
	}
	var override configOverride
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return cfg, fmt.Errorf("mutationboard: parse config %s: %w", path, err)
	}
	applyOverride(&cfg, &override)
	return cfg, nil
}

func applyOverride(cfg *Config, o *configOverride) {
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
	if o.BulkDominanceFraction != nil {
		cfg.BulkDominanceFraction = *o.BulkDominanceFraction
	}
	if len(o.StrategyProfiles) > 0 {
		cfg.StrategyProfiles = o.StrategyProfiles
	}
	if o.SA != nil {
		if o.SA.InitialTemp != nil {
			cfg.SA.InitialTemp = *o.SA.InitialTemp
		}
		if o.SA.FloorTemp != nil {
			cfg.SA.FloorTemp = *o.SA.FloorTemp
		}
		if o.SA.IterationsPerTemp != nil {
			cfg.SA.IterationsPerTemp = *o.SA.IterationsPerTemp
		}
		if o.SA.BaseCoolingRatio != nil {
			cfg.SA.BaseCoolingRatio = *o.SA.BaseCoolingRatio
		}
		if o.SA.TabuCapacity != nil {
			cfg.SA.TabuCapacity = *o.SA.TabuCapacity
		}
		if o.SA.SwapProbability != nil {
			cfg.SA.SwapProbability = *o.SA.SwapProbability
		}
	}
	if o.GA != nil {
		if o.GA.PopulationSize != nil {
			cfg.GA.PopulationSize = *o.GA.PopulationSize
		}
		if o.GA.Generations != nil {
			cfg.GA.Generations = *o.GA.Generations
		}
		if o.GA.EliteCount != nil {
			cfg.GA.EliteCount = *o.GA.EliteCount
		}
		if o.GA.CrossoverRate != nil {
			cfg.GA.CrossoverRate = *o.GA.CrossoverRate
		}
		if o.GA.MutationRate != nil {
			cfg.GA.MutationRate = *o.GA.MutationRate
		}
	}
}
