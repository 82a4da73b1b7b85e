package mutationboard

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyOverrideLeavesUnsetFieldsAtDefault(t *testing.T) {
	cfg := DefaultConfig()
	original := cfg.SA.InitialTemp
	applyOverride(&cfg, &configOverride{})
	if cfg.SA.InitialTemp != original {
		t.Fatalf("expected an empty override to leave SA.InitialTemp at %v, got %v", original, cfg.SA.InitialTemp)
	}
	if cfg.Seed != DefaultConfig().Seed {
		t.Fatalf("expected an empty override to leave Seed at its default")
	}
}

func TestApplyOverrideSetsOnlyProvidedFields(t *testing.T) {
	cfg := DefaultConfig()
	iterations := 500
	applyOverride(&cfg, &configOverride{SA: &saOverride{IterationsPerTemp: &iterations}})
	if cfg.SA.IterationsPerTemp != 500 {
		t.Fatalf("expected SA.IterationsPerTemp overridden to 500, got %v", cfg.SA.IterationsPerTemp)
	}
	if cfg.SA.InitialTemp != DefaultSAParams().InitialTemp {
		t.Fatalf("expected SA.InitialTemp to stay at its default when not named in the override")
	}
}

func TestApplyOverrideGAFields(t *testing.T) {
	cfg := DefaultConfig()
	pop := 20
	rate := 0.9
	applyOverride(&cfg, &configOverride{GA: &gaOverride{PopulationSize: &pop, CrossoverRate: &rate}})
	if cfg.GA.PopulationSize != 20 || cfg.GA.CrossoverRate != 0.9 {
		t.Fatalf("expected GA overrides applied, got %+v", cfg.GA)
	}
	if cfg.GA.Generations != DefaultGAParams().Generations {
		t.Fatalf("expected GA.Generations to stay at its default")
	}
}

func TestApplyOverrideStrategyProfilesReplacesWhole(t *testing.T) {
	cfg := DefaultConfig()
	custom := []StrategyProfile{{Name: "only-one", SharingWeight: 1}}
	applyOverride(&cfg, &configOverride{StrategyProfiles: custom})
	if len(cfg.StrategyProfiles) != 1 || cfg.StrategyProfiles[0].Name != "only-one" {
		t.Fatalf("expected StrategyProfiles replaced wholesale, got %+v", cfg.StrategyProfiles)
	}
}

func TestLoadConfigYAMLAppliesOverridesOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "seed: 42\nsimulatedAnnealing:\n  iterationsPerTemp: 7\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	cfg, err := LoadConfigYAML(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected Seed overridden to 42, got %v", cfg.Seed)
	}
	if cfg.SA.IterationsPerTemp != 7 {
		t.Fatalf("expected SA.IterationsPerTemp overridden to 7, got %v", cfg.SA.IterationsPerTemp)
	}
	if cfg.GA.PopulationSize != DefaultGAParams().PopulationSize {
		t.Fatalf("expected GA params to stay at their default when absent from the document")
	}
}

func TestLoadConfigYAMLMissingFile(t *testing.T) {
	if _, err := LoadConfigYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestLoadConfigYAMLMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := LoadConfigYAML(path); err == nil {
		t.Fatalf("expected an error for a malformed YAML document")
	}
}
