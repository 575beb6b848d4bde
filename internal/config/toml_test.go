package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/vcval/internal/model"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Valuation.Stage != nil || len(cfg.Comparables) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadScenarioRequiresFile(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing scenario")
	}
}

func TestLoadScenarioApply(t *testing.T) {
	path := writeFile(t, "scenario.toml", `
[valuation]
stage = "seed"
current-revenue = 250
growth = [150, 120, 90, 60, 40]
survival = 25
years = 5

[valuation.scores]
team = 5
market = 2

[output]
format = "json"

[[comparables]]
name = "Peer"
valuation = 30
revenue = 2
stage = "Seed"
`)
	cfg, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Valuation.Stage == nil || *cfg.Valuation.Stage != "seed" {
		t.Fatalf("unexpected stage %v", cfg.Valuation.Stage)
	}
	if cfg.Output.Format == nil || *cfg.Output.Format != "json" {
		t.Fatalf("unexpected format %v", cfg.Output.Format)
	}

	params := cfg.Apply(model.DefaultParameters())
	if params.CurrentRevenue != 250 || params.SurvivalPct != 25 || params.YearsToEstablished != 5 {
		t.Fatalf("unexpected params %+v", params)
	}
	if params.GrowthRates[0] != 150 || params.GrowthRates[4] != 40 {
		t.Fatalf("unexpected growth %v", params.GrowthRates)
	}
	if params.Scores.Team != 5 || params.Scores.Market != 2 || params.Scores.Product != model.NeutralScore {
		t.Fatalf("unexpected scores %+v", params.Scores)
	}
	if params.OpexPct != 90 {
		t.Fatalf("unset opex should keep default, got %v", params.OpexPct)
	}

	comps, ok := cfg.ComparableSet()
	if !ok || len(comps) != 1 || comps[0].Name != "Peer" || comps[0].Revenue != 2 {
		t.Fatalf("unexpected comparables %+v", comps)
	}
}

func TestLoadRejectsBadGrowth(t *testing.T) {
	path := writeFile(t, "bad.toml", "[valuation]\ngrowth = [10, 20]\n")
	if _, err := LoadScenario(path); err == nil {
		t.Fatalf("expected error for short growth list")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "bad.toml", "[valuation]\nsurvial = 20\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultTemplateDecodes(t *testing.T) {
	path := writeFile(t, "config.toml", DefaultConfigTemplate)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Apply(model.DefaultParameters()) != model.DefaultParameters() {
		t.Fatalf("commented template should not change parameters")
	}
}

func TestPathOverrides(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/custom.db")
	if got := DefaultDBPath(); got != "/tmp/custom.db" {
		t.Fatalf("expected override, got %q", got)
	}
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigPath(); got != filepath.Join("/xdg", "vcval", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
}
