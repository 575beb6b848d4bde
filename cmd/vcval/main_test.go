package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/vcval/internal/config"
)

type evalDoc struct {
	Stage      string `json:"stage"`
	Parameters struct {
		CurrentRevenue   float64    `json:"current_revenue"`
		GrowthRates      [5]float64 `json:"growth_rates"`
		GrossMarginPct   float64    `json:"gross_margin_pct"`
		TerminalMultiple float64    `json:"terminal_multiple"`
		BaseDiscountPct  float64    `json:"base_discount_pct"`
		SurvivalPct      float64    `json:"survival_pct"`
		Scores           struct {
			Team int `json:"team"`
		} `json:"scores"`
	} `json:"parameters"`
	Comparables []struct {
		Name string `json:"name"`
	} `json:"comparables"`
	Result struct {
		MedianMultiple float64 `json:"median_multiple"`
		Intractable    bool    `json:"intractable"`
	} `json:"result"`
}

func setupEnv(t *testing.T, configBody string) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if configBody != "" {
		if err := os.WriteFile(cfgPath, []byte(configBody), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	t.Setenv(config.EnvConfigPath, cfgPath)
	t.Setenv(config.EnvDBPath, filepath.Join(dir, "vcval.db"))
	t.Setenv("NO_COLOR", "1")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func evalJSON(t *testing.T, args ...string) evalDoc {
	t.Helper()
	out, err := execute(t, append([]string{"eval", "--format", "json"}, args...)...)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	var doc evalDoc
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	return doc
}

func TestEvalDefaults(t *testing.T) {
	setupEnv(t, "")
	doc := evalJSON(t)
	if doc.Stage != "series-a" || doc.Parameters.CurrentRevenue != 1500 {
		t.Fatalf("unexpected defaults %+v", doc)
	}
	if doc.Result.MedianMultiple != 10 || len(doc.Comparables) != 3 {
		t.Fatalf("unexpected comparables result %+v", doc)
	}
}

func TestEvalPrecedence(t *testing.T) {
	setupEnv(t, `
[valuation]
stage = "seed"
gross-margin = 60
survival = 25

[valuation.scores]
team = 5
`)
	doc := evalJSON(t, "--survival", "40")
	p := doc.Parameters
	if doc.Stage != "seed" || p.CurrentRevenue != 200 || p.BaseDiscountPct != 18 {
		t.Fatalf("expected seed preset, got %+v", doc)
	}
	if p.GrossMarginPct != 60 || p.Scores.Team != 5 {
		t.Fatalf("expected config values, got %+v", p)
	}
	if p.SurvivalPct != 40 {
		t.Fatalf("expected flag to win, got %v", p.SurvivalPct)
	}
}

func TestEvalStageFlagBeatsConfig(t *testing.T) {
	setupEnv(t, "[valuation]\nstage = \"seed\"\n")
	doc := evalJSON(t, "--stage", "Series B")
	if doc.Stage != "series-b" || doc.Parameters.CurrentRevenue != 8000 {
		t.Fatalf("expected series-b preset, got %+v", doc)
	}
}

func TestEvalScenario(t *testing.T) {
	dir := setupEnv(t, "[valuation]\ngross-margin = 60\n")
	scenario := filepath.Join(dir, "scenario.toml")
	body := `
[valuation]
gross-margin = 80
growth = [50, 50, 50, 50, 50]

[[comparables]]
name = "Solo"
valuation = 30
revenue = 2
`
	if err := os.WriteFile(scenario, []byte(body), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	doc := evalJSON(t, "--scenario", scenario, "--terminal", "6")
	if doc.Parameters.GrossMarginPct != 80 || doc.Parameters.GrowthRates[4] != 50 {
		t.Fatalf("expected scenario values, got %+v", doc.Parameters)
	}
	if doc.Parameters.TerminalMultiple != 6 {
		t.Fatalf("expected terminal flag, got %v", doc.Parameters.TerminalMultiple)
	}
	if len(doc.Comparables) != 1 || doc.Result.MedianMultiple != 15 {
		t.Fatalf("expected scenario comparables, got %+v", doc)
	}
}

func TestEvalMissingScenario(t *testing.T) {
	dir := setupEnv(t, "")
	if _, err := execute(t, "eval", "--scenario", filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected missing scenario error")
	}
}

func TestEvalGrowthFlag(t *testing.T) {
	setupEnv(t, "")
	doc := evalJSON(t, "--growth", "10,20,30,40,50")
	if doc.Parameters.GrowthRates != [5]float64{10, 20, 30, 40, 50} {
		t.Fatalf("unexpected growth %v", doc.Parameters.GrowthRates)
	}
	if _, err := execute(t, "eval", "--growth", "10,20"); err == nil {
		t.Fatalf("expected error for short growth list")
	}
}

func TestEvalRejectsInvalidParameters(t *testing.T) {
	setupEnv(t, "")
	if _, err := execute(t, "eval", "--years", "0"); err == nil {
		t.Fatalf("expected error for zero horizon")
	}
	if _, err := execute(t, "eval", "--team", "9"); err == nil {
		t.Fatalf("expected error for out-of-range score")
	}
	if _, err := execute(t, "eval", "--format", "pdf"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestEvalIntractableStillRenders(t *testing.T) {
	setupEnv(t, "")
	doc := evalJSON(t, "--survival", "0")
	if !doc.Result.Intractable {
		t.Fatalf("expected intractable result")
	}
}

func TestEvalFormatFromConfig(t *testing.T) {
	setupEnv(t, "[output]\nformat = \"markdown\"\n")
	out, err := execute(t, "eval")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(out, "## Risk adjustment") {
		t.Fatalf("expected markdown from config format:\n%s", out)
	}
}

func TestStagesCmd(t *testing.T) {
	setupEnv(t, "")
	out, err := execute(t, "stages")
	if err != nil {
		t.Fatalf("stages: %v", err)
	}
	for _, want := range []string{"pre-seed", "Series B", "Growth"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCompsLifecycle(t *testing.T) {
	setupEnv(t, "")
	out, err := execute(t, "comps", "seed")
	if err != nil || !strings.Contains(out, "Seeded 3") {
		t.Fatalf("seed: %v %q", err, out)
	}
	out, err = execute(t, "comps", "add", "--name", "Delta", "--valuation", "60", "--revenue", "4", "--stage", "Series B")
	if err != nil || !strings.Contains(out, "Added Delta (id 4)") {
		t.Fatalf("add: %v %q", err, out)
	}
	out, err = execute(t, "comps", "list", "--stage", "series b")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Delta") || strings.Contains(out, "Comparable A") {
		t.Fatalf("expected stage-filtered list:\n%s", out)
	}
	if _, err := execute(t, "comps", "rm", "1"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := execute(t, "comps", "rm", "1"); err == nil {
		t.Fatalf("expected error removing a missing id")
	}

	doc := evalJSON(t, "--comps-from-store")
	if len(doc.Comparables) != 3 || doc.Comparables[0].Name != "Comparable B" {
		t.Fatalf("expected stored comparables, got %+v", doc.Comparables)
	}

	out, err = execute(t, "comps", "seed")
	if err != nil || strings.Contains(out, "Seeded") {
		t.Fatalf("expected no reseed of a non-empty library: %v %q", err, out)
	}
}

func TestCompsEdit(t *testing.T) {
	setupEnv(t, "")
	if _, err := execute(t, "comps", "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	out, err := execute(t, "comps", "edit", "2", "--valuation", "160", "--stage", "Series B")
	if err != nil || !strings.Contains(out, "Updated Comparable B (id 2)") {
		t.Fatalf("edit: %v %q", err, out)
	}
	out, err = execute(t, "comps", "list", "--stage", "series b")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Comparable B") || !strings.Contains(out, "160") || strings.Contains(out, "Comparable A") {
		t.Fatalf("expected edited row in list:\n%s", out)
	}

	if _, err := execute(t, "comps", "edit", "99", "--valuation", "1"); err == nil {
		t.Fatalf("expected error editing a missing id")
	}
	if _, err := execute(t, "comps", "edit", "2"); err == nil {
		t.Fatalf("expected error when no field is given")
	}
	if _, err := execute(t, "comps", "edit", "2", "--revenue", "-1"); err == nil {
		t.Fatalf("expected error for negative revenue")
	}
}

func TestWorkbenchRejectsInvalidParameters(t *testing.T) {
	setupEnv(t, "[valuation]\nyears = 0\n")
	_, err := execute(t)
	if err == nil || !strings.Contains(err.Error(), "invalid parameters") {
		t.Fatalf("expected validation error before the workbench starts, got %v", err)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template must parse: %v", err)
	}
	if cfg.Valuation.Stage != nil || len(cfg.Comparables) != 0 {
		t.Fatalf("template must leave every value unset")
	}
	if err := os.WriteFile(path, []byte("# mine\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure existing: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "# mine\n" {
		t.Fatalf("existing config must be kept, got %q", data)
	}
}
