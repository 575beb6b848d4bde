// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/vcval/internal/model"
)

// FileConfig represents the TOML configuration file. Scenario files share
// the same schema.
type FileConfig struct {
	Valuation   ValuationConfig    `toml:"valuation"`
	Output      OutputConfig       `toml:"output"`
	Comparables []ComparableConfig `toml:"comparables"`
}

// ValuationConfig maps valuation inputs. Unset fields leave the current
// value alone.
type ValuationConfig struct {
	Stage            *string      `toml:"stage"`
	CurrentRevenue   *float64     `toml:"current-revenue"`
	Growth           []float64    `toml:"growth"`
	GrossMargin      *float64     `toml:"gross-margin"`
	Opex             *float64     `toml:"opex"`
	TerminalMultiple *float64     `toml:"terminal-multiple"`
	BaseDiscount     *float64     `toml:"base-discount"`
	Survival         *float64     `toml:"survival"`
	Years            *int         `toml:"years"`
	Scores           ScoresConfig `toml:"scores"`
}

// ScoresConfig maps the 1-5 quality scores.
type ScoresConfig struct {
	Team          *int `toml:"team"`
	Product       *int `toml:"product"`
	Market        *int `toml:"market"`
	Traction      *int `toml:"traction"`
	Defensibility *int `toml:"defensibility"`
}

// OutputConfig maps report output settings.
type OutputConfig struct {
	Format *string `toml:"format"`
	Color  *bool   `toml:"color"`
}

// ComparableConfig maps one [[comparables]] entry.
type ComparableConfig struct {
	Name      string  `toml:"name"`
	Valuation float64 `toml:"valuation"`
	Revenue   float64 `toml:"revenue"`
	Stage     string  `toml:"stage"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	return decodeFile(path)
}

// LoadScenario reads a scenario file. Unlike LoadConfig the file must exist.
func LoadScenario(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("scenario path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return FileConfig{}, fmt.Errorf("failed to stat scenario: %w", err)
	}
	return decodeFile(path)
}

func decodeFile(path string) (FileConfig, error) {
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return FileConfig{}, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if n := len(c.Valuation.Growth); n != 0 && n != model.ForecastYears {
		return fmt.Errorf("growth must list %d yearly rates, got %d", model.ForecastYears, n)
	}
	for i, comp := range c.Comparables {
		if strings.TrimSpace(comp.Name) == "" {
			return fmt.Errorf("comparable %d has no name", i+1)
		}
	}
	if c.Output.Format != nil && *c.Output.Format == "" {
		return errors.New("output format is empty")
	}
	return nil
}

// Apply overlays every set field onto params. The stage preset is not
// applied here; callers resolve it first so explicit values win.
func (c FileConfig) Apply(params model.Parameters) model.Parameters {
	v := c.Valuation
	if v.CurrentRevenue != nil {
		params.CurrentRevenue = *v.CurrentRevenue
	}
	if len(v.Growth) == model.ForecastYears {
		copy(params.GrowthRates[:], v.Growth)
	}
	if v.GrossMargin != nil {
		params.GrossMarginPct = *v.GrossMargin
	}
	if v.Opex != nil {
		params.OpexPct = *v.Opex
	}
	if v.TerminalMultiple != nil {
		params.TerminalMultiple = *v.TerminalMultiple
	}
	if v.BaseDiscount != nil {
		params.BaseDiscountPct = *v.BaseDiscount
	}
	if v.Survival != nil {
		params.SurvivalPct = *v.Survival
	}
	if v.Years != nil {
		params.YearsToEstablished = *v.Years
	}
	s := v.Scores
	for d, score := range map[model.Dimension]*int{
		model.Team:          s.Team,
		model.Product:       s.Product,
		model.Market:        s.Market,
		model.Traction:      s.Traction,
		model.Defensibility: s.Defensibility,
	} {
		if score != nil {
			params.Scores.Set(d, *score)
		}
	}
	return params
}

// ComparableSet converts the [[comparables]] entries. ok is false when the
// file lists none.
func (c FileConfig) ComparableSet() ([]model.Comparable, bool) {
	if len(c.Comparables) == 0 {
		return nil, false
	}
	out := make([]model.Comparable, 0, len(c.Comparables))
	for _, comp := range c.Comparables {
		out = append(out, model.Comparable{
			Name:      comp.Name,
			Valuation: comp.Valuation,
			Revenue:   comp.Revenue,
			Stage:     comp.Stage,
		})
	}
	return out, true
}

// DefaultConfigTemplate is written by `vcval config` when no file exists.
const DefaultConfigTemplate = `# vcval configuration
# Values here override the stage preset; command-line flags override both.

[valuation]
# stage = "series-a"            # pre-seed, seed, series-a, series-b, growth
# current-revenue = 1500        # ARR in thousands
# growth = [100, 80, 60, 40, 30] # yearly growth, percent
# gross-margin = 70
# opex = 90                     # percent of revenue
# terminal-multiple = 10
# base-discount = 15            # percent
# survival = 35                 # percent reaching the established stage
# years = 4

[valuation.scores]
# team = 3
# product = 3
# market = 3
# traction = 3
# defensibility = 3

[output]
# format = "text"               # text, json, yaml, markdown, html
# color = true

# [[comparables]]
# name = "Comparable A"
# valuation = 50                # millions
# revenue = 5                   # millions
# stage = "Series A"
`
