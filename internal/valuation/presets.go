// Package valuation computes risk-adjusted DCF and comparable-multiple
// valuations for early-stage companies.
package valuation

import (
	"strings"

	"github.com/verte-zerg/vcval/internal/model"
)

var presets = []model.StagePreset{
	{
		Key:                "pre-seed",
		Name:               "Pre-Seed",
		SurvivalRate:       0.10,
		YearsToEstablished: 6,
		BaseDiscountRate:   0.20,
		TypicalRevenue:     0,
		TypicalMultiple:    20,
		Description:        "Idea stage. High uncertainty, minimal traction. 10% survive to established.",
	},
	{
		Key:                "seed",
		Name:               "Seed",
		SurvivalRate:       0.20,
		YearsToEstablished: 5,
		BaseDiscountRate:   0.18,
		TypicalRevenue:     200,
		TypicalMultiple:    15,
		Description:        "Early product, initial customers. 20% survival rate over 5 years.",
	},
	{
		Key:                "series-a",
		Name:               "Series A",
		SurvivalRate:       0.35,
		YearsToEstablished: 4,
		BaseDiscountRate:   0.15,
		TypicalRevenue:     1500,
		TypicalMultiple:    12,
		Description:        "Product-market fit emerging. 35% reach established stage.",
	},
	{
		Key:                "series-b",
		Name:               "Series B",
		SurvivalRate:       0.50,
		YearsToEstablished: 3,
		BaseDiscountRate:   0.12,
		TypicalRevenue:     8000,
		TypicalMultiple:    10,
		Description:        "Scaling operations. 50% survival, more predictable trajectory.",
	},
	{
		Key:                "growth",
		Name:               "Growth",
		SurvivalRate:       0.70,
		YearsToEstablished: 2,
		BaseDiscountRate:   0.10,
		TypicalRevenue:     30000,
		TypicalMultiple:    8,
		Description:        "Proven model, scaling aggressively. 70% reach exit/establishment.",
	},
}

// Presets returns all stage presets in stage order.
func Presets() []model.StagePreset {
	out := make([]model.StagePreset, len(presets))
	copy(out, presets)
	return out
}

// PresetKeys returns the canonical stage keys in stage order.
func PresetKeys() []string {
	keys := make([]string, 0, len(presets))
	for _, p := range presets {
		keys = append(keys, p.Key)
	}
	return keys
}

// PresetFor resolves a stage key. Case and the separators '-', '_' and ' '
// are ignored, so "Series A" and "seriesA" both resolve to series-a.
func PresetFor(key string) (model.StagePreset, error) {
	norm := normalizeStageKey(key)
	for _, p := range presets {
		if normalizeStageKey(p.Key) == norm {
			return p, nil
		}
	}
	return model.StagePreset{}, &UnknownStageError{Key: key, Available: PresetKeys()}
}

// ApplyPreset returns params with the stage's revenue, risk and terminal
// multiple fields overwritten. Growth, margins and scores are kept. On error
// params is returned unchanged.
func ApplyPreset(key string, params model.Parameters) (model.Parameters, error) {
	p, err := PresetFor(key)
	if err != nil {
		return params, err
	}
	params.CurrentRevenue = p.TypicalRevenue
	params.SurvivalPct = p.SurvivalRate * 100
	params.YearsToEstablished = p.YearsToEstablished
	params.BaseDiscountPct = p.BaseDiscountRate * 100
	params.TerminalMultiple = p.TypicalMultiple
	return params, nil
}

func normalizeStageKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
}
