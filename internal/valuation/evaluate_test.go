package valuation

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/vcval/internal/model"
)

func TestEvaluateDefaults(t *testing.T) {
	params := model.DefaultParameters()
	res, err := Evaluate(params, model.DefaultComparables())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Intractable {
		t.Fatalf("unexpected intractable result")
	}
	if !almostEqual(res.Revenues[5], 15724.8, 1e-9) {
		t.Fatalf("unexpected final revenue %v", res.Revenues[5])
	}
	if !almostEqual(res.TerminalValue, 157248, 1e-6) {
		t.Fatalf("unexpected terminal value %v", res.TerminalValue)
	}
	f := 1 - math.Pow(0.35, 0.25)
	if !almostEqual(res.AnnualFailureRate, f, 1e-12) {
		t.Fatalf("unexpected failure rate %v", res.AnnualFailureRate)
	}
	adj := (0.15 + f) / (1 - f)
	if !almostEqual(res.AdjustedDiscountRate, adj, 1e-12) {
		t.Fatalf("unexpected adjusted rate %v", res.AdjustedDiscountRate)
	}

	base, _ := PresentValue(res.CashFlows, res.TerminalValue, 0.15)
	if res.BaseDCF != base {
		t.Fatalf("base dcf mismatch: %v != %v", res.BaseDCF, base)
	}
	if res.AdjustedDCF >= res.BaseDCF {
		t.Fatalf("risk adjustment should lower value: %v >= %v", res.AdjustedDCF, res.BaseDCF)
	}
	if !almostEqual(res.DiscountImpact, (res.BaseDCF-res.AdjustedDCF)/res.BaseDCF*100, 1e-9) {
		t.Fatalf("unexpected discount impact %v", res.DiscountImpact)
	}

	if res.MedianMultiple != 10 {
		t.Fatalf("expected median 10, got %v", res.MedianMultiple)
	}
	if res.TotalQualityMultiplier != 1 {
		t.Fatalf("expected neutral quality, got %v", res.TotalQualityMultiplier)
	}
	if res.ComparableBaseValue != 15000 || res.ComparableAdjustedValue != 15000 {
		t.Fatalf("unexpected comparable values %v %v", res.ComparableBaseValue, res.ComparableAdjustedValue)
	}
	want := Blend(res.AdjustedDCF, res.BaseDCF, res.ComparableAdjustedValue)
	if res.Range != want {
		t.Fatalf("unexpected range %+v", res.Range)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	params := model.DefaultParameters()
	params.Scores.Market = 4
	comps := model.DefaultComparables()
	a, err := Evaluate(params, comps)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	b, err := Evaluate(params, comps)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if a.AdjustedDCF != b.AdjustedDCF || a.Range != b.Range || a.TotalQualityMultiplier != b.TotalQualityMultiplier {
		t.Fatalf("results differ between identical calls")
	}
}

func TestEvaluateEmptyComparables(t *testing.T) {
	params := model.DefaultParameters()
	res, err := Evaluate(params, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.MedianMultiple != params.TerminalMultiple || res.AverageMultiple != params.TerminalMultiple {
		t.Fatalf("expected terminal multiple fallback, got %v %v", res.MedianMultiple, res.AverageMultiple)
	}
	if len(res.Multiples) != 0 {
		t.Fatalf("expected no multiples, got %v", res.Multiples)
	}
}

func TestEvaluateInvalidHorizon(t *testing.T) {
	params := model.DefaultParameters()
	params.YearsToEstablished = 0
	res, err := Evaluate(params, nil)
	if !errors.Is(err, ErrInvalidHorizon) {
		t.Fatalf("expected ErrInvalidHorizon, got %v", err)
	}
	if res.BaseDCF != 0 || res.Revenues[0] != 0 {
		t.Fatalf("expected empty result on invalid horizon")
	}
}

func TestEvaluateZeroSurvivalIsIntractable(t *testing.T) {
	params := model.DefaultParameters()
	params.SurvivalPct = 0
	res, err := Evaluate(params, model.DefaultComparables())
	if !errors.Is(err, ErrDivisionSingularity) {
		t.Fatalf("expected ErrDivisionSingularity, got %v", err)
	}
	if !res.Intractable {
		t.Fatalf("expected intractable flag")
	}
	if res.AnnualFailureRate != 1 {
		t.Fatalf("expected failure rate 1, got %v", res.AnnualFailureRate)
	}
	if res.BaseDCF == 0 || res.ComparableAdjustedValue == 0 {
		t.Fatalf("expected base dcf and comparable method to survive")
	}
	if res.AdjustedDCF != 0 || res.Range != (model.Range{}) {
		t.Fatalf("expected adjusted fields left zero")
	}
}

func TestEvaluateQualityScalesComparables(t *testing.T) {
	params := model.DefaultParameters()
	params.Scores = model.QualityScores{Team: 1, Product: 1, Market: 1, Traction: 1, Defensibility: 1}
	res, err := Evaluate(params, model.DefaultComparables())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := 0.8 * 0.8 * 0.85 * 0.85 * 0.9
	if !almostEqual(res.TotalQualityMultiplier, want, 1e-12) {
		t.Fatalf("expected %v, got %v", want, res.TotalQualityMultiplier)
	}
	if !almostEqual(res.ComparableAdjustedValue, res.ComparableBaseValue*want, 1e-6) {
		t.Fatalf("unexpected adjusted comparable value %v", res.ComparableAdjustedValue)
	}
}
