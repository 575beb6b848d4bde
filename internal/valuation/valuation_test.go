package valuation

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/vcval/internal/model"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestProjectRevenueScenario(t *testing.T) {
	got := ProjectRevenue(1500, [model.ForecastYears]float64{100, 80, 60, 40, 30})
	want := []float64{1500, 3000, 5400, 8640, 12096, 15724.8}
	if got[0] != 1500 {
		t.Fatalf("expected exact current revenue, got %v", got[0])
	}
	for i, w := range want {
		if !almostEqual(got[i], w, 1e-9) {
			t.Fatalf("revenue[%d]: expected %v, got %v", i, w, got[i])
		}
	}
}

func TestProjectRevenueNegativeGrowth(t *testing.T) {
	got := ProjectRevenue(1000, [model.ForecastYears]float64{-50, -100, 50, 0, 0})
	if got[1] != 500 {
		t.Fatalf("expected 500, got %v", got[1])
	}
	if got[2] != 0 || got[5] != 0 {
		t.Fatalf("expected revenue to stay at zero after -100%%, got %v", got)
	}
}

func TestDeriveFailureRate(t *testing.T) {
	f, err := DeriveFailureRate(0.35, 4)
	if err != nil {
		t.Fatalf("failure rate: %v", err)
	}
	if !almostEqual(f, 1-math.Pow(0.35, 0.25), 1e-12) {
		t.Fatalf("unexpected failure rate %v", f)
	}
	if !almostEqual(f, 0.2311, 1e-3) {
		t.Fatalf("expected about 0.2311, got %v", f)
	}

	one, err := DeriveFailureRate(1, 4)
	if err != nil || one != 0 {
		t.Fatalf("expected zero failure at full survival, got %v %v", one, err)
	}
	zero, err := DeriveFailureRate(0, 4)
	if err != nil || zero != 1 {
		t.Fatalf("expected failure 1 at zero survival, got %v %v", zero, err)
	}
}

func TestDeriveFailureRateMonotone(t *testing.T) {
	prev := math.Inf(1)
	for s := 0.05; s <= 1.0001; s += 0.05 {
		f, err := DeriveFailureRate(math.Min(s, 1), 5)
		if err != nil {
			t.Fatalf("failure rate at %v: %v", s, err)
		}
		if f >= prev {
			t.Fatalf("failure rate not decreasing at survival %v: %v >= %v", s, f, prev)
		}
		prev = f
	}
}

func TestDeriveFailureRateErrors(t *testing.T) {
	_, err := DeriveFailureRate(0.5, 0)
	if !errors.Is(err, ErrInvalidHorizon) {
		t.Fatalf("expected ErrInvalidHorizon, got %v", err)
	}
	var horizon *InvalidHorizonError
	if !errors.As(err, &horizon) || horizon.Years != 0 {
		t.Fatalf("expected InvalidHorizonError with years 0, got %v", err)
	}
	if _, err := DeriveFailureRate(1.2, 3); !errors.Is(err, ErrSurvivalOutOfRange) {
		t.Fatalf("expected ErrSurvivalOutOfRange, got %v", err)
	}
	if _, err := DeriveFailureRate(-0.1, 3); !errors.Is(err, ErrSurvivalOutOfRange) {
		t.Fatalf("expected ErrSurvivalOutOfRange, got %v", err)
	}
}

func TestAdjustDiscountRate(t *testing.T) {
	f := 1 - math.Pow(0.35, 0.25)
	r, err := AdjustDiscountRate(0.15, f)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !almostEqual(r, (0.15+f)/(1-f), 1e-12) {
		t.Fatalf("unexpected adjusted rate %v", r)
	}
	if !almostEqual(r, 0.4956, 1e-3) {
		t.Fatalf("expected about 0.4956, got %v", r)
	}

	prev := -1.0
	for f := 0.0; f < 0.95; f += 0.05 {
		r, err := AdjustDiscountRate(0.15, f)
		if err != nil {
			t.Fatalf("adjust at %v: %v", f, err)
		}
		if r <= prev {
			t.Fatalf("adjusted rate not increasing at %v", f)
		}
		prev = r
	}

	if _, err := AdjustDiscountRate(0.15, 1); !errors.Is(err, ErrDivisionSingularity) {
		t.Fatalf("expected ErrDivisionSingularity, got %v", err)
	}
}

func TestCashFlowsAndTerminal(t *testing.T) {
	revs := [model.ForecastYears + 1]float64{100, 200, 300, 400, 500, 600}
	cf := CashFlows(revs, 70, 90)
	for i, c := range cf {
		want := -0.2 * revs[i+1]
		if !almostEqual(c, want, 1e-9) {
			t.Fatalf("cf[%d]: expected %v, got %v", i, want, c)
		}
	}
	if TerminalValue(600, 10) != 6000 {
		t.Fatalf("unexpected terminal value")
	}
}

func TestPresentValue(t *testing.T) {
	cf := [model.ForecastYears]float64{10, 10, 10, 10, 10}
	pv, err := PresentValue(cf, 100, 0)
	if err != nil {
		t.Fatalf("pv: %v", err)
	}
	if pv != 150 {
		t.Fatalf("expected undiscounted sum 150, got %v", pv)
	}

	pv, err = PresentValue([model.ForecastYears]float64{}, 100, 0.1)
	if err != nil {
		t.Fatalf("pv: %v", err)
	}
	if !almostEqual(pv, 100/math.Pow(1.1, 5), 1e-9) {
		t.Fatalf("unexpected discounted terminal %v", pv)
	}

	if _, err := PresentValue(cf, 100, -1); !errors.Is(err, ErrRateOutOfRange) {
		t.Fatalf("expected ErrRateOutOfRange, got %v", err)
	}
}

func TestDiscountImpact(t *testing.T) {
	if got := DiscountImpact(200, 50); got != 75 {
		t.Fatalf("expected 75, got %v", got)
	}
	if got := DiscountImpact(0, 50); got != 0 {
		t.Fatalf("expected 0 for zero base, got %v", got)
	}
	if got := DiscountImpact(-10, 50); got != 0 {
		t.Fatalf("expected 0 for negative base, got %v", got)
	}
}

func TestMultiplesScenario(t *testing.T) {
	multiples := Multiples(model.DefaultComparables())
	want := []float64{10, 10, 8}
	if len(multiples) != len(want) {
		t.Fatalf("expected %d multiples, got %v", len(want), multiples)
	}
	for i, w := range want {
		if multiples[i] != w {
			t.Fatalf("multiple[%d]: expected %v, got %v", i, w, multiples[i])
		}
	}
	if got := MedianMultiple(multiples, 99); got != 10 {
		t.Fatalf("expected median 10, got %v", got)
	}
	if multiples[2] != 8 {
		t.Fatalf("median must not reorder input: %v", multiples)
	}
	if got := AverageMultiple(multiples, 99); !almostEqual(got, 28.0/3, 1e-12) {
		t.Fatalf("unexpected average %v", got)
	}
}

func TestMultiplesSkipsInvalid(t *testing.T) {
	comps := []model.Comparable{
		{Name: "zero", Valuation: 10, Revenue: 0},
		{Name: "neg", Valuation: 10, Revenue: -2},
		{Name: "ok", Valuation: 30, Revenue: 2},
	}
	multiples := Multiples(comps)
	if len(multiples) != 1 || multiples[0] != 15 {
		t.Fatalf("expected [15], got %v", multiples)
	}
}

func TestMedianEvenCountUsesIndexHalf(t *testing.T) {
	got := MedianMultiple([]float64{12, 4, 8, 6}, 0)
	if got != 8 {
		t.Fatalf("expected element at index 2 of sorted list (8), got %v", got)
	}
}

func TestEmptyComparablesFallback(t *testing.T) {
	if got := MedianMultiple(nil, 12); got != 12 {
		t.Fatalf("expected fallback 12, got %v", got)
	}
	if got := AverageMultiple(Multiples(nil), 12); got != 12 {
		t.Fatalf("expected fallback 12, got %v", got)
	}
}

func TestQualityNeutral(t *testing.T) {
	factors := QualityFactors(model.NeutralScores())
	if got := TotalQualityMultiplier(factors); got != 1 {
		t.Fatalf("expected exactly 1, got %v", got)
	}
	sum := 0.0
	for _, d := range model.Dimensions() {
		sum += Weight(d)
	}
	if !almostEqual(sum, 0.80, 1e-12) {
		t.Fatalf("expected weights to sum to 0.80, got %v", sum)
	}
}

func TestQualityAllFive(t *testing.T) {
	scores := model.QualityScores{Team: 5, Product: 5, Market: 5, Traction: 5, Defensibility: 5}
	factors := QualityFactors(scores)
	if factors[model.Team].Multiplier != 1.2 {
		t.Fatalf("expected team multiplier 1.2, got %v", factors[model.Team].Multiplier)
	}
	want := 1.2 * 1.2 * 1.15 * 1.15 * 1.1
	if got := TotalQualityMultiplier(factors); !almostEqual(got, want, 1e-12) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := QualityMultiplier(1, 0.15); !almostEqual(got, 0.85, 1e-12) {
		t.Fatalf("expected minimum 0.85, got %v", got)
	}
}

func TestBlend(t *testing.T) {
	r := Blend(40, 100, 60)
	if r.Low != math.Min(40, 60*0.8) {
		t.Fatalf("unexpected low %v", r.Low)
	}
	if r.Mid != 50 {
		t.Fatalf("unexpected mid %v", r.Mid)
	}
	if r.High != math.Max(100*0.8, 60*1.2) {
		t.Fatalf("unexpected high %v", r.High)
	}
}

func TestPresets(t *testing.T) {
	if len(Presets()) != 5 {
		t.Fatalf("expected 5 presets, got %d", len(Presets()))
	}
	for _, key := range []string{"series-a", "Series A", "seriesA", "SERIES_A"} {
		p, err := PresetFor(key)
		if err != nil {
			t.Fatalf("lookup %q: %v", key, err)
		}
		if p.Key != "series-a" {
			t.Fatalf("lookup %q resolved to %q", key, p.Key)
		}
	}
	_, err := PresetFor("series-z")
	if !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
	var unknown *UnknownStageError
	if !errors.As(err, &unknown) || unknown.Key != "series-z" {
		t.Fatalf("expected UnknownStageError, got %v", err)
	}
}

func TestApplyPresetRoundTrip(t *testing.T) {
	base := model.DefaultParameters()
	base.GrowthRates[0] = 42
	base.Scores.Team = 5
	for _, preset := range Presets() {
		p, err := ApplyPreset(preset.Key, base)
		if err != nil {
			t.Fatalf("apply %s: %v", preset.Key, err)
		}
		if p.SurvivalPct/100 != preset.SurvivalRate {
			t.Fatalf("%s: survival %v", preset.Key, p.SurvivalPct)
		}
		if p.BaseDiscountPct/100 != preset.BaseDiscountRate {
			t.Fatalf("%s: discount %v", preset.Key, p.BaseDiscountPct)
		}
		if p.YearsToEstablished != preset.YearsToEstablished || p.CurrentRevenue != preset.TypicalRevenue || p.TerminalMultiple != preset.TypicalMultiple {
			t.Fatalf("%s: unexpected fields %+v", preset.Key, p)
		}
		if p.GrowthRates[0] != 42 || p.Scores.Team != 5 || p.OpexPct != base.OpexPct {
			t.Fatalf("%s: preset touched unrelated fields", preset.Key)
		}
	}

	p, err := ApplyPreset("nope", base)
	if err == nil {
		t.Fatalf("expected error")
	}
	if p != base {
		t.Fatalf("expected parameters unchanged on error")
	}
}
