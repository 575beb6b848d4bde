package valuation

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/vcval/internal/model"
)

// Evaluate runs the full valuation for a parameter snapshot and a comparable
// set. It holds no state and may be called from any goroutine.
//
// A non-positive horizon fails the whole computation. When the failure rate
// reaches the singularity, Evaluate returns the partial result with
// Intractable set (revenues, cash flows, base DCF and the comparable method
// are filled in) together with an error matching ErrDivisionSingularity.
func Evaluate(params model.Parameters, comps []model.Comparable) (model.Result, error) {
	var res model.Result

	res.Revenues = ProjectRevenue(params.CurrentRevenue, params.GrowthRates)
	res.CashFlows = CashFlows(res.Revenues, params.GrossMarginPct, params.OpexPct)
	res.TerminalValue = TerminalValue(res.Revenues[model.ForecastYears], params.TerminalMultiple)

	failure, err := DeriveFailureRate(params.SurvivalPct/100, params.YearsToEstablished)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to derive failure rate: %w", err)
	}
	res.AnnualFailureRate = failure

	baseRate := params.BaseDiscountPct / 100
	res.BaseDCF, err = PresentValue(res.CashFlows, res.TerminalValue, baseRate)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to discount at base rate: %w", err)
	}

	res.Multiples = Multiples(comps)
	res.MedianMultiple = MedianMultiple(res.Multiples, params.TerminalMultiple)
	res.AverageMultiple = AverageMultiple(res.Multiples, params.TerminalMultiple)
	res.QualityFactors = QualityFactors(params.Scores)
	res.TotalQualityMultiplier = TotalQualityMultiplier(res.QualityFactors)
	res.ComparableBaseValue = params.CurrentRevenue * res.MedianMultiple
	res.ComparableAdjustedValue = res.ComparableBaseValue * res.TotalQualityMultiplier

	adjRate, err := AdjustDiscountRate(baseRate, failure)
	if err != nil {
		if errors.Is(err, ErrDivisionSingularity) {
			res.Intractable = true
			return res, fmt.Errorf("failed to adjust discount rate: %w", err)
		}
		return model.Result{}, fmt.Errorf("failed to adjust discount rate: %w", err)
	}
	res.AdjustedDiscountRate = adjRate

	res.AdjustedDCF, err = PresentValue(res.CashFlows, res.TerminalValue, adjRate)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to discount at adjusted rate: %w", err)
	}
	res.DiscountImpact = DiscountImpact(res.BaseDCF, res.AdjustedDCF)
	res.Range = Blend(res.AdjustedDCF, res.BaseDCF, res.ComparableAdjustedValue)
	return res, nil
}
