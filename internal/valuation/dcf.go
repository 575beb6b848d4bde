package valuation

import (
	"fmt"
	"math"

	"github.com/verte-zerg/vcval/internal/model"
)

// CashFlows derives yearly free cash flow from the projected revenues
// (entries 1..5). Negative values are burn.
func CashFlows(revenues [model.ForecastYears + 1]float64, grossMarginPct, opexPct float64) [model.ForecastYears]float64 {
	var cf [model.ForecastYears]float64
	for i := range cf {
		rev := revenues[i+1]
		cf[i] = rev*grossMarginPct/100 - rev*opexPct/100
	}
	return cf
}

// TerminalValue is the exit value at the end of the forecast horizon.
func TerminalValue(finalRevenue, multiple float64) float64 {
	return finalRevenue * multiple
}

// PresentValue discounts each cash flow by (1+rate)^(year) and the terminal
// value by (1+rate)^5.
func PresentValue(cashFlows [model.ForecastYears]float64, terminal, rate float64) (float64, error) {
	if math.IsNaN(rate) || rate <= -1 {
		return 0, fmt.Errorf("%w: %v", ErrRateOutOfRange, rate)
	}
	pv := 0.0
	for i, cf := range cashFlows {
		pv += cf / math.Pow(1+rate, float64(i+1))
	}
	pv += terminal / math.Pow(1+rate, model.ForecastYears)
	return pv, nil
}

// DiscountImpact is the percentage of base value removed by risk
// adjustment. It is 0 when the base value is not positive.
func DiscountImpact(base, adjusted float64) float64 {
	if base <= 0 {
		return 0
	}
	return (base - adjusted) / base * 100
}
