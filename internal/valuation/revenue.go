package valuation

import "github.com/verte-zerg/vcval/internal/model"

// ProjectRevenue compounds current revenue through the yearly growth
// percentages. The first entry is current revenue itself. Negative growth
// is allowed; nothing is clamped.
func ProjectRevenue(current float64, growth [model.ForecastYears]float64) [model.ForecastYears + 1]float64 {
	var revenues [model.ForecastYears + 1]float64
	revenues[0] = current
	for i, g := range growth {
		revenues[i+1] = revenues[i] * (1 + g/100)
	}
	return revenues
}
