package valuation

import "github.com/verte-zerg/vcval/internal/model"

var weights = [model.DimensionCount]float64{
	model.Team:          0.20,
	model.Product:       0.20,
	model.Market:        0.15,
	model.Traction:      0.15,
	model.Defensibility: 0.10,
}

// Weight returns the fixed weight of a dimension. The weights sum to 0.80.
func Weight(d model.Dimension) float64 {
	if d < 0 || int(d) >= model.DimensionCount {
		return 0
	}
	return weights[d]
}

// QualityMultiplier maps a 1-5 score to 1 + ((score-3)/2)*weight. A score of
// 3 is neutral; 1 and 5 move the multiplier by a full weight either way.
func QualityMultiplier(score int, weight float64) float64 {
	return 1 + (float64(score-model.NeutralScore)/2)*weight
}

// QualityFactors derives one factor per dimension in display order.
func QualityFactors(scores model.QualityScores) [model.DimensionCount]model.QualityFactor {
	var out [model.DimensionCount]model.QualityFactor
	for _, d := range model.Dimensions() {
		score := scores.Get(d)
		w := Weight(d)
		out[d] = model.QualityFactor{
			Dimension:  d,
			Score:      score,
			Weight:     w,
			Multiplier: QualityMultiplier(score, w),
		}
	}
	return out
}

// TotalQualityMultiplier is the product of the factor multipliers.
func TotalQualityMultiplier(factors [model.DimensionCount]model.QualityFactor) float64 {
	total := 1.0
	for _, f := range factors {
		total *= f.Multiplier
	}
	return total
}
