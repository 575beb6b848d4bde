package valuation

import (
	"math"

	"github.com/verte-zerg/vcval/internal/model"
)

// Blend combines the DCF and comparable methods into a valuation envelope.
//
// This is a heuristic, not a confidence interval: low takes the more
// pessimistic of the adjusted DCF and a 20% haircut on comparables, high the
// more optimistic of a 20% haircut on the unadjusted DCF and a 20% premium on
// comparables. Low <= Mid <= High is not guaranteed.
func Blend(adjustedDCF, baseDCF, comparableAdjusted float64) model.Range {
	return model.Range{
		Low:  math.Min(adjustedDCF, comparableAdjusted*0.8),
		Mid:  (adjustedDCF + comparableAdjusted) / 2,
		High: math.Max(baseDCF*0.8, comparableAdjusted*1.2),
	}
}
