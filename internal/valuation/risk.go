package valuation

import (
	"fmt"
	"math"
)

// singularityEpsilon bounds 1-f from below in AdjustDiscountRate.
const singularityEpsilon = 1e-12

// DeriveFailureRate converts the probability of surviving years to the
// established stage into a constant annual failure probability:
//
//	f = 1 - survival^(1/years)
//
// survival is a fraction in [0,1]. A survival of 0 yields f = 1.
func DeriveFailureRate(survival float64, years int) (float64, error) {
	if years <= 0 {
		return 0, &InvalidHorizonError{Years: years}
	}
	if math.IsNaN(survival) || survival < 0 || survival > 1 {
		return 0, fmt.Errorf("%w: %v", ErrSurvivalOutOfRange, survival)
	}
	return 1 - math.Pow(survival, 1/float64(years)), nil
}

// AdjustDiscountRate folds an annual failure probability into a discount
// rate, so that discounting at the result equals discounting at base and
// weighting by the survival probability of each year:
//
//	r_adj = (r + f) / (1 - f)
func AdjustDiscountRate(base, failure float64) (float64, error) {
	denom := 1 - failure
	if denom <= singularityEpsilon {
		return 0, fmt.Errorf("%w: failure rate %v", ErrDivisionSingularity, failure)
	}
	return (base + failure) / denom, nil
}
