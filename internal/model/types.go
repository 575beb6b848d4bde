// Package model defines shared data structures.
package model

// ForecastYears is the length of the explicit forecast horizon.
const ForecastYears = 5

// StagePreset holds default risk and revenue parameters for a funding stage.
// Rates are fractions (0.35 means 35%), revenue is in thousands.
type StagePreset struct {
	Key                string  `json:"key" yaml:"key"`
	Name               string  `json:"name" yaml:"name"`
	SurvivalRate       float64 `json:"survival_rate" yaml:"survival_rate"`
	YearsToEstablished int     `json:"years_to_established" yaml:"years_to_established"`
	BaseDiscountRate   float64 `json:"base_discount_rate" yaml:"base_discount_rate"`
	TypicalRevenue     float64 `json:"typical_revenue" yaml:"typical_revenue"`
	TypicalMultiple    float64 `json:"typical_multiple" yaml:"typical_multiple"`
	Description        string  `json:"description" yaml:"description"`
}

// Parameters is the full input set for a valuation. Percent fields hold
// percentages (35 means 35%), revenue is in thousands.
type Parameters struct {
	CurrentRevenue     float64                `json:"current_revenue" yaml:"current_revenue"`
	GrowthRates        [ForecastYears]float64 `json:"growth_rates" yaml:"growth_rates"`
	GrossMarginPct     float64                `json:"gross_margin_pct" yaml:"gross_margin_pct"`
	OpexPct            float64                `json:"opex_pct" yaml:"opex_pct"`
	TerminalMultiple   float64                `json:"terminal_multiple" yaml:"terminal_multiple"`
	BaseDiscountPct    float64                `json:"base_discount_pct" yaml:"base_discount_pct"`
	SurvivalPct        float64                `json:"survival_pct" yaml:"survival_pct"`
	YearsToEstablished int                    `json:"years_to_established" yaml:"years_to_established"`
	Scores             QualityScores          `json:"scores" yaml:"scores"`
}

// Comparable is a peer transaction. Valuation and revenue are in millions.
type Comparable struct {
	ID        int64   `json:"-" yaml:"-"`
	Name      string  `json:"name" yaml:"name"`
	Valuation float64 `json:"valuation" yaml:"valuation"`
	Revenue   float64 `json:"revenue" yaml:"revenue"`
	Stage     string  `json:"stage,omitempty" yaml:"stage,omitempty"`
}

// Valid reports whether the comparable takes part in multiple computation.
func (c Comparable) Valid() bool {
	return c.Revenue > 0 && c.Valuation > 0
}

// Multiple returns valuation/revenue for valid comparables.
func (c Comparable) Multiple() (float64, bool) {
	if !c.Valid() {
		return 0, false
	}
	return c.Valuation / c.Revenue, true
}

// QualityFactor is the derived adjustment for one scoring dimension.
type QualityFactor struct {
	Dimension  Dimension `json:"dimension" yaml:"dimension"`
	Score      int       `json:"score" yaml:"score"`
	Weight     float64   `json:"weight" yaml:"weight"`
	Multiplier float64   `json:"multiplier" yaml:"multiplier"`
}

// Range is the blended low/mid/high valuation envelope.
type Range struct {
	Low  float64 `json:"low" yaml:"low"`
	Mid  float64 `json:"mid" yaml:"mid"`
	High float64 `json:"high" yaml:"high"`
}

// Result is the complete output of one evaluation.
//
// When Intractable is set the failure rate reached 1 and the risk-adjusted
// fields (AdjustedDiscountRate, AdjustedDCF, DiscountImpact, Range) carry no
// value; they must be shown as intractable rather than as numbers.
type Result struct {
	Revenues                [ForecastYears + 1]float64    `json:"revenues" yaml:"revenues"`
	CashFlows               [ForecastYears]float64        `json:"cash_flows" yaml:"cash_flows"`
	TerminalValue           float64                       `json:"terminal_value" yaml:"terminal_value"`
	AnnualFailureRate       float64                       `json:"annual_failure_rate" yaml:"annual_failure_rate"`
	AdjustedDiscountRate    float64                       `json:"adjusted_discount_rate" yaml:"adjusted_discount_rate"`
	BaseDCF                 float64                       `json:"base_dcf" yaml:"base_dcf"`
	AdjustedDCF             float64                       `json:"adjusted_dcf" yaml:"adjusted_dcf"`
	DiscountImpact          float64                       `json:"discount_impact" yaml:"discount_impact"`
	Multiples               []float64                     `json:"multiples" yaml:"multiples"`
	MedianMultiple          float64                       `json:"median_multiple" yaml:"median_multiple"`
	AverageMultiple         float64                       `json:"average_multiple" yaml:"average_multiple"`
	QualityFactors          [DimensionCount]QualityFactor `json:"quality_factors" yaml:"quality_factors"`
	TotalQualityMultiplier  float64                       `json:"total_quality_multiplier" yaml:"total_quality_multiplier"`
	ComparableBaseValue     float64                       `json:"comparable_base_value" yaml:"comparable_base_value"`
	ComparableAdjustedValue float64                       `json:"comparable_adjusted_value" yaml:"comparable_adjusted_value"`
	Range                   Range                         `json:"range" yaml:"range"`
	Intractable             bool                          `json:"intractable" yaml:"intractable"`
}

// DefaultStage is the stage selected when nothing else is configured.
const DefaultStage = "series-a"

// DefaultParameters returns the Series A starting point.
func DefaultParameters() Parameters {
	return Parameters{
		CurrentRevenue:     1500,
		GrowthRates:        [ForecastYears]float64{100, 80, 60, 40, 30},
		GrossMarginPct:     70,
		OpexPct:            90,
		TerminalMultiple:   10,
		BaseDiscountPct:    15,
		SurvivalPct:        35,
		YearsToEstablished: 4,
		Scores:             NeutralScores(),
	}
}

// DefaultComparables returns the starter comparable set.
func DefaultComparables() []Comparable {
	return []Comparable{
		{Name: "Comparable A", Valuation: 50, Revenue: 5, Stage: "Series A"},
		{Name: "Comparable B", Valuation: 80, Revenue: 8, Stage: "Series A"},
		{Name: "Comparable C", Valuation: 120, Revenue: 15, Stage: "Series B"},
	}
}
