package model

import (
	"fmt"
	"math"
)

// Field identifies one editable input of Parameters.
type Field int

// Editable fields in display order.
const (
	FieldRevenue Field = iota
	FieldGrowth1
	FieldGrowth2
	FieldGrowth3
	FieldGrowth4
	FieldGrowth5
	FieldGrossMargin
	FieldOpex
	FieldTerminalMultiple
	FieldBaseDiscount
	FieldSurvival
	FieldYears
	FieldTeam
	FieldProduct
	FieldMarket
	FieldTraction
	FieldDefensibility
	fieldCount
)

// Bounds is the editable range and step of a field.
type Bounds struct {
	Min  float64
	Max  float64
	Step float64
}

type fieldInfo struct {
	label  string
	unit   string
	bounds Bounds
}

var fieldInfos = [fieldCount]fieldInfo{
	FieldRevenue:          {label: "Current ARR", unit: "k", bounds: Bounds{Min: 0, Max: 50000, Step: 100}},
	FieldGrowth1:          {label: "Year 1 Growth", unit: "%", bounds: Bounds{Min: 0, Max: 200, Step: 5}},
	FieldGrowth2:          {label: "Year 2 Growth", unit: "%", bounds: Bounds{Min: 0, Max: 200, Step: 5}},
	FieldGrowth3:          {label: "Year 3 Growth", unit: "%", bounds: Bounds{Min: 0, Max: 200, Step: 5}},
	FieldGrowth4:          {label: "Year 4 Growth", unit: "%", bounds: Bounds{Min: 0, Max: 200, Step: 5}},
	FieldGrowth5:          {label: "Year 5 Growth", unit: "%", bounds: Bounds{Min: 0, Max: 200, Step: 5}},
	FieldGrossMargin:      {label: "Gross Margin", unit: "%", bounds: Bounds{Min: 20, Max: 95, Step: 5}},
	FieldOpex:             {label: "OpEx (% of Revenue)", unit: "%", bounds: Bounds{Min: 40, Max: 150, Step: 5}},
	FieldTerminalMultiple: {label: "Terminal Multiple (EV/Rev)", unit: "x", bounds: Bounds{Min: 2, Max: 30, Step: 1}},
	FieldBaseDiscount:     {label: "Base Discount Rate", unit: "%", bounds: Bounds{Min: 8, Max: 30, Step: 1}},
	FieldSurvival:         {label: "Survival Rate (to established)", unit: "%", bounds: Bounds{Min: 5, Max: 90, Step: 5}},
	FieldYears:            {label: "Years to Established", unit: "y", bounds: Bounds{Min: 2, Max: 8, Step: 1}},
	FieldTeam:             {label: "Team", bounds: Bounds{Min: MinScore, Max: MaxScore, Step: 1}},
	FieldProduct:          {label: "Product / Tech", bounds: Bounds{Min: MinScore, Max: MaxScore, Step: 1}},
	FieldMarket:           {label: "Market / TAM", bounds: Bounds{Min: MinScore, Max: MaxScore, Step: 1}},
	FieldTraction:         {label: "Traction", bounds: Bounds{Min: MinScore, Max: MaxScore, Step: 1}},
	FieldDefensibility:    {label: "Defensibility", bounds: Bounds{Min: MinScore, Max: MaxScore, Step: 1}},
}

// Fields returns all editable fields in display order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := FieldRevenue; f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

// Label returns the display label of a field.
func (f Field) Label() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldInfos[f].label
}

// Unit returns the display unit suffix of a field.
func (f Field) Unit() string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return fieldInfos[f].unit
}

// Bounds returns the editable range of a field.
func (f Field) Bounds() Bounds {
	if f < 0 || f >= fieldCount {
		return Bounds{}
	}
	return fieldInfos[f].bounds
}

// Dimension maps score fields to their dimension.
func (f Field) Dimension() (Dimension, bool) {
	if f < FieldTeam || f > FieldDefensibility {
		return 0, false
	}
	return Dimension(f - FieldTeam), true
}

// Value reads a field from the parameters.
func (p Parameters) Value(f Field) float64 {
	switch {
	case f == FieldRevenue:
		return p.CurrentRevenue
	case f >= FieldGrowth1 && f <= FieldGrowth5:
		return p.GrowthRates[f-FieldGrowth1]
	case f == FieldGrossMargin:
		return p.GrossMarginPct
	case f == FieldOpex:
		return p.OpexPct
	case f == FieldTerminalMultiple:
		return p.TerminalMultiple
	case f == FieldBaseDiscount:
		return p.BaseDiscountPct
	case f == FieldSurvival:
		return p.SurvivalPct
	case f == FieldYears:
		return float64(p.YearsToEstablished)
	}
	if d, ok := f.Dimension(); ok {
		return float64(p.Scores.Get(d))
	}
	return 0
}

// WithValue returns a copy of the parameters with one field replaced.
func (p Parameters) WithValue(f Field, v float64) Parameters {
	switch {
	case f == FieldRevenue:
		p.CurrentRevenue = v
	case f >= FieldGrowth1 && f <= FieldGrowth5:
		p.GrowthRates[f-FieldGrowth1] = v
	case f == FieldGrossMargin:
		p.GrossMarginPct = v
	case f == FieldOpex:
		p.OpexPct = v
	case f == FieldTerminalMultiple:
		p.TerminalMultiple = v
	case f == FieldBaseDiscount:
		p.BaseDiscountPct = v
	case f == FieldSurvival:
		p.SurvivalPct = v
	case f == FieldYears:
		p.YearsToEstablished = int(math.Round(v))
	default:
		if d, ok := f.Dimension(); ok {
			p.Scores.Set(d, int(math.Round(v)))
		}
	}
	return p
}

// Step moves a field by delta steps, clamped to the bound in the direction
// of travel. A value already beyond that bound does not move further out; a
// value beyond the opposite bound steps normally back toward the range.
func (p Parameters) Step(f Field, delta int) Parameters {
	b := f.Bounds()
	cur := p.Value(f)
	v := cur + float64(delta)*b.Step
	if delta < 0 && v < b.Min {
		v = math.Min(cur, b.Min)
	}
	if delta > 0 && v > b.Max {
		v = math.Max(cur, b.Max)
	}
	return p.WithValue(f, v)
}

// Validate checks the hard domain limits of the parameters.
func (p Parameters) Validate() error {
	if !finite(p.CurrentRevenue) || p.CurrentRevenue < 0 {
		return fmt.Errorf("current revenue must be >= 0")
	}
	for i, g := range p.GrowthRates {
		if !finite(g) || g < -100 {
			return fmt.Errorf("year %d growth must be >= -100%%", i+1)
		}
	}
	if !finite(p.GrossMarginPct) || p.GrossMarginPct < 0 || p.GrossMarginPct > 100 {
		return fmt.Errorf("gross margin must be between 0 and 100")
	}
	if !finite(p.OpexPct) || p.OpexPct < 0 {
		return fmt.Errorf("opex must be >= 0")
	}
	if !finite(p.TerminalMultiple) || p.TerminalMultiple <= 0 {
		return fmt.Errorf("terminal multiple must be > 0")
	}
	if !finite(p.BaseDiscountPct) || p.BaseDiscountPct < 0 || p.BaseDiscountPct > 100 {
		return fmt.Errorf("base discount rate must be between 0 and 100")
	}
	if !finite(p.SurvivalPct) || p.SurvivalPct < 0 || p.SurvivalPct > 100 {
		return fmt.Errorf("survival rate must be between 0 and 100")
	}
	if p.YearsToEstablished <= 0 {
		return fmt.Errorf("years to established must be > 0")
	}
	for _, d := range Dimensions() {
		s := p.Scores.Get(d)
		if s < MinScore || s > MaxScore {
			return fmt.Errorf("%s score must be between %d and %d", d, MinScore, MaxScore)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
