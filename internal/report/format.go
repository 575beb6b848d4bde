package report

import (
	"fmt"
	"math"
)

// FormatValue renders an amount held in thousands as £k, £m or £bn.
func FormatValue(thousands float64) string {
	sign := ""
	if thousands < 0 {
		sign = "-"
	}
	abs := math.Abs(thousands)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%s£%.1fbn", sign, abs/1_000_000)
	case abs >= 1000:
		return fmt.Sprintf("%s£%.1fm", sign, abs/1000)
	default:
		if math.Round(abs) == 0 {
			sign = ""
		}
		return fmt.Sprintf("%s£%.0fk", sign, abs)
	}
}

// FormatMillions renders an amount held in millions, as entered for
// comparables.
func FormatMillions(millions float64) string {
	return fmt.Sprintf("£%gm", millions)
}

// FormatRate renders a fraction as a one-decimal percentage.
func FormatRate(fraction float64) string {
	return FormatPct(fraction * 100)
}

// FormatPct renders a percentage with one decimal.
func FormatPct(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatMultiple renders a revenue multiple.
func FormatMultiple(m float64) string {
	return fmt.Sprintf("%.1fx", m)
}

// FormatFactor renders a quality multiplier.
func FormatFactor(m float64) string {
	return fmt.Sprintf("%.2fx", m)
}

// Intractable is shown in place of risk-adjusted figures that have no value.
const Intractable = "intractable"
