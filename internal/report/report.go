// Package report renders valuation results as text, JSON, YAML, Markdown
// and HTML.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verte-zerg/vcval/internal/model"
)

// Report is one evaluated scenario ready for rendering.
type Report struct {
	Stage       string             `json:"stage,omitempty" yaml:"stage,omitempty"`
	Parameters  model.Parameters   `json:"parameters" yaml:"parameters"`
	Comparables []model.Comparable `json:"comparables" yaml:"comparables"`
	Result      model.Result       `json:"result" yaml:"result"`
}

// Options controls rendering.
type Options struct {
	Color bool
	// Width is the chart width in columns; 0 picks the terminal width.
	Width int
}

// Renderer writes a report to an output writer.
type Renderer interface {
	Render(w io.Writer, rep Report, opts Options) error
}

var renderers = map[string]func() Renderer{
	"text":     func() Renderer { return NewTextRenderer() },
	"json":     func() Renderer { return NewJSONRenderer() },
	"yaml":     func() Renderer { return NewYAMLRenderer() },
	"markdown": func() Renderer { return NewMarkdownRenderer() },
	"html":     func() Renderer { return NewHTMLRenderer() },
}

// Formats lists the supported output formats.
func Formats() []string {
	out := make([]string, 0, len(renderers))
	for k := range renderers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NewRenderer returns the renderer for a format name.
func NewRenderer(format string) (Renderer, error) {
	key := strings.ToLower(strings.TrimSpace(format))
	switch key {
	case "", "txt":
		key = "text"
	case "md":
		key = "markdown"
	case "yml":
		key = "yaml"
	}
	ctor, ok := renderers[key]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(Formats(), ", "))
	}
	return ctor(), nil
}

// Narrative returns the plain-language summary of a result.
func Narrative(params model.Parameters, res model.Result) []string {
	if res.Intractable {
		return []string{
			fmt.Sprintf("With %s annual failure probability the risk-adjusted discount rate is %s, so the risk-adjusted DCF and the blended range cannot be computed.",
				FormatRate(res.AnnualFailureRate), Intractable),
			fmt.Sprintf("Comparable analysis (adjusted for quality) suggests %s.", FormatValue(res.ComparableAdjustedValue)),
		}
	}
	return []string{
		fmt.Sprintf("The risk-adjusted DCF suggests %s, while comparable analysis (adjusted for quality) suggests %s. The blended midpoint is %s.",
			FormatValue(res.AdjustedDCF), FormatValue(res.ComparableAdjustedValue), FormatValue(res.Range.Mid)),
		fmt.Sprintf("With %s annual failure probability, the effective discount rate jumps from %s to %s.",
			FormatRate(res.AnnualFailureRate), FormatPct(params.BaseDiscountPct), FormatRate(res.AdjustedDiscountRate)),
	}
}

// FormulaTrace shows the risk transform with the scenario's numbers.
func FormulaTrace(params model.Parameters, res model.Result) []string {
	lines := []string{
		fmt.Sprintf("f = 1 - %.2f^(1/%d) = %s",
			params.SurvivalPct/100, params.YearsToEstablished, FormatRate(res.AnnualFailureRate)),
	}
	adj := Intractable
	if !res.Intractable {
		adj = FormatRate(res.AdjustedDiscountRate)
	}
	lines = append(lines, fmt.Sprintf("r_adj = (%s + %s) / (1 - %s) = %s",
		FormatPct(params.BaseDiscountPct), FormatRate(res.AnnualFailureRate), FormatRate(res.AnnualFailureRate), adj))
	return lines
}

// ComparableMultiple formats a comparable's own multiple, or "-" when it is
// excluded from the multiple set.
func ComparableMultiple(c model.Comparable) string {
	m, ok := c.Multiple()
	if !ok {
		return "-"
	}
	return FormatMultiple(m)
}

// adjusted formats a risk-adjusted amount, honouring the intractable flag.
func adjusted(res model.Result, v float64) string {
	if res.Intractable {
		return Intractable
	}
	return FormatValue(v)
}

func yearLabel(i int) string {
	if i == 0 {
		return "Now"
	}
	return fmt.Sprintf("Y%d", i)
}
