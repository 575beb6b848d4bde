package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownRenderer writes a GitHub-flavoured Markdown report.
type MarkdownRenderer struct{}

// NewMarkdownRenderer returns a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer { return &MarkdownRenderer{} }

// Render writes the Markdown report. Options are ignored.
func (r *MarkdownRenderer) Render(w io.Writer, rep Report, _ Options) error {
	_, err := io.WriteString(w, markdown(rep))
	return err
}

func markdown(rep Report) string {
	res := rep.Result
	p := rep.Parameters
	var b strings.Builder

	title := "Valuation"
	if rep.Stage != "" {
		title += ": " + rep.Stage
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("| Method | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Risk-adjusted DCF | %s |\n", adjusted(res, res.AdjustedDCF))
	fmt.Fprintf(&b, "| Base DCF | %s |\n", FormatValue(res.BaseDCF))
	fmt.Fprintf(&b, "| Comparable (quality-adjusted) | %s |\n", FormatValue(res.ComparableAdjustedValue))
	fmt.Fprintf(&b, "| Range low | %s |\n", adjusted(res, res.Range.Low))
	fmt.Fprintf(&b, "| Range mid | %s |\n", adjusted(res, res.Range.Mid))
	fmt.Fprintf(&b, "| Range high | %s |\n\n", adjusted(res, res.Range.High))

	b.WriteString("## Risk adjustment\n\n")
	for _, line := range FormulaTrace(p, res) {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	b.WriteString("\n")

	b.WriteString("## Cash flow projection\n\n| Year | Revenue | Growth | Cash flow |\n|---|---:|---:|---:|\n")
	for i, rev := range res.Revenues {
		if i == 0 {
			fmt.Fprintf(&b, "| %s | %s | | |\n", yearLabel(i), FormatValue(rev))
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", yearLabel(i), FormatValue(rev), FormatPct(p.GrowthRates[i-1]), FormatValue(res.CashFlows[i-1]))
	}
	fmt.Fprintf(&b, "\nTerminal value (%s): %s\n\n", FormatMultiple(p.TerminalMultiple), FormatValue(res.TerminalValue))

	b.WriteString("## Comparables\n\n")
	if len(rep.Comparables) == 0 {
		b.WriteString("No comparables; the terminal multiple is used instead.\n\n")
	} else {
		b.WriteString("| Company | Stage | Valuation | Revenue | Multiple |\n|---|---|---:|---:|---:|\n")
		for _, c := range rep.Comparables {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				escapeCell(c.Name), escapeCell(c.Stage), FormatMillions(c.Valuation), FormatMillions(c.Revenue), ComparableMultiple(c))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Median multiple %s, average %s, base value %s.\n\n",
		FormatMultiple(res.MedianMultiple), FormatMultiple(res.AverageMultiple), FormatValue(res.ComparableBaseValue))

	b.WriteString("## Quality adjustment\n\n| Dimension | Score | Weight | Multiplier |\n|---|---:|---:|---:|\n")
	for _, f := range res.QualityFactors {
		fmt.Fprintf(&b, "| %s | %d | %.0f%% | %s |\n", f.Dimension.Label(), f.Score, f.Weight*100, FormatFactor(f.Multiplier))
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n\n", FormatFactor(res.TotalQualityMultiplier))

	b.WriteString("## Summary\n\n")
	for _, line := range Narrative(p, res) {
		b.WriteString(line + "\n\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// HTMLRenderer converts the Markdown report into a standalone HTML page.
type HTMLRenderer struct {
	md goldmark.Markdown
}

// NewHTMLRenderer returns an HTMLRenderer using goldmark with GFM tables.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Render converts the Markdown report and wraps it in a styled page.
func (r *HTMLRenderer) Render(w io.Writer, rep Report, _ Options) error {
	var content bytes.Buffer
	if err := r.md.Convert([]byte(markdown(rep)), &content); err != nil {
		return fmt.Errorf("markdown convert: %w", err)
	}
	title := "Valuation"
	if rep.Stage != "" {
		title += ": " + rep.Stage
	}
	_, err := fmt.Fprintf(w, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>"+
		"<style>body{font-family:system-ui,sans-serif;max-width:900px;margin:2rem auto;padding:0 1rem;color:#1c1917;}"+
		"table{border-collapse:collapse;margin:0.5rem 0;}th,td{border:1px solid #a8a29e;padding:0.3rem 0.6rem;}"+
		"thead th{background:#f1f5f9;}pre{background:#f9f7f3;padding:0.6rem;}</style></head><body>%s</body></html>\n",
		html.EscapeString(title), content.String())
	return err
}
