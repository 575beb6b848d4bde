package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/verte-zerg/vcval/internal/model"
)

// TextRenderer prints a terminal report with tables and a projection chart.
type TextRenderer struct{}

// NewTextRenderer returns a TextRenderer.
func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

// Render writes the report sections in order. Options.Color enables ANSI
// emphasis and Options.Width sets the chart width.
func (r *TextRenderer) Render(w io.Writer, rep Report, opts Options) error {
	res := rep.Result
	p := rep.Parameters

	heading := func(s string) error {
		if opts.Color {
			s = text.Bold.Sprint(s)
		}
		_, err := fmt.Fprintln(w, s)
		return err
	}

	title := "VALUATION"
	if rep.Stage != "" {
		title += " · " + strings.ToUpper(rep.Stage)
	}
	if err := heading(title); err != nil {
		return err
	}
	summary := newTable(w)
	summary.AppendHeader(table.Row{"Risk-Adj DCF", "Base DCF", "Comparable", "Blended Mid"})
	summary.AppendRow(table.Row{
		adjusted(res, res.AdjustedDCF),
		FormatValue(res.BaseDCF),
		FormatValue(res.ComparableAdjustedValue),
		adjusted(res, res.Range.Mid),
	})
	rightAlign(summary, 1, 4)
	summary.Render()
	if !res.Intractable {
		if _, err := fmt.Fprintf(w, "Range: Low %s · Mid %s · High %s\n",
			FormatValue(res.Range.Low), FormatValue(res.Range.Mid), FormatValue(res.Range.High)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if err := heading("RISK ADJUSTMENT"); err != nil {
		return err
	}
	for _, line := range FormulaTrace(p, res) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	impact := Intractable
	if !res.Intractable {
		impact = fmt.Sprintf("-%.0f%%", res.DiscountImpact)
	}
	if _, err := fmt.Fprintf(w, "  Value destroyed by risk adjustment: %s\n\n", impact); err != nil {
		return err
	}

	if err := heading("CASH FLOW PROJECTION"); err != nil {
		return err
	}
	proj := newTable(w)
	header := table.Row{""}
	revRow := table.Row{"Revenue"}
	cfRow := table.Row{"Cash flow"}
	growthRow := table.Row{"Growth"}
	for i, rev := range res.Revenues {
		header = append(header, yearLabel(i))
		revRow = append(revRow, FormatValue(rev))
		if i == 0 {
			cfRow = append(cfRow, "")
			growthRow = append(growthRow, "")
			continue
		}
		cf := FormatValue(res.CashFlows[i-1])
		if opts.Color && res.CashFlows[i-1] < 0 {
			cf = text.Colors{text.FgRed}.Sprint(cf)
		}
		cfRow = append(cfRow, cf)
		growthRow = append(growthRow, FormatPct(p.GrowthRates[i-1]))
	}
	header = append(header, "Terminal")
	revRow = append(revRow, FormatValue(res.TerminalValue))
	cfRow = append(cfRow, "")
	growthRow = append(growthRow, FormatMultiple(p.TerminalMultiple))
	proj.AppendHeader(header)
	proj.AppendRows([]table.Row{revRow, growthRow, cfRow})
	rightAlign(proj, 2, len(header))
	proj.Render()
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	cashFlows := make([]float64, 0, len(res.Revenues))
	cashFlows = append(cashFlows, 0)
	cashFlows = append(cashFlows, res.CashFlows[:]...)
	if err := PlotSeries(w, "", []Series{
		{Name: "Revenue", Values: res.Revenues[:]},
		{Name: "Cash flow", Values: cashFlows},
	}, opts.Width, 0, opts.Color, FormatValue); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if err := heading("COMPARABLES"); err != nil {
		return err
	}
	if err := renderComparableTable(w, rep.Comparables); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Median %s · Average %s · Base value %s\n\n",
		FormatMultiple(res.MedianMultiple), FormatMultiple(res.AverageMultiple), FormatValue(res.ComparableBaseValue)); err != nil {
		return err
	}

	if err := heading("QUALITY ADJUSTMENT"); err != nil {
		return err
	}
	qt := newTable(w)
	qt.AppendHeader(table.Row{"Dimension", "Score", "Weight", "Multiplier"})
	for _, f := range res.QualityFactors {
		qt.AppendRow(table.Row{f.Dimension.Label(), f.Score, fmt.Sprintf("%.0f%%", f.Weight*100), FormatFactor(f.Multiplier)})
	}
	qt.AppendFooter(table.Row{"Total", "", "", FormatFactor(res.TotalQualityMultiplier)})
	qt.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	qt.Render()
	if _, err := fmt.Fprintf(w, "Quality-adjusted comparable value: %s\n\n", FormatValue(res.ComparableAdjustedValue)); err != nil {
		return err
	}

	if err := heading("SUMMARY"); err != nil {
		return err
	}
	for _, line := range Narrative(p, res) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	return nil
}

// RenderComparables prints a comparable list with per-row multiples.
func RenderComparables(w io.Writer, comps []model.Comparable) error {
	return renderComparableTable(w, comps)
}

func renderComparableTable(w io.Writer, comps []model.Comparable) error {
	if len(comps) == 0 {
		_, err := fmt.Fprintln(w, "No comparables; the terminal multiple is used instead.")
		return err
	}
	ct := newTable(w)
	showID := false
	for _, c := range comps {
		if c.ID != 0 {
			showID = true
			break
		}
	}
	header := table.Row{"Company", "Stage", "Valuation", "Revenue", "Multiple"}
	if showID {
		header = append(table.Row{"ID"}, header...)
	}
	ct.AppendHeader(header)
	for _, c := range comps {
		row := table.Row{c.Name, c.Stage, FormatMillions(c.Valuation), FormatMillions(c.Revenue), ComparableMultiple(c)}
		if showID {
			row = append(table.Row{c.ID}, row...)
		}
		ct.AppendRow(row)
	}
	offset := 0
	if showID {
		offset = 1
	}
	ct.SetColumnConfigs([]table.ColumnConfig{
		{Number: offset + 3, Align: text.AlignRight},
		{Number: offset + 4, Align: text.AlignRight},
		{Number: offset + 5, Align: text.AlignRight},
	})
	ct.Render()
	return nil
}

// RenderStages prints the preset registry.
func RenderStages(w io.Writer, presets []model.StagePreset) error {
	st := newTable(w)
	st.AppendHeader(table.Row{"Key", "Stage", "Survival", "Years", "Base Rate", "Typical ARR", "Multiple", "Description"})
	for _, p := range presets {
		st.AppendRow(table.Row{
			p.Key,
			p.Name,
			FormatRate(p.SurvivalRate),
			p.YearsToEstablished,
			FormatRate(p.BaseDiscountRate),
			FormatValue(p.TypicalRevenue),
			FormatMultiple(p.TypicalMultiple),
			p.Description,
		})
	}
	st.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, WidthMax: 48},
	})
	st.Render()
	return nil
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	return tw
}

// rightAlign right-aligns columns from..to (1-based, inclusive).
func rightAlign(tw table.Writer, from, to int) {
	cfgs := make([]table.ColumnConfig, 0, to-from+1)
	for i := from; i <= to; i++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	tw.SetColumnConfigs(cfgs)
}
