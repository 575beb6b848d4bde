package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/vcval/internal/config"
	"github.com/verte-zerg/vcval/internal/model"
	"github.com/verte-zerg/vcval/internal/report"
	"github.com/verte-zerg/vcval/internal/valuation"
)

var (
	evalScenario       string
	evalRevenue        float64
	evalGrowth         []float64
	evalMargin         float64
	evalOpex           float64
	evalTerminal       float64
	evalDiscount       float64
	evalSurvival       float64
	evalYears          int
	evalScores         [model.DimensionCount]int
	evalFormat         string
	evalColor          bool
	evalWidth          int
	evalCompsFromStore bool
	evalCompsStage     string
)

func newEvalCmd() *cobra.Command {
	defaults := model.DefaultParameters()
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a scenario and print the report",
		Args:  cobra.NoArgs,
		RunE:  runEvalCmd,
	}
	cmd.Flags().StringVar(&evalScenario, "scenario", "", "scenario TOML file")
	cmd.Flags().String("stage", model.DefaultStage, "stage preset")
	cmd.Flags().Float64Var(&evalRevenue, "revenue", defaults.CurrentRevenue, "current ARR in thousands")
	cmd.Flags().Float64SliceVar(&evalGrowth, "growth", defaults.GrowthRates[:], "five yearly growth rates in percent")
	cmd.Flags().Float64Var(&evalMargin, "margin", defaults.GrossMarginPct, "gross margin percent")
	cmd.Flags().Float64Var(&evalOpex, "opex", defaults.OpexPct, "opex as percent of revenue")
	cmd.Flags().Float64Var(&evalTerminal, "terminal", defaults.TerminalMultiple, "terminal EV/revenue multiple")
	cmd.Flags().Float64Var(&evalDiscount, "discount", defaults.BaseDiscountPct, "base discount rate percent")
	cmd.Flags().Float64Var(&evalSurvival, "survival", defaults.SurvivalPct, "survival to established stage, percent")
	cmd.Flags().IntVar(&evalYears, "years", defaults.YearsToEstablished, "years to established stage")
	for _, d := range model.Dimensions() {
		cmd.Flags().IntVar(&evalScores[d], d.String(), model.NeutralScore, fmt.Sprintf("%s score (1-5)", d.Label()))
	}
	cmd.Flags().StringVar(&evalFormat, "format", defaultFormat, "output format: text, json, yaml, markdown, html")
	cmd.Flags().BoolVar(&evalColor, "color", false, "force coloured charts in text output")
	cmd.Flags().IntVar(&evalWidth, "width", 0, "chart width (0 = terminal width)")
	cmd.Flags().BoolVar(&evalCompsFromStore, "comps-from-store", false, "use the stored comparables library")
	cmd.Flags().StringVar(&evalCompsStage, "comps-stage", "", "stage filter for stored comparables")
	return cmd
}

func runEvalCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	var scenario config.FileConfig
	if evalScenario != "" {
		scenario, err = config.LoadScenario(evalScenario)
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
	}

	stage, params, err := resolveParameters(cmd, fileCfg, scenario)
	if err != nil {
		return err
	}
	params, err = applyEvalFlags(cmd, params)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	applyStringConfig(cmd, "format", &evalFormat, fileCfg.Output.Format)
	applyStringConfig(cmd, "format", &evalFormat, scenario.Output.Format)
	useColor := report.AutoColor(os.Stdout)
	applyBoolConfig(cmd, "color", &useColor, fileCfg.Output.Color)
	applyBoolConfig(cmd, "color", &useColor, scenario.Output.Color)
	if cmd.Flags().Changed("color") {
		useColor = evalColor
	}

	renderer, err := report.NewRenderer(evalFormat)
	if err != nil {
		return err
	}

	comps, err := resolveComparables(cmd.Context(), fileCfg, scenario)
	if err != nil {
		return err
	}

	res, err := valuation.Evaluate(params, comps)
	if err != nil {
		if !errors.Is(err, valuation.ErrDivisionSingularity) {
			return fmt.Errorf("failed to evaluate: %w", err)
		}
		logErrf("warning: %v; risk-adjusted values are intractable\n", err)
	}

	rep := report.Report{Stage: stage, Parameters: params, Comparables: comps, Result: res}
	return renderReport(cmd.OutOrStdout(), renderer, rep, report.Options{Color: useColor, Width: evalWidth})
}

func renderReport(w io.Writer, renderer report.Renderer, rep report.Report, opts report.Options) error {
	if err := renderer.Render(w, rep, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyEvalFlags(cmd *cobra.Command, params model.Parameters) (model.Parameters, error) {
	applyFloatFlag(cmd, "revenue", &params.CurrentRevenue, evalRevenue)
	if cmd.Flags().Changed("growth") {
		if len(evalGrowth) != model.ForecastYears {
			return params, fmt.Errorf("--growth must list %d values, got %d", model.ForecastYears, len(evalGrowth))
		}
		copy(params.GrowthRates[:], evalGrowth)
	}
	applyFloatFlag(cmd, "margin", &params.GrossMarginPct, evalMargin)
	applyFloatFlag(cmd, "opex", &params.OpexPct, evalOpex)
	applyFloatFlag(cmd, "terminal", &params.TerminalMultiple, evalTerminal)
	applyFloatFlag(cmd, "discount", &params.BaseDiscountPct, evalDiscount)
	applyFloatFlag(cmd, "survival", &params.SurvivalPct, evalSurvival)
	applyIntFlag(cmd, "years", &params.YearsToEstablished, evalYears)
	for _, d := range model.Dimensions() {
		score := params.Scores.Get(d)
		applyIntFlag(cmd, d.String(), &score, evalScores[d])
		params.Scores.Set(d, score)
	}
	return params, nil
}

// resolveComparables picks the comparable set: scenario entries, then config
// entries, then the store when requested, then the built-in starter set.
func resolveComparables(ctx context.Context, fileCfg, scenario config.FileConfig) ([]model.Comparable, error) {
	if comps, ok := scenario.ComparableSet(); ok {
		return comps, nil
	}
	if !evalCompsFromStore {
		if comps, ok := fileCfg.ComparableSet(); ok {
			return comps, nil
		}
		return model.DefaultComparables(), nil
	}
	st, closeStore, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()
	if ctx == nil {
		ctx = context.Background()
	}
	comps, err := st.ListComparables(ctx, evalCompsStage)
	if err != nil {
		return nil, fmt.Errorf("failed to load comparables: %w", err)
	}
	if len(comps) == 0 {
		logErrln("comparables library is empty; the terminal multiple is used as the median")
	}
	return comps, nil
}
