package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/vcval/internal/model"
	"github.com/verte-zerg/vcval/internal/report"
)

var (
	compsStage     string
	compsName      string
	compsValuation float64
	compsRevenue   float64
	compsAddStage  string

	editName      string
	editValuation float64
	editRevenue   float64
	editStage     string
)

func newCompsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comps",
		Short: "Manage the comparables library",
	}
	cmd.AddCommand(newCompsListCmd())
	cmd.AddCommand(newCompsAddCmd())
	cmd.AddCommand(newCompsEditCmd())
	cmd.AddCommand(newCompsRmCmd())
	cmd.AddCommand(newCompsSeedCmd())
	return cmd
}

func newCompsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored comparables",
		Args:  cobra.NoArgs,
		RunE:  runCompsListCmd,
	}
	cmd.Flags().StringVar(&compsStage, "stage", "", "stage filter")
	return cmd
}

func runCompsListCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	comps, err := st.ListComparables(cmd.Context(), compsStage)
	if err != nil {
		return fmt.Errorf("failed to list comparables: %w", err)
	}
	if len(comps) == 0 {
		logErrln("No comparables stored. Add with: vcval comps add --name <name> --valuation <m> --revenue <m>")
		return nil
	}
	if err := report.RenderComparables(cmd.OutOrStdout(), comps); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCompsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a comparable transaction",
		Args:  cobra.NoArgs,
		RunE:  runCompsAddCmd,
	}
	cmd.Flags().StringVar(&compsName, "name", "", "company name")
	cmd.Flags().Float64Var(&compsValuation, "valuation", 0, "valuation in millions")
	cmd.Flags().Float64Var(&compsRevenue, "revenue", 0, "revenue in millions")
	cmd.Flags().StringVar(&compsAddStage, "stage", "", "funding stage label")
	return cmd
}

func runCompsAddCmd(cmd *cobra.Command, _ []string) error {
	comp := model.Comparable{
		Name:      compsName,
		Valuation: compsValuation,
		Revenue:   compsRevenue,
		Stage:     compsAddStage,
	}
	if compsValuation < 0 || compsRevenue < 0 {
		return fmt.Errorf("--valuation and --revenue must be >= 0")
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	id, err := st.InsertComparable(cmd.Context(), comp)
	if err != nil {
		return fmt.Errorf("failed to add comparable: %w", err)
	}
	if !comp.Valid() {
		logErrf("note: %s has no positive revenue and valuation; it is excluded from multiples\n", comp.Name)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id %d)\n", comp.Name, id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCompsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a stored comparable",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompsEditCmd,
	}
	cmd.Flags().StringVar(&editName, "name", "", "company name")
	cmd.Flags().Float64Var(&editValuation, "valuation", 0, "valuation in millions")
	cmd.Flags().Float64Var(&editRevenue, "revenue", 0, "revenue in millions")
	cmd.Flags().StringVar(&editStage, "stage", "", "funding stage label")
	return cmd
}

func runCompsEditCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	if cmd.Flags().NFlag() == 0 {
		return fmt.Errorf("nothing to change; pass --name, --valuation, --revenue or --stage")
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	comp, err := st.GetComparable(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load comparable %d: %w", id, err)
	}
	applyStringFlag(cmd, "name", &comp.Name, editName)
	applyFloatFlag(cmd, "valuation", &comp.Valuation, editValuation)
	applyFloatFlag(cmd, "revenue", &comp.Revenue, editRevenue)
	applyStringFlag(cmd, "stage", &comp.Stage, editStage)
	if comp.Valuation < 0 || comp.Revenue < 0 {
		return fmt.Errorf("--valuation and --revenue must be >= 0")
	}

	if err := st.UpdateComparable(cmd.Context(), comp); err != nil {
		return fmt.Errorf("failed to update comparable %d: %w", id, err)
	}
	if !comp.Valid() {
		logErrf("note: %s has no positive revenue and valuation; it is excluded from multiples\n", comp.Name)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (id %d)\n", comp.Name, id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCompsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a stored comparable",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompsRmCmd,
	}
}

func runCompsRmCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.DeleteComparable(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to remove comparable %d: %w", id, err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCompsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the library with the starter comparables",
		Args:  cobra.NoArgs,
		RunE:  runCompsSeedCmd,
	}
}

func runCompsSeedCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := st.SeedDefaults(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to seed comparables: %w", err)
	}
	if n == 0 {
		logErrln("Library already has comparables; nothing seeded.")
		return nil
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d comparables\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
