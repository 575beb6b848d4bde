// Package main provides the CLI entrypoint for vcval.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/vcval/internal/config"
	"github.com/verte-zerg/vcval/internal/model"
	"github.com/verte-zerg/vcval/internal/report"
	"github.com/verte-zerg/vcval/internal/store"
	"github.com/verte-zerg/vcval/internal/tui"
	"github.com/verte-zerg/vcval/internal/valuation"
)

const defaultFormat = "text"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logErrf("failed to load .env: %v\n", err)
	}
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vcval",
		Short:         "Startup valuation workbench",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runWorkbenchCmd,
	}
	rootCmd.Flags().String("stage", "", "starting stage preset")

	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newStagesCmd())
	rootCmd.AddCommand(newCompsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runWorkbenchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	stage, params, err := resolveParameters(cmd, fileCfg, config.FileConfig{})
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	comps, ok := fileCfg.ComparableSet()
	if !ok {
		comps, err = st.ListComparables(context.Background(), "")
		if err != nil {
			return fmt.Errorf("failed to load comparables: %w", err)
		}
		if len(comps) == 0 {
			comps = model.DefaultComparables()
		}
	}

	m := tui.NewModel(stage, params, comps, st)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List stage presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := report.RenderStages(cmd.OutOrStdout(), valuation.Presets()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a file already exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// resolveParameters builds the input set: defaults, then the stage preset,
// then explicit config and scenario values, then explicit flags.
func resolveParameters(cmd *cobra.Command, fileCfg, scenario config.FileConfig) (string, model.Parameters, error) {
	stage := model.DefaultStage
	applyStringConfig(cmd, "stage", &stage, fileCfg.Valuation.Stage)
	applyStringConfig(cmd, "stage", &stage, scenario.Valuation.Stage)
	if cmd.Flags().Changed("stage") {
		flagStage, err := cmd.Flags().GetString("stage")
		if err != nil {
			return "", model.Parameters{}, err
		}
		stage = flagStage
	}

	params, err := valuation.ApplyPreset(stage, model.DefaultParameters())
	if err != nil {
		return "", model.Parameters{}, fmt.Errorf("failed to apply stage: %w", err)
	}
	preset, _ := valuation.PresetFor(stage)
	params = fileCfg.Apply(params)
	params = scenario.Apply(params)
	return preset.Key, params, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatFlag(cmd *cobra.Command, name string, target *float64, value float64) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
