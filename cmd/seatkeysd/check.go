package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/seatkeys/internal/config"
	"github.com/dshills/seatkeys/internal/input/layout"
)

// CheckOptions holds check command options
type CheckOptions struct {
	Quiet bool
}

// NewCheckCommand creates a command that validates the configuration
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Long:  `Parse the configuration, compile the layout of every input block and list the binding modes.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(globals)
			if err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only report errors")

	return cmd
}

func runCheck(w io.Writer, cfg *config.Config, opts *CheckOptions) error {
	failed := 0
	for _, in := range cfg.Inputs {
		if _, err := layout.Compile(cfg.InputFor(in.Identifier).LayoutSource()); err != nil {
			fmt.Fprintf(w, "input %s: %v\n", in.Identifier, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d input layouts failed to compile", failed)
	}
	if opts.Quiet {
		return nil
	}

	for _, name := range cfg.ModeNames() {
		mode := cfg.Mode(name)
		fmt.Fprintf(w, "mode %q (%d bindings)\n", name, mode.Len())
		for _, b := range mode.KeysymBindings {
			fmt.Fprintf(w, "  %s\n", b)
		}
		for _, b := range mode.KeycodeBindings {
			fmt.Fprintf(w, "  %s\n", b)
		}
	}
	for _, bar := range cfg.Bars {
		fmt.Fprintf(w, "bar %s: mode %s, modifier %s\n", bar.ID, bar.Mode, bar.Modifier)
	}
	return nil
}
