package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/seatkeys/internal/input/layout"
)

// KeymapOptions holds keymap command options
type KeymapOptions struct {
	Identifier string
	Layout     string
	Variant    string
	Options    string
}

// NewKeymapCommand creates a command that prints a compiled layout
func NewKeymapCommand() *cobra.Command {
	opts := &KeymapOptions{}

	cmd := &cobra.Command{
		Use:   "keymap",
		Short: "Print a compiled keyboard layout",
		Long: `Compile the layout configured for an input identifier and print its canonical form.
Any of --layout, --variant or --options compiles those names instead of the configured ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := keymapSource(opts, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			l, err := layout.Compile(src)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), l.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Identifier, "input", "i", "*", "Input identifier whose configured layout is compiled")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "Comma separated layout names")
	cmd.Flags().StringVar(&opts.Variant, "variant", "", "Comma separated variant names")
	cmd.Flags().StringVar(&opts.Options, "options", "", "Comma separated layout options")

	return cmd
}

func keymapSource(opts *KeymapOptions, changed func(string) bool) (layout.Source, error) {
	if changed("layout") || changed("variant") || changed("options") {
		return layout.Source{Names: layout.RuleNames{
			Layout:  opts.Layout,
			Variant: opts.Variant,
			Options: opts.Options,
		}}, nil
	}
	cfg, err := loadConfig(globals)
	if err != nil {
		return layout.Source{}, err
	}
	return cfg.InputFor(opts.Identifier).LayoutSource(), nil
}
