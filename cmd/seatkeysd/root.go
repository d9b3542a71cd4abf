package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dshills/seatkeys/internal/config"
	"github.com/dshills/seatkeys/internal/logging"
)

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

var (
	globals = &GlobalOptions{}

	rootCmd = &cobra.Command{
		Use:           "seatkeysd",
		Short:         "Keyboard binding daemon",
		Long:          `seatkeysd reads keyboards through evdev, resolves key bindings the way a tiling compositor seat does and reports executed bindings as ipc events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flag("version").Changed {
				fmt.Printf("seatkeysd %s (commit %s, built %s)\n", version, commit, date)
				return nil
			}
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information and exit")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&globals.ConfigPath, "config", "c", "", "Path to configuration file")
	pf.StringVar(&globals.LogLevel, "log-level", "info", "Minimum log level (trace, debug, info, warn, error)")
	pf.StringVar(&globals.LogFormat, "log-format", string(logging.FormatText), "Log format (text or json)")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewKeymapCommand())
}

func newLogger(opts *GlobalOptions) *logrus.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = opts.LogLevel
	cfg.Format = logging.Format(opts.LogFormat)
	return logging.New(cfg)
}

// loadConfig loads the configuration file, or the built-in defaults when
// no path was given.
func loadConfig(opts *GlobalOptions) (*config.Config, error) {
	if opts.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(opts.ConfigPath)
}
