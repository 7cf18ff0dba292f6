package main

import (
	"io"
	"log/slog"
	"os"

	"countdown/internal/core/settings"
	"countdown/internal/storage"
	"countdown/internal/ui/preferences"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	limit      int
	alerts     []int
	verbose    bool
}

var (
	runGUI      = runDesktop
	runTerminal = runTUI
)

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          appName,
		Short:        "Single-screen countdown timer with alert thresholds",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := loadPreferences(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return runGUI(prefs, newLogger(os.Stderr, opts.verbose, slog.LevelInfo))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config.yaml (default: user config dir)")
	flags.IntVar(&opts.limit, "limit", 0, "countdown length in minutes")
	flags.IntSliceVar(&opts.alerts, "alert", nil, "alert threshold in minutes before the end (repeatable, up to 3)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log timer transitions")

	root.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Run the countdown in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := loadPreferences(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			// Anything below error would draw over the terminal view.
			return runTerminal(prefs, newLogger(os.Stderr, opts.verbose, slog.LevelError))
		},
	})

	return root
}

func loadPreferences(flags *pflag.FlagSet, opts *options) (preferences.Preferences, error) {
	var (
		prefs preferences.Preferences
		err   error
	)
	if opts.configPath != "" {
		prefs, err = storage.LoadConfigFile(opts.configPath)
	} else {
		prefs, err = storage.LoadConfig(appName)
	}
	if err != nil {
		return prefs, err
	}
	applyFlags(&prefs, flags, opts)
	return prefs, nil
}

func applyFlags(prefs *preferences.Preferences, flags *pflag.FlagSet, opts *options) {
	if flags.Changed("limit") {
		prefs.Timer.LimitMinutes = opts.limit
	}
	if flags.Changed("alert") {
		prefs.Timer.AlertThresholds = append([]int(nil), opts.alerts...)
	}
	prefs.Timer = settings.Sanitize(prefs.Timer)
}

func newLogger(w io.Writer, verbose bool, quiet slog.Level) *slog.Logger {
	level := quiet
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
