package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/switcher/pkg/config"
	"github.com/go-drift/switcher/pkg/errors"
)

var rootCmd = &cobra.Command{
	Use:   "switchsim",
	Short: "Replay animated switch scenarios on a fake clock",
	Long: `switchsim runs a YAML scenario of child switches or page drags against
the switcher packages on a simulated frame clock and prints the composed
layers frame by frame.

Transition defaults are read from switcher.yaml in the working directory,
or from the file named by --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
		path, _ := cmd.Flags().GetString("config")
		return applyConfig(path)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Defaults file (default ./switcher.yaml if present)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log coordinator decisions")
}

var logger = errors.DiscardLogger()

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	errors.SetHandler(&errors.LogHandler{Verbose: verbose, Logger: logger})
	// Identity violations in a scenario should be reported, not crash the replay.
	errors.SetDebugMode(false)
}

func applyConfig(path string) error {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		return err
	}
	if _, err := cfg.Apply(); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	logger.Debug("defaults applied", "version", cfg.Version, "duration", cfg.Defaults.Duration,
		"curve", cfg.Defaults.Curve, "kind", cfg.Defaults.Kind)
	return nil
}
