package main

import (
	"github.com/spf13/cobra"

	"github.com/go-drift/switcher/cmd/switchsim/internal/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Replay a scenario and print each frame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		changed, _ := cmd.Flags().GetBool("changed")

		sc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		logger.Debug("replaying scenario", "name", sc.Name, "mode", sc.Mode, "steps", len(sc.Steps))

		frames, err := scenario.Replay(sc, logger)
		if err != nil {
			return err
		}
		return scenario.Write(cmd.OutOrStdout(), frames, scenario.Format(format), changed)
	},
}

func init() {
	runCmd.Flags().StringP("format", "f", "text", "Output format: text or yaml")
	runCmd.Flags().Bool("changed", true, "Only print frames that differ from the previous one")
	rootCmd.AddCommand(runCmd)
}
