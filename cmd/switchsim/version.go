package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/switcher/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of switchsim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "switchsim %s (built %s, config format %s)\n", Version, BuildTime, config.SupportedMajor)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
