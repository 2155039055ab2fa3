package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/transition"
)

var curvesCmd = &cobra.Command{
	Use:   "curves",
	Short: "List curve and transition kind names",
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, _ := cmd.Flags().GetInt("samples")
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Curves:")
		for _, name := range animation.CurveNames() {
			curve, err := animation.CurveByName(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-16s %s\n", name, sparkline(curve, samples))
		}

		fmt.Fprintln(out, "Kinds:")
		for k := transition.KindFade; k.Valid(); k++ {
			fmt.Fprintf(out, "  %s\n", k)
		}

		d := transition.CurrentDefaults()
		fmt.Fprintf(out, "Defaults: duration=%s kind=%s\n", d.Duration, d.Kind)
		return nil
	},
}

func init() {
	curvesCmd.Flags().Int("samples", 12, "Points sampled per curve")
	rootCmd.AddCommand(curvesCmd)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func sparkline(curve func(float64) float64, samples int) string {
	if samples < 2 {
		samples = 2
	}
	var b strings.Builder
	top := len(sparkRunes) - 1
	for i := 0; i < samples; i++ {
		v := curve(float64(i) / float64(samples-1))
		idx := int(v*float64(top) + 0.5)
		idx = max(0, min(top, idx))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
