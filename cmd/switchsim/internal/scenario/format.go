package scenario

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how frames are printed.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// Write prints frames in format. With changedOnly, frames whose layers
// equal the previous frame's and that applied no step are skipped.
func Write(w io.Writer, frames []Frame, format Format, changedOnly bool) error {
	if changedOnly {
		frames = compact(frames)
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(frames); err != nil {
			return fmt.Errorf("encode frames: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		for _, f := range frames {
			if _, err := io.WriteString(w, formatFrame(f)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
}

func compact(frames []Frame) []Frame {
	var out []Frame
	for i, f := range frames {
		if i > 0 && len(f.Applied) == 0 && reflect.DeepEqual(f.Layers, frames[i-1].Layers) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func formatFrame(f Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%6dms", f.At.Milliseconds())
	if f.Position != nil {
		fmt.Fprintf(&b, "  pos=%.3f", *f.Position)
	}
	if f.State != "" {
		fmt.Fprintf(&b, "  %s/%s", f.State, f.Phase)
	}
	if len(f.Applied) > 0 {
		fmt.Fprintf(&b, "  <- %s", strings.Join(f.Applied, ", "))
	}
	b.WriteByte('\n')
	for _, l := range f.Layers {
		fmt.Fprintf(&b, "          %-14s opacity=%.3f scale=%.3f", l.Key, l.Opacity, l.Scale)
		if l.TranslateX != 0 || l.TranslateY != 0 {
			fmt.Fprintf(&b, " translate=(%.3f,%.3f)", l.TranslateX, l.TranslateY)
		}
		if l.FractionX != 0 || l.FractionY != 0 {
			fmt.Fprintf(&b, " fraction=(%.3f,%.3f)", l.FractionX, l.FractionY)
		}
		if l.Clip {
			b.WriteString(" clip")
		}
		if l.Fill != "" {
			fmt.Fprintf(&b, " fill=%s", l.Fill)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
