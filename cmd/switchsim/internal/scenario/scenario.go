// Package scenario replays scripted child switches and page drags on a fake
// clock and records what would be painted on every frame.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/transition"
)

// Mode selects what a scenario drives.
type Mode string

const (
	// ModeSwitcher drives a switch coordinator with child steps.
	ModeSwitcher Mode = "switcher"
	// ModePager drives a position sync with position and page steps.
	ModePager Mode = "pager"
)

// Scenario is a replay script.
type Scenario struct {
	Name string `yaml:"name,omitempty"`
	Mode Mode   `yaml:"mode"`

	// Kind, Duration and Curve override the process defaults when set.
	Kind     *transition.Kind `yaml:"kind,omitempty"`
	Duration time.Duration    `yaml:"duration,omitempty"`
	Curve    string           `yaml:"curve,omitempty"`

	// Delay and Placeholder gate switcher steps.
	Delay       time.Duration `yaml:"delay,omitempty"`
	Placeholder string        `yaml:"placeholder,omitempty"`

	// Fill is painted behind exiting children, as 0xAARRGGBB.
	Fill uint32 `yaml:"fill,omitempty"`

	// Pages is the page count in pager mode.
	Pages int `yaml:"pages,omitempty"`

	// Frame is the simulated frame interval. Zero means 16ms.
	Frame time.Duration `yaml:"frame,omitempty"`

	// Until ends the replay. Zero runs until the last step has settled.
	Until time.Duration `yaml:"until,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one scripted input.
type Step struct {
	At time.Duration `yaml:"at"`

	// Switcher mode.
	Child string `yaml:"child,omitempty"`
	Index *int   `yaml:"index,omitempty"`
	Clear bool   `yaml:"clear,omitempty"`

	// Pager mode.
	Position *float64 `yaml:"position,omitempty"`
	Page     *int     `yaml:"page,omitempty"`
}

func (s Step) String() string {
	switch {
	case s.Clear:
		return "clear"
	case s.Child != "" && s.Index != nil:
		return fmt.Sprintf("child %s@%d", s.Child, *s.Index)
	case s.Child != "":
		return "child " + s.Child
	case s.Position != nil:
		return fmt.Sprintf("position %.3f", *s.Position)
	case s.Page != nil:
		return fmt.Sprintf("page %d", *s.Page)
	default:
		return "noop"
	}
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].At < sc.Steps[j].At })
	return &sc, nil
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Validate reports the first invalid field as a *errors.ConfigError.
func (sc *Scenario) Validate() error {
	if sc.Mode == "" {
		sc.Mode = ModeSwitcher
	}
	if sc.Mode != ModeSwitcher && sc.Mode != ModePager {
		return &errors.ConfigError{Field: "mode", Value: sc.Mode, Reason: "expected switcher or pager"}
	}
	if sc.Duration < 0 || sc.Delay < 0 || sc.Frame < 0 || sc.Until < 0 {
		return &errors.ConfigError{Field: "duration", Value: sc.Duration, Reason: "durations must not be negative"}
	}
	if sc.Mode == ModePager && sc.Pages < 1 {
		return &errors.ConfigError{Field: "pages", Value: sc.Pages, Reason: "pager scenarios need at least one page"}
	}
	for i, st := range sc.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		if st.At < 0 {
			return &errors.ConfigError{Field: field + ".at", Value: st.At, Reason: "must not be negative"}
		}
		switch sc.Mode {
		case ModeSwitcher:
			if st.Position != nil || st.Page != nil {
				return &errors.ConfigError{Field: field, Value: st, Reason: "position and page need mode: pager"}
			}
			if (st.Child != "") == st.Clear {
				return &errors.ConfigError{Field: field, Value: st, Reason: "set exactly one of child or clear"}
			}
		case ModePager:
			if st.Child != "" || st.Clear || st.Index != nil {
				return &errors.ConfigError{Field: field, Value: st, Reason: "child steps need mode: switcher"}
			}
			if (st.Position == nil) == (st.Page == nil) {
				return &errors.ConfigError{Field: field, Value: st, Reason: "set exactly one of position or page"}
			}
		}
	}
	return nil
}
