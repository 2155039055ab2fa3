// Package config loads process-wide transition defaults from YAML.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/switcher/pkg/animation"
	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/transition"
)

// FileName is the file LoadOptional looks for.
const FileName = "switcher.yaml"

// SupportedMajor is the only accepted major version of the file format.
const SupportedMajor = "v1"

// Config represents a switcher.yaml file.
type Config struct {
	Version  string         `yaml:"version,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// DefaultsConfig overrides fields of the process-wide defaults. Empty
// fields keep the initial value.
type DefaultsConfig struct {
	Duration string `yaml:"duration,omitempty"`
	Curve    string `yaml:"curve,omitempty"`
	Kind     string `yaml:"kind,omitempty"`
}

// Parse decodes and validates a config document. Unknown fields are
// rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validateVersion(); err != nil {
		return nil, err
	}
	if _, err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// LoadOptional reads switcher.yaml from dir if present. A missing file
// yields an empty config.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve returns the initial defaults with the file's overrides applied.
func (c *Config) Resolve() (transition.Defaults, error) {
	d := transition.InitialDefaults()

	if s := strings.TrimSpace(c.Defaults.Duration); s != "" {
		duration, err := time.ParseDuration(s)
		if err != nil || duration < 0 {
			return d, &errors.ConfigError{Field: "defaults.duration", Value: s, Reason: "expected a non-negative duration such as 250ms"}
		}
		d = d.WithDuration(duration)
	}
	if s := strings.TrimSpace(c.Defaults.Curve); s != "" {
		curve, err := animation.CurveByName(s)
		if err != nil {
			return d, fmt.Errorf("defaults.curve: %w", err)
		}
		d = d.WithCurve(curve)
	}
	if s := strings.TrimSpace(c.Defaults.Kind); s != "" {
		kind, err := transition.ParseKind(s)
		if err != nil {
			return d, fmt.Errorf("defaults.kind: %w", err)
		}
		d = d.WithKind(kind)
	}
	return d, d.Validate()
}

// Apply installs the resolved defaults process-wide and returns the ones
// they replaced.
func (c *Config) Apply() (transition.Defaults, error) {
	d, err := c.Resolve()
	if err != nil {
		return transition.CurrentDefaults(), err
	}
	return transition.SetDefaults(d)
}

func (c *Config) validateVersion() error {
	v := strings.TrimSpace(c.Version)
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return &errors.ConfigError{Field: "version", Value: c.Version, Reason: "not a semantic version"}
	}
	if semver.Major(v) != SupportedMajor {
		return &errors.ConfigError{
			Field:  "version",
			Value:  c.Version,
			Reason: fmt.Sprintf("major version %s is not supported (want %s)", semver.Major(v), SupportedMajor),
		}
	}
	c.Version = semver.Canonical(v)
	return nil
}
