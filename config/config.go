// Package config provides launch defaults loaded from YAML files.
package config

import (
	"fmt"
	"time"

	"github.com/victoralfred/golaunch/launch"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "90s" or "2m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML unmarshals a duration from YAML.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	d.Duration = duration
	return nil
}

// MarshalYAML marshals a duration to YAML.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Defaults holds the descriptor defaults a deployment wants applied to
// every launch intent it builds.
type Defaults struct {
	// TimeOut is the default execution timeout.
	TimeOut Duration `yaml:"timeout"`

	// Priority is the default scheduling class ("idle", "below-normal",
	// "normal", "above-normal", "high", "realtime").
	Priority string `yaml:"priority"`

	// SuccessExitCodes are the exit codes classified as success.
	SuccessExitCodes []int `yaml:"success_exit_codes"`

	// Environment is the base environment mapping.
	Environment map[string]string `yaml:"environment"`
}

// DefaultDefaults returns the built-in defaults, matching what a bare
// descriptor would use.
func DefaultDefaults() Defaults {
	return Defaults{
		TimeOut:          Duration{launch.DefaultTimeOut},
		Priority:         launch.PriorityNormal.String(),
		SuccessExitCodes: []int{0},
		Environment:      make(map[string]string),
	}
}

// Validate normalizes nonsense values and rejects unparseable ones.
func (d *Defaults) Validate() error {
	if d.TimeOut.Duration <= 0 {
		d.TimeOut = Duration{launch.DefaultTimeOut}
	}
	if d.SuccessExitCodes == nil {
		d.SuccessExitCodes = []int{0}
	}
	if _, err := launch.ParsePriority(d.Priority); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

// Options converts the defaults into construction options for
// launch.New.
func (d Defaults) Options() ([]launch.Option, error) {
	priority, err := launch.ParsePriority(d.Priority)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	opts := []launch.Option{
		launch.WithPriority(priority),
		launch.WithSuccessExitCodes(d.SuccessExitCodes...),
	}
	if len(d.Environment) > 0 {
		opts = append(opts, launch.WithEnvironment(d.Environment))
	}
	return opts, nil
}

// Apply stamps the mutable defaults onto an already-constructed
// descriptor.
func (d Defaults) Apply(info *launch.ProcessInfo) {
	if d.TimeOut.Duration > 0 {
		info.SetTimeOut(d.TimeOut.Duration)
	}
	for k, v := range d.Environment {
		info.Setenv(k, v)
	}
}
