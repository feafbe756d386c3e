package main

import (
	"github.com/kbukum/folds/config"
	"github.com/kbukum/folds/run"
	"github.com/kbukum/folds/validation"
)

// Config is the foldstat configuration. It is read from foldstat.yml (or
// config/foldstat.yml), .env files and FOLDSTAT_* environment variables.
type Config struct {
	config.AppConfig `yaml:",inline" mapstructure:",squash"`

	// Input is the file to read numbers from. Empty or "-" reads stdin.
	Input string `yaml:"input" mapstructure:"input"`
	// SampleSize is the number of values kept by the reservoir.
	SampleSize int `yaml:"sample_size" mapstructure:"sample_size" validate:"min=1"`
	// Seed makes sampling reproducible when non-zero.
	Seed uint64 `yaml:"seed" mapstructure:"seed"`

	Run run.Config `yaml:"run" mapstructure:"run"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "foldstat"
	}
	if c.SampleSize == 0 {
		c.SampleSize = 20
	}
	c.AppConfig.ApplyDefaults()
	c.Run.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
