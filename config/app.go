package config

import (
	"github.com/kbukum/folds/logger"
	"github.com/kbukum/folds/observability"
	"github.com/kbukum/folds/validation"
)

// AppConfig contains the fields every fold tool needs. Tools embed it in
// their own config structs:
//
//	type Config struct {
//	    config.AppConfig `yaml:",inline" mapstructure:",squash"`
//	    Run run.Config   `yaml:"run" mapstructure:"run"`
//	}
type AppConfig struct {
	Name        string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging     logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry   observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *AppConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Logging.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate validates the base configuration, including the nested logging
// and telemetry sections.
func (c *AppConfig) Validate() error {
	return validation.Validate(c)
}
