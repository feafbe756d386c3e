package run

import (
	"runtime"

	"github.com/kbukum/folds/validation"
)

// DefaultChunkSize is the number of items per fork-join task.
const DefaultChunkSize = 1024

// Config tunes the parallel and streaming drivers.
type Config struct {
	// ChunkSize is the number of items handed to each fork-join task.
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size" validate:"min=1"`
	// Workers bounds the goroutines used by Par, Par1 and Partitions.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"min=1"`
	// Concurrency is the StreamPar task bound used when j <= 0.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"min=1"`
}

// ApplyDefaults fills unset or non-positive fields.
func (c *Config) ApplyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Concurrency <= 0 {
		c.Concurrency = c.Workers
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
