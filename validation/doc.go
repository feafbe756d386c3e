// Package validation checks configuration structs against their
// `validate` struct tags using go-playground/validator.
//
//	type Config struct {
//	    ChunkSize int `mapstructure:"chunk_size" validate:"min=1"`
//	}
//	err := validation.Validate(cfg)
//
// Failures are returned as an errors.FoldError with code INVALID_CONFIG,
// with one FieldError per offending field in Details["fields"].
package validation
