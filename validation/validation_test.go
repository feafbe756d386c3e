package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/folds/errors"
)

type inner struct {
	ChunkSize int `mapstructure:"chunk_size" validate:"min=1"`
}

type sample struct {
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	SampleSize int    `validate:"gt=0"`
	Run        inner  `mapstructure:"run"`
}

func TestValidate_Valid(t *testing.T) {
	s := sample{Format: "json", SampleSize: 20, Run: inner{ChunkSize: 1024}}
	if err := Validate(s); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	err := Validate(sample{Format: "xml", SampleSize: 0, Run: inner{ChunkSize: 0}})
	if err == nil {
		t.Fatal("expected error")
	}

	fe, ok := errors.AsFoldError(err)
	if !ok {
		t.Fatalf("expected FoldError, got %T", err)
	}
	if fe.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("expected INVALID_CONFIG, got %s", fe.Code)
	}

	fields, ok := fe.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %v", fe.Details["fields"])
	}

	want := map[string]string{
		"format":         "must be one of: json console",
		"sample_size":    "must be greater than 0",
		"run.chunk_size": "must be at least 1",
	}
	for _, f := range fields {
		if want[f.Field] != f.Message {
			t.Errorf("field %s: got %q, want %q", f.Field, f.Message, want[f.Field])
		}
	}
	if !strings.Contains(fe.Message, "run.chunk_size: must be at least 1") {
		t.Errorf("expected message to list fields, got %q", fe.Message)
	}
}

func TestValidate_Pointer(t *testing.T) {
	if err := Validate(&inner{ChunkSize: 0}); err == nil {
		t.Error("expected error for pointer to invalid struct")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"SampleSize": "sample_size",
		"Workers":    "workers",
		"a":          "a",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
