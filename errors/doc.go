// Package errors provides the structured error type returned by the fold
// drivers and the packages that configure them. Errors carry a
// machine-readable code and unwrap to their cause, so errors.Is and
// errors.As from the standard library work through them.
package errors
