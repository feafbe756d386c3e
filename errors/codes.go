package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a configuration value failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Run errors
const (
	// ErrCodeSourceFailed indicates the input stream returned an error.
	ErrCodeSourceFailed ErrorCode = "SOURCE_FAILED"
	// ErrCodeTaskFailed indicates a concurrent task failed to produce an accumulator.
	ErrCodeTaskFailed ErrorCode = "TASK_FAILED"
	// ErrCodeCancelled indicates the run was cancelled or timed out.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)
