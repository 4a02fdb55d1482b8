package model

// ErrorCategory is a best-effort classification of an extraction failure,
// derived from the engine's error text. It only influences user messaging,
// never control flow beyond message selection.
type ErrorCategory string

const (
	// CategoryAuth covers sign-in walls, age gates and bot checks.
	CategoryAuth ErrorCategory = "auth"

	// CategoryNoFormats means the source offered no usable format for the
	// requested selector.
	CategoryNoFormats ErrorCategory = "no_formats"

	// CategoryPermission covers local filesystem permission failures.
	CategoryPermission ErrorCategory = "permission"

	// CategoryNetwork covers transient network failures.
	CategoryNetwork ErrorCategory = "network"

	// CategoryUnknown is everything else.
	CategoryUnknown ErrorCategory = "unknown"
)

// AttemptState is the terminal state of a single attempt.
type AttemptState string

const (
	// AttemptSuccess means the attempt produced output files.
	AttemptSuccess AttemptState = "success"

	// AttemptRetryable means the attempt failed with later plan entries
	// still available.
	AttemptRetryable AttemptState = "retryable"

	// AttemptFatal means the final plan entry failed and the plan is
	// exhausted.
	AttemptFatal AttemptState = "fatal"
)

// AttemptOutcome records the result of one plan entry.
type AttemptOutcome struct {
	State    AttemptState
	FilePath string
	Category ErrorCategory
	Err      error
}
