package model

// SessionStatus represents the status of a download session
type SessionStatus string

const (
	// StatusDownloading means the session worker is running
	StatusDownloading SessionStatus = "downloading"

	// StatusCompleted means the session finished successfully
	StatusCompleted SessionStatus = "completed"

	// StatusCancelled means the session was cancelled by the user
	StatusCancelled SessionStatus = "cancelled"

	// StatusError means the session exhausted its plan or failed a precondition
	StatusError SessionStatus = "error"
)

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// IsFinished returns true if the session reached a terminal state
func (s SessionStatus) IsFinished() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusError
}
