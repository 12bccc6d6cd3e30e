package error

import "errors"

// Sync domain errors.
var (
	// ErrFetchTransactions is returned when the transaction list cannot be fetched.
	ErrFetchTransactions = errors.New("failed to fetch transactions")

	// ErrFetchCategories is returned when the category list cannot be fetched.
	ErrFetchCategories = errors.New("failed to fetch categories")

	// ErrUnauthorized is returned when the backend rejects the credential.
	ErrUnauthorized = errors.New("credential rejected by backend")

	// ErrNoIdentity is returned when an operation needs a signed-in identity.
	ErrNoIdentity = errors.New("no identity is signed in")

	// ErrBackendUnavailable is returned when the backend answers with a server error.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound is returned when the backend answers 404.
	ErrNotFound = errors.New("resource not found")
)

// SyncErrorCode defines error codes for sync errors.
// Format: SYN-XXYYYY where XX is category and YYYY is specific error.
type SyncErrorCode string

const (
	// Identity errors (01XXXX)
	ErrCodeNoIdentity   SyncErrorCode = "SYN-010001"
	ErrCodeUnauthorized SyncErrorCode = "SYN-010002"

	// Network errors (02XXXX)
	ErrCodeFetchFailed  SyncErrorCode = "SYN-020001"
	ErrCodePersistError SyncErrorCode = "SYN-020002"

	// Throttling errors (03XXXX)
	ErrCodeRefreshRateLimited SyncErrorCode = "SYN-030001"
)

// SyncError represents a sync error with code and message.
type SyncError struct {
	Code    SyncErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError with the given code and message.
func NewSyncError(code SyncErrorCode, message string, err error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
