package error

import "errors"

// Cache domain errors.
var (
	// ErrCacheRead is returned when the persisted medium cannot be read.
	ErrCacheRead = errors.New("failed to read cache")

	// ErrCacheWrite is returned when the persisted medium cannot be written.
	ErrCacheWrite = errors.New("failed to write cache")

	// ErrUnknownCacheMedium is returned when the configured medium is not supported.
	ErrUnknownCacheMedium = errors.New("cache medium must be: memory, redis, sqlite, or postgres")
)

// CacheErrorCode defines error codes for cache errors.
// Format: CCH-XXYYYY where XX is category and YYYY is specific error.
type CacheErrorCode string

const (
	// Configuration errors (01XXXX)
	ErrCodeUnknownCacheMedium CacheErrorCode = "CCH-010001"

	// Storage errors (02XXXX)
	ErrCodeCacheRead  CacheErrorCode = "CCH-020001"
	ErrCodeCacheWrite CacheErrorCode = "CCH-020002"
)

// CacheError represents a cache error with code and message.
type CacheError struct {
	Code    CacheErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CacheError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CacheError) Unwrap() error {
	return e.Err
}

// NewCacheError creates a new CacheError with the given code and message.
func NewCacheError(code CacheErrorCode, message string, err error) *CacheError {
	return &CacheError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
