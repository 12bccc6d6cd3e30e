// Package error defines domain-specific errors for the transaction cache.
package error

import "errors"

// Dashboard domain errors.
var (
	// ErrMissingStartDate is returned when the start day is not provided.
	ErrMissingStartDate = errors.New("start day is required")

	// ErrMissingEndDate is returned when the end day is not provided.
	ErrMissingEndDate = errors.New("end day is required")

	// ErrInvalidDateFormat is returned when a day is not formatted as YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrUnknownRangePreset is returned when a range preset is not recognized.
	ErrUnknownRangePreset = errors.New("range must be: 7d, 30d, or month")

	// ErrInvalidLimit is returned when a recent-transactions limit is not a positive number.
	ErrInvalidLimit = errors.New("limit must be a positive number")

	// ErrInvalidBudgetAmount is returned when a budget amount is not positive.
	ErrInvalidBudgetAmount = errors.New("budget amount must be positive")

	// ErrInvalidGranularity is returned when a trend granularity is not recognized.
	ErrInvalidGranularity = errors.New("granularity must be: daily, weekly, monthly, or quarterly")
)

// DashboardErrorCode defines error codes for dashboard errors.
// Format: DSH-XXYYYY where XX is category and YYYY is specific error.
type DashboardErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeMissingStartDate    DashboardErrorCode = "DSH-010001"
	ErrCodeMissingEndDate      DashboardErrorCode = "DSH-010002"
	ErrCodeUnknownRangePreset  DashboardErrorCode = "DSH-010004"
	ErrCodeInvalidDateFormat   DashboardErrorCode = "DSH-010006"
	ErrCodeInvalidLimit        DashboardErrorCode = "DSH-010007"
	ErrCodeInvalidBudgetAmount DashboardErrorCode = "DSH-010008"
	ErrCodeInvalidGranularity  DashboardErrorCode = "DSH-010009"

	// Internal errors (99XXXX)
	ErrCodeDashboardInternalError DashboardErrorCode = "DSH-990001"
)

// DashboardError represents a dashboard error with code and message.
type DashboardError struct {
	Code    DashboardErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DashboardError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *DashboardError) Unwrap() error {
	return e.Err
}

// NewDashboardError creates a new DashboardError with the given code and message.
func NewDashboardError(code DashboardErrorCode, message string, err error) *DashboardError {
	return &DashboardError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
