package error

import "errors"

// Transaction domain errors.
var (
	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionDate is returned when the transaction date is missing.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrInvalidTransactionAmount is returned when the transaction amount is not positive.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrInvalidRecurrence is returned when the recurrence cadence is unknown or incomplete.
	ErrInvalidRecurrence = errors.New("recurrence must be: daily, weekly, biweekly, or monthly")

	// ErrInvalidEndDate is returned when a recurring transaction ends before it starts.
	ErrInvalidEndDate = errors.New("end date must not be before date")

	// ErrNoteTooLong is returned when the transaction note exceeds the maximum length.
	ErrNoteTooLong = errors.New("note too long")

	// ErrMissingTransactionID is returned when an edit or delete names no transaction.
	ErrMissingTransactionID = errors.New("transaction id is required")

	// ErrNoChanges is returned when an edit changes no field.
	ErrNoChanges = errors.New("no fields to update")

	// ErrTransactionNotFound is returned when the backend does not know the transaction.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionDate   TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010003"
	ErrCodeInvalidRecurrence        TransactionErrorCode = "TXN-010004"
	ErrCodeInvalidEndDate           TransactionErrorCode = "TXN-010005"
	ErrCodeNoteTooLong              TransactionErrorCode = "TXN-010006"
	ErrCodeMissingTransactionID     TransactionErrorCode = "TXN-010007"
	ErrCodeNoChanges                TransactionErrorCode = "TXN-010008"

	// Backend errors (02XXXX)
	ErrCodeCreateFailed TransactionErrorCode = "TXN-020001"
	ErrCodeUpdateFailed TransactionErrorCode = "TXN-020002"
	ErrCodeDeleteFailed TransactionErrorCode = "TXN-020003"

	// Lookup errors (03XXXX)
	ErrCodeTransactionNotFound TransactionErrorCode = "TXN-030001"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
