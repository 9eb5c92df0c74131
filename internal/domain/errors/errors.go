package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrProviderMissing   = errors.New("wallet provider not available")
	ErrUserRejected      = errors.New("request rejected by user")
	ErrNetworkMismatch   = errors.New("wallet is connected to an unexpected network")
	ErrContractCall      = errors.New("contract call failed")
	ErrMetadataFetch     = errors.New("metadata fetch failed")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrNotConnected      = errors.New("wallet not connected")
	ErrSignerUnavailable = errors.New("no signer configured for account")
)

// Error codes returned to API clients
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeProviderMissing   = "PROVIDER_MISSING"
	CodeUserRejected      = "USER_REJECTED"
	CodeNetworkMismatch   = "NETWORK_MISMATCH"
	CodeContractCall      = "CONTRACT_CALL_FAILED"
	CodeMetadataFetch     = "METADATA_FETCH_FAILED"
	CodeTransactionFailed = "TRANSACTION_FAILED"
	CodeNotConnected      = "NOT_CONNECTED"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// ProviderMissing is a blocking condition: there is no wallet to talk to.
func ProviderMissing() *AppError {
	return NewAppError(http.StatusServiceUnavailable, CodeProviderMissing, "wallet provider is not installed", ErrProviderMissing)
}

// UserRejected is retryable by invoking the action again.
func UserRejected(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeUserRejected, message, ErrUserRejected)
}

func NotConnected() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeNotConnected, "connect a wallet first", ErrNotConnected)
}

// TransactionFailed hides the underlying cause from API clients; it is
// still reachable through errors.Is/As for logging.
func TransactionFailed(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrTransactionFailed
	}
	return NewAppError(http.StatusBadGateway, CodeTransactionFailed, message, errors.Join(ErrTransactionFailed, cause))
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}
