package domain

import "errors"

// Common business errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalError      = errors.New("internal error")
)

// AppError carries an HTTP status code alongside a user-facing message.
type AppError struct {
	Code    int    // HTTP status code
	Message string // user-friendly error message
	Err     error  // original error, never sent to the client
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Convenience constructors for the common classes
func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: 404, Message: msg, Err: ErrNotFound}
}

func NewBadRequestError(msg string) *AppError {
	return &AppError{Code: 400, Message: msg, Err: ErrInvalidInput}
}

// NewUnauthorizedError covers credential failures. Callers on the login
// path must reuse a single message for every credential failure so the
// response never reveals which check rejected the attempt.
func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Code: 401, Message: msg, Err: ErrInvalidCredentials}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Code: 403, Message: msg, Err: ErrForbidden}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Code: 409, Message: msg, Err: ErrAlreadyExists}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Code: 500, Message: msg, Err: err}
}
