// Package apperror carries the HTTP status an error should surface as.
// The room server's stores and handlers return these; the response package
// maps them onto the {"message"} bodies the booking client shows verbatim.
package apperror

import "fmt"

// AppError pairs a user-facing message with the status code it maps to.
// Err, when set, is the internal cause and never reaches the response body.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError surfacing as the given status. Package-level
// sentinel errors (ErrRoomNotFound and friends) are built with it.
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a status and user-facing message to an internal error,
// keeping the cause reachable through errors.Is/As.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
