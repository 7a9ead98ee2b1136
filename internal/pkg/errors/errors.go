package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// AppError is an error a handler can answer directly. Message is safe to
// show to the client; Err is the wrapped cause and is never written out.
type AppError struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Code: ErrCodeInvalidInput, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusBadRequest, Code: ErrCodeConflict, Message: message}
}

func Authentication(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Status: http.StatusForbidden, Code: ErrCodeInvalidCredentials, Message: message}
}

// Forbidden is an authorization failure for an identified caller acting on
// something it does not own.
func Forbidden(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Status: http.StatusForbidden, Code: ErrCodeForbidden, Message: message}
}

// Unauthorized is an authorization failure for an anonymous caller.
func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// Internal wraps an unexpected failure. The client only ever sees
// "Internal server error".
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Status: http.StatusInternalServerError, Code: ErrCodeInternal, Message: "Internal server error", Err: err}
}

// As converts any error into an *AppError, treating unknown errors as internal.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err is an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	fmt.Fprintln(w, message)
}

// Write answers the request with the status and message of err.
func Write(w http.ResponseWriter, err error) *AppError {
	appErr := As(err)
	WriteError(w, appErr.Status, appErr.Code, appErr.Message)
	return appErr
}
