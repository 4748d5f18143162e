package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ApiErr is the error type returned by handlers. It carries the HTTP status
// code alongside the underlying error so the responder can translate it
// without a type switch per call site.
type ApiErr struct {
	StatusCode int
	err        error
	Details    string
	Field      string
	Cause      error
}

func NewApiErr(statusCode int, err error) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        err,
	}
}

// implements error interface. this allows us to pass an ApiErr anywhere an
// error is expected.
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%v: %s", e.err, e.Details)
	}
	return e.err.Error()
}

// GetFullError returns the error message along with the full cause chain,
// which is useful for logging.
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	cause := e.Cause
	for cause != nil {
		msg = fmt.Sprintf("%s -> %s", msg, cause.Error())
		cause = errors.Unwrap(cause)
	}
	return msg
}

// this function allows us to do the following:
// errors.Is(apiErr, ErrUnauthorized) even when the sentinel is wrapped.
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Common sentinel values handlers match against.
var (
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrMethodNotAllowed  = errors.New("method not allowed")
	ErrInternal          = errors.New("internal server error")
	ErrUnavailable       = errors.New("service unavailable")
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
)

func NewNotFoundError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrNotFound,
		Details:    details,
	}
}

func NewBadRequestError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrBadRequest,
		Details:    details,
	}
}

func NewBadRequestErrorWithField(details, field string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrBadRequest,
		Details:    details,
		Field:      field,
	}
}

func NewUnauthorizedError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrUnauthorized,
		Details:    details,
	}
}

func NewForbiddenError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrForbidden,
		Details:    details,
	}
}

func NewMethodNotAllowedError(method string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusMethodNotAllowed,
		err:        ErrMethodNotAllowed,
		Details:    fmt.Sprintf("method %s is not supported by this endpoint", method),
	}
}

// NewSignatureError covers a webhook delivery whose HMAC signature does not
// match the configured secret.
func NewSignatureError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrSignatureMismatch,
	}
}

func NewInternalError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrInternal,
		Details:    details,
	}
}

func NewInternalErrorWithCause(details string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrInternal,
		Details:    details,
		Cause:      cause,
	}
}

func NewServiceUnavailableError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrUnavailable,
		Details:    details,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsSignatureMismatch(err error) bool {
	return errors.Is(err, ErrSignatureMismatch)
}
