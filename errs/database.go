package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Storage sentinel values.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrTransactionFailed  = errors.New("transaction failed")
)

func NewNotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func NewAlreadyExists(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrAlreadyExists)
}

// NewDatabaseError inspects the cause and classifies it into an ApiErr with
// the right status code. operation and entity describe what was being done,
// e.g. ("upsert", "project").
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	if cause == nil {
		return nil
	}

	details := fmt.Sprintf("failed to %s %s", operation, entity)
	causeText := strings.ToLower(cause.Error())

	switch {
	case strings.Contains(causeText, "duplicate key"):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			err:        ErrAlreadyExists,
			Details:    details,
			Cause:      cause,
		}
	case strings.Contains(causeText, "not found"):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        ErrNotFound,
			Details:    details,
			Cause:      cause,
		}
	case strings.Contains(causeText, "connection"):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrDatabaseConnection,
			Details:    details,
			Cause:      cause,
		}
	default:
		return &ApiErr{
			StatusCode: http.StatusInternalServerError,
			err:        ErrDatabaseQuery,
			Details:    details,
			Cause:      cause,
		}
	}
}

func NewTransactionError(operation string, cause error) error {
	return fmt.Errorf("%w during %s: %w", ErrTransactionFailed, operation, cause)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsDatabaseConnection(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}
