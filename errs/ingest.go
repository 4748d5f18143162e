package errs

import (
	"errors"
	"fmt"
)

// Pipeline sentinel values. Handlers and the orchestrator match on these to
// decide whether a failure skips one repository or aborts the request.
var (
	ErrReadmeNotFound     = errors.New("readme not found")
	ErrReadmeTooShort     = errors.New("readme too short")
	ErrEmptyModelResponse = errors.New("model returned no content")
	ErrExtractionFailed   = errors.New("extraction failed")
	ErrSchemaValidation   = errors.New("schema validation failed")
	ErrMissingEnvVar      = errors.New("missing environment variable")
)

// ValidationError reports a model payload that does not satisfy the project
// schema. Field holds the dotted path of the first offending field, e.g.
// "tagline.es".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrSchemaValidation, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrSchemaValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrSchemaValidation
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: reason,
	}
}

func NewReadmeNotFoundError(owner, repo string) error {
	return fmt.Errorf("%w: %s/%s", ErrReadmeNotFound, owner, repo)
}

func NewReadmeTooShortError(length, minimum int) error {
	return fmt.Errorf("%w: %d characters, minimum is %d", ErrReadmeTooShort, length, minimum)
}

func NewEmptyModelResponseError(model string) error {
	return fmt.Errorf("%w (model %s)", ErrEmptyModelResponse, model)
}

// NewExtractionError wraps a parse or validation failure from the extraction
// step so callers can match both the step and the underlying cause.
func NewExtractionError(cause error) error {
	return fmt.Errorf("%w: %w", ErrExtractionFailed, cause)
}

func NewMissingEnvVarError(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingEnvVar, name)
}

func IsReadmeNotFound(err error) bool {
	return errors.Is(err, ErrReadmeNotFound)
}

func IsReadmeTooShort(err error) bool {
	return errors.Is(err, ErrReadmeTooShort)
}

func IsEmptyModelResponse(err error) bool {
	return errors.Is(err, ErrEmptyModelResponse)
}

func IsExtractionFailed(err error) bool {
	return errors.Is(err, ErrExtractionFailed)
}

func IsSchemaValidation(err error) bool {
	return errors.Is(err, ErrSchemaValidation)
}
