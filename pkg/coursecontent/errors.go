package coursecontent

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrCourseNotFound indicates course resolution failed.
	ErrCourseNotFound = errors.New("course not found")

	// ErrTopicNotFound indicates topic resolution failed within a resolved course.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrQuestionNotFound indicates question resolution failed within a resolved topic.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrCourseExists indicates a case-insensitive duplicate course name.
	ErrCourseExists = errors.New("course already exists")

	// ErrTopicExists indicates a case-insensitive duplicate topic name within a course.
	ErrTopicExists = errors.New("topic already exists in this course")

	// ErrQuestionExists indicates a case-insensitive duplicate question text within a topic.
	ErrQuestionExists = errors.New("question already exists")
)

// ValidationError reports a missing or malformed request field. Detected
// before any mutation is applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError represents a catalog load or save failure. Store failures abort
// the operation and are reported to the caller; a failed read is never
// substituted with an empty catalog.
type StoreError struct {
	Store string
	Op    string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("catalog %s failed on store %s: %v", e.Op, e.Store, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a StoreError unless it already is one.
func NewStoreError(store, op string, err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Store: store, Op: op, Err: err}
}
