package errors

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput       = errors.New("no feedback records to export")
	ErrEmptyStudentID   = errors.New("student id is required")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrUnknownSortMode  = errors.New("unknown sort mode")
)

// ValidationError rejects a submission before any record is touched.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

func NewValidationError(field string, value interface{}, err error) error {
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: err.Error(),
		Err:     err,
	}
}

// PersistenceError means the durable store refused a read or write.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s of %q failed: %s", e.Op, e.Key, e.Err.Error())
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op, key string, err error) error {
	return PersistenceError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// MalformedStateError is raised while loading persisted state that cannot be decoded.
type MalformedStateError struct {
	Key string
	Err error
}

func (e MalformedStateError) Error() string {
	return fmt.Sprintf("malformed persisted state under %q: %s", e.Key, e.Err.Error())
}

func (e MalformedStateError) Unwrap() error {
	return e.Err
}

func NewMalformedStateError(key string, err error) error {
	return MalformedStateError{
		Key: key,
		Err: err,
	}
}

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

func IsPersistence(err error) bool {
	var p PersistenceError
	return errors.As(err, &p)
}

func IsMalformedState(err error) bool {
	var m MalformedStateError
	return errors.As(err, &m)
}
