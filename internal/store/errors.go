package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ConnectionError wraps database connection failures
type ConnectionError struct {
	Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Underlying)
}

func (e *ConnectionError) Unwrap() error {
	return e.Underlying
}

// QueryError wraps query execution failures
type QueryError struct {
	Op         string
	Underlying error
}

func (e *QueryError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("query failed: %v", e.Underlying)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Underlying)
}

func (e *QueryError) Unwrap() error {
	return e.Underlying
}

// WrapConnectionError creates a ConnectionError from underlying error
func WrapConnectionError(err error) error {
	return &ConnectionError{Underlying: err}
}

// WrapQueryError creates a QueryError from underlying error
func WrapQueryError(op string, err error) error {
	return &QueryError{Op: op, Underlying: err}
}
