package abac

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a curve or point id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when an operation needs state that is unset.
	ErrInvalidState = errors.New("invalid state")
)

// NotFoundError names the missing object.
type NotFoundError struct {
	Kind string // "curve", "point" or "graph"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func curveNotFound(id string) error {
	return &NotFoundError{Kind: "curve", ID: id}
}

func pointNotFound(id string) error {
	return &NotFoundError{Kind: "point", ID: id}
}
