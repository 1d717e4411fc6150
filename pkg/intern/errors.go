package intern

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrExhausted is wrapped by every ExhaustedError.
	ErrExhausted = errors.New("interner exhausted")
	// ErrInvalidID is wrapped by every InvalidIDError.
	ErrInvalidID = errors.New("invalid interned id")
	// ErrIndexMismatch is raised when a domain type is bound twice with
	// different index types.
	ErrIndexMismatch = errors.New("index type mismatch")
)

// ExhaustedError reports that a table has used up its index space.
type ExhaustedError struct {
	Table    string
	Capacity int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: %s holds %d values", ErrExhausted, e.Table, e.Capacity)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrExhausted
}

// InvalidIDError reports an ID that the table never issued.
type InvalidIDError struct {
	Table string
	Raw   uint64
	Len   int
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("%s: %s has no slot %d (len %d)", ErrInvalidID, e.Table, e.Raw, e.Len)
}

func (e *InvalidIDError) Unwrap() error {
	return ErrInvalidID
}
