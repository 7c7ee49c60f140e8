package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidSort      = errors.New("invalid sort key")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidCustomer  = errors.New("invalid customer info")
	ErrCorruptSnapshot  = errors.New("corrupt persisted snapshot")
	ErrSessionNotFound  = errors.New("session not found")
	ErrBackendUnhealthy = errors.New("commerce backend unavailable")
)

// StorageError is returned by persistence backends. It is logged by the stores
// and never surfaced to their callers.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
