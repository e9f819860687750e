package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder           = errors.New("order has no purchasable lines")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrProductNotFound      = errors.New("product not found")
	ErrInactiveProduct      = errors.New("product is not available for sale")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrPersistence          = errors.New("storage failure")
)

// ProductError names the product that failed to resolve. It matches
// ErrProductNotFound under errors.Is whether the product is missing or
// inactive; inactive products additionally match ErrInactiveProduct.
type ProductError struct {
	ProductID string
	Err       error
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.ProductID)
}

func (e *ProductError) Unwrap() error { return e.Err }

func (e *ProductError) Is(target error) bool { return target == ErrProductNotFound }

// InsufficientStockError names the product whose stock could not cover the
// request. Available is -1 when the shortfall was detected by the
// conditional decrement and the current level is unknown.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Available < 0 {
		return fmt.Sprintf("insufficient stock for %s (need %d)", e.ProductID, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for %s (need %d, have %d)", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// PersistenceError wraps a storage fault with the step that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
