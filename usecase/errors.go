package usecase

import (
	"errors"
	"fmt"

	"go-shopping/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUnknownEmail       = errors.New("there is no user record corresponding to this email")
	ErrForbidden          = errors.New("forbidden")
	ErrOwnProduct         = errors.New("you cannot add your own product to the cart")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrAlreadyInCart      = errors.New("product is already in the cart")
	ErrStockLimit         = errors.New("stock limit reached")
	ErrNothingToOrder     = errors.New("there is nothing to order")
	ErrSettlement         = errors.New("order settlement failed")
	ErrAlreadySettled     = errors.New("order is already settled")
	ErrCartChanged        = errors.New("the cart changed since the order was placed")
)

// ValidationError rejects user input before any remote call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StockLimitError is returned when the cart quantity already equals the stock
type StockLimitError struct {
	Available int64
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("Only %d items available", e.Available)
}

func (e *StockLimitError) Is(target error) bool { return target == ErrStockLimit }

// SettlementError means the order document was written but the stock, cart
// and sold product writes were not. Order can be settled again later.
type SettlementError struct {
	Order models.Order
	Err   error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("order %s was placed but could not be settled: %v", e.Order.ID, e.Err)
}

func (e *SettlementError) Unwrap() []error { return []error{ErrSettlement, e.Err} }
