package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrCartNotLoaded indicates an aggregate operation was attempted
	// before a cart was taken into the aggregate.
	ErrCartNotLoaded = errors.New("cart not loaded")

	// ErrStoreNotFound indicates the cart references a missing store.
	ErrStoreNotFound = errors.New("store not found")

	// ErrCurrencyNotRegistered indicates the cart currency is not in the
	// registered currency list.
	ErrCurrencyNotRegistered = errors.New("currency not registered")
)

// InvalidReferenceError indicates a selection referencing something no
// longer offered, such as an unknown shipping or payment method.
type InvalidReferenceError struct {
	Kind  string
	Value string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.Value)
}

// NewUnknownShippingMethodError builds the rejection for a method+option
// pair absent from the currently available shipping rates.
func NewUnknownShippingMethodError(code, option string) error {
	value := code
	if option != "" {
		value = code + ":" + option
	}
	return &InvalidReferenceError{Kind: "shipping method", Value: value}
}

// NewUnknownPaymentMethodError builds the rejection for a gateway code
// absent from the currently available payment methods.
func NewUnknownPaymentMethodError(code string) error {
	return &InvalidReferenceError{Kind: "payment method", Value: code}
}
