package catalog

import "errors"

var (
	// ErrInvalidDiscount is returned for a percentage outside [0, 100].
	ErrInvalidDiscount = errors.New("invalid discount")
	// ErrUnknownCategory is returned for text or values that are not a declared category.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNegativePrice is returned when an item would be built with a price below zero.
	ErrNegativePrice = errors.New("negative price")
	// ErrInvalidPrice is returned for NaN or infinite prices.
	ErrInvalidPrice = errors.New("invalid price")
)
