package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired = errors.New("auth required")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation")

	ErrDiscountNotFound = errors.New("discount code not found")
	ErrDiscountExpired  = errors.New("discount code expired")

	ErrProductUnavailable = errors.New("product unavailable")
)

// BelowMinimumError reports a discount code rejected because the subtotal
// did not reach the code's minimum qualifying amount. It carries the
// minimum so handlers can build the user-facing message.
type BelowMinimumError struct {
	Code      string
	MinAmount int64
	Subtotal  int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("discount %s requires a minimum amount of %d, got %d", e.Code, e.MinAmount, e.Subtotal)
}

func IsBelowMinimum(err error) bool {
	var bm *BelowMinimumError
	return errors.As(err, &bm)
}
