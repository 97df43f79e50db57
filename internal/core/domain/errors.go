package domain

import "errors"

var (
	ErrNetwork         = errors.New("catalog request failed")
	ErrDecode          = errors.New("malformed catalog response")
	ErrStorageDecode   = errors.New("malformed stored data")
	ErrNotFound        = errors.New("not found")
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidAction   = errors.New("unknown quantity action")
	ErrCartEmpty       = errors.New("cart is empty")
	ErrStaleResponse   = errors.New("superseded by a newer catalog request")
)
