package service

import (
	"errors"
	"fmt"
)

// Failures before the order header is written roll back to a clean state and
// reach the caller. Stock reconciliation and coupon accounting failures after
// persistence are logged only and never surface here.
var (
	ErrCatalogUnavailable    = errors.New("catalog unavailable")
	ErrOrderPersistence      = errors.New("failed to persist order")
	ErrOrderItemsPersistence = errors.New("failed to persist order items")
)

// InvalidRequestError reports a missing or empty required request field.
type InvalidRequestError struct {
	Field string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: missing %s", e.Field)
}

// ProductNotFoundError reports a requested product id absent from the catalog.
type ProductNotFoundError struct {
	Name string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.Name)
}

// OutOfStockError reports insufficient stock for a requested line item.
// Remaining is the tracked count at validation time, -1 when the product is
// simply flagged unavailable.
type OutOfStockError struct {
	Name      string
	Remaining int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: %s, available: %d", e.Name, e.Remaining)
}
