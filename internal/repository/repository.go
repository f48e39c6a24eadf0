package repository

import (
	"context"
	"errors"

	"github.com/hanastore/checkout-api/internal/models"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// CatalogRepository is the checkout pipeline's view of the product catalog:
// a batch stock read and a single atomic batch decrement. Catalog CRUD lives
// elsewhere.
type CatalogRepository interface {
	// StockByIDs returns the stock snapshot for each requested product id.
	// Ids absent from the catalog are simply missing from the result map.
	StockByIDs(ctx context.Context, ids []string) (map[string]models.ProductStock, error)

	// DecrementStock applies all decrements as one atomic batch operation.
	// Untracked products (nil stock count) are left untouched. The stored
	// count may go negative; the availability decision happens earlier, on a
	// snapshot this call does not re-check.
	DecrementStock(ctx context.Context, decrements []models.StockDecrement) error
}

// OrderRepository persists order headers and line items. Insert and
// InsertItems are two separate writes; Delete is the compensating action
// when the second write fails.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	InsertItems(ctx context.Context, items []models.OrderLineItem) error
	Delete(ctx context.Context, orderID string) error
	FindByNumberAndPhone(ctx context.Context, orderNumber, phone string) (*models.Order, error)
}

// CouponRepository exposes the coupon read model and the atomic usage
// counter increment performed after a successful order.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, code string) error
}
