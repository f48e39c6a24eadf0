package repository

import (
	"context"
	"sync"

	"github.com/hanastore/checkout-api/internal/models"
)

// InMemoryCatalogRepository implements CatalogRepository with in-memory
// storage. Used in tests and when no database is configured.
type InMemoryCatalogRepository struct {
	mu       sync.Mutex
	products map[string]models.ProductStock
}

// NewInMemoryCatalogRepository creates an empty in-memory catalog.
func NewInMemoryCatalogRepository() *InMemoryCatalogRepository {
	return &InMemoryCatalogRepository{
		products: make(map[string]models.ProductStock),
	}
}

// SeedProduct adds or replaces a product's stock record.
func (r *InMemoryCatalogRepository) SeedProduct(id string, stockCount *int, inStock bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[id] = models.ProductStock{ID: id, StockCount: stockCount, InStock: inStock}
}

// StockByIDs returns the stock snapshot for the requested ids. Unknown ids
// are omitted from the result.
func (r *InMemoryCatalogRepository) StockByIDs(ctx context.Context, ids []string) (map[string]models.ProductStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]models.ProductStock, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			// Copy the count so later decrements don't mutate the snapshot.
			if p.StockCount != nil {
				count := *p.StockCount
				p.StockCount = &count
			}
			snapshot[id] = p
		}
	}
	return snapshot, nil
}

// DecrementStock applies all decrements under one lock acquisition, matching
// the single atomic batch primitive of the real store. Counts may go
// negative; untracked products are skipped.
func (r *InMemoryCatalogRepository) DecrementStock(ctx context.Context, decrements []models.StockDecrement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range decrements {
		p, ok := r.products[d.ProductID]
		if !ok || p.StockCount == nil {
			continue
		}
		count := *p.StockCount - d.Quantity
		p.StockCount = &count
		r.products[d.ProductID] = p
	}
	return nil
}

// StockCount returns the current count for a product, or nil if untracked or
// unknown. Test helper.
func (r *InMemoryCatalogRepository) StockCount(id string) *int {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || p.StockCount == nil {
		return nil
	}
	count := *p.StockCount
	return &count
}

// InMemoryOrderRepository implements OrderRepository with in-memory storage.
type InMemoryOrderRepository struct {
	mu      sync.Mutex
	orders  map[string]models.Order
	items   map[string][]models.OrderLineItem
	numbers map[string]bool
}

// NewInMemoryOrderRepository creates an empty in-memory order store.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders:  make(map[string]models.Order),
		items:   make(map[string][]models.OrderLineItem),
		numbers: make(map[string]bool),
	}
}

// Insert stores the order header. The order number column is unique; a
// duplicate number is rejected the way the real store's constraint would.
func (r *InMemoryOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.numbers[order.OrderNumber] {
		return ErrDuplicateOrderNumber
	}
	r.orders[order.ID] = *order
	r.numbers[order.OrderNumber] = true
	return nil
}

// InsertItems stores all line items in one batch.
func (r *InMemoryOrderRepository) InsertItems(ctx context.Context, items []models.OrderLineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.OrderID] = append(r.items[item.OrderID], item)
	}
	return nil
}

// Delete removes the order header and any of its items.
func (r *InMemoryOrderRepository) Delete(ctx context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	delete(r.orders, orderID)
	delete(r.items, orderID)
	delete(r.numbers, order.OrderNumber)
	return nil
}

// FindByNumberAndPhone looks up an order for customer-facing tracking.
func (r *InMemoryOrderRepository) FindByNumberAndPhone(ctx context.Context, orderNumber, phone string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range r.orders {
		if order.OrderNumber == orderNumber && order.CustomerPhone == phone {
			o := order
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// OrderCount returns the number of stored order headers. Test helper.
func (r *InMemoryOrderRepository) OrderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// ItemsFor returns the stored line items of an order. Test helper.
func (r *InMemoryOrderRepository) ItemsFor(orderID string) []models.OrderLineItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.OrderLineItem(nil), r.items[orderID]...)
}

// InMemoryCouponRepository implements CouponRepository with in-memory storage.
type InMemoryCouponRepository struct {
	mu      sync.Mutex
	coupons map[string]models.Coupon
}

// NewInMemoryCouponRepository creates an empty in-memory coupon store.
func NewInMemoryCouponRepository() *InMemoryCouponRepository {
	return &InMemoryCouponRepository{
		coupons: make(map[string]models.Coupon),
	}
}

// SeedCoupon adds or replaces a coupon.
func (r *InMemoryCouponRepository) SeedCoupon(c models.Coupon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[c.Code] = c
}

// GetByCode returns the coupon with the given code.
func (r *InMemoryCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return &c, nil
}

// IncrementUsage bumps the coupon's usage counter by one, atomically.
func (r *InMemoryCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[code]
	if !ok {
		return ErrCouponNotFound
	}
	c.UsedCount++
	r.coupons[code] = c
	return nil
}
