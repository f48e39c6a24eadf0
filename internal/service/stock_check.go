package service

import (
	"github.com/hanastore/checkout-api/internal/models"
)

// trackedProductIDs returns the distinct non-empty product ids in the
// request, preserving first-seen order.
func trackedProductIDs(items []models.RequestedItem) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}
	return ids
}

// validateStock checks each tracked line item against the catalog snapshot
// and fails fast on the first rejection. Ad-hoc items (no product id) always
// pass. The check is advisory: the snapshot is not locked and may be stale by
// the time stock is decremented.
func validateStock(items []models.RequestedItem, snapshot map[string]models.ProductStock) error {
	for _, item := range items {
		if item.ProductID == "" {
			continue
		}

		stock, ok := snapshot[item.ProductID]
		if !ok {
			return &ProductNotFoundError{Name: item.ProductName}
		}

		if !stock.InStock {
			remaining := -1
			if stock.StockCount != nil {
				remaining = *stock.StockCount
			}
			return &OutOfStockError{Name: item.ProductName, Remaining: remaining}
		}

		// A nil count means inventory is not tracked for this product.
		if stock.StockCount != nil && *stock.StockCount < item.Quantity {
			return &OutOfStockError{Name: item.ProductName, Remaining: *stock.StockCount}
		}
	}
	return nil
}

// stockDecrements aggregates requested quantities per tracked product id.
// Ad-hoc items are excluded.
func stockDecrements(items []models.RequestedItem) []models.StockDecrement {
	totals := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			continue
		}
		if _, ok := totals[item.ProductID]; !ok {
			order = append(order, item.ProductID)
		}
		totals[item.ProductID] += item.Quantity
	}

	decrements := make([]models.StockDecrement, 0, len(order))
	for _, id := range order {
		decrements = append(decrements, models.StockDecrement{ProductID: id, Quantity: totals[id]})
	}
	return decrements
}
