package models

// ProductStock is the catalog's view of a product as seen by the checkout
// pipeline. A nil StockCount means the product's inventory is not tracked.
type ProductStock struct {
	ID         string `db:"id"`
	StockCount *int   `db:"stock_count"`
	InStock    bool   `db:"in_stock"`
}

// StockDecrement is one entry of a batch stock decrement: quantity units of
// the given product were sold.
type StockDecrement struct {
	ProductID string
	Quantity  int
}
