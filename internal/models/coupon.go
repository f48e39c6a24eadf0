package models

import "time"

// Discount types supported by coupons.
const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

// Coupon is the store-defined coupon read model. MaxUses == 0 means
// unlimited; ExpiresAt nil means no expiry.
type Coupon struct {
	Code          string     `db:"code"`
	DiscountType  string     `db:"discount_type"`
	DiscountValue float64    `db:"discount_value"`
	MinOrderValue float64    `db:"min_order_value"`
	MaxUses       int        `db:"max_uses"`
	UsedCount     int        `db:"used_count"`
	Active        bool       `db:"active"`
	ExpiresAt     *time.Time `db:"expires_at"`
}
