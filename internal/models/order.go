package models

import "time"

// Order statuses. New orders always start as pending; later transitions
// happen through the admin back office, outside this service.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderRequest is the incoming checkout payload. Totals are computed on the
// client and stored as supplied; the server validates presence, not arithmetic.
type OrderRequest struct {
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerAddress string          `json:"customer_address"`
	Governorate     string          `json:"governorate"`
	PaymentMethod   string          `json:"payment_method"`
	Notes           string          `json:"notes,omitempty"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	Items           []RequestedItem `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	DeliveryFee     float64         `json:"delivery_fee"`
	DiscountAmount  float64         `json:"discount_amount,omitempty"`
	Total           float64         `json:"total"`
	UserID          string          `json:"user_id,omitempty"`
}

// RequestedItem is one cart line as submitted by the client. ProductID may be
// empty for ad-hoc items that are not tracked in the catalog.
type RequestedItem struct {
	ProductID    string  `json:"product_id,omitempty"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
}

// Order is the persisted order header with denormalized customer fields.
type Order struct {
	ID               string    `json:"id" db:"id"`
	OrderNumber      string    `json:"order_number" db:"order_number"`
	CustomerName     string    `json:"customer_name" db:"customer_name"`
	CustomerPhone    string    `json:"customer_phone" db:"customer_phone"`
	CustomerEmail    string    `json:"customer_email,omitempty" db:"customer_email"`
	CustomerAddress  string    `json:"customer_address" db:"customer_address"`
	Governorate      string    `json:"governorate" db:"governorate"`
	PaymentMethod    string    `json:"payment_method" db:"payment_method"`
	Notes            string    `json:"notes,omitempty" db:"notes"`
	CouponCode       string    `json:"coupon_code,omitempty" db:"coupon_code"`
	Subtotal         float64   `json:"subtotal" db:"subtotal"`
	DeliveryFee      float64   `json:"delivery_fee" db:"delivery_fee"`
	DiscountAmount   float64   `json:"discount_amount" db:"discount_amount"`
	Total            float64   `json:"total" db:"total"`
	Status           string    `json:"status" db:"status"`
	PaymentConfirmed bool      `json:"payment_confirmed" db:"payment_confirmed"`
	UserID           string    `json:"user_id,omitempty" db:"user_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// OrderLineItem is a persisted order line. ProductID is empty for ad-hoc
// items; name and price are snapshots taken at order time.
type OrderLineItem struct {
	ID           string  `json:"id" db:"id"`
	OrderID      string  `json:"order_id" db:"order_id"`
	ProductID    string  `json:"product_id,omitempty" db:"product_id"`
	ProductName  string  `json:"product_name" db:"product_name"`
	ProductPrice float64 `json:"product_price" db:"product_price"`
	Quantity     int     `json:"quantity" db:"quantity"`
}
