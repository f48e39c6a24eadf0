package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/hanastore/checkout-api/internal/models"
)

const mysqlErrDuplicateEntry = 1062

// MySQLCatalogRepository implements CatalogRepository against MySQL.
type MySQLCatalogRepository struct {
	db *sqlx.DB
}

// NewMySQLCatalogRepository creates a MySQL-backed catalog repository.
func NewMySQLCatalogRepository(db *sqlx.DB) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db}
}

// StockByIDs reads the stock snapshot for the requested ids in one query.
func (r *MySQLCatalogRepository) StockByIDs(ctx context.Context, ids []string) (map[string]models.ProductStock, error) {
	if len(ids) == 0 {
		return map[string]models.ProductStock{}, nil
	}

	query, args, err := sqlx.In(`SELECT id, stock_count, in_stock FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build stock query: %w", err)
	}

	var rows []models.ProductStock
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to read stock: %w", err)
	}

	snapshot := make(map[string]models.ProductStock, len(rows))
	for _, row := range rows {
		snapshot[row.ID] = row
	}
	return snapshot, nil
}

// DecrementStock applies all decrements in a single UPDATE statement so the
// batch is atomic at the store. Untracked rows (NULL stock_count) are
// excluded by the WHERE clause; counts are allowed to go negative.
func (r *MySQLCatalogRepository) DecrementStock(ctx context.Context, decrements []models.StockDecrement) error {
	if len(decrements) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("UPDATE products SET stock_count = CASE id")

	args := make([]interface{}, 0, len(decrements)*2+len(decrements))
	for _, d := range decrements {
		b.WriteString(" WHEN ? THEN stock_count - ?")
		args = append(args, d.ProductID, d.Quantity)
	}
	b.WriteString(" ELSE stock_count END WHERE stock_count IS NOT NULL AND id IN (")
	for i, d := range decrements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("?")
		args = append(args, d.ProductID)
	}
	b.WriteString(")")

	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	return nil
}

// MySQLOrderRepository implements OrderRepository against MySQL.
type MySQLOrderRepository struct {
	db *sqlx.DB
}

// NewMySQLOrderRepository creates a MySQL-backed order repository.
func NewMySQLOrderRepository(db *sqlx.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Insert stores the order header. A duplicate order number violates the
// unique key and is reported as ErrDuplicateOrderNumber.
func (r *MySQLOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, customer_name, customer_phone, customer_email,
			customer_address, governorate, payment_method, notes, coupon_code,
			subtotal, delivery_fee, discount_amount, total, status,
			payment_confirmed, user_id, created_at
		) VALUES (
			:id, :order_number, :customer_name, :customer_phone, :customer_email,
			:customer_address, :governorate, :payment_method, :notes, :coupon_code,
			:subtotal, :delivery_fee, :discount_amount, :total, :status,
			:payment_confirmed, :user_id, :created_at
		)`, order)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// InsertItems stores all line items as one multi-row insert.
func (r *MySQLOrderRepository) InsertItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, product_name, product_price, quantity)
		VALUES (:id, :order_id, :product_id, :product_name, :product_price, :quantity)`, items)
	if err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

// Delete removes the order header; line items follow via ON DELETE CASCADE.
func (r *MySQLOrderRepository) Delete(ctx context.Context, orderID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// FindByNumberAndPhone looks up an order for customer-facing tracking.
func (r *MySQLOrderRepository) FindByNumberAndPhone(ctx context.Context, orderNumber, phone string) (*models.Order, error) {
	var order models.Order
	err := r.db.GetContext(ctx, &order, `
		SELECT id, order_number, customer_name, customer_phone, customer_email,
		       customer_address, governorate, payment_method, notes, coupon_code,
		       subtotal, delivery_fee, discount_amount, total, status,
		       payment_confirmed, user_id, created_at
		FROM orders
		WHERE order_number = ? AND customer_phone = ?`, orderNumber, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

// MySQLCouponRepository implements CouponRepository against MySQL.
type MySQLCouponRepository struct {
	db *sqlx.DB
}

// NewMySQLCouponRepository creates a MySQL-backed coupon repository.
func NewMySQLCouponRepository(db *sqlx.DB) *MySQLCouponRepository {
	return &MySQLCouponRepository{db: db}
}

// GetByCode returns the coupon with the given code.
func (r *MySQLCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.GetContext(ctx, &coupon, `
		SELECT code, discount_type, discount_value, min_order_value,
		       max_uses, used_count, active, expires_at
		FROM coupons
		WHERE code = ?`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}
	return &coupon, nil
}

// IncrementUsage bumps the usage counter in a single atomic UPDATE.
func (r *MySQLCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE coupons SET used_count = used_count + 1 WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCouponNotFound
	}
	return nil
}
