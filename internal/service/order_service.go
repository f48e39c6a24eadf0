package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hanastore/checkout-api/internal/event"
	"github.com/hanastore/checkout-api/internal/models"
	"github.com/hanastore/checkout-api/internal/ordernum"
	"github.com/hanastore/checkout-api/internal/repository"
)

// OrderService runs the checkout pipeline: request validation, stock check,
// order persistence with compensation, then best-effort stock and coupon
// bookkeeping. Once the order and its items are durably written the order
// stands; later bookkeeping failures are logged, never rolled back.
type OrderService struct {
	catalog    repository.CatalogRepository
	orders     repository.OrderRepository
	coupons    repository.CouponRepository
	numbers    ordernum.Generator
	dispatcher event.Dispatcher
	log        *slog.Logger
}

// NewOrderService creates the checkout pipeline service. dispatcher may be
// nil when no post-checkout consumers are wired.
func NewOrderService(
	catalog repository.CatalogRepository,
	orders repository.OrderRepository,
	coupons repository.CouponRepository,
	numbers ordernum.Generator,
	dispatcher event.Dispatcher,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		catalog:    catalog,
		orders:     orders,
		coupons:    coupons,
		numbers:    numbers,
		dispatcher: dispatcher,
		log:        log,
	}
}

// CreateOrder turns a finalized cart into a durable order record.
//
// Nothing is persisted until validation and the stock check pass. The header
// and items are two sequential writes; if the item batch fails the header is
// deleted again so no order exists without its items. Stock decrement and
// coupon accounting run after the order is durable and cannot fail it.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ids := trackedProductIDs(req.Items)
	if len(ids) > 0 {
		snapshot, err := s.catalog.StockByIDs(ctx, ids)
		if err != nil {
			s.log.Error("failed to read stock snapshot", "error", err, "product_ids", ids)
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		if err := validateStock(req.Items, snapshot); err != nil {
			return nil, err
		}
	}

	order := s.buildOrder(req)
	if err := s.orders.Insert(ctx, order); err != nil {
		s.log.Error("failed to insert order header",
			"error", err,
			"order_number", order.OrderNumber,
		)
		return nil, fmt.Errorf("%w: %v", ErrOrderPersistence, err)
	}

	items := buildLineItems(order.ID, req.Items)
	if err := s.orders.InsertItems(ctx, items); err != nil {
		s.log.Error("failed to insert order items, rolling back header",
			"error", err,
			"order_id", order.ID,
			"order_number", order.OrderNumber,
		)
		// Best-effort compensation. If the delete also fails we are left
		// with an orphaned header for manual cleanup.
		if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
			s.log.Error("compensating delete failed, orphaned order header",
				"error", delErr,
				"order_id", order.ID,
				"order_number", order.OrderNumber,
			)
		}
		return nil, fmt.Errorf("%w: %v", ErrOrderItemsPersistence, err)
	}

	// The order is durable from here on. Everything below is bookkeeping
	// that an operator can reconcile manually if it fails.
	if decrements := stockDecrements(req.Items); len(decrements) > 0 {
		if err := s.catalog.DecrementStock(ctx, decrements); err != nil {
			s.log.Error("stock reconciliation failed",
				"error", err,
				"order_id", order.ID,
				"order_number", order.OrderNumber,
			)
		}
	}

	if order.CouponCode != "" {
		if err := s.coupons.IncrementUsage(ctx, order.CouponCode); err != nil {
			s.log.Error("coupon usage accounting failed",
				"error", err,
				"order_id", order.ID,
				"coupon_code", order.CouponCode,
			)
		}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Dispatch(event.OrderCreated{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			CustomerEmail: order.CustomerEmail,
			Total:         order.Total,
		})
	}

	s.log.Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"items_count", len(items),
		"total", order.Total,
	)
	return order, nil
}

// TrackOrder looks up an order by its number and the customer's phone.
func (s *OrderService) TrackOrder(ctx context.Context, orderNumber, phone string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	phone = strings.TrimSpace(phone)
	if orderNumber == "" {
		return nil, &InvalidRequestError{Field: "order_number"}
	}
	if phone == "" {
		return nil, &InvalidRequestError{Field: "phone"}
	}
	return s.orders.FindByNumberAndPhone(ctx, orderNumber, phone)
}

func (s *OrderService) buildOrder(req models.OrderRequest) *models.Order {
	now := time.Now().UTC()
	return &models.Order{
		ID:               uuid.New().String(),
		OrderNumber:      s.numbers.Next(now),
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerPhone:    strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:    strings.TrimSpace(req.CustomerEmail),
		CustomerAddress:  strings.TrimSpace(req.CustomerAddress),
		Governorate:      strings.TrimSpace(req.Governorate),
		PaymentMethod:    strings.TrimSpace(req.PaymentMethod),
		Notes:            strings.TrimSpace(req.Notes),
		CouponCode:       strings.TrimSpace(req.CouponCode),
		Subtotal:         req.Subtotal,
		DeliveryFee:      req.DeliveryFee,
		DiscountAmount:   req.DiscountAmount,
		Total:            req.Total,
		Status:           models.OrderStatusPending,
		PaymentConfirmed: false,
		UserID:           req.UserID,
		CreatedAt:        now,
	}
}

func buildLineItems(orderID string, items []models.RequestedItem) []models.OrderLineItem {
	rows := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.OrderLineItem{
			ID:           uuid.New().String(),
			OrderID:      orderID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		})
	}
	return rows
}

// validateRequest checks required fields after trimming. Totals are taken as
// supplied by the client and not recomputed here.
func validateRequest(req models.OrderRequest) error {
	required := []struct {
		field string
		value string
	}{
		{"customer_name", req.CustomerName},
		{"customer_phone", req.CustomerPhone},
		{"customer_address", req.CustomerAddress},
		{"governorate", req.Governorate},
		{"payment_method", req.PaymentMethod},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &InvalidRequestError{Field: f.field}
		}
	}

	if len(req.Items) == 0 {
		return &InvalidRequestError{Field: "items"}
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return &InvalidRequestError{Field: "items.product_name"}
		}
		if item.Quantity < 1 {
			return &InvalidRequestError{Field: "items.quantity"}
		}
	}
	return nil
}
