package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hanastore/checkout-api/internal/models"
	"github.com/hanastore/checkout-api/internal/repository"
	"github.com/hanastore/checkout-api/internal/service"
)

// OrderHandler handles checkout and order-tracking HTTP requests.
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// orderSummary is the success payload of a created order.
type orderSummary struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
}

// createOrderResponse is the success envelope of POST /api/orders.
type createOrderResponse struct {
	Success bool         `json:"success"`
	Order   orderSummary `json:"order"`
}

// CreateOrder handles POST /api/orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, msgBadRequestBody, h.log)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), req)
	if err != nil {
		status, message := checkoutErrorResponse(err)
		h.log.Error("failed to create order", "error", err, "status", status)
		WriteError(w, status, message, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, createOrderResponse{
		Success: true,
		Order: orderSummary{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
		},
	}, h.log)
}

// trackedOrder is the tracking payload: order state without customer PII
// beyond what the caller already supplied.
type trackedOrder struct {
	OrderNumber      string    `json:"order_number"`
	Status           string    `json:"status"`
	PaymentConfirmed bool      `json:"payment_confirmed"`
	Total            float64   `json:"total"`
	CreatedAt        time.Time `json:"created_at"`
}

// TrackOrder handles GET /api/orders/track?order_number=...&phone=...
func (h *OrderHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.URL.Query().Get("order_number")
	phone := r.URL.Query().Get("phone")

	order, err := h.orderService.TrackOrder(r.Context(), orderNumber, phone)
	if err != nil {
		var invalid *service.InvalidRequestError
		switch {
		case errors.As(err, &invalid):
			WriteError(w, http.StatusBadRequest, invalidFieldMessage(invalid.Field), h.log)
		case errors.Is(err, repository.ErrOrderNotFound):
			WriteError(w, http.StatusNotFound, msgOrderNotFound, h.log)
		default:
			h.log.Error("failed to track order", "error", err, "order_number", orderNumber)
			WriteError(w, http.StatusInternalServerError, msgInternalError, h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, trackedOrder{
		OrderNumber:      order.OrderNumber,
		Status:           order.Status,
		PaymentConfirmed: order.PaymentConfirmed,
		Total:            order.Total,
		CreatedAt:        order.CreatedAt,
	}, h.log)
}

// checkoutErrorResponse maps pipeline errors to an HTTP status and a
// user-facing Arabic message. Validation and stock rejections are 400;
// catalog and persistence failures are 500.
func checkoutErrorResponse(err error) (int, string) {
	var (
		invalid    *service.InvalidRequestError
		notFound   *service.ProductNotFoundError
		outOfStock *service.OutOfStockError
	)

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalidFieldMessage(invalid.Field)
	case errors.As(err, &notFound):
		return http.StatusBadRequest, fmt.Sprintf(msgProductNotFound, notFound.Name)
	case errors.As(err, &outOfStock):
		if outOfStock.Remaining < 0 {
			return http.StatusBadRequest, fmt.Sprintf(msgProductUnavailable, outOfStock.Name)
		}
		return http.StatusBadRequest, fmt.Sprintf(msgOutOfStock, outOfStock.Name, outOfStock.Remaining)
	default:
		// CatalogUnavailable and both persistence failures.
		return http.StatusInternalServerError, msgInternalError
	}
}
