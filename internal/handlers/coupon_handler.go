package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hanastore/checkout-api/internal/service"
)

// CouponHandler handles coupon validation HTTP requests.
type CouponHandler struct {
	couponService *service.CouponService
	log           *slog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(couponService *service.CouponService, log *slog.Logger) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		log:           log,
	}
}

type validateCouponRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

type validateCouponResponse struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount,omitempty"`
	Message        string  `json:"message,omitempty"`
}

// ValidateCoupon handles POST /api/coupons/validate. Business rejections are
// returned as 200 with valid=false so the storefront can show the message
// inline; only malformed requests and store failures are error statuses.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode coupon request", "error", err)
		WriteError(w, http.StatusBadRequest, msgBadRequestBody, h.log)
		return
	}

	discount, err := h.couponService.Validate(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		var minOrder *service.CouponMinOrderError
		var message string
		switch {
		case errors.Is(err, service.ErrCouponInvalid):
			message = msgCouponInvalid
		case errors.Is(err, service.ErrCouponExpired):
			message = msgCouponExpired
		case errors.Is(err, service.ErrCouponExhausted):
			message = msgCouponExhausted
		case errors.As(err, &minOrder):
			message = msgCouponMinOrder
		default:
			h.log.Error("coupon validation failed", "error", err, "code", req.Code)
			WriteError(w, http.StatusInternalServerError, msgInternalError, h.log)
			return
		}
		WriteJSON(w, http.StatusOK, validateCouponResponse{Valid: false, Message: message}, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, validateCouponResponse{Valid: true, DiscountAmount: discount}, h.log)
}
