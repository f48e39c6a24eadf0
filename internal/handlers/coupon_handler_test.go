package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hanastore/checkout-api/internal/models"
	"github.com/hanastore/checkout-api/internal/repository"
	"github.com/hanastore/checkout-api/internal/service"
	"github.com/hanastore/checkout-api/pkg/logger"
)

func TestCouponHandler_ValidateCoupon(t *testing.T) {
	couponRepo := repository.NewInMemoryCouponRepository()
	couponRepo.SeedCoupon(models.Coupon{
		Code: "TEN", DiscountType: models.DiscountTypePercent, DiscountValue: 10, Active: true,
	})
	expired := time.Now().Add(-24 * time.Hour)
	couponRepo.SeedCoupon(models.Coupon{
		Code: "OLD", DiscountType: models.DiscountTypeFixed, DiscountValue: 5, Active: true, ExpiresAt: &expired,
	})

	log := logger.New("error")
	handler := NewCouponHandler(service.NewCouponService(couponRepo), log)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		wantValid      bool
		wantDiscount   float64
	}{
		{
			name:           "valid percent coupon",
			requestBody:    validateCouponRequest{Code: "TEN", Subtotal: 200},
			expectedStatus: http.StatusOK,
			wantValid:      true,
			wantDiscount:   20,
		},
		{
			name:           "unknown code",
			requestBody:    validateCouponRequest{Code: "GHOST", Subtotal: 200},
			expectedStatus: http.StatusOK,
			wantValid:      false,
		},
		{
			name:           "expired code",
			requestBody:    validateCouponRequest{Code: "OLD", Subtotal: 200},
			expectedStatus: http.StatusOK,
			wantValid:      false,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatalf("failed to marshal request: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.ValidateCoupon(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp validateCouponResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", resp.Valid, tt.wantValid)
			}
			if tt.wantValid && resp.DiscountAmount != tt.wantDiscount {
				t.Errorf("discount = %f, want %f", resp.DiscountAmount, tt.wantDiscount)
			}
			if !tt.wantValid && resp.Message == "" {
				t.Error("rejection should carry a user-facing message")
			}
		})
	}
}
