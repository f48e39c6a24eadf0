package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hanastore/checkout-api/internal/models"
	"github.com/hanastore/checkout-api/internal/repository"
)

// Coupon rejection reasons returned by Validate.
var (
	ErrCouponInvalid   = errors.New("coupon is not valid")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)

// CouponMinOrderError reports a subtotal below the coupon's minimum.
type CouponMinOrderError struct {
	MinOrderValue float64
}

func (e *CouponMinOrderError) Error() string {
	return fmt.Sprintf("order subtotal below coupon minimum of %.2f", e.MinOrderValue)
}

// CouponService validates coupon codes and computes discounts. It runs
// before checkout; the order pipeline itself only increments the usage
// counter and trusts the discount the client carries over.
type CouponService struct {
	coupons repository.CouponRepository
	now     func() time.Time
}

// NewCouponService creates a coupon service.
func NewCouponService(coupons repository.CouponRepository) *CouponService {
	return &CouponService{
		coupons: coupons,
		now:     time.Now,
	}
}

// Validate checks the code against the coupon store and returns the discount
// amount for the given subtotal. Percent discounts are capped at the
// subtotal; fixed discounts likewise never exceed it.
func (s *CouponService) Validate(ctx context.Context, code string, subtotal float64) (float64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, ErrCouponInvalid
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return 0, ErrCouponInvalid
		}
		return 0, fmt.Errorf("failed to look up coupon: %w", err)
	}

	if !coupon.Active {
		return 0, ErrCouponInvalid
	}
	if coupon.ExpiresAt != nil && s.now().After(*coupon.ExpiresAt) {
		return 0, ErrCouponExpired
	}
	if coupon.MaxUses > 0 && coupon.UsedCount >= coupon.MaxUses {
		return 0, ErrCouponExhausted
	}
	if subtotal < coupon.MinOrderValue {
		return 0, &CouponMinOrderError{MinOrderValue: coupon.MinOrderValue}
	}

	var discount float64
	switch coupon.DiscountType {
	case models.DiscountTypePercent:
		discount = subtotal * coupon.DiscountValue / 100
	case models.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		return 0, ErrCouponInvalid
	}

	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}
