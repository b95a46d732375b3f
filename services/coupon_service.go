package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zavattaro/modinha-boutique-app/entity"
	"github.com/zavattaro/modinha-boutique-app/repository"
	"gorm.io/gorm"
)

// CommissionRate is the fixed share of the order value credited to the
// affiliate, independent of the coupon's own discount rate.
const CommissionRate = 0.10

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrAffiliateInactive  = errors.New("affiliate inactive")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponExhausted    = errors.New("coupon exhausted")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type CouponService struct {
	Repo    *repository.CouponRepository
	Timeout time.Duration

	now func() time.Time // override in tests
}

func NewCouponService(repo *repository.CouponRepository, timeout time.Duration) *CouponService {
	return &CouponService{Repo: repo, Timeout: timeout, now: time.Now}
}

type ValidationResult struct {
	Coupon           *entity.Coupon `json:"coupon"`
	DiscountAmount   int64          `json:"discountAmount"`
	CommissionAmount int64          `json:"commissionAmount"`
	FinalAmount      int64          `json:"finalAmount"`
}

// Validate checks a coupon code against an order amount (centavos, subtotal
// plus shipping) and computes discount, commission and final amounts.
// Read-only: the checkout UI calls it on every keystroke before the
// customer commits, so it must leave no trace.
func (s *CouponService) Validate(ctx context.Context, code string, orderAmount int64) (*ValidationResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || orderAmount <= 0 {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	coupon, err := s.Repo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, storageErr(err)
	}

	// A suspended affiliate suspends its coupons transitively; the
	// coupon's own status field stays untouched.
	if coupon.Affiliate.Status != entity.StatusActive {
		return nil, ErrAffiliateInactive
	}
	if coupon.ValidUntil != nil && coupon.ValidUntil.Before(s.now()) {
		return nil, ErrCouponExpired
	}
	if coupon.MaxUsage != nil && coupon.UsageCount >= *coupon.MaxUsage {
		return nil, ErrCouponExhausted
	}

	discount := PercentOf(orderAmount, coupon.DiscountRate)
	commission := PercentOf(orderAmount, CommissionRate*100)
	final := orderAmount - discount - commission
	if final < 0 {
		final = 0
	}

	return &ValidationResult{
		Coupon:           coupon,
		DiscountAmount:   discount,
		CommissionAmount: commission,
		FinalAmount:      final,
	}, nil
}

// PercentOf applies a percentage to an amount in centavos, rounding half up.
func PercentOf(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate / 100))
}

// storageErr folds timeouts and unexpected storage failures into the
// retryable taxonomy.
func storageErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrStorageUnavailable
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
