package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/zavattaro/modinha-boutique-app/entity"
	"github.com/zavattaro/modinha-boutique-app/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrTransactionWriteFailed = errors.New("transaction write failed")

// Settlement stages, reported on failure so reconciliation knows where a
// settlement died.
const (
	StageTransaction = "transaction"
	StageCoupon      = "coupon"
	StageAffiliate   = "affiliate"
)

type SettlementError struct {
	Stage string
	Err   error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed at %s stage: %v", e.Stage, e.Err)
}

func (e *SettlementError) Unwrap() error { return e.Err }

// SettleOrder carries the amounts a prior Validate produced. Settle trusts
// them; the server-side checkout path always derives them from a fresh
// validation in the same request.
type SettleOrder struct {
	OriginalAmount   int64          `json:"originalAmount"`
	DiscountAmount   int64          `json:"discountAmount"`
	CommissionAmount int64          `json:"commissionAmount"`
	FinalAmount      int64          `json:"finalAmount"`
	OrderReference   string         `json:"orderReference"`
	CustomerInfo     map[string]any `json:"customerInfo"`
}

type SettlementService struct {
	DB         *gorm.DB
	Coupons    *repository.CouponRepository
	Affiliates *repository.AffiliateRepository
	Timeout    time.Duration
}

func NewSettlementService(db *gorm.DB, coupons *repository.CouponRepository, affiliates *repository.AffiliateRepository, timeout time.Duration) *SettlementService {
	return &SettlementService{DB: db, Coupons: coupons, Affiliates: affiliates, Timeout: timeout}
}

// Settle records one coupon use: an append-only ledger row, a usage bump
// and a balance credit. All three run in a single DB transaction, and the
// two counters are guarded single-statement updates, so concurrent
// settlements of the same coupon cannot push usage past max_usage or lose
// a commission increment.
func (s *SettlementService) Settle(ctx context.Context, couponID uint, order SettleOrder) (*entity.CouponTransaction, error) {
	affiliateID, ok := affiliateIDFrom(order.CustomerInfo)
	if couponID == 0 || order.OrderReference == "" || !ok {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	row := &entity.CouponTransaction{
		CouponID:         couponID,
		AffiliateID:      affiliateID,
		OrderReference:   order.OrderReference,
		OriginalAmount:   order.OriginalAmount,
		DiscountAmount:   order.DiscountAmount,
		CommissionAmount: order.CommissionAmount,
		FinalAmount:      order.FinalAmount,
		CustomerInfo:     datatypes.JSONMap(order.CustomerInfo),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Coupons.CreateTransaction(tx, row); err != nil {
			return &SettlementError{Stage: StageTransaction, Err: fmt.Errorf("%w: %v", ErrTransactionWriteFailed, err)}
		}

		n, err := s.Coupons.IncrementUsage(tx, couponID)
		if err != nil {
			return &SettlementError{Stage: StageCoupon, Err: storageErr(err)}
		}
		if n == 0 {
			// Guard refused: cap reached, or the coupon vanished or
			// went inactive between validation and confirmation.
			return &SettlementError{Stage: StageCoupon, Err: ErrCouponExhausted}
		}

		n, err = s.Affiliates.CreditBalance(tx, affiliateID, order.CommissionAmount)
		if err != nil {
			return &SettlementError{Stage: StageAffiliate, Err: storageErr(err)}
		}
		if n == 0 {
			return &SettlementError{Stage: StageAffiliate, Err: ErrInvalidInput}
		}
		return nil
	})
	if err != nil {
		log.Printf("settlement for coupon %d order %s failed: %v", couponID, order.OrderReference, err)
		return nil, err
	}

	return row, nil
}

// affiliateIDFrom pulls the affiliateId key out of the opaque customer
// payload. JSON decoding hands numbers over as float64.
func affiliateIDFrom(info map[string]any) (uint, bool) {
	if info == nil {
		return 0, false
	}
	switch v := info["affiliateId"].(type) {
	case float64:
		if v > 0 {
			return uint(v), true
		}
	case int:
		if v > 0 {
			return uint(v), true
		}
	case int64:
		if v > 0 {
			return uint(v), true
		}
	case uint:
		if v > 0 {
			return v, true
		}
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil && id > 0 {
			return uint(id), true
		}
	}
	return 0, false
}
