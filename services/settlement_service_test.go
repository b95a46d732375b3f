package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zavattaro/modinha-boutique-app/entity"
	"github.com/zavattaro/modinha-boutique-app/repository"
	"gorm.io/gorm"
)

func newSettlement(db *gorm.DB) *SettlementService {
	return NewSettlementService(db,
		repository.NewCouponRepository(db),
		repository.NewAffiliateRepository(db),
		5*time.Second)
}

func settleOrderFor(fx couponFixture, commission int64, ref string) SettleOrder {
	return SettleOrder{
		OriginalAmount:   20000,
		DiscountAmount:   2000,
		CommissionAmount: commission,
		FinalAmount:      20000 - 2000 - commission,
		OrderReference:   ref,
		CustomerInfo: map[string]any{
			"name":          "Cliente Teste",
			"affiliateId":   fx.Affiliate.ID,
			"affiliateName": fx.Affiliate.Name,
		},
	}
}

func TestSettleUpdatesLedger(t *testing.T) {
	db := newTestDB(t)
	svc := newSettlement(db)
	fx := seedCoupon(t, db, couponOpts{code: "SAVE10"})

	row, err := svc.Settle(context.Background(), fx.Coupon.ID, settleOrderFor(fx, 2000, "order-1"))
	require.NoError(t, err)
	require.NotZero(t, row.ID)
	assert.Equal(t, int64(2000), row.CommissionAmount)
	assert.Equal(t, "order-1", row.OrderReference)

	var coupon entity.Coupon
	require.NoError(t, db.First(&coupon, fx.Coupon.ID).Error)
	assert.Equal(t, 1, coupon.UsageCount)

	var affiliate entity.Affiliate
	require.NoError(t, db.First(&affiliate, fx.Affiliate.ID).Error)
	assert.Equal(t, int64(2000), affiliate.Balance)

	var count int64
	require.NoError(t, db.Model(&entity.CouponTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettleAccumulates(t *testing.T) {
	db := newTestDB(t)
	svc := newSettlement(db)
	fx := seedCoupon(t, db, couponOpts{code: "SAVE10"})

	for i := 0; i < 3; i++ {
		_, err := svc.Settle(context.Background(), fx.Coupon.ID, settleOrderFor(fx, 2000, fmt.Sprintf("order-%d", i)))
		require.NoError(t, err)
	}

	var coupon entity.Coupon
	require.NoError(t, db.First(&coupon, fx.Coupon.ID).Error)
	assert.Equal(t, 3, coupon.UsageCount)

	var affiliate entity.Affiliate
	require.NoError(t, db.First(&affiliate, fx.Affiliate.ID).Error)
	assert.Equal(t, int64(6000), affiliate.Balance)
}

func TestSettleRefusesBeyondCap(t *testing.T) {
	db := newTestDB(t)
	svc := newSettlement(db)
	fx := seedCoupon(t, db, couponOpts{code: "FULL10", usageCount: 5, maxUsage: intPtr(5)})

	_, err := svc.Settle(context.Background(), fx.Coupon.ID, settleOrderFor(fx, 2000, "order-cap"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCouponExhausted)

	var settleErr *SettlementError
	require.ErrorAs(t, err, &settleErr)
	assert.Equal(t, StageCoupon, settleErr.Stage)

	// The whole settlement rolled back: no ledger row, no balance credit.
	var count int64
	require.NoError(t, db.Model(&entity.CouponTransaction{}).Count(&count).Error)
	assert.Zero(t, count)

	var affiliate entity.Affiliate
	require.NoError(t, db.First(&affiliate, fx.Affiliate.ID).Error)
	assert.Zero(t, affiliate.Balance)
}

func TestSettleRejectsMissingAffiliateID(t *testing.T) {
	db := newTestDB(t)
	svc := newSettlement(db)
	fx := seedCoupon(t, db, couponOpts{code: "SAVE10"})

	order := settleOrderFor(fx, 2000, "order-2")
	delete(order.CustomerInfo, "affiliateId")

	_, err := svc.Settle(context.Background(), fx.Coupon.ID, order)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettleRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	svc := newSettlement(db)
	fx := seedCoupon(t, db, couponOpts{code: "SAVE10"})

	_, err := svc.Settle(context.Background(), 0, settleOrderFor(fx, 2000, "order-3"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	order := settleOrderFor(fx, 2000, "")
	_, err = svc.Settle(context.Background(), fx.Coupon.ID, order)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettleUnknownAffiliateRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newSettlement(db)
	fx := seedCoupon(t, db, couponOpts{code: "SAVE10"})

	order := settleOrderFor(fx, 2000, "order-4")
	order.CustomerInfo["affiliateId"] = uint(9999)

	_, err := svc.Settle(context.Background(), fx.Coupon.ID, order)
	require.Error(t, err)

	var settleErr *SettlementError
	require.ErrorAs(t, err, &settleErr)
	assert.Equal(t, StageAffiliate, settleErr.Stage)

	// Usage bump and ledger row rolled back with the failed credit.
	var coupon entity.Coupon
	require.NoError(t, db.First(&coupon, fx.Coupon.ID).Error)
	assert.Zero(t, coupon.UsageCount)

	var count int64
	require.NoError(t, db.Model(&entity.CouponTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

// Full SAVE10 walkthrough: one use left, settle consumes it, the next
// validation reports the coupon exhausted.
func TestSave10LifecycleEndsExhausted(t *testing.T) {
	db := newTestDB(t)
	couponSvc := NewCouponService(repository.NewCouponRepository(db), 5*time.Second)
	settlement := newSettlement(db)
	fx := seedCoupon(t, db, couponOpts{code: "SAVE10", usageCount: 4, maxUsage: intPtr(5)})

	res, err := couponSvc.Validate(context.Background(), "SAVE10", 20000)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), res.DiscountAmount)
	assert.Equal(t, int64(2000), res.CommissionAmount)
	assert.Equal(t, int64(16000), res.FinalAmount)

	_, err = settlement.Settle(context.Background(), fx.Coupon.ID, SettleOrder{
		OriginalAmount:   20000,
		DiscountAmount:   res.DiscountAmount,
		CommissionAmount: res.CommissionAmount,
		FinalAmount:      res.FinalAmount,
		OrderReference:   "order-final",
		CustomerInfo:     map[string]any{"affiliateId": fx.Affiliate.ID},
	})
	require.NoError(t, err)

	var coupon entity.Coupon
	require.NoError(t, db.First(&coupon, fx.Coupon.ID).Error)
	assert.Equal(t, 5, coupon.UsageCount)

	_, err = couponSvc.Validate(context.Background(), "SAVE10", 20000)
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestAffiliateIDFromPayloadShapes(t *testing.T) {
	cases := []struct {
		in   map[string]any
		want uint
		ok   bool
	}{
		{map[string]any{"affiliateId": float64(7)}, 7, true}, // JSON numbers
		{map[string]any{"affiliateId": 7}, 7, true},
		{map[string]any{"affiliateId": uint(7)}, 7, true},
		{map[string]any{"affiliateId": "7"}, 7, true},
		{map[string]any{"affiliateId": "abc"}, 0, false},
		{map[string]any{"affiliateId": float64(0)}, 0, false},
		{map[string]any{}, 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := affiliateIDFrom(tc.in)
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.want, got)
	}
}

func TestSettlementErrorUnwraps(t *testing.T) {
	inner := ErrCouponExhausted
	err := &SettlementError{Stage: StageCoupon, Err: inner}
	assert.True(t, errors.Is(err, ErrCouponExhausted))
	assert.Contains(t, err.Error(), "coupon stage")
}
