package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zavattaro/modinha-boutique-app/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. The shared-cache
// DSN keeps gorm's connection pool on one database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Product{}, &entity.ProductVariation{},
		&entity.Affiliate{}, &entity.Coupon{}, &entity.CouponTransaction{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.Payment{},
	))
	return db
}

type couponFixture struct {
	Affiliate *entity.Affiliate
	Coupon    *entity.Coupon
}

type couponOpts struct {
	code            string
	discountRate    float64
	affiliateStatus string
	couponStatus    string
	usageCount      int
	maxUsage        *int
	validUntil      *time.Time
}

func seedCoupon(t *testing.T, db *gorm.DB, opts couponOpts) couponFixture {
	t.Helper()

	if opts.code == "" {
		opts.code = "SAVE10"
	}
	if opts.discountRate == 0 {
		opts.discountRate = 10
	}
	if opts.affiliateStatus == "" {
		opts.affiliateStatus = entity.StatusActive
	}
	if opts.couponStatus == "" {
		opts.couponStatus = entity.StatusActive
	}

	affiliate := &entity.Affiliate{
		Name:           "Maria Silva",
		Email:          fmt.Sprintf("%s@example.com", strings.ToLower(opts.code)),
		CommissionRate: 10,
		Status:         opts.affiliateStatus,
	}
	require.NoError(t, db.Create(affiliate).Error)

	coupon := &entity.Coupon{
		Code:         opts.code,
		DiscountRate: opts.discountRate,
		Status:       opts.couponStatus,
		UsageCount:   opts.usageCount,
		MaxUsage:     opts.maxUsage,
		ValidUntil:   opts.validUntil,
		AffiliateID:  affiliate.ID,
	}
	require.NoError(t, db.Create(coupon).Error)

	return couponFixture{Affiliate: affiliate, Coupon: coupon}
}

func intPtr(v int) *int { return &v }
