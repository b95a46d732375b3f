package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CouponTransaction is the commission ledger. Rows are append-only; nothing
// in the system mutates or deletes them after creation.
type CouponTransaction struct {
	gorm.Model
	// OrderReference is the caller-supplied order identifier. Not unique:
	// the subsystem does not deduplicate settlements per order.
	OrderReference string `gorm:"size:64;index;not null" json:"orderReference"`

	OriginalAmount   int64 `json:"originalAmount"`
	DiscountAmount   int64 `json:"discountAmount"`
	CommissionAmount int64 `json:"commissionAmount"`
	FinalAmount      int64 `json:"finalAmount"`

	// CustomerInfo is an opaque payload passed through from checkout;
	// only affiliateId/affiliateName have meaning to this subsystem.
	CustomerInfo datatypes.JSONMap `json:"customerInfo"`

	CouponID uint   `gorm:"index;not null" json:"couponId"`
	Coupon   Coupon `json:"-"` // preload for the admin ledger view

	AffiliateID uint      `gorm:"index;not null" json:"affiliateId"`
	Affiliate   Affiliate `json:"-"`
}
