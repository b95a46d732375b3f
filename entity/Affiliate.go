package entity

import (
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Affiliate struct {
	gorm.Model
	Name  string `gorm:"size:120;not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:30" json:"phone,omitempty"`

	// Balance accumulates commissions in centavos. Only the settlement
	// path writes it.
	Balance int64 `gorm:"not null;default:0" json:"balance"`

	// CommissionRate is a percentage used as the default discount rate
	// when the affiliate's coupon is created.
	CommissionRate float64 `gorm:"not null;default:10" json:"commissionRate"`

	Status string `gorm:"size:20;not null;default:active" json:"status"`

	Coupons      []Coupon            `json:"coupons,omitempty"`
	Transactions []CouponTransaction `gorm:"foreignKey:AffiliateID" json:"-"`
}
