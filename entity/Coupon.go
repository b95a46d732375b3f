package entity

import (
	"time"

	"gorm.io/gorm"
)

type Coupon struct {
	gorm.Model
	// Code is stored upper-case; lookups normalize before querying.
	Code string `gorm:"size:50;uniqueIndex;not null" json:"code"`

	// DiscountRate is a percentage applied to the order amount.
	DiscountRate float64 `gorm:"not null" json:"discountRate"`

	Status     string     `gorm:"size:20;not null;default:active" json:"status"`
	UsageCount int        `gorm:"not null;default:0" json:"usageCount"`
	MaxUsage   *int       `json:"maxUsage,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`

	AffiliateID uint      `gorm:"index;not null" json:"affiliateId"`
	Affiliate   Affiliate `json:"-"` // preload only where the validator needs it
}
