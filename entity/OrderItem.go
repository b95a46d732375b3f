package entity

import (
	"gorm.io/gorm"
)

// OrderItem snapshots name and price at purchase time so later catalog
// edits don't rewrite history.
type OrderItem struct {
	gorm.Model
	Name      string `gorm:"size:200;not null" json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	Total     int64  `json:"total"`
	Size      string `gorm:"size:20" json:"size,omitempty"`
	Color     string `gorm:"size:40" json:"color,omitempty"`

	OrderID uint  `gorm:"index;not null" json:"orderId"`
	Order   Order `json:"-"`

	ProductID uint    `gorm:"index;not null" json:"productId"`
	Product   Product `json:"-"`
}
