package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductVariation struct {
	gorm.Model
	SKU string `gorm:"size:60;uniqueIndex;not null" json:"sku"`

	// Attributes holds size/color pairs, e.g. {"size": "M", "color": "Azul"}.
	Attributes datatypes.JSONMap `json:"attributes"`

	Stock int `gorm:"not null;default:0" json:"stock"`

	// Price overrides the product price when set (centavos).
	Price *int64 `json:"price,omitempty"`
	Image string `json:"image,omitempty"`

	ProductID uint    `gorm:"index;not null" json:"productId"`
	Product   Product `json:"-"`
}
