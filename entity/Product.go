package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `json:"description"`

	// Price in centavos.
	Price int64 `gorm:"not null" json:"price"`

	Category    string `gorm:"size:50;index" json:"category"`
	Subcategory string `gorm:"size:50" json:"subcategory"`

	// Images is a JSON array of URLs.
	Images datatypes.JSON `json:"images"`

	Stock    int    `gorm:"not null;default:0" json:"stock"`
	Status   string `gorm:"size:20;not null;default:active" json:"status"`
	Featured bool   `gorm:"index" json:"featured"`

	Variations []ProductVariation `json:"variations,omitempty"`
}
