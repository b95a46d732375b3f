package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`
	Name     string `gorm:"size:120;not null" json:"name"`
	Phone    string `gorm:"size:30" json:"phone,omitempty"`
	Role     string `gorm:"size:20;not null;default:customer" json:"role"`

	Orders []Order `json:"-"` // preload only where needed
}
