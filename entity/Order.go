package entity

import (
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	gorm.Model
	// Reference is the external order identifier handed to the payment
	// processor and the coupon ledger.
	Reference string `gorm:"size:64;uniqueIndex;not null" json:"reference"`

	Status        string `gorm:"size:20;not null;default:pending" json:"status"`
	PaymentMethod string `gorm:"size:20;not null" json:"paymentMethod"`

	CustomerName    string `gorm:"size:120;not null" json:"customerName"`
	CustomerEmail   string `gorm:"size:120;not null" json:"customerEmail"`
	CustomerPhone   string `gorm:"size:30;not null" json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	Notes           string `json:"notes,omitempty"`

	// Amounts in centavos. Discount includes the affiliate share taken
	// off the order value.
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shippingFee"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`

	WhatsappSent bool `json:"whatsappSent"`

	// Nil for guest checkout.
	UserID *uint `json:"userId,omitempty"`
	User   *User `json:"-"`

	Items    []OrderItem `json:"items,omitempty"`
	Payments []Payment   `json:"-"` // preload only on detail endpoints
}
