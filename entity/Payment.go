package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// Payment tracks one attempt against the payment processor for an order.
type Payment struct {
	gorm.Model
	Provider string `gorm:"size:30;not null;default:mercadopago" json:"provider"`

	// ProviderPaymentID is the processor's payment id, set once the
	// payment has been created remotely.
	ProviderPaymentID string `gorm:"size:64;index" json:"providerPaymentId"`

	Method       string     `gorm:"size:20;not null" json:"method"` // pix, visa, master, elo, hipercard
	Status       string     `gorm:"size:20;not null;default:pending" json:"status"`
	StatusDetail string     `gorm:"size:60" json:"statusDetail,omitempty"`
	Amount       int64      `json:"amount"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`

	OrderID uint  `gorm:"index;not null" json:"orderId"`
	Order   Order `json:"-"`
}
