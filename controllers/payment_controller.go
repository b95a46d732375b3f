package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zavattaro/modinha-boutique-app/entity"
	"github.com/zavattaro/modinha-boutique-app/repository"
	"github.com/zavattaro/modinha-boutique-app/services"
	"gorm.io/gorm"
)

type PaymentController struct {
	DB          *gorm.DB
	Orders      *repository.OrderRepository
	MercadoPago *services.MercadoPagoService
}

func NewPaymentController(db *gorm.DB, orders *repository.OrderRepository, mp *services.MercadoPagoService) *PaymentController {
	return &PaymentController{DB: db, Orders: orders, MercadoPago: mp}
}

type webhookReq struct {
	Type string `json:"type"`
	Data struct {
		ID any `json:"id"`
	} `json:"data"`
}

// POST /webhooks/mercadopago
// The processor notifies payment transitions; the status is always re-read
// from the API rather than trusted from the notification body.
func (ctl *PaymentController) Webhook(c *gin.Context) {
	var req webhookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		return
	}

	if req.Type != "payment" {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "webhook received but not processed"})
		return
	}

	paymentID := fmt.Sprintf("%v", req.Data.ID)
	mpPayment, err := ctl.MercadoPago.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		log.Printf("webhook: payment %s lookup failed: %v", paymentID, err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "payment lookup failed"})
		return
	}

	payment, err := ctl.Orders.FindPaymentByProviderID(c.Request.Context(), paymentID)
	if err != nil {
		log.Printf("webhook: no local payment for provider id %s", paymentID)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "payment not tracked"})
		return
	}

	payment.Status = mpPayment.Status
	payment.StatusDetail = mpPayment.StatusDetail

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if mpPayment.Status == "approved" && payment.PaidAt == nil {
			now := nowFunc()
			payment.PaidAt = &now
			if err := ctl.Orders.UpdateStatus(tx, payment.OrderID, entity.OrderStatusConfirmed); err != nil {
				return err
			}
		}
		if mpPayment.Status == "rejected" || mpPayment.Status == "cancelled" {
			if err := ctl.Orders.UpdateStatus(tx, payment.OrderID, entity.OrderStatusCancelled); err != nil {
				return err
			}
		}
		return ctl.Orders.SavePayment(tx, payment)
	})
	if err != nil {
		log.Printf("webhook: updating payment %d failed: %v", payment.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "update failed"})
		return
	}

	log.Printf("payment %s status: %s", paymentID, mpPayment.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "webhook processed successfully"})
}
