package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zavattaro/modinha-boutique-app/services"
)

type CouponController struct {
	Service *services.CouponService
}

func NewCouponController(svc *services.CouponService) *CouponController {
	return &CouponController{Service: svc}
}

type validateCouponReq struct {
	Code        string `json:"code" binding:"required"`
	OrderAmount int64  `json:"orderAmount" binding:"required"`
}

// POST /coupons/validate (public)
// The storefront calls this as the customer types; failures come back as
// valid:false with an inline message, never as a thrown error.
func (ctl *CouponController) Validate(c *gin.Context) {
	var req validateCouponReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": couponErrorMessage(services.ErrInvalidInput)})
		return
	}

	result, err := ctl.Service.Validate(c.Request.Context(), req.Code, req.OrderAmount)
	if err != nil {
		status := http.StatusOK
		if errors.Is(err, services.ErrStorageUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"valid": false, "error": couponErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":            true,
		"coupon":           result.Coupon,
		"discountAmount":   result.DiscountAmount,
		"commissionAmount": result.CommissionAmount,
		"finalAmount":      result.FinalAmount,
	})
}

// couponErrorMessage maps the validation/settlement taxonomy onto the
// pt-BR strings the storefront shows inline.
func couponErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrCouponNotFound):
		return "Cupom não encontrado ou inválido"
	case errors.Is(err, services.ErrAffiliateInactive):
		return "Cupom temporariamente indisponível"
	case errors.Is(err, services.ErrCouponExpired):
		return "Cupom expirado"
	case errors.Is(err, services.ErrCouponExhausted):
		return "Cupom esgotado"
	case errors.Is(err, services.ErrInvalidInput):
		return "Código do cupom e valor do pedido são obrigatórios"
	case errors.Is(err, services.ErrTransactionWriteFailed):
		return "Erro ao processar transação"
	case errors.Is(err, services.ErrStorageUnavailable):
		return "Erro ao validar cupom. Tente novamente."
	default:
		return "Erro ao aplicar cupom"
	}
}
