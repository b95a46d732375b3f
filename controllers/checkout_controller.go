package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zavattaro/modinha-boutique-app/pkg/resp"
	"github.com/zavattaro/modinha-boutique-app/services"
	"github.com/zavattaro/modinha-boutique-app/utils"
)

type CheckoutController struct {
	Orders *services.OrderService
}

func NewCheckoutController(orders *services.OrderService) *CheckoutController {
	return &CheckoutController{Orders: orders}
}

// POST /checkout
// Guest checkout is allowed; a logged-in customer gets the order attached
// to their account.
func (ctl *CheckoutController) Checkout(c *gin.Context) {
	var req services.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	var userID *uint
	if id := utils.CurrentUserID(c); id != 0 {
		userID = &id
	}

	res, err := ctl.Orders.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		ctl.checkoutError(c, res, err)
		return
	}
	resp.Created(c, res)
}

// checkoutError keeps the customer's cart recoverable: business failures
// return 4xx with a message, settlement/storage failures say "try again".
func (ctl *CheckoutController) checkoutError(c *gin.Context, res *services.CheckoutRes, err error) {
	var settleErr *services.SettlementError

	switch {
	case errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOutOfStock):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPaymentRejected):
		c.JSON(http.StatusPaymentRequired, gin.H{"ok": false, "error": "Pagamento recusado", "data": res})
	case errors.As(err, &settleErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"ok":    false,
			"error": couponErrorMessage(settleErr.Err),
			"stage": settleErr.Stage,
		})
	case errors.Is(err, services.ErrCouponNotFound),
		errors.Is(err, services.ErrAffiliateInactive),
		errors.Is(err, services.ErrCouponExpired),
		errors.Is(err, services.ErrCouponExhausted),
		errors.Is(err, services.ErrInvalidInput):
		resp.BadRequest(c, couponErrorMessage(err))
	case errors.Is(err, services.ErrStorageUnavailable):
		resp.Unavailable(c, couponErrorMessage(err))
	default:
		resp.ServerError(c, err)
	}
}

// GET /profile/orders
func (ctl *CheckoutController) ListForMe(c *gin.Context) {
	rows, err := ctl.Orders.ListForUser(c.Request.Context(), utils.CurrentUserID(c), 20)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

// GET /orders/:id
func (ctl *CheckoutController) Detail(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	order, err := ctl.Orders.DetailForUser(c.Request.Context(), utils.CurrentUserID(c), id)
	if err != nil {
		resp.NotFound(c, "order not found")
		return
	}
	resp.OK(c, order)
}
