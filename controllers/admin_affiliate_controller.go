package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zavattaro/modinha-boutique-app/pkg/resp"
	"github.com/zavattaro/modinha-boutique-app/services"
)

type AdminAffiliateController struct {
	Service *services.AffiliateService
}

func NewAdminAffiliateController(svc *services.AffiliateService) *AdminAffiliateController {
	return &AdminAffiliateController{Service: svc}
}

// GET /admin/affiliates
func (ctl *AdminAffiliateController) List(c *gin.Context) {
	rows, err := ctl.Service.List(c.Request.Context())
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

// POST /admin/affiliates
// Creates the affiliate and their coupon together, like the dashboard did.
func (ctl *AdminAffiliateController) Create(c *gin.Context) {
	var req services.CreateAffiliateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	res, err := ctl.Service.Create(c.Request.Context(), req)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, res)
}

// GET /admin/affiliates/:id/transactions
func (ctl *AdminAffiliateController) Transactions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid affiliate id")
		return
	}

	rows, err := ctl.Service.Transactions(c.Request.Context(), id)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

type setStatusReq struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// PATCH /admin/affiliates/:id/status
// Suspending an affiliate suspends their coupons transitively; the coupon
// rows themselves stay untouched.
func (ctl *AdminAffiliateController) SetStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid affiliate id")
		return
	}

	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if err := ctl.Service.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, services.ErrAffiliateNotFound) {
			resp.NotFound(c, "affiliate not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "status": req.Status})
}
