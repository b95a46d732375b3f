package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zavattaro/modinha-boutique-app/entity"
	"github.com/zavattaro/modinha-boutique-app/pkg/resp"
	"github.com/zavattaro/modinha-boutique-app/repository"
	"gorm.io/gorm"
)

type ProductController struct {
	Repo *repository.ProductRepository
}

func NewProductController(repo *repository.ProductRepository) *ProductController {
	return &ProductController{Repo: repo}
}

// GET /products?category=&featured=&q=
func (ctl *ProductController) List(c *gin.Context) {
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true" || v == "1"
		filter.Featured = &featured
	}

	rows, err := ctl.Repo.List(c.Request.Context(), filter)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

// GET /products/:id
func (ctl *ProductController) Detail(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid product id")
		return
	}

	p, err := ctl.Repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "product not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, p)
}

type createProductReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=1"`
	Category    string `json:"category" binding:"required"`
	Subcategory string `json:"subcategory"`
	Stock       int    `json:"stock" binding:"min=0"`
	Featured    bool   `json:"featured"`
}

// POST /admin/products
func (ctl *ProductController) Create(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	p := entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Stock:       req.Stock,
		Featured:    req.Featured,
		Status:      entity.StatusActive,
	}
	if err := ctl.Repo.Create(c.Request.Context(), &p); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, p)
}
