package repository

import (
	"context"

	"github.com/zavattaro/modinha-boutique-app/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

type ProductFilter struct {
	Category string
	Featured *bool
	Search   string
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]entity.Product, error) {
	q := r.DB.WithContext(ctx).Where("status = ?", entity.StatusActive)

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var rows []entity.Product
	err := q.Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*entity.Product, error) {
	var p entity.Product
	err := r.DB.WithContext(ctx).
		Preload("Variations").
		Where("status = ?", entity.StatusActive).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}
