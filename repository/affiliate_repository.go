package repository

import (
	"context"
	"time"

	"github.com/zavattaro/modinha-boutique-app/entity"
	"gorm.io/gorm"
)

type AffiliateRepository struct {
	DB *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{DB: db}
}

func (r *AffiliateRepository) Create(tx *gorm.DB, a *entity.Affiliate) error {
	return tx.Create(a).Error
}

func (r *AffiliateRepository) Get(ctx context.Context, id uint) (*entity.Affiliate, error) {
	var a entity.Affiliate
	err := r.DB.WithContext(ctx).Preload("Coupons").First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AffiliateRepository) List(ctx context.Context) ([]entity.Affiliate, error) {
	var rows []entity.Affiliate
	err := r.DB.WithContext(ctx).
		Preload("Coupons").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AffiliateRepository) UpdateStatus(ctx context.Context, id uint, status string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&entity.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// CreditBalance adds a commission to the affiliate balance in a single
// statement so concurrent settlements cannot lose an increment.
func (r *AffiliateRepository) CreditBalance(tx *gorm.DB, id uint, amount int64) (int64, error) {
	res := tx.Model(&entity.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", amount),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
