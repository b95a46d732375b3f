package repository

import (
	"context"
	"time"

	"github.com/zavattaro/modinha-boutique-app/entity"
	"gorm.io/gorm"
)

type CouponRepository struct {
	DB *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{DB: db}
}

// FindActiveByCode loads an active coupon by its (already normalized) code
// together with the owning affiliate.
func (r *CouponRepository) FindActiveByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var c entity.Coupon
	err := r.DB.WithContext(ctx).
		Preload("Affiliate").
		Where("code = ? AND status = ?", code, entity.StatusActive).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepository) Get(ctx context.Context, id uint) (*entity.Coupon, error) {
	var c entity.Coupon
	err := r.DB.WithContext(ctx).Preload("Affiliate").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepository) Create(tx *gorm.DB, c *entity.Coupon) error {
	return tx.Create(c).Error
}

// IncrementUsage bumps usage_count by one in a single guarded statement.
// The guard also rejects coupons that went missing or inactive, so a zero
// row count means the coupon can no longer be settled against.
func (r *CouponRepository) IncrementUsage(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Model(&entity.Coupon{}).
		Where("id = ? AND status = ? AND (max_usage IS NULL OR usage_count < max_usage)",
			id, entity.StatusActive).
		Updates(map[string]any{
			"usage_count": gorm.Expr("usage_count + 1"),
			"updated_at":  time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *CouponRepository) CreateTransaction(tx *gorm.DB, t *entity.CouponTransaction) error {
	return tx.Create(t).Error
}

func (r *CouponRepository) ListTransactionsForAffiliate(ctx context.Context, affiliateID uint) ([]entity.CouponTransaction, error) {
	var rows []entity.CouponTransaction
	err := r.DB.WithContext(ctx).
		Preload("Coupon").
		Where("affiliate_id = ?", affiliateID).
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}
