package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/zavattaro/modinha-boutique-app/entity"
	"github.com/zavattaro/modinha-boutique-app/repository"
	"gorm.io/gorm"
)

var ErrAffiliateNotFound = errors.New("affiliate not found")

type AffiliateService struct {
	DB      *gorm.DB
	Repo    *repository.AffiliateRepository
	Coupons *repository.CouponRepository
	Timeout time.Duration
}

func NewAffiliateService(db *gorm.DB, repo *repository.AffiliateRepository, coupons *repository.CouponRepository, timeout time.Duration) *AffiliateService {
	return &AffiliateService{DB: db, Repo: repo, Coupons: coupons, Timeout: timeout}
}

type CreateAffiliateReq struct {
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          string  `json:"phone"`
	CommissionRate float64 `json:"commissionRate"`
}

type CreateAffiliateRes struct {
	Affiliate *entity.Affiliate `json:"affiliate"`
	Coupon    *entity.Coupon    `json:"coupon"`
}

// Create registers an affiliate and mints their coupon in one transaction.
// The coupon's discount rate starts at the affiliate's commission rate, as
// the admin dashboard always created them.
func (s *AffiliateService) Create(ctx context.Context, req CreateAffiliateReq) (*CreateAffiliateRes, error) {
	if req.CommissionRate <= 0 {
		req.CommissionRate = 10
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	affiliate := &entity.Affiliate{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		CommissionRate: req.CommissionRate,
		Status:         entity.StatusActive,
	}
	coupon := &entity.Coupon{
		DiscountRate: req.CommissionRate,
		Status:       entity.StatusActive,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Create(tx, affiliate); err != nil {
			return err
		}
		coupon.AffiliateID = affiliate.ID
		coupon.Code = GenerateCouponCode(affiliate.Name)
		return s.Coupons.Create(tx, coupon)
	})
	if err != nil {
		return nil, storageErr(err)
	}

	return &CreateAffiliateRes{Affiliate: affiliate, Coupon: coupon}, nil
}

func (s *AffiliateService) List(ctx context.Context) ([]entity.Affiliate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return rows, nil
}

func (s *AffiliateService) Transactions(ctx context.Context, affiliateID uint) ([]entity.CouponTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	rows, err := s.Coupons.ListTransactionsForAffiliate(ctx, affiliateID)
	if err != nil {
		return nil, storageErr(err)
	}
	return rows, nil
}

// SetStatus flips an affiliate between active and inactive. An inactive
// affiliate suspends its coupons transitively via the validator.
func (s *AffiliateService) SetStatus(ctx context.Context, affiliateID uint, status string) error {
	if status != entity.StatusActive && status != entity.StatusInactive {
		return ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	n, err := s.Repo.UpdateStatus(ctx, affiliateID, status)
	if err != nil {
		return storageErr(err)
	}
	if n == 0 {
		return ErrAffiliateNotFound
	}
	return nil
}

const codeSuffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCouponCode builds a code from the first 8 letters of the
// affiliate name plus a 4-character random suffix, e.g. MARIASIL7K2Q.
// Accents and anything else outside A-Z0-9 are dropped.
func GenerateCouponCode(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == 8 {
			break
		}
	}
	prefix := b.String()

	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = codeSuffixChars[rand.Intn(len(codeSuffixChars))]
	}
	return prefix + string(suffix)
}
