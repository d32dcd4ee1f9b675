package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"sweet-shop/internal/domain"
	"sweet-shop/pkg/utils"
)

type SweetRepo struct{ db *gorm.DB }

func NewSweetRepo(db *gorm.DB) *SweetRepo { return &SweetRepo{db: db} }

var _ domain.SweetRepository = (*SweetRepo)(nil)

// columns written by Update; id and created_at never change.
var sweetUpdatable = []string{"name", "category", "price", "quantity", "description", "image_url", "updated_at"}

func (r *SweetRepo) Create(ctx context.Context, s *domain.Sweet) error {
	if s.ID == "" {
		s.ID = utils.NewID()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SweetRepo) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	var s domain.Sweet
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SweetRepo) List(ctx context.Context) ([]domain.Sweet, error) {
	sweets := []domain.Sweet{}
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&sweets).Error
	return sweets, err
}

func (r *SweetRepo) Search(ctx context.Context, f domain.SweetFilter) ([]domain.Sweet, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Sweet{})
	if f.Name != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Category != "" {
		tx = tx.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.MinPrice != nil {
		tx = tx.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		tx = tx.Where("price <= ?", *f.MaxPrice)
	}
	sweets := []domain.Sweet{}
	err := tx.Order("created_at desc").Find(&sweets).Error
	return sweets, err
}

// Update writes every mutable column of s, including nil optional fields.
func (r *SweetRepo) Update(ctx context.Context, s *domain.Sweet) error {
	res := r.db.WithContext(ctx).Model(s).Select(sweetUpdatable).Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

func (r *SweetRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Sweet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

// AdjustQuantity applies delta with one conditional UPDATE so concurrent
// purchases can never drive stock below zero. When nothing is updated the row
// is re-read to tell a missing sweet from insufficient stock.
func (r *SweetRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Sweet, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Sweet{}).Where("id = ?", id)
	if delta < 0 {
		tx = tx.Where("quantity >= ?", -delta)
	}
	res := tx.Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrSweetNotFound
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInsufficientStock
	}
	return s, nil
}
