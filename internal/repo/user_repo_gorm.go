package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"sweet-shop/internal/domain"
	"sweet-shop/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

// Create assigns an id when missing. A duplicate email surfaces as domain.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && isDupKey(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateRole is used by the admin CLI to promote an existing account.
func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isDupKey matches translated gorm errors first, then driver messages for
// dialects that do not translate.
func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
