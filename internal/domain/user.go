package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"` // "user"/"admin"
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// PublicUser is the shape returned to clients; it never carries the hash.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool { return r == RoleUser || r == RoleAdmin }

// UserRepository returns (nil, nil) from the Find methods when no row matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
