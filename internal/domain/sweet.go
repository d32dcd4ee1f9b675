package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Sweet is a catalog item. Price and Quantity are never negative.
type Sweet struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Category    string          `gorm:"size:128;not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	Description *string         `gorm:"type:text" json:"description"`
	ImageURL    *string         `gorm:"column:image_url;size:1024" json:"imageUrl"`
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Sweet) TableName() string { return "sweets" }

// SweetFilter holds the optional search criteria. Nil/empty fields are ignored
// and everything supplied is combined with AND.
type SweetFilter struct {
	Name     string           // case-insensitive substring
	Category string           // case-insensitive exact match
	MinPrice *decimal.Decimal // inclusive
	MaxPrice *decimal.Decimal // inclusive
}

func (f SweetFilter) Empty() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

type SweetRepository interface {
	Create(ctx context.Context, s *Sweet) error
	FindByID(ctx context.Context, id string) (*Sweet, error)
	List(ctx context.Context) ([]Sweet, error)
	Search(ctx context.Context, f SweetFilter) ([]Sweet, error)
	Update(ctx context.Context, s *Sweet) error
	Delete(ctx context.Context, id string) error
	// AdjustQuantity adds delta to the stored quantity in a single statement.
	// A negative delta only applies while quantity >= -delta.
	AdjustQuantity(ctx context.Context, id string, delta int) (*Sweet, error)
}
