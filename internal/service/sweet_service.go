package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sweet-shop/internal/core/cache"
	"sweet-shop/internal/domain"
)

const catalogKey = "sweetshop:sweets:all"

// decimal(10,2) upper bound
var maxPrice = decimal.RequireFromString("99999999.99")

type CreateSweetInput struct {
	Name        string
	Category    string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	ImageURL    *string
}

// UpdateSweetInput leaves a field unchanged when it is nil.
type UpdateSweetInput struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	ImageURL    *string
}

type SweetService struct {
	repo     domain.SweetRepository
	cache    *cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewSweetService accepts a nil cache, in which case List always hits the repository.
func NewSweetService(repo domain.SweetRepository, c *cache.Cache, cacheTTL time.Duration, l *zap.Logger) *SweetService {
	if l == nil {
		l = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &SweetService{repo: repo, cache: c, cacheTTL: cacheTTL, log: l}
}

func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if p.GreaterThan(maxPrice) {
		return domain.Invalid("Price must not exceed 99999999.99")
	}
	return nil
}

func (s *SweetService) Create(ctx context.Context, in CreateSweetInput) (*domain.Sweet, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" || category == "" || in.Price == nil || in.Quantity == nil {
		return nil, domain.Invalid("Name, category, price, and quantity are required")
	}
	if err := checkPrice(*in.Price); err != nil {
		return nil, err
	}
	if *in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	sw := &domain.Sweet{
		Name:        name,
		Category:    category,
		Price:       in.Price.Round(2),
		Quantity:    *in.Quantity,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := s.repo.Create(ctx, sw); err != nil {
		return nil, fmt.Errorf("create sweet: %w", err)
	}
	catalogMutationsTotal.WithLabelValues("create").Inc()
	s.invalidate(ctx)
	return sw, nil
}

func (s *SweetService) Get(ctx context.Context, id string) (*domain.Sweet, error) {
	sw, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find sweet %s: %w", id, err)
	}
	if sw == nil {
		return nil, domain.ErrSweetNotFound
	}
	return sw, nil
}

// List returns every sweet, newest first.
func (s *SweetService) List(ctx context.Context) ([]domain.Sweet, error) {
	sweets, err := cache.GetOrLoadJSON(s.cache, ctx, catalogKey, s.cacheTTL, s.repo.List)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	return sweets, nil
}

func (s *SweetService) Search(ctx context.Context, f domain.SweetFilter) ([]domain.Sweet, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return []domain.Sweet{}, nil
	}
	sweets, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	return sweets, nil
}

func (s *SweetService) Update(ctx context.Context, id string, in UpdateSweetInput) (*domain.Sweet, error) {
	sw, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Price != nil {
		if err := checkPrice(*in.Price); err != nil {
			return nil, err
		}
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return nil, domain.Invalid("Name cannot be empty")
		}
		sw.Name = n
	}
	if in.Category != nil {
		c := strings.TrimSpace(*in.Category)
		if c == "" {
			return nil, domain.Invalid("Category cannot be empty")
		}
		sw.Category = c
	}
	if in.Price != nil {
		sw.Price = in.Price.Round(2)
	}
	if in.Quantity != nil {
		sw.Quantity = *in.Quantity
	}
	if in.Description != nil {
		sw.Description = in.Description
	}
	if in.ImageURL != nil {
		sw.ImageURL = in.ImageURL
	}

	if err := s.repo.Update(ctx, sw); err != nil {
		return nil, fmt.Errorf("update sweet %s: %w", id, err)
	}
	catalogMutationsTotal.WithLabelValues("update").Inc()
	s.invalidate(ctx)
	return sw, nil
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sweet %s: %w", id, err)
	}
	catalogMutationsTotal.WithLabelValues("delete").Inc()
	s.invalidate(ctx)
	return nil
}

// Purchase removes amount units. Stock is never driven below zero, even with
// concurrent buyers.
func (s *SweetService) Purchase(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidPurchaseAmount
	}
	sw, err := s.repo.AdjustQuantity(ctx, id, -amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			stockRejectionsTotal.Inc()
		}
		return nil, fmt.Errorf("purchase %s: %w", id, err)
	}
	purchasesTotal.Inc()
	unitsSoldTotal.Add(float64(amount))
	s.invalidate(ctx)
	return sw, nil
}

func (s *SweetService) Restock(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidRestockAmount
	}
	sw, err := s.repo.AdjustQuantity(ctx, id, amount)
	if err != nil {
		return nil, fmt.Errorf("restock %s: %w", id, err)
	}
	restocksTotal.Inc()
	s.invalidate(ctx)
	return sw, nil
}

// invalidate drops the cached listing. A failure only means readers may see
// the old listing until the TTL runs out.
func (s *SweetService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, catalogKey); err != nil {
		s.log.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}
