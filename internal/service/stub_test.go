package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"sweet-shop/internal/domain"
	"sweet-shop/pkg/utils"
)

var errStore = errors.New("store unavailable")

type stubUsers struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	failAll bool
}

func newStubUsers() *stubUsers { return &stubUsers{byEmail: map[string]*domain.User{}} }

func (s *stubUsers) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errStore
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	cp := *u
	s.byEmail[u.Email] = &cp
	return nil
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, errStore
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type stubSweets struct {
	mu      sync.Mutex
	rows    map[string]*domain.Sweet
	lists   int
	failAll bool
}

func newStubSweets() *stubSweets { return &stubSweets{rows: map[string]*domain.Sweet{}} }

func (s *stubSweets) Create(_ context.Context, sw *domain.Sweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errStore
	}
	if sw.ID == "" {
		sw.ID = utils.NewID()
	}
	cp := *sw
	s.rows[sw.ID] = &cp
	return nil
}

func (s *stubSweets) FindByID(_ context.Context, id string) (*domain.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, errStore
	}
	sw, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *sw
	return &cp, nil
}

func (s *stubSweets) all() []domain.Sweet {
	out := make([]domain.Sweet, 0, len(s.rows))
	for _, sw := range s.rows {
		out = append(out, *sw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *stubSweets) List(context.Context) ([]domain.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.failAll {
		return nil, errStore
	}
	return s.all(), nil
}

func (s *stubSweets) Search(_ context.Context, f domain.SweetFilter) ([]domain.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Sweet{}
	for _, sw := range s.all() {
		if f.Name != "" && !strings.Contains(strings.ToLower(sw.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(sw.Category, f.Category) {
			continue
		}
		if f.MinPrice != nil && sw.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && sw.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, sw)
	}
	return out, nil
}

func (s *stubSweets) Update(_ context.Context, sw *domain.Sweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[sw.ID]; !ok {
		return domain.ErrSweetNotFound
	}
	cp := *sw
	s.rows[sw.ID] = &cp
	return nil
}

func (s *stubSweets) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return domain.ErrSweetNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *stubSweets) AdjustQuantity(_ context.Context, id string, delta int) (*domain.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrSweetNotFound
	}
	if sw.Quantity+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	sw.Quantity += delta
	cp := *sw
	return &cp, nil
}
