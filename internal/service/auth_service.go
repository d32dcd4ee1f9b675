package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"sweet-shop/internal/core/auth"
	"sweet-shop/internal/domain"
	"sweet-shop/pkg/utils"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minPasswordLen = 6
	// bcrypt ignores everything past 72 bytes and x/crypto refuses such input.
	maxPasswordBytes = 72
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	Token string
	User  domain.PublicUser
}

type AuthService struct {
	users            domain.UserRepository
	jwt              *auth.JWTer
	allowAdminSignup bool
	log              *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users domain.UserRepository, j *auth.JWTer, allowAdminSignup bool, l *zap.Logger) *AuthService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AuthService{users: users, jwt: j, allowAdminSignup: allowAdminSignup, log: l}
}

func validateAccount(email, password, name string) error {
	if email == "" || password == "" || name == "" {
		return domain.Invalid("Email, password, and name are required")
	}
	if !emailRe.MatchString(email) {
		return domain.Invalid("Invalid email format")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return domain.Invalid("Password must be at least 6 characters long")
	}
	if len(password) > maxPasswordBytes {
		return domain.Invalid("Password must be at most 72 bytes long")
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if err := validateAccount(email, in.Password, name); err != nil {
		return nil, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.Invalid("Role must be either user or admin")
	}
	if role == domain.RoleAdmin && !s.allowAdminSignup {
		return nil, domain.ErrAdminSignupClosed
	}

	u, err := s.create(ctx, email, in.Password, name, role)
	if err != nil {
		return nil, err
	}
	tok, err := s.jwt.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	registrationsTotal.WithLabelValues(u.Role).Inc()
	s.log.Info("user registered", zap.String("uid", u.ID), zap.String("role", u.Role))
	return &AuthResult{Token: tok, User: u.Public()}, nil
}

// create checks for an existing email first; the unique index catches the
// race between two concurrent registrations.
func (s *AuthService) create(ctx context.Context, email, password, name, role string) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Email: email, Name: name, Role: role, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("Email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if u == nil {
		// burn the same bcrypt time as a real check
		utils.CheckPassword(password, s.dummy())
		loginFailuresTotal.Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		loginFailuresTotal.Inc()
		return nil, domain.ErrInvalidCredentials
	}
	tok, err := s.jwt.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: tok, User: u.Public()}, nil
}

// EnsureAdmin creates an admin account regardless of auth.allowAdminSignup.
// It is meant for operators bootstrapping a fresh database.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if err := validateAccount(email, password, name); err != nil {
		return nil, err
	}
	u, err := s.create(ctx, email, password, name, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	registrationsTotal.WithLabelValues(domain.RoleAdmin).Inc()
	s.log.Info("admin created", zap.String("uid", u.ID))
	return u, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("not-a-real-password")
	})
	return s.dummyHash
}
