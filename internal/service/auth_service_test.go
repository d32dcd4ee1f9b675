package service

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweet-shop/internal/core/auth"
	"sweet-shop/internal/domain"
)

func newAuthService(t *testing.T, allowAdmin bool) (*AuthService, *stubUsers, *auth.JWTer) {
	t.Helper()
	j, err := auth.NewJWTer(auth.Options{Secret: "svc-secret"})
	require.NoError(t, err)
	users := newStubUsers()
	return NewAuthService(users, j, allowAdmin, nil), users, j
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	svc, users, j := newAuthService(t, true)
	before := testutil.ToFloat64(registrationsTotal.WithLabelValues(domain.RoleUser))

	res, err := svc.Register(ctx, RegisterInput{Email: " alice@example.com ", Password: "secret1", Name: "Alice"})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, domain.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.User.ID)

	claims, err := j.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)

	stored, _ := users.FindByEmail(ctx, "alice@example.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.Equal(t, before+1, testutil.ToFloat64(registrationsTotal.WithLabelValues(domain.RoleUser)))
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newAuthService(t, true)
	cases := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing email", RegisterInput{Password: "secret1", Name: "A"}, "Email, password, and name are required"},
		{"blank name", RegisterInput{Email: "a@b.co", Password: "secret1", Name: "   "}, "Email, password, and name are required"},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "secret1", Name: "A"}, "Invalid email format"},
		{"email without tld", RegisterInput{Email: "a@b", Password: "secret1", Name: "A"}, "Invalid email format"},
		{"short password", RegisterInput{Email: "a@b.co", Password: "12345", Name: "A"}, "Password must be at least 6 characters long"},
		{"long password", RegisterInput{Email: "a@b.co", Password: strings.Repeat("x", 73), Name: "A"}, "Password must be at most 72 bytes long"},
		{"unknown role", RegisterInput{Email: "a@b.co", Password: "secret1", Name: "A", Role: "root"}, "Role must be either user or admin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.EqualError(t, err, tc.msg)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t, true)
	in := RegisterInput{Email: "dup@example.com", Password: "secret1", Name: "A"}

	_, err := svc.Register(ctx, in)
	require.NoError(t, err)
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_AdminRole(t *testing.T) {
	ctx := context.Background()

	open, _, _ := newAuthService(t, true)
	res, err := open.Register(ctx, RegisterInput{Email: "boss@example.com", Password: "secret1", Name: "Boss", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	closed, _, _ := newAuthService(t, false)
	_, err = closed.Register(ctx, RegisterInput{Email: "boss@example.com", Password: "secret1", Name: "Boss", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegister_StoreFailure(t *testing.T) {
	svc, users, _ := newAuthService(t, true)
	users.failAll = true
	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.co", Password: "secret1", Name: "A"})
	assert.ErrorIs(t, err, errStore)
	var ce domain.ClientError
	assert.NotErrorAs(t, err, &ce)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t, true)
	reg, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "hunter22", Name: "Bob"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "bob@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, reg.User, res.User)
	assert.NotEmpty(t, res.Token)

	before := testutil.ToFloat64(loginFailuresTotal)
	_, wrongPw := svc.Login(ctx, "bob@example.com", "nope-nope")
	_, unknown := svc.Login(ctx, "ghost@example.com", "hunter22")
	assert.ErrorIs(t, wrongPw, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
	assert.Equal(t, before+2, testutil.ToFloat64(loginFailuresTotal))

	_, err = svc.Login(ctx, "", "x")
	assert.EqualError(t, err, "Email and password are required")
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t, false)

	u, err := svc.EnsureAdmin(ctx, "root@example.com", "rootpass", "Root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = svc.EnsureAdmin(ctx, "root@example.com", "rootpass", "Root")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.EnsureAdmin(ctx, "bad", "rootpass", "Root")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := svc.Login(ctx, "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)
}
