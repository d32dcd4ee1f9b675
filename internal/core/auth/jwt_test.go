package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTer(t *testing.T) *JWTer {
	t.Helper()
	j, err := NewJWTer(Options{Secret: "test-secret", Issuer: "test", TTL: time.Hour, Env: "test"})
	require.NoError(t, err)
	return j
}

func TestJWTer_RoundTrip(t *testing.T) {
	j := newTestJWTer(t)

	tok, err := j.Issue("user-1", "alice@example.com", "admin")
	require.NoError(t, err)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-1", Email: "alice@example.com", Role: "admin"}, claims.Identity())
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTer_DefaultTTLIs24h(t *testing.T) {
	j, err := NewJWTer(Options{Secret: "s"})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, j.TTL)
	assert.Equal(t, DefaultIssuer, j.Issuer)
}

func TestJWTer_TamperedSignature(t *testing.T) {
	j := newTestJWTer(t)
	tok, err := j.Issue("user-1", "a@b.co", "user")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = j.Parse(tampered)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestJWTer_TamperedPayload(t *testing.T) {
	j := newTestJWTer(t)
	userTok, err := j.Issue("user-1", "a@b.co", "user")
	require.NoError(t, err)
	adminTok, err := j.Issue("user-1", "a@b.co", "admin")
	require.NoError(t, err)

	u := strings.Split(userTok, ".")
	a := strings.Split(adminTok, ".")
	// admin payload with the user token's signature
	forged := u[0] + "." + a[1] + "." + u[2]

	_, err = j.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_Expired(t *testing.T) {
	j := newTestJWTer(t)
	issued := time.Now().Add(-2 * time.Hour)
	j.now = func() time.Time { return issued }
	tok, err := j.Issue("user-1", "a@b.co", "user")
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_JustBeforeExpiry(t *testing.T) {
	j := newTestJWTer(t)
	base := time.Now()
	j.now = func() time.Time { return base }
	tok, err := j.Issue("user-1", "a@b.co", "user")
	require.NoError(t, err)

	j.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, err = j.Parse(tok)
	assert.NoError(t, err)

	j.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_OtherSecret(t *testing.T) {
	j := newTestJWTer(t)
	other, err := NewJWTer(Options{Secret: "another-secret", Issuer: "test"})
	require.NoError(t, err)

	tok, err := other.Issue("user-1", "a@b.co", "admin")
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_WrongIssuer(t *testing.T) {
	j := newTestJWTer(t)
	other, err := NewJWTer(Options{Secret: "test-secret", Issuer: "someone-else"})
	require.NoError(t, err)

	tok, err := other.Issue("user-1", "a@b.co", "user")
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_RejectsNoneAlg(t *testing.T) {
	j := newTestJWTer(t)
	claims := Claims{
		UserID: "user-1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_RequiresExpiry(t *testing.T) {
	j := newTestJWTer(t)
	claims := Claims{
		UserID:           "user-1",
		Role:             "user",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "test"},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_Malformed(t *testing.T) {
	j := newTestJWTer(t)
	for _, s := range []string{"", "abc", "a.b.c", "not-a-token"} {
		_, err := j.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", s)
	}
}

func TestNewJWTer_MissingSecret(t *testing.T) {
	_, err := NewJWTer(Options{Env: "production"})
	assert.ErrorIs(t, err, ErrMissingSecret)

	j, err := NewJWTer(Options{Env: "development"})
	require.NoError(t, err)
	assert.True(t, j.UsingDevSecret)

	j, err = NewJWTer(Options{Secret: "configured", Env: "production"})
	require.NoError(t, err)
	assert.False(t, j.UsingDevSecret)
}
