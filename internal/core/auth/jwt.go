package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL    = 24 * time.Hour
	DefaultIssuer = "sweet-shop"

	// devSecret is only ever used outside production when no secret is configured.
	devSecret = "sweet-shop-dev-secret-do-not-use-in-production"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrMissingSecret = errors.New("jwt secret must be set in production")
)

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"` // "user" or "admin"
	jwt.RegisteredClaims
}

// Identity is the decoded subject of a verified token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

type Options struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Env    string
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration

	// UsingDevSecret is set when the development fallback secret is in use.
	UsingDevSecret bool

	now func() time.Time
}

// NewJWTer refuses to build a signer without a secret in production.
func NewJWTer(o Options) (*JWTer, error) {
	j := &JWTer{
		Secret: []byte(o.Secret),
		Issuer: o.Issuer,
		TTL:    o.TTL,
		now:    time.Now,
	}
	if o.Secret == "" {
		if o.Env == "production" {
			return nil, ErrMissingSecret
		}
		j.Secret = []byte(devSecret)
		j.UsingDevSecret = true
	}
	if j.Issuer == "" {
		j.Issuer = DefaultIssuer
	}
	if j.TTL <= 0 {
		j.TTL = DefaultTTL
	}
	return j, nil
}

func (j *JWTer) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}
	return j.now()
}

func (j *JWTer) Issue(uid, email, role string) (string, error) {
	now := j.clock()
	claims := Claims{
		UserID: uid,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse checks signature, algorithm, issuer and expiry. Every failure is
// reported as ErrInvalidToken.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UserID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
