package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sweet-shop/internal/core/auth"
	"sweet-shop/internal/domain"
	resp "sweet-shop/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUID    = "uid"

	bearerPrefix = "Bearer "
)

// Authenticate verifies the bearer token and stores its claims on the context.
// It never touches the database; the role in the token is trusted until expiry.
func Authenticate(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, bearerPrefix) || len(ah) == len(bearerPrefix) {
			resp.Abort(c, http.StatusUnauthorized, "No token provided")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, bearerPrefix))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUID, claims.UserID)
		c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if claims.Role != role {
			msg := "Forbidden"
			if role == domain.RoleAdmin {
				msg = "Admin access required"
			}
			resp.Abort(c, http.StatusForbidden, msg)
			return
		}
		c.Next()
	}
}

func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}
