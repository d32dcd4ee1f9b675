package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"sweet-shop/internal/core/auth"
	"sweet-shop/internal/core/cache"
	"sweet-shop/internal/core/config"
	"sweet-shop/internal/core/database"
	"sweet-shop/internal/core/server"
	"sweet-shop/internal/domain"
	"sweet-shop/internal/transport/http/ez"
	mdw "sweet-shop/internal/transport/http/middleware"
	resp "sweet-shop/internal/transport/http/response"
)

type Deps struct {
	Log     *zap.Logger
	DB      *gorm.DB
	Cache   *cache.Cache // optional
	JWT     *auth.JWTer
	HTTP    config.HTTP
	Version string
	Modules []ez.Module
}

func NewAPIEngine(d Deps) *gin.Engine {
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	r := server.NewRouter("")

	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Recovery(l),
		mdw.Metrics(),
	)
	if d.HTTP.RateLimitRPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(d.HTTP.RateLimitRPS), max(1, d.HTTP.RateLimitBurst)))
	}
	if d.HTTP.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(d.HTTP.PerIPRPS), max(1, d.HTTP.PerIPBurst), 10*time.Minute))
	}
	r.Use(
		mdw.ConcurrencyLimit(d.HTTP.MaxConcurrent),
		mdw.MaxBodyBytes(d.HTTP.MaxBodyBytes),
		mdw.Timeout(time.Duration(d.HTTP.RequestTimeoutSec)*time.Second),
	)

	r.GET("/", index(d.Version))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	})
	r.GET("/health/ready", ready(d.DB, d.Cache))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	user := api.Group("", mdw.Authenticate(d.JWT))
	admin := user.Group("", mdw.RequireRole(domain.RoleAdmin))
	MountAll(ez.Groups{
		Public: ez.New(api, l),
		User:   ez.New(user, l),
		Admin:  ez.New(admin, l),
	}, d.Modules...)

	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "Route not found") })
	return r
}

func index(version string) gin.HandlerFunc {
	if version == "" {
		version = "1.0.0"
	}
	body := gin.H{
		"message": "Sweet Shop Management API",
		"version": version,
		"endpoints": gin.H{
			"health": "GET /health",
			"auth": gin.H{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
			},
			"sweets": gin.H{
				"getAll":   "GET /api/sweets (requires auth)",
				"getById":  "GET /api/sweets/:id (requires auth)",
				"search":   "GET /api/sweets/search?name=&category=&minPrice=&maxPrice= (requires auth)",
				"create":   "POST /api/sweets (requires admin)",
				"update":   "PUT /api/sweets/:id (requires admin)",
				"delete":   "DELETE /api/sweets/:id (requires admin)",
				"purchase": "POST /api/sweets/:id/purchase (requires auth)",
				"restock":  "POST /api/sweets/:id/restock (requires admin)",
			},
		},
	}
	return func(c *gin.Context) { c.JSON(http.StatusOK, body) }
}

// ready reports 503 when the database is unreachable. Redis is informational:
// the catalog falls back to the database without it.
func ready(db *gorm.DB, c *cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		pctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		status := http.StatusOK
		if db == nil {
			checks["database"] = "not configured"
			status = http.StatusServiceUnavailable
		} else if err := database.Ping(pctx, db); err != nil {
			checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}

		switch err := c.Ping(pctx); {
		case err == nil:
			checks["redis"] = "ok"
		case errors.Is(err, cache.ErrDisabled):
			checks["redis"] = "disabled"
		default:
			checks["redis"] = "unreachable"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		ctx.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
