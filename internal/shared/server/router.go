package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"verified-ideas/internal/ideas"
	"verified-ideas/internal/services/health"
	"verified-ideas/internal/shared/config"
	"verified-ideas/internal/shared/metrics"
	"verified-ideas/internal/shared/server/middleware"
	"verified-ideas/internal/shared/server/respond"
	"verified-ideas/internal/shared/telemetry"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config       config.Config
	IdeasHandler *ideas.Handler
	Health       *health.Service
	// RateLimiter is shared by rate limited routes. A fresh one is used when nil.
	RateLimiter  *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler(deps.Health))

	if deps.IdeasHandler != nil {
		limiter := deps.RateLimiter
		if limiter == nil {
			limiter = middleware.NewRateLimiter(nil)
		}
		createLimit := middleware.RateLimit(middleware.RateLimitConfig{
			Scope: "ideas.create",
			Rule: middleware.RateLimitRule{
				Rate:  deps.Config.CreateRateLimitRPS,
				Burst: deps.Config.CreateRateLimitBurst,
			},
			Limiter: limiter,
		})
		deps.IdeasHandler.RegisterRoutes(api, createLimit)
	}

	return r
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			respond.JSON(c, http.StatusOK, health.Status{OK: true})
			return
		}
		status, err := svc.Status(c.Request.Context())
		if err != nil {
			telemetry.Error("health.store_unavailable", map[string]any{
				"store":      status.Store,
				"error":      err,
				"request_id": middleware.RequestIDFromContext(c),
			})
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.JSON(c, http.StatusOK, status)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
