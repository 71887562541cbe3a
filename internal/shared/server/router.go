package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/formatting"
	"resume-formatter/internal/runs"
	"resume-formatter/internal/services/health"
	"resume-formatter/internal/shared/config"
	"resume-formatter/internal/shared/metrics"
	"resume-formatter/internal/shared/server/middleware"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/templates"
)

// rateLimitGroupGenerate covers the endpoints that call the model.
const rateLimitGroupGenerate = "GENERATE"

// RouterDeps holds the handlers mounted on the router.
type RouterDeps struct {
	Config            config.Config
	Health            *health.Service
	FormattingHandler *formatting.Handler
	TemplatesHandler  *templates.Handler
	RunsHandler       *runs.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.OK(c, deps.Health.Status(c.Request.Context()))
	})

	if deps.TemplatesHandler != nil {
		deps.TemplatesHandler.RegisterRoutes(api)
	}
	if deps.FormattingHandler != nil {
		limiter := middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateLimitGroupGenerate: middleware.PerMinute(deps.Config.RateLimitPerMinute, deps.Config.RateLimitBurst),
			},
			DefaultGroup: rateLimitGroupGenerate,
		})
		deps.FormattingHandler.RegisterRoutes(api, limiter)
	}
	if deps.RunsHandler != nil {
		deps.RunsHandler.RegisterRoutes(api)
	}

	return r
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
