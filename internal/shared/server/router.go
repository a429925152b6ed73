package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumefit/internal/analyses"
	"resumefit/internal/services/health"
	"resumefit/internal/shared/config"
	"resumefit/internal/shared/metrics"
	"resumefit/internal/shared/server/middleware"
	"resumefit/internal/shared/server/respond"
)

const (
	groupRead    = "READ"
	groupAnalyze = "ANALYZE"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	Health          *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
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
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	api.Use(
		middleware.Session(),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)
	registerSessionRoutes(api)
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig limits analysis requests per session at the configured
// rate; reads get five times that. A non-positive rate disables limiting.
func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	rules := map[string]middleware.RateLimitRule{}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		rules[groupAnalyze] = middleware.RateLimitRule{Rate: cfg.RateLimitRPS, Burst: burst}
		rules[groupRead] = middleware.RateLimitRule{Rate: cfg.RateLimitRPS * 5, Burst: burst * 2}
	}
	return middleware.RateLimitConfig{
		Rules:        rules,
		DefaultGroup: groupAnalyze,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet {
				return groupRead
			}
			return groupAnalyze
		},
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
