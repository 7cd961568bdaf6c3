package v1

import (
	"net/http"
	"time"

	"github.com/vineshkkmr/job-board/config"
	"github.com/vineshkkmr/job-board/internal/delivery/http/middleware"
	"github.com/vineshkkmr/job-board/internal/delivery/http/response"
	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/internal/usecase"
	"github.com/vineshkkmr/job-board/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	AdminUC       domain.AdminUsecase
	HealthUC      usecase.HealthUsecase
	Audit         *security.SecurityLogger
	Redis         func() *goredis.Client
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	RegisterValidators()

	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURLs())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	if cfg.RateLimitGlobalThreshold > 0 {
		global := middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)
		global.Redis = deps.Redis
		global.Audit = deps.Audit
		r.Use(middleware.RateLimitMiddleware(global))
	}

	verifyLimit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimitVerifyThreshold > 0 {
		strict := middleware.VerifyRateLimitConfig(cfg.RateLimitVerifyThreshold, window)
		strict.Redis = deps.Redis
		strict.Audit = deps.Audit
		verifyLimit = middleware.RateLimitMiddleware(strict)
	}

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status := deps.HealthUC.Check(c.Request.Context())
		if status.Status != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC, deps.Audit))

	NewAuthHandler(v1, protected, deps.AuthUC, deps.Audit, verifyLimit)
	NewJobHandler(v1, protected, deps.JobUC, deps.Audit)
	NewApplicationHandler(protected, deps.ApplicationUC, deps.Audit)
	NewAdminHandler(protected, deps.AdminUC, deps.Audit)

	return r
}
