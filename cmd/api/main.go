package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vineshkkmr/job-board/config"
	_ "github.com/vineshkkmr/job-board/docs" // Important for Swagger
	v1 "github.com/vineshkkmr/job-board/internal/delivery/http/v1"
	"github.com/vineshkkmr/job-board/internal/repository/postgres"
	"github.com/vineshkkmr/job-board/internal/repository/supabase"
	"github.com/vineshkkmr/job-board/internal/usecase"
	"github.com/vineshkkmr/job-board/pkg/auth"
	"github.com/vineshkkmr/job-board/pkg/database"
	"github.com/vineshkkmr/job-board/pkg/logger"
	"github.com/vineshkkmr/job-board/pkg/redis"
	"github.com/vineshkkmr/job-board/pkg/security"
)

// @title           Job Board API
// @version         1.0
// @description     Job board backend with role-based access control backed by identity provider claims.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	defer logger.Sync()
	audit := security.DefaultLogger()
	logger.Log.Infow("Starting job board backend", "port", cfg.Port)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Errorw("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.RunMigrations {
		if err := database.RunMigrations(ctx, cfg.DBUrl); err != nil {
			logger.Log.Errorw("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// 4. Setup Redis (optional, rate limiting falls back to memory)
	redisConfigured := cfg.UpstashRedisURL != ""
	if redisConfigured {
		if err := redis.Initialize(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warnw("Redis unavailable, using in-memory rate limiting", "error", err)
		}
		defer redis.Close()
	}

	// 5. Setup Identity Provider
	var jwks *auth.Provider
	if jwksURL := cfg.JWKSURL(); jwksURL != "" {
		jwks = auth.NewProvider(jwksURL)
	}
	verifier := auth.NewVerifier(auth.VerifierConfig{
		JWTSecret: cfg.SupabaseJWTSecret,
		JWKS:      jwks,
		Issuer:    cfg.TokenIssuer(),
		Audience:  cfg.JWTAudience,
	})
	identity := supabase.NewIdentityRepository(supabase.Config{
		BaseURL:        cfg.SupabaseUrl,
		ServiceRoleKey: cfg.SupabaseServiceRoleKey,
		Timeout:        cfg.IdentityTimeout,
	}, verifier)

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	adminRepo := postgres.NewAdminRepository(dbPool)

	// 7. Setup UseCases
	authUC := usecase.NewAuthUsecase(identity, userRepo, audit)
	jobUC := usecase.NewJobUsecase(jobRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo)
	adminUC := usecase.NewAdminUsecase(adminRepo)

	checks := map[string]usecase.HealthCheckFunc{
		"database": dbPool.Ping,
	}
	if redisConfigured {
		checks["redis"] = redis.HealthCheck
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		AdminUC:       adminUC,
		HealthUC:      healthUC,
		Audit:         audit,
		Redis:         redis.Client,
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Errorw("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
