package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/edu-portal-api/api/swagger"
	"github.com/noah-isme/edu-portal-api/internal/handler"
	internalmiddleware "github.com/noah-isme/edu-portal-api/internal/middleware"
	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/repository"
	"github.com/noah-isme/edu-portal-api/internal/seed"
	"github.com/noah-isme/edu-portal-api/internal/service"
	"github.com/noah-isme/edu-portal-api/pkg/cache"
	"github.com/noah-isme/edu-portal-api/pkg/config"
	"github.com/noah-isme/edu-portal-api/pkg/database"
	"github.com/noah-isme/edu-portal-api/pkg/export"
	"github.com/noah-isme/edu-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edu-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edu-portal-api/pkg/middleware/requestid"
)

// @title Edu Portal API
// @version 1.0.0
// @description Course catalog, enrollment and fee payment backend
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	metrics := service.NewMetricsService()

	audit := service.NewAuditService(repository.NewAuditRepository(db), service.AuditConfig{
		Workers:    cfg.Audit.Workers,
		Retries:    cfg.Audit.Retries,
		BufferSize: cfg.Audit.BufferSize,
	}, logr.Named("audit"))
	// Buffered entries are flushed by Stop after the server has shut down.
	audit.Start(context.WithoutCancel(ctx))
	defer audit.Stop()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient), metrics, cfg.Catalog.CacheTTL, logr.Named("cache"), true)
	}

	baseline, err := models.ParseUserRole(cfg.Access.DefaultRole)
	if err != nil {
		return err
	}

	validate := validator.New()
	auth := service.NewAuthService(service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})
	access := service.NewAccessService(repository.NewRoleRepository(db), baseline, audit, metrics, logr.Named("access"))
	courses := service.NewCourseService(repository.NewCourseRepository(db), cacheSvc, validate, logr.Named("catalog"))
	profiles := service.NewProfileService(repository.NewProfileRepository(db), access, audit, logr.Named("profiles"))
	fees := service.NewFeeService(models.FeeStructure{MonthlyFee: cfg.Fees.Monthly, AnnualFee: cfg.Fees.Annual})
	enrollments := service.NewEnrollmentService(repository.NewEnrollmentRepository(db), courses, profiles, access, audit, metrics, logr.Named("enrollments"))
	payments := service.NewPaymentService(repository.NewPaymentRepository(db), fees, access, audit, metrics, logr.Named("payments"))
	statements := service.NewExportService(payments, export.NewCSVExporter(), export.NewPDFExporter(), logr.Named("export"))

	if err := seed.Run(ctx, courses, cfg.Catalog.SeedFile, logr.Named("seed")); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if err := access.Bootstrap(ctx, cfg.Access.BootstrapAdmins); err != nil {
		return fmt.Errorf("bootstrap admins: %w", err)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	ops := handler.NewMetricsHandler(metrics, readinessChecks(db, redisClient))
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Routes{
		Auth:        auth,
		Access:      access,
		Courses:     handler.NewCourseHandler(courses),
		Fees:        handler.NewFeeHandler(fees),
		Roles:       handler.NewRoleHandler(access),
		Profiles:    handler.NewProfileHandler(profiles),
		Enrollments: handler.NewEnrollmentHandler(enrollments),
		Payments:    handler.NewPaymentHandler(payments, statements),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func readinessChecks(db *sqlx.DB, redisClient *redis.Client) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
