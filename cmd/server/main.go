package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"charter-ops.backend/internal/config"
	"charter-ops.backend/internal/infrastructure/jobs"
	"charter-ops.backend/internal/infrastructure/repositories"
	"charter-ops.backend/internal/interfaces/http/handlers"
	"charter-ops.backend/internal/interfaces/http/middleware"
	"charter-ops.backend/internal/usecases"
	"charter-ops.backend/pkg/jwt"
	"charter-ops.backend/pkg/logger"
	"charter-ops.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "connected to PostgreSQL")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Repositories
	templateRepo := repositories.NewContractTemplateRepository(db)
	contractRepo := repositories.NewContractRepository(db)

	// Usecases
	generator := usecases.NewIdentifierGenerator()
	templateUsecase := usecases.NewTemplateUsecase(templateRepo, contractRepo)
	contractUsecase := usecases.NewContractUsecase(contractRepo, templateRepo, generator)

	signerCache := redis.NewSignerViewCache(cfg.Redis.SignerViewTTL)

	// Handlers
	templateHandler := handlers.NewTemplateHandler(templateUsecase)
	contractHandler := handlers.NewContractHandler(contractUsecase, signerCache)
	signerHandler := handlers.NewSignerHandler(contractUsecase, signerCache)
	adminHandler := handlers.NewAdminHandler(contractUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)
	adminKeyMiddleware := middleware.AdminKeyMiddleware(cfg.Security.AdminAPIKeyHash)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewContractExpiryJob(contractUsecase, cfg.Jobs.ExpirySweepInterval, cfg.Jobs.ExpirySweepBatch)
	go expiryJob.Start(ctx)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		templateHandler:    templateHandler,
		contractHandler:    contractHandler,
		signerHandler:      signerHandler,
		adminHandler:       adminHandler,
		authMiddleware:     authMiddleware,
		adminKeyMiddleware: adminKeyMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(context.Background(), "shutting down server")
		expiryJob.Stop()
		cancel()
	}()

	logger.Info(context.Background(), "Charter-Ops contract service starting",
		zap.String("port", cfg.Server.Port),
		zap.Duration("expiry_sweep_interval", cfg.Jobs.ExpirySweepInterval),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
