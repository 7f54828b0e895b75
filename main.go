// File: clinicsite/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"clinicsite/config"
	"clinicsite/database"
	timetableRepo "clinicsite/database/repository/timetable"
	"clinicsite/handlers"
	"clinicsite/middleware"
	"clinicsite/routes"
	"clinicsite/services/timetable"
	"clinicsite/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Store.
	var repo timetableRepo.TimetableRepository
	var mongoClient *mongo.Client
	switch strings.ToLower(config.AppConfig.StoreBackend) {
	case "memory":
		logger.Warn("main: using in-memory time table store; data is lost on restart")
		repo = timetableRepo.NewInMemoryTimetableRepo()
	default:
		database.InitDB()
		mongoClient = database.MongoClient
		repo = timetableRepo.NewMongoTimetableRepo()
	}

	// Cache.
	utils.InitCache()
	var cache timetable.TimetableCache
	if c := utils.GetCacheClient(); c != nil {
		cache = timetable.NewRedisTimetableCache(c, config.AppConfig.TimetableCacheTTL)
	}

	// Metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := timetable.NewMetrics(registry)

	// Services.
	timetableService, err := timetable.NewDefaultTimetableService(repo, cache, metrics, logger)
	if err != nil {
		logger.Fatal("main: failed to build time table service", zap.Error(err))
	}
	timetableHandler := handlers.NewTimetableHandler(timetableService)

	adminAuth, err := adminVerifier(context.Background())
	if err != nil {
		logger.Fatal("main: failed to set up admin authentication", zap.Error(err))
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		GetTimetableHandler:     timetableHandler.GetTimetableHandler,
		ReplaceTimetableHandler: timetableHandler.ReplaceTimetableHandler,
		AdminAuth:               middleware.AdminAuthMiddleware(adminAuth),
		HealthHandler:           handlers.HealthHandler,
		MetricsHandler:          gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	}
	routes.RegisterRoutes(router, handlerBundle)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, []*redis.Client{utils.GetCacheClient()}, mongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(ctx)
	}
	if c := utils.GetCacheClient(); c != nil {
		_ = c.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// adminVerifier picks the token checker for POST /time-table from
// ADMIN_AUTH_MODE. A nil verifier disables the check.
func adminVerifier(ctx context.Context) (middleware.AdminVerifier, error) {
	switch strings.ToLower(config.AppConfig.AdminAuthMode) {
	case "none":
		utils.GetLogger().Warn("main: admin authentication disabled; POST /time-table is open")
		return nil, nil
	case "firebase":
		v, err := utils.NewFirebaseAdminVerifier(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		if config.AppConfig.JWTSecret == "" {
			return nil, errors.New("JWT_SECRET is required when ADMIN_AUTH_MODE=jwt")
		}
		return utils.NewJWTAdminVerifier(config.AppConfig.JWTSecret), nil
	}
}
