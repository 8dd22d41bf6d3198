package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/userservice/internal/auth"
	"github.com/BradenHooton/userservice/internal/cache"
	"github.com/BradenHooton/userservice/internal/config"
	"github.com/BradenHooton/userservice/internal/database"
	"github.com/BradenHooton/userservice/internal/handlers"
	middlewareCustom "github.com/BradenHooton/userservice/internal/middleware"
	"github.com/BradenHooton/userservice/internal/queue"
	"github.com/BradenHooton/userservice/internal/repositories"
	"github.com/BradenHooton/userservice/internal/routes"
	"github.com/BradenHooton/userservice/internal/services"
	"github.com/BradenHooton/userservice/internal/storage"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	pkglogger "github.com/BradenHooton/userservice/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Picture storage
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 10*time.Second)
	blobStore, err := storage.NewS3BlobStore(storageCtx, cfg.Storage, logger)
	storageCancel()
	if err != nil {
		logger.Error("failed to initialize blob store", slog.Any("error", err))
		os.Exit(1)
	}

	var pictureCache services.PictureCache
	if cfg.Cache.Enabled() {
		redisCache := cache.NewPictureCache(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.PictureTTL)
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("picture cache unreachable, continuing without it", slog.Any("error", err))
		} else {
			pictureCache = redisCache
		}
		cancel()
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	blockRepo := repositories.NewBlockRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	availabilityRepo := repositories.NewAvailabilityRepository(db)
	preferencesRepo := repositories.NewPreferencesRepository(db)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Initialize services. Blocks and favorites depend on each other, so the
	// favorite remover is attached after both exist.
	blockService := services.NewBlockService(blockRepo, userRepo, db, auditLogger, logger)
	favoriteService := services.NewFavoriteService(favoriteRepo, userRepo, blockService, auditLogger, logger)
	blockService.SetFavoriteRemover(favoriteService)

	pictureService := services.NewPictureService(userRepo, blobStore, pictureCache, db, auditLogger, logger)
	userService := services.NewUserService(userRepo, pictureService, auditLogger, logger)
	availabilityService := services.NewAvailabilityService(availabilityRepo, userRepo, db, logger)
	preferenceService := services.NewPreferenceService(preferencesRepo, userRepo, db, logger)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	// Initialize handlers
	h := &routes.Handlers{
		Users:        handlers.NewUserHandler(userService),
		Pictures:     handlers.NewPictureHandler(pictureService, cfg.Server.MaxUploadBytes),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Blocks:       handlers.NewBlockHandler(blockService),
		Favorites:    handlers.NewFavoriteHandler(favoriteService),
		Preferences:  handlers.NewPreferenceHandler(preferenceService),
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middlewareCustom.NewHTTPMetrics(registry)

	ipConfig := pkghttp.ParseTrustedProxies(cfg.Server.TrustedProxies)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(cfg.Server.Env))
	router.Use(middlewareCustom.CORS(cfg.Server.AllowedOrigins))
	router.Use(middlewareCustom.RequestLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(httpMetrics.Middleware)
	router.Use(middlewareCustom.RateLimitByIP(cfg.Server.IPRequestsPerMin, ipConfig))
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, h, tokenManager, ipConfig, cfg.Server.GraphRequestsPerMin)

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "down"})
			return
		}
		pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "up"})
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Delete user consumer
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var consumer *queue.DeleteUserConsumer
	if cfg.Queue.Enabled() {
		consumer = queue.NewDeleteUserConsumer(cfg.Queue, userService, logger)
		go consumer.Start(workerCtx)
	} else {
		logger.Info("no KAFKA_BROKERS set, delete user consumer disabled")
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.Error("failed to close kafka reader", slog.Any("error", err))
		}
	}

	logger.Info("server stopped gracefully")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
