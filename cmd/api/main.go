package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sangkips/stockroom-api/internal/application/service"
	"github.com/sangkips/stockroom-api/internal/config"
	"github.com/sangkips/stockroom-api/internal/infrastructure/database"
	"github.com/sangkips/stockroom-api/internal/infrastructure/repository"
	"github.com/sangkips/stockroom-api/internal/infrastructure/session"
	"github.com/sangkips/stockroom-api/internal/presentation/http/handler"
	"github.com/sangkips/stockroom-api/internal/presentation/http/middleware"
	"github.com/sangkips/stockroom-api/internal/presentation/http/routes"
	"github.com/sangkips/stockroom-api/pkg/logger"
	"github.com/sangkips/stockroom-api/pkg/utils"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.App.Env, cfg.App.LogLevel)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	sessions, history, locks, rdb := openSessionStores(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	billRepo := repository.NewBillRepository(db)
	materialRepo := repository.NewRawMaterialRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	billingService := service.NewBillingService(sessions, productRepo, customerRepo, billRepo, locks, cfg.Billing)
	billService := service.NewBillService(billRepo)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	productionService := service.NewProductionService(materialRepo, recipeRepo, history)
	dashboardService := service.NewDashboardService(analyticsRepo)

	if err := userService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.Warn().Err(err).Msg("failed to seed admin user")
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit))
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Billing:    handler.NewBillingHandler(billingService),
		Bill:       handler.NewBillHandler(billService),
		Product:    handler.NewProductHandler(productService),
		Customer:   handler.NewCustomerHandler(customerService),
		Production: handler.NewProductionHandler(productionService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		User:       handler.NewUserHandler(userService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		DB:              db,
		Redis:           rdb,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("app", cfg.App.Name).Str("env", cfg.App.Env).Str("port", port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server exited")
}

// openSessionStores picks the billing session, session lock and calculation
// history backends from SESSION_STORE. The redis client is nil for the
// memory backend, which only suits a single instance.
func openSessionStores(ctx context.Context, cfg *config.Config) (session.Store, session.HistoryStore, session.Locker, *redis.Client) {
	switch cfg.Session.Store {
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Info().Msg("billing sessions stored in redis")
		return session.NewRedisStore(rdb, cfg.Session.TTL),
			session.NewRedisHistory(rdb, cfg.Production.HistoryLimit, cfg.Session.TTL),
			session.NewRedisLocker(rdb),
			rdb
	case "memory", "":
	default:
		log.Warn().Str("store", cfg.Session.Store).Msg("unknown SESSION_STORE, using memory")
	}

	store := session.NewMemoryStore(cfg.Session.TTL)
	go sweepSessions(ctx, store)
	return store, session.NewMemoryHistory(cfg.Production.HistoryLimit), session.NewMemoryLocker(), nil
}

// sweepSessions drops expired in-memory sessions until ctx is done.
func sweepSessions(ctx context.Context, store *session.MemoryStore) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("expired billing sessions swept")
			}
		}
	}
}
