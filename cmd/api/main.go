package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/starbite-api/internal/api/http"
	"github.com/spec-kit/starbite-api/internal/api/http/handlers"
	"github.com/spec-kit/starbite-api/internal/auth"
	"github.com/spec-kit/starbite-api/internal/cache"
	"github.com/spec-kit/starbite-api/internal/config"
	"github.com/spec-kit/starbite-api/internal/events"
	"github.com/spec-kit/starbite-api/internal/observability"
	"github.com/spec-kit/starbite-api/internal/persistence"
	"github.com/spec-kit/starbite-api/internal/ratelimit"
	"github.com/spec-kit/starbite-api/internal/repository"
	"github.com/spec-kit/starbite-api/internal/service"
	"github.com/spec-kit/starbite-api/internal/storage"
	"github.com/spec-kit/starbite-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keys, err := auth.NewSigningKeys(cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret)
	if err != nil {
		logger.Fatal("invalid token secrets", zap.Error(err))
	}
	codec := auth.NewCodec(keys)
	issuer := auth.NewIssuer(codec)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	if err := pg.RequireExtensions(ctx, "postgis"); err != nil {
		logger.Fatal("postgres not ready for geo search", zap.Error(err))
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	var uploader storage.ImageUploader = storage.Disabled{}
	if cfg.Storage.Enabled() {
		cld, err := storage.NewCloudinaryUploader(cfg.Storage, logger)
		if err != nil {
			logger.Fatal("failed to init image storage", zap.Error(err))
		}
		uploader = cld
	} else {
		logger.Warn("cloudinary credentials missing, image uploads disabled")
	}
	limits := storage.Limits{MaxImages: cfg.Storage.MaxImages, MaxImageSize: cfg.Storage.MaxImageSize}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	restaurantRepo := repository.NewRestaurantRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	authService := service.NewAuthService(userRepo, issuer, cfg.Auth.BcryptCost, logger)
	restaurantService := service.NewRestaurantService(restaurantRepo, uploader, limits, dispatcher, logger)
	reviewService := service.NewReviewService(reviewRepo, uploader, limits, dispatcher, logger)
	profileService := service.NewProfileService(userRepo, reviewRepo)
	feedService := service.NewFeedService(
		restaurantRepo,
		reviewRepo,
		cache.NewRedisCache(redis.ClientHandle(), cfg.App.Name),
		cfg.Feed.CacheTTL(),
		metrics,
		logger,
	)
	worker.StartFeedWorker(feedService, dispatcher)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(redis.ClientHandle(), cfg.App.Name+":ratelimit", cfg.RateLimit.AuthRequests, cfg.RateLimit.Window())
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Storage.MaxImageSize)*cfg.Storage.MaxImages + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:        handlers.NewUsersHandler(authService, profileService),
		Auth:         handlers.NewAuthHandler(authService),
		Restaurants:  handlers.NewRestaurantsHandler(restaurantService),
		Reviews:      handlers.NewReviewsHandler(reviewService),
		Home:         handlers.NewHomeHandler(feedService),
		AccessGuard:  auth.NewAccessGuard(codec, metrics),
		RefreshGuard: auth.NewRefreshGuard(codec, metrics),
		Metrics:      metrics,
		Limiter:      limiter,
		Logger:       logger,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
